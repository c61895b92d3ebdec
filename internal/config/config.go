package config

import (
	"errors"
	"log"
	"os"
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Notes
		Markers
		Model
		Prompt
		Retrieval
		Knowledge
		Audit
		Global
		Database
		Tasks
		Logging
	}

	HTTP struct {
		Enabled bool
		Port    int32
		Host    string
	}
	Notes struct {
		Dir                string
		Extension          string
		PollInterval       time.Duration
		SkipHiddenDirs     bool
		StrictPlaceholders bool
	}
	Markers struct {
		Start string
		End   string
	}
	Model struct {
		APIKey      string
		Name        string
		Temperature float64
		Timeout     time.Duration
		BaseURL     string
	}
	Prompt struct {
		File     string // YAML prompt profile, empty for the built-in prompt
		Sentinel string // Overrides the profile's skip sentinel when set
	}
	Retrieval struct {
		Enabled  bool
		TopK     int
		MinScore float64
	}
	Knowledge struct {
		Dir             string
		ChunkSize       int
		ChunkOverlap    int
		IndexSavedNotes bool
		IndexOnStart    bool
	}
	Audit struct {
		Dir                  string // Transcript directory, empty disables transcripts
		HistoryRetentionDays int
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Logging struct {
		File    string
		Verbose bool
	}
)

// NewConfig reads configuration from the environment, falling back to an
// optional dotenv file named by ENV_FILE.
func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("env_file", DefaultEnvFile)
	readEnvFile(v, v.GetString("ENV_FILE"))

	v.SetDefault("http_enabled", true)
	v.SetDefault("port", 8190)
	v.SetDefault("host", "127.0.0.1")
	v.SetDefault("shutdown_timeout_in_seconds", 5)

	v.SetDefault("notes_dir", "./test_notes")
	v.SetDefault("note_extension", ".md")
	v.SetDefault("poll_interval", "2s")
	v.SetDefault("skip_hidden_dirs", true)
	v.SetDefault("strict_placeholders", false)
	v.SetDefault("marker_start", "<ai>")
	v.SetDefault("marker_end", "</ai>")

	v.SetDefault("google_api_key", "")
	v.SetDefault("model_name", "gemini-3-flash-preview")
	v.SetDefault("model_temperature", 0.1)
	v.SetDefault("model_timeout", "60s")
	v.SetDefault("model_base_url", "https://generativelanguage.googleapis.com/")
	v.SetDefault("prompt_file", "")
	v.SetDefault("skip_sentinel", "")

	v.SetDefault("retrieval_enabled", true)
	v.SetDefault("retrieval_top_k", 2)
	v.SetDefault("retrieval_min_score", 0.25)
	v.SetDefault("knowledge_dir", "./attachments")
	v.SetDefault("chunk_size", 800)
	v.SetDefault("chunk_overlap", 100)
	v.SetDefault("index_saved_notes", true)
	v.SetDefault("index_on_start", true)

	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("audit_dir", "")
	v.SetDefault("history_retention_days", 30)

	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	v.SetDefault("log_file", DefaultLogFile)
	v.SetDefault("log_verbose", false)

	return &Config{
		HTTP: HTTP{
			Enabled: v.GetBool("HTTP_ENABLED"),
			Port:    v.GetInt32("PORT"),
			Host:    v.GetString("HOST"),
		},
		Notes: Notes{
			Dir:                v.GetString("NOTES_DIR"),
			Extension:          v.GetString("NOTE_EXTENSION"),
			PollInterval:       v.GetDuration("POLL_INTERVAL"),
			SkipHiddenDirs:     v.GetBool("SKIP_HIDDEN_DIRS"),
			StrictPlaceholders: v.GetBool("STRICT_PLACEHOLDERS"),
		},
		Markers: Markers{
			Start: v.GetString("MARKER_START"),
			End:   v.GetString("MARKER_END"),
		},
		Model: Model{
			APIKey:      v.GetString("GOOGLE_API_KEY"),
			Name:        v.GetString("MODEL_NAME"),
			Temperature: v.GetFloat64("MODEL_TEMPERATURE"),
			Timeout:     v.GetDuration("MODEL_TIMEOUT"),
			BaseURL:     v.GetString("MODEL_BASE_URL"),
		},
		Prompt: Prompt{
			File:     v.GetString("PROMPT_FILE"),
			Sentinel: v.GetString("SKIP_SENTINEL"),
		},
		Retrieval: Retrieval{
			Enabled:  v.GetBool("RETRIEVAL_ENABLED"),
			TopK:     v.GetInt("RETRIEVAL_TOP_K"),
			MinScore: v.GetFloat64("RETRIEVAL_MIN_SCORE"),
		},
		Knowledge: Knowledge{
			Dir:             v.GetString("KNOWLEDGE_DIR"),
			ChunkSize:       v.GetInt("CHUNK_SIZE"),
			ChunkOverlap:    v.GetInt("CHUNK_OVERLAP"),
			IndexSavedNotes: v.GetBool("INDEX_SAVED_NOTES"),
			IndexOnStart:    v.GetBool("INDEX_ON_START"),
		},
		Audit: Audit{
			Dir:                  v.GetString("AUDIT_DIR"),
			HistoryRetentionDays: v.GetInt("HISTORY_RETENTION_DAYS"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Logging: Logging{
			File:    v.GetString("LOG_FILE"),
			Verbose: v.GetBool("LOG_VERBOSE"),
		},
	}
}

// readEnvFile merges a dotenv file into v. A missing file is not an error;
// real environment variables still win over its values. An unreadable or
// malformed file is logged and skipped.
func readEnvFile(v *viper.Viper, path string) {
	if path == "" {
		return
	}
	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("WARNING: cannot read env file %s: %v. Using environment and defaults only.", path, err)
		}
		return
	}
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		log.Printf("WARNING: failed to parse env file %s: %v. Using environment and defaults only.", path, err)
	}
}
