package config

const (
	// DefaultDatabasePath is the default path for the knowledge and history database.
	DefaultDatabasePath = "./lecture-agent.db"

	// DefaultEnvFile is read, when present, before environment variables.
	DefaultEnvFile = ".env"

	// DefaultLogFile receives a copy of everything logged to the console.
	DefaultLogFile = "agent_runtime.log"
)
