package entrypoint

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/gin-gonic/gin"
)

// SetupLogging sends the standard logger to stderr and, when path is set,
// appends a copy to that file. The returned closer releases the file.
func SetupLogging(path string, verbose bool) (io.Closer, error) {
	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	log.SetFlags(log.LstdFlags)
	if path == "" {
		log.SetOutput(os.Stderr)
		return io.NopCloser(nil), nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	log.SetOutput(io.MultiWriter(os.Stderr, f))
	return f, nil
}
