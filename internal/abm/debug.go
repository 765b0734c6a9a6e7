package abm

import (
	"io"
	"log"
	"os"
)

// A single logger keeps lines from concurrent workers whole.
var logger = log.New(os.Stderr, "", 0)

// SetLogOutput redirects debug and progress output (stderr by default).
func SetLogOutput(w io.Writer) {
	logger.SetOutput(w)
}

func DebugLog(format string, args ...interface{}) {
	if !Debug {
		return
	}
	logger.Printf("[DEBUG] "+format, args...)
}

// Progress is always printed.
func Progress(format string, args ...interface{}) {
	logger.Printf(format, args...)
}
