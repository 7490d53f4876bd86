package logging

import (
	"log"
	"os"
)

// New creates a standard library logger with a consistent prefix and
// flags. Components take the minimal Printf interface so tests can swap
// in a silent logger.
func New(service string) *log.Logger {
	prefix := "[" + service + "] "
	return log.New(os.Stdout, prefix, log.LstdFlags|log.Lmicroseconds|log.LUTC)
}
