package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New returns a text logger writing to stderr at the given level
// ("debug", "info", "warn", "error").
func New(level string) (*logrus.Logger, error) {
	return NewWithWriter(level, os.Stderr)
}

// NewWithWriter is New with a custom output, used by tests and the CLI
func NewWithWriter(level string, w io.Writer) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	lg := logrus.New()
	lg.SetOutput(w)
	lg.SetLevel(lvl)
	lg.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return lg, nil
}

// Discard returns a logger that drops everything
func Discard() *logrus.Logger {
	lg := logrus.New()
	lg.SetOutput(io.Discard)
	return lg
}
