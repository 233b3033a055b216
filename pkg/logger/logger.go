package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Setup builds a text logger at the given level. logFile is "stderr", "stdout" or a path that is
// opened in append mode. The returned close func releases the file, if any.
func Setup(logLevel string, logFile string) (*slog.Logger, func() error, error) {
	var logWriter io.Writer = os.Stderr
	closeFn := func() error { return nil }
	handlerOptions := &slog.HandlerOptions{Level: getLogLevel(logLevel)}

	switch strings.ToLower(strings.TrimSpace(logFile)) {
	case "", "stderr":
	case "stdout":
		logWriter = os.Stdout
	default:
		file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600) // #nosec G304 -- path provided via config.
		if err != nil {
			return nil, closeFn, err
		}
		logWriter = file
		closeFn = file.Close
	}

	logger := slog.New(slog.NewTextHandler(logWriter, handlerOptions))
	slog.SetDefault(logger)
	return logger, closeFn, nil
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func getLogLevel(logLevel string) slog.Level {
	var level slog.Level
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	return level
}
