package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// newLogger returns a text logger at level, writing to a rotated file, or
// to stderr when file is empty. The closer releases the file.
func newLogger(level, file string) (*slog.Logger, io.Closer, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q, want debug, info, warn or error", level)
	}

	var output io.WriteCloser = nopCloser{os.Stderr}
	if file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
			return nil, nil, err
		}
		output = &lumberjack.Logger{
			Filename:   file,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     30, // days
			Compress:   true,
		}
	}
	handler := slog.NewTextHandler(output, &slog.HandlerOptions{Level: l})
	return slog.New(handler), output, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// SetupLogging installs the default logger described by the configuration.
func SetupLogging() (io.Closer, error) {
	logger, closer, err := newLogger(config.LogLevel, config.LogFile)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return closer, nil
}
