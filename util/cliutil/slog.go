package cliutil

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

type LogOptions struct {
	// info, debug, warn, error
	LogLevel string

	// text or json
	LogFormat string

	// destination; defaults to stdout
	Out io.Writer
}

func firstenv(env_var_names ...string) string {
	for _, env_var_name := range env_var_names {
		val := os.Getenv(env_var_name)
		if val != "" {
			return val
		}
	}
	return ""
}

// SetupSlog integrates passed in options and env vars, and installs the result as the default logger.
//
// passing default cliutil.LogOptions{} is ok.
//
// GOLEM_LOG_LEVEL=info|debug|warn|error
//
// GOLEM_LOG_FMT=text|json
func SetupSlog(options LogOptions) (*slog.Logger, error) {
	var hopts slog.HandlerOptions
	hopts.Level = slog.LevelInfo
	if options.LogLevel == "" {
		options.LogLevel = firstenv("GOLEM_LOG_LEVEL", "LOG_LEVEL")
	}
	if options.LogLevel != "" {
		switch strings.ToLower(options.LogLevel) {
		case "debug":
			hopts.Level = slog.LevelDebug
		case "info":
			hopts.Level = slog.LevelInfo
		case "warn":
			hopts.Level = slog.LevelWarn
		case "error":
			hopts.Level = slog.LevelError
		default:
			return nil, fmt.Errorf("unknown log level: %#v", options.LogLevel)
		}
	}
	if options.LogFormat == "" {
		options.LogFormat = firstenv("GOLEM_LOG_FMT", "LOG_FMT")
	}
	if options.LogFormat == "" {
		options.LogFormat = "text"
	}
	out := options.Out
	if out == nil {
		out = os.Stdout
	}

	var handler slog.Handler
	switch strings.ToLower(options.LogFormat) {
	case "text":
		handler = slog.NewTextHandler(out, &hopts)
	case "json":
		handler = slog.NewJSONHandler(out, &hopts)
	default:
		return nil, fmt.Errorf("invalid log format: %#v", options.LogFormat)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, nil
}
