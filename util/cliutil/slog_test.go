package cliutil

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetupSlog(t *testing.T) {
	assert := assert.New(t)
	defer slog.SetDefault(slog.Default())

	var buf bytes.Buffer
	logger, err := SetupSlog(LogOptions{LogLevel: "warn", LogFormat: "json", Out: &buf})
	assert.NoError(err)
	logger.Info("dropped")
	logger.Warn("kept", "guild", "guild1")
	assert.NotContains(buf.String(), "dropped")
	assert.Contains(buf.String(), `"msg":"kept"`)
	assert.Contains(buf.String(), `"guild":"guild1"`)

	_, err = SetupSlog(LogOptions{LogLevel: "loud", Out: &buf})
	assert.Error(err)
	_, err = SetupSlog(LogOptions{LogLevel: "info", LogFormat: "xml", Out: &buf})
	assert.Error(err)
}

func TestSetupSlogEnv(t *testing.T) {
	assert := assert.New(t)
	defer slog.SetDefault(slog.Default())

	t.Setenv("GOLEM_LOG_LEVEL", "debug")
	t.Setenv("GOLEM_LOG_FMT", "text")
	var buf bytes.Buffer
	logger, err := SetupSlog(LogOptions{Out: &buf})
	assert.NoError(err)
	logger.Debug("visible")
	assert.Contains(buf.String(), "msg=visible")
}
