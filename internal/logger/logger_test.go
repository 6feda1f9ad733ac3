package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_Defaults(t *testing.T) {
	log, err := New(Options{})
	require.NoError(t, err)
	assert.NotNil(t, log)
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(Options{Level: "chatty"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestNew_InvalidFormat(t *testing.T) {
	_, err := New(Options{Format: "xml"})
	require.Error(t, err)
}

func TestNew_WritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ingest.log")

	log, err := New(Options{Level: "debug", File: path})
	require.NoError(t, err)

	log.Named("writer").Info("record written")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	line := strings.TrimSpace(string(data))
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "record written", entry["message"])
	assert.Equal(t, "writer", entry["logger"])
	assert.NotEmpty(t, entry["timestamp"])
}

func TestNew_QuietWithoutFile(t *testing.T) {
	log, err := New(Options{Quiet: true})
	require.NoError(t, err)

	assert.False(t, log.Core().Enabled(zap.ErrorLevel))
}
