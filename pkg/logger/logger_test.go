package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/dmehra2102/prod-golang-projects/healthtrack/config"
)

var testApp = config.AppConfig{Name: "healthtrack", Version: "1.2.3", Environment: "test"}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.LogConfig
		level   zapcore.Level
		wantErr string
	}{
		{name: "json info", cfg: config.LogConfig{Level: "info", Format: "json", OutputPath: "stdout"}, level: zapcore.InfoLevel},
		{name: "console debug", cfg: config.LogConfig{Level: "debug", Format: "console", OutputPath: "stderr"}, level: zapcore.DebugLevel},
		{name: "bad level", cfg: config.LogConfig{Level: "loud", Format: "json", OutputPath: "stdout"}, wantErr: "invalid log level"},
		{name: "bad format", cfg: config.LogConfig{Level: "info", Format: "xml", OutputPath: "stdout"}, wantErr: "invalid log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.cfg, testApp)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, log.Core().Enabled(tt.level))
			assert.False(t, log.Core().Enabled(tt.level-1))
		})
	}
}

func TestNew_ServiceFieldsOnEveryEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	log, err := New(config.LogConfig{Level: "info", Format: "json", OutputPath: path}, testApp)
	require.NoError(t, err)

	log.Info("patient record created")
	require.NoError(t, log.Sync())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(raw, &entry))
	assert.Equal(t, "healthtrack", entry["service"])
	assert.Equal(t, "1.2.3", entry["version"])
	assert.Equal(t, "test", entry["environment"])
	assert.Contains(t, entry, "ts")
}

func TestOutputPaths(t *testing.T) {
	assert.Equal(t, []string{"stdout"}, outputPaths(""))
	assert.Equal(t, []string{"stdout", "/tmp/a.log"}, outputPaths("stdout, /tmp/a.log,"))
}
