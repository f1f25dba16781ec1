package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults without file or env",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, int64(DefaultMaxUploadBytes), cfg.Server.MaxUploadBytes)
				assert.Equal(t, -5.0, cfg.Chart.XMin)
				assert.Equal(t, 5.0, cfg.Chart.XMax)
				assert.Equal(t, "red", cfg.Chart.NegativeColor)
				assert.Equal(t, "all", cfg.Chart.EmptyTags)
				assert.Equal(t, "none", cfg.Telemetry.TraceExporter)
			},
		},
		{
			name: "file overrides defaults and keeps unset keys",
			file: "server:\n  port: 9000\nchart:\n  empty_tags: none\n  preview_rows: 10\n",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9000, cfg.Server.Port)
				assert.Equal(t, "none", cfg.Chart.EmptyTags)
				assert.Equal(t, 10, cfg.Chart.PreviewRows)
				assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
				assert.Equal(t, "blue", cfg.Chart.PositiveColor)
			},
		},
		{
			name: "env overrides file",
			file: "server:\n  port: 9000\n",
			env: map[string]string{
				"DISPO_SERVER_PORT":              "9100",
				"DISPO_CHART_Y_METRIC":           "TwFollowers",
				"DISPO_SECURITY_ALLOWED_ORIGINS": "http://a.test,http://b.test",
				"DISPO_SERVER_READ_TIMEOUT":      "5s",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9100, cfg.Server.Port)
				assert.Equal(t, "TwFollowers", cfg.Chart.YMetric)
				assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Security.AllowedOrigins)
				assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
			},
		},
		{
			name:    "inverted x domain",
			env:     map[string]string{"DISPO_CHART_X_MIN": "5", "DISPO_CHART_X_MAX": "-5"},
			wantErr: true,
		},
		{
			name:    "unknown y metric",
			file:    "chart:\n  y_metric: likes\n",
			wantErr: true,
		},
		{
			name:    "unknown empty tag policy",
			env:     map[string]string{"DISPO_CHART_EMPTY_TAGS": "some"},
			wantErr: true,
		},
		{
			name:    "bad port",
			env:     map[string]string{"DISPO_SERVER_PORT": "70000"},
			wantErr: true,
		},
		{
			name:    "unparseable env value",
			env:     map[string]string{"DISPO_SERVER_PORT": "eighty"},
			wantErr: true,
		},
		{
			name:    "malformed yaml",
			file:    "server: [",
			wantErr: true,
		},
		{
			name:    "unsupported trace exporter",
			file:    "telemetry:\n  trace_exporter: jaeger\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeConfigFile(t, tt.file)
			}

			cfg, err := LoadFile(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadUsesConfigFileEnv(t *testing.T) {
	path := writeConfigFile(t, "chart:\n  tag_mode: exact\n")
	t.Setenv("DISPO_CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "exact", cfg.Chart.TagMode)
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().validate())
}

func TestServerAddr(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 8081}
	assert.Equal(t, "127.0.0.1:8081", s.Addr())
}
