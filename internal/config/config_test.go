package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("CLAUDE_PROJECT_DIR", "/work/project")

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".claude", "CodeCognition"), cfg.Store.Root)
	assert.Equal(t, BackendFile, cfg.Store.Backend)
	assert.Equal(t, "json", cfg.Store.Format)
	assert.True(t, cfg.Audit.Enabled)
	assert.False(t, cfg.Audit.LogTrivial)
	assert.Empty(t, cfg.RulesPath)
	assert.Equal(t, "/work/project", cfg.ProjectDir)
	assert.Equal(t, zapcore.WarnLevel, cfg.LogLevel)
	assert.Empty(t, cfg.ConfigFile)
}

func TestLoadReadsConfigFileFromFrameworkRoot(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	root := filepath.Join(home, ".claude", "CodeCognition")
	require.NoError(t, os.MkdirAll(root, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(root, "config.toml"), []byte(`
[store]
backend = "sqlite"
format = "toml"

[audit]
log_trivial = true

[rules]
path = "~/rules.yaml"
`), 0o600))

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, "toml", cfg.Store.Format)
	assert.True(t, cfg.Audit.LogTrivial)
	assert.Equal(t, filepath.Join(home, "rules.yaml"), cfg.RulesPath)
	assert.Equal(t, filepath.Join(root, "config.toml"), cfg.ConfigFile)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("COG_STORE_ROOT", filepath.Join(home, "alt"))
	t.Setenv("COG_AUDIT_ENABLED", "false")
	t.Setenv("COG_LOG_LEVEL", "debug")

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "alt"), cfg.Store.Root)
	assert.False(t, cfg.Audit.Enabled)
	assert.Equal(t, zapcore.DebugLevel, cfg.LogLevel)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{name: "backend", key: KeyStoreBackend, value: "etcd", wantErr: `unsupported store backend "etcd"`},
		{name: "format", key: KeyStoreFormat, value: "xml", wantErr: `unsupported store format "xml"`},
		{name: "log level", key: KeyLogLevel, value: "chatty", wantErr: "parse log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HOME", t.TempDir())

			v := viper.New()
			v.Set(tt.key, tt.value)

			_, err := Load(v)
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoadReportsMalformedConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(home, "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("[store\nbackend ="), 0o600))

	v := viper.New()
	v.Set(KeyConfigFile, path)

	_, err := Load(v)
	require.Error(t, err)
	assert.ErrorContains(t, err, "read config file")
}
