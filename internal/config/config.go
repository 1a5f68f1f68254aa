// Package config resolves cog settings from defaults, config.toml in the
// framework root, and COG_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

const (
	configName = "config"
	configType = "toml"
	envPrefix  = "COG"

	frameworkDir  = ".claude"
	frameworkName = "CodeCognition"
	projectDirEnv = "CLAUDE_PROJECT_DIR"

	KeyConfigFile      = "config"
	KeyStoreRoot       = "store.root"
	KeyStoreBackend    = "store.backend"
	KeyStoreFormat     = "store.format"
	KeyAuditEnabled    = "audit.enabled"
	KeyAuditLogTrivial = "audit.log_trivial"
	KeyRulesPath       = "rules.path"
	KeyProjectDir      = "project.dir"
	KeyLogLevel        = "log.level"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

type Config struct {
	Store      StoreConfig
	Audit      AuditConfig
	RulesPath  string
	ProjectDir string
	LogLevel   zapcore.Level
	// ConfigFile is the file that was read, empty when none was found.
	ConfigFile string
}

type StoreConfig struct {
	Root    string
	Backend string
	Format  string
}

type AuditConfig struct {
	Enabled    bool
	LogTrivial bool
}

// DefaultRoot is ~/.claude/CodeCognition.
func DefaultRoot() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}

	return filepath.Join(homeDir, frameworkDir, frameworkName), nil
}

func Load(v *viper.Viper) (Config, error) {
	if v == nil {
		v = viper.New()
	}

	defaultRoot, err := DefaultRoot()
	if err != nil {
		return Config{}, err
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyStoreRoot, defaultRoot)
	v.SetDefault(KeyStoreBackend, BackendFile)
	v.SetDefault(KeyStoreFormat, "json")
	v.SetDefault(KeyAuditEnabled, true)
	v.SetDefault(KeyAuditLogTrivial, false)
	v.SetDefault(KeyRulesPath, "")
	v.SetDefault(KeyProjectDir, defaultProjectDir())
	v.SetDefault(KeyLogLevel, "warn")

	if file := v.GetString(KeyConfigFile); file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		v.AddConfigPath(expandHome(v.GetString(KeyStoreRoot)))
	}

	if err := v.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := Config{
		Store: StoreConfig{
			Root:    expandHome(strings.TrimSpace(v.GetString(KeyStoreRoot))),
			Backend: strings.ToLower(strings.TrimSpace(v.GetString(KeyStoreBackend))),
			Format:  strings.ToLower(strings.TrimSpace(v.GetString(KeyStoreFormat))),
		},
		Audit: AuditConfig{
			Enabled:    v.GetBool(KeyAuditEnabled),
			LogTrivial: v.GetBool(KeyAuditLogTrivial),
		},
		RulesPath:  expandHome(strings.TrimSpace(v.GetString(KeyRulesPath))),
		ProjectDir: expandHome(strings.TrimSpace(v.GetString(KeyProjectDir))),
		ConfigFile: v.ConfigFileUsed(),
	}

	if cfg.Store.Root == "" {
		return Config{}, errors.New("store root is empty")
	}

	switch cfg.Store.Backend {
	case BackendFile, BackendSQLite, BackendMemory:
	default:
		return Config{}, fmt.Errorf("unsupported store backend %q", cfg.Store.Backend)
	}

	switch cfg.Store.Format {
	case "json", "toml":
	default:
		return Config{}, fmt.Errorf("unsupported store format %q", cfg.Store.Format)
	}

	level, err := zapcore.ParseLevel(v.GetString(KeyLogLevel))
	if err != nil {
		return Config{}, fmt.Errorf("parse log level: %w", err)
	}
	cfg.LogLevel = level

	return cfg, nil
}

func defaultProjectDir() string {
	if dir := os.Getenv(projectDirEnv); dir != "" {
		return dir
	}

	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return cwd
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(homeDir, strings.TrimPrefix(path, "~"))
}
