// Package config loads orgwatch settings. Project-level config
// (.orgwatch/config.yaml in the working directory) wins over the global
// one (~/.orgwatch/config.yaml); environment variables win over both.
package config

import (
	"os"
	"path/filepath"

	"github.com/vrischmann/envconfig"
	"gopkg.in/yaml.v3"
)

// Config represents the user's configuration.
type Config struct {
	// LogFile is the org file sessions are appended to.
	LogFile string `yaml:"log_file"`
	// MaxSplits bounds the split tree per session.
	MaxSplits int `yaml:"max_splits"`
	// RefreshMS is the elapsed-display refresh interval while running,
	// in milliseconds.
	RefreshMS int `yaml:"refresh_ms"`
	// Debug enables the file-backed debug log.
	Debug bool `yaml:"debug"`
}

type environment struct {
	LogFile string `envconfig:"ORGWATCH_LOG_FILE,optional"`
	Debug   bool   `envconfig:"ORGWATCH_DEBUG,default=false"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Config{
		LogFile:   filepath.Join(home, "org", "done.org"),
		MaxSplits: 50,
		RefreshMS: 50,
	}
}

// globalConfigDir returns the global config directory path (~/.orgwatch)
func globalConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".orgwatch"), nil
}

// globalConfigPath returns the global config file path (~/.orgwatch/config.yaml)
func globalConfigPath() (string, error) {
	dir, err := globalConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// projectConfigPath returns the project-level config path (.orgwatch/config.yaml in cwd)
func projectConfigPath() string {
	return filepath.Join(".orgwatch", "config.yaml")
}

// DebugLogPath returns where the debug log goes when Debug is set.
func DebugLogPath() string {
	dir, err := globalConfigDir()
	if err != nil {
		return "orgwatch-debug.log"
	}
	return filepath.Join(dir, "debug.log")
}

// Load reads the config from disk, checking project config first, then
// global, falling back to defaults, and finally applies environment
// overrides. Missing files are not an error.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(projectConfigPath())
	if err != nil {
		globalPath, perr := globalConfigPath()
		if perr != nil {
			return nil, perr
		}
		data, err = os.ReadFile(globalPath)
	}
	if err == nil {
		if uerr := yaml.Unmarshal(data, cfg); uerr != nil {
			return nil, uerr
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	fillDefaults(cfg)
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads a specific config file, with env overrides applied.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	fillDefaults(cfg)
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to the global location (~/.orgwatch/config.yaml)
func Save(cfg *Config) error {
	dir, err := globalConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	path, err := globalConfigPath()
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// fillDefaults patches zero values a partial config file left unset.
func fillDefaults(cfg *Config) {
	def := DefaultConfig()
	if cfg.LogFile == "" {
		cfg.LogFile = def.LogFile
	}
	if cfg.MaxSplits <= 0 {
		cfg.MaxSplits = def.MaxSplits
	}
	if cfg.RefreshMS <= 0 {
		cfg.RefreshMS = def.RefreshMS
	}
}

func applyEnv(cfg *Config) error {
	var env environment
	if err := envconfig.Init(&env); err != nil {
		return err
	}
	if env.LogFile != "" {
		cfg.LogFile = env.LogFile
	}
	if env.Debug {
		cfg.Debug = true
	}
	return nil
}
