// Package config manages YAML-based configuration and CLI flag overrides.
package config

import (
	"os"
	"path/filepath"

	"github.com/CageChen/webshell/internal/source"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Tree selects where the node tree comes from
type Tree struct {
	File        string   `yaml:"file,omitempty"`
	Path        string   `yaml:"path,omitempty"`
	GitRef      string   `yaml:"git_ref,omitempty"`
	Exclude     []string `yaml:"exclude,omitempty"`
	MaxFileSize int64    `yaml:"max_file_size,omitempty"`
}

// Config holds all configuration options for webshell
type Config struct {
	Port     int    `yaml:"port"`
	Open     bool   `yaml:"open"`
	Watch    bool   `yaml:"watch"`
	LogLevel string `yaml:"log_level"`
	Prompt   string `yaml:"prompt"`
	Tree     Tree   `yaml:"tree"`

	// SessionStore is a YAML file persisting terminal cursors; empty keeps
	// them in memory.
	SessionStore string `yaml:"session_store,omitempty"`
	Metrics      bool   `yaml:"metrics"`

	// Internal: path to config file for saving
	configPath string
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Port:     8080,
		Watch:    true,
		LogLevel: "info",
		Prompt:   "guest@webshell",
		Tree: Tree{
			Exclude:     []string{".git", "node_modules", ".svn"},
			MaxFileSize: source.DefaultMaxFileSize,
		},
		Metrics: true,
	}
}

// DefaultConfigAt returns the defaults bound to path, or to GetConfigPath
// when path is empty, for a later Save.
func DefaultConfigAt(path string) *Config {
	cfg := DefaultConfig()
	cfg.configPath = path
	if path == "" {
		cfg.configPath = GetConfigPath()
	}
	return cfg
}

// GetConfigDir returns the config directory path
func GetConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/webshell"
	}
	return filepath.Join(home, ".config", "webshell")
}

// GetConfigPath returns the full path to the config file
func GetConfigPath() string {
	return filepath.Join(GetConfigDir(), "config.yaml")
}

// Load reads the configuration file. An explicit path must exist; otherwise
// ~/.config/webshell/config.yaml and then ./webshell.yaml are tried, and the
// defaults are used when neither is present.
func Load(explicit string) (*Config, error) {
	cfg := DefaultConfig()

	cfgPath := explicit
	if cfgPath == "" {
		for _, candidate := range []string{GetConfigPath(), "webshell.yaml"} {
			if _, err := os.Stat(candidate); err == nil {
				cfgPath = candidate
				break
			}
		}
	}

	if cfgPath == "" {
		cfg.configPath = GetConfigPath()
		return cfg, nil
	}

	if err := cfg.loadFromFile(cfgPath); err != nil {
		if explicit != "" {
			return nil, err
		}
		// A broken implicit config falls back to defaults
		cfg = DefaultConfig()
	}
	cfg.configPath = cfgPath
	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "reading config %s", path)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return errors.Wrapf(err, "parsing config %s", path)
	}
	return nil
}

// Flags registers the command line overrides on fs.
func Flags(fs *pflag.FlagSet) {
	d := DefaultConfig()
	fs.IntP("port", "p", d.Port, "HTTP server port")
	fs.Bool("open", d.Open, "Open browser on startup")
	fs.Bool("watch", d.Watch, "Reload the tree when its source changes")
	fs.String("prompt", d.Prompt, "Prompt shown before the current path")
	fs.StringP("file", "f", "", "Tree definition file (.yaml, .yml or .hcl)")
	fs.String("path", "", "Serve a local directory as the tree")
	fs.String("git-ref", "", "Serve the tree at this ref of the repository given by --path")
	fs.StringSlice("exclude", d.Tree.Exclude, "Base name patterns left out of directory trees")
	fs.String("session-store", "", "YAML file persisting terminal sessions")
	fs.Bool("metrics", d.Metrics, "Expose Prometheus metrics at /metrics")
}

// ApplyFlags overrides the loaded values with flags explicitly set on fs.
func (c *Config) ApplyFlags(fs *pflag.FlagSet) error {
	var err error
	set := func(name string, apply func() error) {
		if err == nil && fs.Changed(name) {
			err = apply()
		}
	}

	set("port", func() (e error) { c.Port, e = fs.GetInt("port"); return })
	set("open", func() (e error) { c.Open, e = fs.GetBool("open"); return })
	set("watch", func() (e error) { c.Watch, e = fs.GetBool("watch"); return })
	set("prompt", func() (e error) { c.Prompt, e = fs.GetString("prompt"); return })
	set("file", func() (e error) { c.Tree.File, e = fs.GetString("file"); return })
	set("path", func() (e error) { c.Tree.Path, e = fs.GetString("path"); return })
	set("git-ref", func() (e error) { c.Tree.GitRef, e = fs.GetString("git-ref"); return })
	set("exclude", func() (e error) { c.Tree.Exclude, e = fs.GetStringSlice("exclude"); return })
	set("session-store", func() (e error) { c.SessionStore, e = fs.GetString("session-store"); return })
	set("metrics", func() (e error) { c.Metrics, e = fs.GetBool("metrics"); return })

	// A directory on the command line replaces a definition file from the config
	if fs.Changed("path") && !fs.Changed("file") {
		c.Tree.File = ""
	}
	return err
}

// SourceOptions converts the tree settings for source.New.
func (c *Config) SourceOptions() source.Options {
	return source.Options{
		File:        c.Tree.File,
		Path:        c.Tree.Path,
		GitRef:      c.Tree.GitRef,
		Exclude:     c.Tree.Exclude,
		MaxFileSize: c.Tree.MaxFileSize,
	}
}

// Save saves the current configuration to the config file
func (c *Config) Save() error {
	// Ensure config directory exists
	configDir := filepath.Dir(c.configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return errors.Wrapf(err, "creating %s", configDir)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(c.configPath, data, 0644)
}

// GetConfigFilePath returns the path to the config file
func (c *Config) GetConfigFilePath() string {
	return c.configPath
}
