package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/drone/envsubst"
	"github.com/mandelsoft/vfs/pkg/osfs"
	"github.com/mandelsoft/vfs/pkg/vfs"
	"gopkg.in/yaml.v3"
)

// FileName is the name of the configuration file searched for
const FileName = "nativegen.yaml"

// ErrNotFound is returned when no configuration file exists in a directory or its parents
var ErrNotFound = errors.New("no " + FileName + " found")

// Config represents the nativegen.yaml configuration file
type Config struct {
	Schema        string       `yaml:"schema"`
	Module        string       `yaml:"module"`
	GenericPrefix string       `yaml:"generic_prefix"`
	Output        OutputConfig `yaml:"output"`
	Watch         WatchConfig  `yaml:"watch"`
}

// OutputConfig controls where and how the model is rendered
type OutputConfig struct {
	Path   string `yaml:"path"`
	Format string `yaml:"format"`
}

// WatchConfig contains watch mode configuration
type WatchConfig struct {
	Patterns []string      `yaml:"patterns"`
	Exclude  []string      `yaml:"exclude"`
	Debounce time.Duration `yaml:"debounce"`
}

// Loader reads configuration files from a filesystem, expanding ${VAR}
// references through Getenv before decoding.
type Loader struct {
	FS     vfs.FileSystem
	Getenv func(string) string
}

// NewLoader creates a loader over the OS filesystem and environment
func NewLoader() *Loader {
	return &Loader{FS: osfs.New(), Getenv: os.Getenv}
}

// LoadFromPath reads, expands and decodes one configuration file, then
// applies defaults.
func (l *Loader) LoadFromPath(path string) (*Config, error) {
	data, err := vfs.ReadFile(l.FS, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded, err := envsubst.Eval(string(data), l.Getenv)
	if err != nil {
		return nil, fmt.Errorf("failed to expand config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal([]byte(expanded), &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyDefaults()
	return &config, nil
}

// LoadFromDir searches for nativegen.yaml in the given directory and its
// parents. It returns the directory the file was found in.
func (l *Loader) LoadFromDir(startDir string) (*Config, string, error) {
	dir := startDir
	for {
		configPath := filepath.Join(dir, FileName)
		if _, err := l.FS.Stat(configPath); err == nil {
			config, err := l.LoadFromPath(configPath)
			if err != nil {
				return nil, "", err
			}
			return config, dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}

	return nil, "", fmt.Errorf("%w in %s or any parent directory", ErrNotFound, startDir)
}

func (c *Config) applyDefaults() {
	if c.Schema == "" {
		c.Schema = "./api.json"
	}
	if c.Module == "" {
		c.Module = "Godot"
	}
	if c.GenericPrefix == "" {
		c.GenericPrefix = "T"
	}
	if c.Output.Format == "" {
		c.Output.Format = "json"
	}
	if c.Output.Path == "" {
		c.Output.Path = "./build/model"
	}
	if len(c.Watch.Patterns) == 0 {
		c.Watch.Patterns = []string{"*.json", "*.yaml", "*.yml"}
	}
	if len(c.Watch.Exclude) == 0 {
		c.Watch.Exclude = []string{"build/", ".git/"}
	}
	if c.Watch.Debounce == 0 {
		c.Watch.Debounce = 100 * time.Millisecond
	}
}
