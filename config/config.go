// Package config loads the optional YAML settings file for the quetzal
// command.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	EnvVar      = "QUETZAL_CONFIG"
	DefaultName = ".quetzal.yaml"
)

type Config struct {
	// Path is the file the settings came from, empty for defaults.
	Path string `yaml:"-"`

	Prompt             string `yaml:"prompt"`
	ContinuationPrompt string `yaml:"continuation_prompt"`
	HistoryFile        string `yaml:"history_file"`
	// Color is nil when unset, meaning "when stdout is a terminal".
	Color        *bool  `yaml:"color"`
	Style        string `yaml:"style"`
	FoldLiterals bool   `yaml:"fold_literals"`
	Trace        bool   `yaml:"trace"`
	BasicShell   bool   `yaml:"basic_shell"`
	FileRoot     string `yaml:"file_root"`
}

func Default() *Config {
	return &Config{
		Prompt:             "quetzal> ",
		ContinuationPrompt: "... ",
		Style:              "monokai",
	}
}

// Load reads settings from path. Fields missing from the file keep their
// default values.
func Load(path string) (*Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cfg := Default()
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", abs, err)
	}
	cfg.Path = abs
	cfg.normalize()
	return cfg, nil
}

// Resolve finds the settings file: an explicit path must exist, otherwise
// $QUETZAL_CONFIG and then ~/.quetzal.yaml are tried, falling back to
// defaults when neither exists.
func Resolve(explicit string) (*Config, error) {
	if explicit != "" {
		return Load(explicit)
	}

	candidates := []string{}
	if env := os.Getenv(EnvVar); env != "" {
		candidates = append(candidates, env)
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultName))
	}

	for _, path := range candidates {
		cfg, err := Load(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return cfg, err
	}
	return Default(), nil
}

func (c *Config) normalize() {
	def := Default()
	if c.Prompt == "" {
		c.Prompt = def.Prompt
	}
	if c.ContinuationPrompt == "" {
		c.ContinuationPrompt = def.ContinuationPrompt
	}
	if c.Style == "" {
		c.Style = def.Style
	}
	if c.HistoryFile != "" {
		c.HistoryFile = expandHome(c.HistoryFile)
	}
	if c.FileRoot != "" {
		c.FileRoot = expandHome(c.FileRoot)
	}
}

func expandHome(path string) string {
	if len(path) < 2 || path[:2] != "~/" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// ColorEnabled resolves the color setting against whether output is a
// terminal.
func (c *Config) ColorEnabled(terminal bool) bool {
	if c.Color == nil {
		return terminal
	}
	return *c.Color
}
