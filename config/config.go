// Package config holds the difficulty presets and front-end settings,
// optionally read from a YAML file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Difficulty is a board size and mine density pair.
type Difficulty struct {
	Name            string  `yaml:"name"`
	Size            int     `yaml:"size"`
	MineProbability float64 `yaml:"mine_probability"`
}

type Config struct {
	Difficulties []Difficulty `yaml:"difficulties"`
	Default      string       `yaml:"default"`
	Theme        string       `yaml:"theme"`
	LogLevel     string       `yaml:"log_level"`
	LogFormat    string       `yaml:"log_format"`
	LogFile      string       `yaml:"log_file"`
}

var presets = []Difficulty{
	{Name: "Easy", Size: 8, MineProbability: 0.15},
	{Name: "Medium", Size: 12, MineProbability: 0.18},
	{Name: "Hard", Size: 18, MineProbability: 0.22},
}

func Default() *Config {
	return &Config{
		Difficulties: append([]Difficulty(nil), presets...),
		Default:      presets[0].Name,
		Theme:        "Classic",
		LogLevel:     "info",
		LogFormat:    "text",
	}
}

// Load reads path on top of the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if len(file.Difficulties) > 0 {
		cfg.Difficulties = file.Difficulties
		cfg.Default = file.Difficulties[0].Name
	}
	if file.Default != "" {
		cfg.Default = file.Default
	}
	if file.Theme != "" {
		cfg.Theme = file.Theme
	}
	if file.LogLevel != "" {
		cfg.LogLevel = file.LogLevel
	}
	if file.LogFormat != "" {
		cfg.LogFormat = file.LogFormat
	}
	cfg.LogFile = file.LogFile

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if len(c.Difficulties) == 0 {
		return errors.New("no difficulties defined")
	}
	seen := make(map[string]bool, len(c.Difficulties))
	for _, d := range c.Difficulties {
		key := strings.ToLower(d.Name)
		switch {
		case d.Name == "":
			return errors.New("difficulty without a name")
		case seen[key]:
			return fmt.Errorf("duplicate difficulty %q", d.Name)
		case d.Size < 1:
			return fmt.Errorf("difficulty %q: size %d must be at least 1", d.Name, d.Size)
		case d.MineProbability < 0 || d.MineProbability > 1:
			return fmt.Errorf("difficulty %q: mine probability %g outside [0, 1]", d.Name, d.MineProbability)
		}
		seen[key] = true
	}
	if c.Index(c.Default) < 0 {
		return fmt.Errorf("default difficulty %q not defined", c.Default)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}

// Index returns the position of the named difficulty, ignoring case, or -1.
func (c *Config) Index(name string) int {
	for i, d := range c.Difficulties {
		if strings.EqualFold(d.Name, name) {
			return i
		}
	}
	return -1
}

func (c *Config) Lookup(name string) (Difficulty, bool) {
	i := c.Index(name)
	if i < 0 {
		return Difficulty{}, false
	}
	return c.Difficulties[i], true
}

// Logger builds a logrus logger writing to w, or to LogFile when set.
func (c *Config) Logger(w io.Writer) (*logrus.Logger, error) {
	l := logrus.New()
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	l.SetLevel(level)
	if c.LogFormat == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	}

	l.SetOutput(w)
	if c.LogFile != "" {
		f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		l.SetOutput(f)
	}
	return l, nil
}
