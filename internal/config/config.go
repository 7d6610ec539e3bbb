package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/goccy/go-yaml"
)

// DefaultPath is read when no explicit path is given.
const DefaultPath = "schemagraph.yaml"

type Config struct {
	// Library is the path of a prelude schema parsed ahead of every input.
	Library       string   `yaml:"library"`
	ExcludedRoots []string `yaml:"excludedRoots"`

	Server Server `yaml:"server"`
	Otel   Otel   `yaml:"otel"`
	Log    Log    `yaml:"log"`
}

type Server struct {
	Addr         string        `yaml:"addr"`
	Pretty       bool          `yaml:"pretty"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxBodyBytes int64         `yaml:"maxBodyBytes"`
	CORSOrigins  []string      `yaml:"corsOrigins"`
}

type Otel struct {
	Endpoint string `yaml:"endpoint"`
	Service  string `yaml:"service"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Default() *Config {
	return &Config{
		Server: Server{
			Addr:         ":8080",
			Timeout:      10 * time.Second,
			MaxBodyBytes: 4 << 20,
		},
		Otel: Otel{Service: "schemagraph"},
		Log:  Log{Level: "info", Format: "console"},
	}
}

// Load reads the YAML file at path over the defaults. A missing file at the
// default path yields the defaults; a missing explicit path is an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := yaml.UnmarshalWithOptions(data, cfg, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("load config %s: %s", path, yaml.FormatError(err, false, true))
	}
	return cfg, nil
}

// ReadLibrary returns the prelude SDL, or "" when none is configured.
func (c *Config) ReadLibrary() (string, error) {
	if c.Library == "" {
		return "", nil
	}
	data, err := os.ReadFile(c.Library)
	if err != nil {
		return "", fmt.Errorf("read library: %w", err)
	}
	return string(data), nil
}
