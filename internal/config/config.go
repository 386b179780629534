package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"

	"statusboard/internal/upptime"
)

// Defaults applied by Normalize.
const (
	DefaultListen   = ":8080"
	DefaultInterval = 60 * time.Second
	DefaultTitle    = "Status"
)

type Config struct {
	Title  string `yaml:"title"`
	Listen string `yaml:"listen"`

	// Source is where the generator publishes its artifacts: an http(s)
	// base URL or a local directory.
	Source string `yaml:"source"`

	// Interval between refreshes, e.g. "60s".
	Interval time.Duration `yaml:"interval"`

	// Repository is the web URL of the generator repository, used for the
	// history and incidents links. Optional.
	Repository string `yaml:"repository"`

	// Timezone for displayed dates (IANA name). Empty means local time.
	Timezone string `yaml:"timezone"`

	Services []ServiceConfig `yaml:"services"`
}

type ServiceConfig struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
	Slug string `yaml:"slug"`
}

// Load reads a YAML configuration file. It does not validate.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

// Parse decodes YAML configuration. Unknown keys are rejected.
func Parse(b []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// UpptimeServices converts the configured services for the loader.
func (c *Config) UpptimeServices() []upptime.Service {
	out := make([]upptime.Service, 0, len(c.Services))
	for _, s := range c.Services {
		out = append(out, upptime.Service{Name: s.Name, URL: s.URL, Slug: s.Slug})
	}
	return out
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}
