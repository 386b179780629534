package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statusboard/internal/upptime"
)

const sample = `
title: Atelier YO Status
source: https://n3uralcreativity.github.io/upptime/
interval: 90s
repository: https://github.com/N3uralCreativity/upptime/
services:
  - name: Atelier YO
    url: https://atelier-yo.fr
    slug: atelier-yo
  - name: Atelier YO (www)
    url: https://www.atelier-yo.fr
    slug: atelier-yo-www
`

// helper to build a valid config quickly
func valid() *Config {
	return &Config{
		Source: "./site",
		Services: []ServiceConfig{
			{Name: "A", URL: "https://a.example", Slug: "a"},
			{Name: "B", URL: "http://b.example/health", Slug: "b"},
		},
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statusboard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, Validate(cfg))
	Normalize(cfg)

	assert.Equal(t, "Atelier YO Status", cfg.Title)
	assert.Equal(t, DefaultListen, cfg.Listen)
	assert.Equal(t, "https://n3uralcreativity.github.io/upptime", cfg.Source)
	assert.Equal(t, 90*time.Second, cfg.Interval)
	assert.Equal(t, "https://github.com/N3uralCreativity/upptime", cfg.Repository)
	assert.Equal(t, []upptime.Service{
		{Name: "Atelier YO", URL: "https://atelier-yo.fr", Slug: "atelier-yo"},
		{Name: "Atelier YO (www)", URL: "https://www.atelier-yo.fr", Slug: "atelier-yo-www"},
	}, cfg.UpptimeServices())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("sources: x\n"))
	assert.Error(t, err)
}

func TestParseEmptyDocument(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Error(t, Validate(cfg), "empty config must not validate")
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := valid()
	require.NoError(t, Validate(cfg))
	Normalize(cfg)

	assert.Equal(t, DefaultTitle, cfg.Title)
	assert.Equal(t, DefaultListen, cfg.Listen)
	assert.Equal(t, DefaultInterval, cfg.Interval)
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, Validate(valid()))
}

func TestValidate_Errors(t *testing.T) {
	cases := map[string]func(*Config){
		"no source":        func(c *Config) { c.Source = " " },
		"negative":         func(c *Config) { c.Interval = -time.Second },
		"no services":      func(c *Config) { c.Services = nil },
		"no name":          func(c *Config) { c.Services[0].Name = "" },
		"no slug":          func(c *Config) { c.Services[0].Slug = "" },
		"slug with slash":  func(c *Config) { c.Services[0].Slug = "a/b" },
		"dotdot slug":      func(c *Config) { c.Services[0].Slug = ".." },
		"duplicate slug":   func(c *Config) { c.Services[1].Slug = "a" },
		"bad service url":  func(c *Config) { c.Services[0].URL = "ftp://a.example" },
		"no host":          func(c *Config) { c.Services[0].URL = "https://" },
		"bad repository":   func(c *Config) { c.Repository = "github.com/x/y" },
		"unknown timezone": func(c *Config) { c.Timezone = "Mars/Olympus" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			mutate(cfg)
			assert.Error(t, Validate(cfg))
		})
	}
}

func TestValidate_DoesNotMutate(t *testing.T) {
	cfg := valid()
	cfg.Source = "https://example.com/upptime/"
	before := *cfg
	require.NoError(t, Validate(cfg))
	assert.Equal(t, before, *cfg)
}

func TestLocation(t *testing.T) {
	cfg := valid()
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	cfg.Timezone = "Europe/Paris"
	loc, err = cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Paris", loc.String())
}

func TestValidate_NilConfig(t *testing.T) {
	assert.Error(t, Validate(nil))
}
