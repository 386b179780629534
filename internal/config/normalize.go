package config

import "strings"

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Title == "" {
		cfg.Title = DefaultTitle
	}
	if cfg.Listen == "" {
		cfg.Listen = DefaultListen
	}
	if cfg.Interval == 0 {
		cfg.Interval = DefaultInterval
	}

	// Artifact and link paths are joined with "/" later.
	cfg.Source = strings.TrimRight(strings.TrimSpace(cfg.Source), "/")
	cfg.Repository = strings.TrimRight(cfg.Repository, "/")

	for i := range cfg.Services {
		s := &cfg.Services[i]
		s.Name = strings.TrimSpace(s.Name)
		s.URL = strings.TrimSpace(s.URL)
	}
}
