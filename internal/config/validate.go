package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is empty")
	}

	if strings.TrimSpace(cfg.Source) == "" {
		return fmt.Errorf("source is required")
	}

	// zero means default
	if cfg.Interval < 0 {
		return fmt.Errorf("interval must not be negative, got %s", cfg.Interval)
	}

	if cfg.Repository != "" {
		if err := httpURL(cfg.Repository); err != nil {
			return fmt.Errorf("repository: %w", err)
		}
	}

	if cfg.Timezone != "" {
		if _, err := time.LoadLocation(cfg.Timezone); err != nil {
			return fmt.Errorf("timezone %q: %w", cfg.Timezone, err)
		}
	}

	// ------------------------------------------------------------
	// SERVICES
	// ------------------------------------------------------------

	if len(cfg.Services) == 0 {
		return fmt.Errorf("at least one service is required")
	}

	// slug -> index of first service using it
	seen := make(map[string]int)

	for i, s := range cfg.Services {
		if strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("service #%d: name is required", i+1)
		}

		if s.Slug == "" {
			return fmt.Errorf("service %q: slug is required", s.Name)
		}
		if strings.ContainsAny(s.Slug, `/\`) || s.Slug == "." || s.Slug == ".." {
			return fmt.Errorf("service %q: slug %q must be a single path segment", s.Name, s.Slug)
		}
		if prev, exists := seen[s.Slug]; exists {
			return fmt.Errorf(
				"slug collision: %q used by services %q and %q",
				s.Slug,
				cfg.Services[prev].Name,
				s.Name,
			)
		}
		seen[s.Slug] = i

		if err := httpURL(s.URL); err != nil {
			return fmt.Errorf("service %q: %w", s.Name, err)
		}
	}

	return nil
}

func httpURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url %q must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("url %q has no host", raw)
	}
	return nil
}
