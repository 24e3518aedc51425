package config

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// sceneStrategies are the recognized link-scenes pairing strategies.
var sceneStrategies = map[string]struct{}{
	"path_proximity":  {},
	"name_similarity": {},
	"directory_match": {},
	"date_proximity":  {},
	"add_additional":  {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateStash(); err != nil {
		return err
	}
	if err := c.validateLinker(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateStash() error {
	parsed, err := url.Parse(c.Stash.URL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("stash.url %q is not a valid URL", c.Stash.URL)
	}
	switch parsed.Scheme {
	case "http", "https":
	default:
		return fmt.Errorf("stash.url scheme %q must be http or https", parsed.Scheme)
	}
	return nil
}

func (c *Config) validateLinker() error {
	if c.Linker.MatchThreshold < 0 || c.Linker.MatchThreshold > 1 {
		return errors.New("linker.match_threshold must be between 0 and 1")
	}
	if c.Linker.DateToleranceDays < 0 || c.Linker.DateToleranceDays > 365 {
		return errors.New("linker.date_tolerance_days must be between 0 and 365")
	}
	if _, ok := sceneStrategies[c.Linker.SceneStrategy]; !ok {
		known := make([]string, 0, len(sceneStrategies))
		for name := range sceneStrategies {
			known = append(known, name)
		}
		sort.Strings(known)
		return fmt.Errorf("linker.scene_strategy %q is not recognized (known: %s)",
			c.Linker.SceneStrategy, strings.Join(known, ", "))
	}
	return nil
}
