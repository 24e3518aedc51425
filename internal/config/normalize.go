package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeStash(); err != nil {
		return err
	}
	c.normalizeStashBox()
	c.normalizeLinker()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeStash() error {
	c.Stash.URL = strings.TrimRight(strings.TrimSpace(c.Stash.URL), "/")
	if c.Stash.URL == "" {
		c.Stash.URL = defaultStashURL
	}
	c.Stash.APIKey = strings.TrimSpace(c.Stash.APIKey)
	if c.Stash.APIKey == "" {
		if value, ok := os.LookupEnv("STASH_API_KEY"); ok {
			c.Stash.APIKey = strings.TrimSpace(value)
		}
	}
	if c.Stash.TimeoutSeconds <= 0 {
		c.Stash.TimeoutSeconds = defaultStashTimeout
	}
	return nil
}

func (c *Config) normalizeStashBox() {
	c.StashBox.Endpoint = strings.TrimSpace(c.StashBox.Endpoint)
	if c.StashBox.Endpoint == "" {
		c.StashBox.Endpoint = defaultStashBoxEndpoint
	}
	c.StashBox.APIKey = strings.TrimSpace(c.StashBox.APIKey)
	if c.StashBox.APIKey == "" {
		if value, ok := os.LookupEnv("STASHBOX_API_KEY"); ok {
			c.StashBox.APIKey = strings.TrimSpace(value)
		}
	}
}

func (c *Config) normalizeLinker() {
	if c.Linker.MatchThreshold == 0 {
		c.Linker.MatchThreshold = defaultMatchThreshold
	}
	if c.Linker.DateToleranceDays <= 0 {
		c.Linker.DateToleranceDays = defaultDateToleranceDays
	}
	c.Linker.SceneStrategy = strings.ToLower(strings.TrimSpace(c.Linker.SceneStrategy))
	if c.Linker.SceneStrategy == "" {
		c.Linker.SceneStrategy = defaultSceneStrategy
	}
	if c.Linker.MaxSceneMatches <= 0 {
		c.Linker.MaxSceneMatches = defaultMaxSceneMatches
	}
	c.Linker.ReviewTag = strings.TrimSpace(c.Linker.ReviewTag)
	if c.Linker.ReviewTag == "" {
		c.Linker.ReviewTag = defaultReviewTag
	}
	denylist := make([]string, 0, len(c.Linker.PathDenylist))
	for _, entry := range c.Linker.PathDenylist {
		trimmed := strings.TrimSpace(entry)
		if trimmed != "" {
			denylist = append(denylist, trimmed)
		}
	}
	c.Linker.PathDenylist = denylist
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = defaultHistoryPath
	}
	if c.History.Path, err = expandPath(c.History.Path); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
