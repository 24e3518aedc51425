package main

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gallerylinker/internal/config"
	"gallerylinker/internal/history"
	"gallerylinker/internal/logging"
	"gallerylinker/internal/runlock"
	"gallerylinker/internal/stash"
	"gallerylinker/internal/stashbox"
)

// commandContext carries lazily constructed dependencies shared by the
// subcommands. Config loads once; everything else derives from it.
type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error

	// gateway is injectable for command tests.
	gateway stash.Gateway
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.New(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
		})
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// ensureGateway builds the Stash client unless a test injected one.
func (c *commandContext) ensureGateway() (stash.Gateway, error) {
	if c.gateway != nil {
		return c.gateway, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	client, err := stash.New(cfg.Stash.URL, cfg.Stash.APIKey,
		stash.WithTimeout(time.Duration(cfg.Stash.TimeoutSeconds)*time.Second))
	if err != nil {
		return nil, err
	}
	c.gateway = client
	return client, nil
}

func (c *commandContext) stashBoxClient() (*stashbox.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	return stashbox.New(cfg.StashBox.Endpoint, cfg.StashBox.APIKey, logger), nil
}

// acquireRunLock takes the single-run lock. Dry runs skip locking; the
// caller must release the returned lock when it is non-nil.
func (c *commandContext) acquireRunLock(dryRun bool) (*runlock.Lock, error) {
	if dryRun {
		return nil, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	lock := runlock.New(filepath.Join(cfg.Paths.LogDir, "gallery-linker.lock"))
	if err := lock.Acquire(); err != nil {
		return nil, err
	}
	return lock, nil
}

// recordRun journals a finished run when history is enabled. Journal
// failures are logged, never fatal.
func (c *commandContext) recordRun(ctx context.Context, run history.Run) {
	cfg, err := c.ensureConfig()
	if err != nil || !cfg.History.Enabled {
		return
	}
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		c.warn("open history store", err)
		return
	}
	defer store.Close()
	if _, err := store.Record(ctx, run); err != nil {
		c.warn("record run history", err)
	}
}

func (c *commandContext) warn(msg string, err error) {
	if logger, logErr := c.ensureLogger(); logErr == nil {
		logger.Warn(msg, logging.Error(err))
	}
}
