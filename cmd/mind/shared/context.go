// Package shared holds the context passed to the mind entry points.
package shared

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/go-ports/mind/internal/config"
	"github.com/go-ports/mind/internal/logs"
	"github.com/go-ports/mind/internal/storage"
)

// Context carries global CLI state.
type Context struct {
	// Home overrides the mind home directory.
	// When empty, resolution falls through to MIND_HOME env → persisted config → ~/.mind.
	Home string
}

// Open resolves the home directory, loads its config.yaml and returns the
// brain store together with a diagnostic logger writing to logw.
func (c *Context) Open(logw io.Writer) (*storage.File, *slog.Logger, error) {
	home := c.Home
	if home == "" {
		home = config.GetHome()
	}
	cfg, err := config.Load(filepath.Join(home, "config.yaml"))
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger := logs.New(logw, cfg.LogLevel)
	path := cfg.StorageFile(home)
	logger.Debug("shared: resolved storage", "home", home, "path", path)
	return storage.NewFile(path, logger), logger, nil
}
