// Package cli implements the blockboard command-line interface.
//
// This package provides commands for opening boards in the interactive
// terminal canvas, rendering saved boards to images or structure diagrams,
// and managing named boards and the thumbnail cache. The CLI is built using
// cobra and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - open: Open a board in the interactive terminal canvas
//   - render: Render a saved board to PNG, SVG, or DOT
//   - boards: List and delete saved boards
//   - cache: Manage the thumbnail cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/blockboard/blockboard/pkg/buildinfo"
	"github.com/blockboard/blockboard/pkg/cache"
	"github.com/blockboard/blockboard/pkg/session"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "blockboard"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          appName,
		Short:        "Blockboard arranges images as blocks on a spatial canvas",
		Long:         `Blockboard is a spatial canvas for images: blocks flow into rows, chain together, collapse into groups, and persist as named boards.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				c.SetLogLevel(log.DebugLevel)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	// Register all subcommands
	root.AddCommand(c.openCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.boardsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Store & Cache Factories
// =============================================================================

// newStore opens the board store rooted at the configured boards directory.
func newStore(cfg *Config) (*session.FileStore, error) {
	return session.NewFileStore(cfg.BoardsDir)
}

// newThumbnailCache builds the thumbnail cache backed by the file cache.
// With noCache (or an unusable cache directory) thumbnails are recomputed
// on every load instead of failing the command.
func newThumbnailCache(noCache bool) *cache.ThumbnailCache {
	if noCache {
		return cache.NewThumbnailCache(cache.NewNullCache())
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewThumbnailCache(cache.NewNullCache())
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return cache.NewThumbnailCache(cache.NewNullCache())
	}
	return cache.NewThumbnailCache(fc)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/blockboard/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configDir returns the config directory using XDG standard (~/.config/blockboard/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
