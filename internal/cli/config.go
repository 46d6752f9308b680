package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/blockboard/blockboard/pkg/board"
)

// Config holds user-tunable settings read from config.toml.
// Every field has a working default; a missing config file is not an error.
type Config struct {
	// CanvasWidth is the working width of the board in world units.
	CanvasWidth float64 `toml:"canvas_width"`

	// MaxCachedAnimations caps how many blocks keep full frame sequences
	// in memory at once.
	MaxCachedAnimations int `toml:"max_cached_animations"`

	// MaxBlockDimension is the largest edge (in world units) a freshly
	// decoded image is scaled to.
	MaxBlockDimension int `toml:"max_block_dimension"`

	// BoardsDir overrides where named boards are stored. Empty means
	// ~/.config/blockboard/boards.
	BoardsDir string `toml:"boards_dir"`

	// Workers is the number of background image decode workers.
	Workers int `toml:"workers"`
}

// defaultConfig returns the settings used when no config file exists.
func defaultConfig() *Config {
	return &Config{
		CanvasWidth:         board.CanvasWorkingWidth,
		MaxCachedAnimations: board.DefaultAnimationBudget,
		MaxBlockDimension:   int(board.MaxBlockDimension),
		Workers:             4,
	}
}

// loadConfig reads ~/.config/blockboard/config.toml. A missing file yields
// the defaults; a malformed file is an error so typos don't silently revert
// settings.
func loadConfig() (*Config, error) {
	dir, err := configDir()
	if err != nil {
		return defaultConfig(), nil
	}
	return loadConfigFile(filepath.Join(dir, "config.toml"))
}

// loadConfigFile parses the config at path, applying defaults for any
// fields the file leaves unset.
func loadConfigFile(path string) (*Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg.validated()
}

// validated clamps nonsensical values back to defaults.
func (c *Config) validated() (*Config, error) {
	if c.CanvasWidth < board.MinCanvasInnerWidth {
		c.CanvasWidth = board.CanvasWorkingWidth
	}
	if c.MaxCachedAnimations < 1 {
		c.MaxCachedAnimations = board.DefaultAnimationBudget
	}
	if c.MaxBlockDimension < int(board.MinBlockSize) {
		c.MaxBlockDimension = int(board.MaxBlockDimension)
	}
	if c.Workers < 1 {
		c.Workers = 4
	}
	return c, nil
}
