package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/blockboard/blockboard/pkg/board"
)

func TestLoadConfigFileMissing(t *testing.T) {
	cfg, err := loadConfigFile(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("loadConfigFile: %v", err)
	}
	if cfg.CanvasWidth != board.CanvasWorkingWidth {
		t.Errorf("CanvasWidth = %v, want default %v", cfg.CanvasWidth, board.CanvasWorkingWidth)
	}
	if cfg.MaxCachedAnimations != board.DefaultAnimationBudget {
		t.Errorf("MaxCachedAnimations = %d, want %d", cfg.MaxCachedAnimations, board.DefaultAnimationBudget)
	}
	if cfg.Workers < 1 {
		t.Error("Workers should default to a positive count")
	}
}

func TestLoadConfigFileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
canvas_width = 900.0
max_cached_animations = 5
boards_dir = "/tmp/boards"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfigFile(path)
	if err != nil {
		t.Fatalf("loadConfigFile: %v", err)
	}
	if cfg.CanvasWidth != 900 {
		t.Errorf("CanvasWidth = %v, want 900", cfg.CanvasWidth)
	}
	if cfg.MaxCachedAnimations != 5 {
		t.Errorf("MaxCachedAnimations = %d, want 5", cfg.MaxCachedAnimations)
	}
	if cfg.BoardsDir != "/tmp/boards" {
		t.Errorf("BoardsDir = %q, want /tmp/boards", cfg.BoardsDir)
	}
	// Unset fields keep their defaults.
	if cfg.MaxBlockDimension != int(board.MaxBlockDimension) {
		t.Errorf("MaxBlockDimension = %d, want default", cfg.MaxBlockDimension)
	}
}

func TestLoadConfigFileClampsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
canvas_width = 1.0
max_cached_animations = 0
workers = -3
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfigFile(path)
	if err != nil {
		t.Fatalf("loadConfigFile: %v", err)
	}
	if cfg.CanvasWidth != board.CanvasWorkingWidth {
		t.Errorf("tiny canvas width should fall back to default, got %v", cfg.CanvasWidth)
	}
	if cfg.MaxCachedAnimations != board.DefaultAnimationBudget {
		t.Errorf("zero budget should fall back to default, got %d", cfg.MaxCachedAnimations)
	}
	if cfg.Workers != 4 {
		t.Errorf("negative workers should fall back to 4, got %d", cfg.Workers)
	}
}

func TestLoadConfigFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("canvas_width = ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadConfigFile(path); err == nil {
		t.Error("malformed config should error, not silently use defaults")
	}
}
