package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/blockboard/blockboard/pkg/board"
	"github.com/blockboard/blockboard/pkg/cache"
	apperrors "github.com/blockboard/blockboard/pkg/errors"
	"github.com/blockboard/blockboard/pkg/imaging"
	"github.com/blockboard/blockboard/pkg/session"
)

// defaultBoardName is used when no board argument is given.
const defaultBoardName = "default"

// openCommand creates the open command for the interactive board canvas.
func (c *CLI) openCommand() *cobra.Command {
	var addPaths []string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "open [board]",
		Short: "Open a board in the interactive terminal canvas",
		Long: `Open a named board in the interactive terminal canvas. The board is
created if it does not exist yet; images queued with --add are decoded in the
background and appear as they finish. The board is saved on quit.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := defaultBoardName
			if len(args) == 1 {
				name = args[0]
			}
			return c.runOpen(cmd.Context(), name, addPaths, noCache)
		},
	}

	cmd.Flags().StringArrayVarP(&addPaths, "add", "a", nil, "image file to add to the board (repeatable)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "skip the thumbnail cache")

	return cmd
}

func (c *CLI) runOpen(ctx context.Context, name string, addPaths []string, noCache bool) error {
	logger := loggerFromContext(ctx)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := newStore(cfg)
	if err != nil {
		return fmt.Errorf("open board store: %w", err)
	}
	thumbs := newThumbnailCache(noCache)
	defer thumbs.Close()

	mgr := board.NewManager(board.WithAnimationBudget(cfg.MaxCachedAnimations))
	zoom := session.DefaultZoom
	showNames := false

	doc, err := store.Load(name)
	switch {
	case err == nil:
		zoom = doc.Zoom
		showNames = doc.ShowFileNames
	case errors.Is(err, session.ErrNotFound):
		logger.Debugf("board %q not found, starting empty", name)
		doc = nil
	default:
		return fmt.Errorf("load board %q: %w", name, err)
	}

	loader := imaging.NewLoader(cfg.Workers,
		imaging.WithMaxDimension(cfg.MaxBlockDimension),
		imaging.WithLogger(logger))
	defer loader.Close()

	if doc != nil {
		restoreBlocks(ctx, mgr, doc, thumbs, loader, cfg.MaxBlockDimension)
	}
	for _, p := range addPaths {
		if err := apperrors.ValidateImagePath(p); err != nil {
			return err
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		if _, err := os.Stat(abs); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "cannot add %s", p)
		}
		loader.Load(abs, false)
	}

	mgr.Reflow(cfg.CanvasWidth - 2*board.CanvasPadding)

	model := newBoardModel(c, cfg, store, thumbs, loader, name, mgr, zoom, showNames)
	prog := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("run board: %w", err)
	}
	return nil
}

// restoreBlocks rebuilds skeleton blocks from a session document and queues
// first-frame decodes for every unique path. Paths with a fresh thumbnail
// are filled straight from the cache and skip the decoder.
func restoreBlocks(ctx context.Context, mgr *board.Manager, doc *session.Document,
	thumbs *cache.ThumbnailCache, loader *imaging.Loader, maxDim int) {
	paths := session.Restore(mgr, doc)
	for _, p := range paths {
		if fillFromThumbnail(ctx, mgr, thumbs, p, maxDim) {
			continue
		}
		loader.Load(p, true)
	}
}

// fillFromThumbnail populates every skeleton waiting on path from the
// thumbnail cache. GIFs stay marked animated so playback can still request
// the full sequence.
func fillFromThumbnail(ctx context.Context, mgr *board.Manager, thumbs *cache.ThumbnailCache,
	path string, maxDim int) bool {
	key, err := thumbs.Key(path, maxDim)
	if err != nil {
		return false
	}
	img, ok, err := thumbs.Get(ctx, key)
	if err != nil || !ok {
		return false
	}

	hasAnim := strings.EqualFold(filepath.Ext(path), ".gif")
	frames := []board.Frame{{Image: img, Duration: time.Second}}
	claimed := false
	for _, b := range mgr.Blocks() {
		if b.NeedsFramesForPath(path, false) {
			b.PopulateFramesByPath(path, frames, hasAnim, false)
			claimed = true
		}
	}
	return claimed
}
