package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blockboard/blockboard/pkg/board"
	apperrors "github.com/blockboard/blockboard/pkg/errors"
	"github.com/blockboard/blockboard/pkg/export"
	"github.com/blockboard/blockboard/pkg/imaging"
	"github.com/blockboard/blockboard/pkg/session"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string // output file path; derived from the board name if empty
	format    string // output format: "png", "svg", "dot"
	showNames bool   // draw file names under blocks in the PNG raster
	noImages  bool   // skip decoding; blocks render as flat color tiles
}

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{"png": true, "svg": true, "dot": true}

// renderCommand creates the render command for exporting saved boards.
//
// PNG renders the board canvas as it would be laid out at the working width,
// decoding each block's first frame unless --no-images is set. SVG and DOT
// render the structure diagram (groups and chains) instead.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: "png"}

	cmd := &cobra.Command{
		Use:   "render [board]",
		Short: "Render a saved board to PNG, SVG, or DOT",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := defaultBoardName
			if len(args) == 1 {
				name = args[0]
			}
			if err := apperrors.ValidateFormat(opts.format, validFormats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), name, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <board>.<format>)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: png (default), svg, dot")
	cmd.Flags().BoolVar(&opts.showNames, "show-names", false, "draw file names under blocks (png)")
	cmd.Flags().BoolVar(&opts.noImages, "no-images", false, "skip image decoding, render color tiles only (png)")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, name string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := newStore(cfg)
	if err != nil {
		return fmt.Errorf("open board store: %w", err)
	}

	doc, err := store.Load(name)
	if errors.Is(err, session.ErrNotFound) {
		return apperrors.New(apperrors.ErrCodeBoardNotFound, "board %q does not exist", name)
	}
	if err != nil {
		return fmt.Errorf("load board %q: %w", name, err)
	}

	mgr := board.NewManager(board.WithAnimationBudget(cfg.MaxCachedAnimations))
	paths := session.Restore(mgr, doc)
	mgr.Reflow(cfg.CanvasWidth - 2*board.CanvasPadding)

	groups, chained := 0, 0
	for _, b := range mgr.Blocks() {
		if b.IsGroup {
			groups++
		}
		if b.Chained {
			chained++
		}
	}
	printInfo("Rendering %s", StyleHighlight.Render(name))
	printBoardStats(mgr.Len(), groups, chained)

	if opts.format == "png" && !opts.noImages {
		decodeFirstFrames(ctx, mgr, paths, cfg.MaxBlockDimension)
		mgr.Reflow(cfg.CanvasWidth - 2*board.CanvasPadding)
	}

	out := opts.output
	if out == "" {
		out = name + "." + opts.format
	}

	switch opts.format {
	case "png":
		err = export.SavePNG(mgr, out, export.Options{ShowFileNames: opts.showNames || doc.ShowFileNames})
	case "svg", "dot":
		var data []byte
		data, err = export.RenderDiagram(ctx, mgr, export.Format(opts.format))
		if err == nil {
			err = os.WriteFile(out, data, 0o644)
		}
	}
	if err != nil {
		return fmt.Errorf("render %s: %w", opts.format, err)
	}

	logger.Debugf("wrote %s", out)
	printSuccess("Rendered %s", name)
	printFile(out)
	printNextStep("Open the board", fmt.Sprintf("%s open %s", appName, name))
	return nil
}

// decodeFirstFrames fills the restored skeletons with first frames so the
// PNG shows actual images. Decode failures degrade to color tiles.
func decodeFirstFrames(ctx context.Context, mgr *board.Manager, paths []string, maxDim int) {
	logger := loggerFromContext(ctx)
	p := newProgress(logger)

	decoded := 0
	for _, path := range paths {
		loaded, err := imaging.Decode(path, maxDim, true)
		if err != nil {
			logger.Warnf("decode %s: %v", path, err)
			continue
		}
		for _, b := range mgr.Blocks() {
			if b.NeedsFramesForPath(path, false) {
				b.PopulateFramesByPath(path, loaded.Frames, loaded.HasAnimation, false)
			}
		}
		decoded++
	}
	if decoded > 0 {
		p.done(fmt.Sprintf("Decoded %d of %d images", decoded, len(paths)))
	}
}
