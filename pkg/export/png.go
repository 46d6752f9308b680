package export

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/blockboard/blockboard/pkg/board"
)

const (
	labelFontSize = 12.0
	labelMargin   = 4.0
	cornerRadius  = 6.0
	chainStroke   = 3.0
)

// RenderPNG rasterizes the board at its current positions. Blocks with
// decoded frames draw their current frame; skeletons draw a flat tile in
// the block's color so exported documents stay legible before images load.
func RenderPNG(m *board.Manager, opts Options) (image.Image, error) {
	w, h := canvasExtent(m)
	dc := gg.NewContext(w, h)

	bg := opts.Background
	if bg == nil {
		bg = defaultBackground
	}
	dc.SetColor(bg)
	dc.Clear()

	face, err := labelFace()
	if err != nil {
		return nil, err
	}
	dc.SetFontFace(face)

	for _, b := range m.Blocks() {
		drawBlock(dc, b, opts)
	}
	return dc.Image(), nil
}

// SavePNG renders the board and writes it to path.
func SavePNG(m *board.Manager, path string, opts Options) error {
	img, err := RenderPNG(m, opts)
	if err != nil {
		return err
	}
	return gg.SavePNG(path, img)
}

// canvasExtent sizes the output to cover every block plus the canvas margin.
func canvasExtent(m *board.Manager) (w, h int) {
	maxX, maxY := board.CanvasWorkingWidth, 0.0
	for _, b := range m.Blocks() {
		r := b.Rect()
		maxX = math.Max(maxX, r.Max().X)
		maxY = math.Max(maxY, r.Max().Y)
	}
	return int(maxX + board.CanvasPadding), int(maxY + board.CanvasPadding + labelFontSize*2)
}

func labelFace() (font.Face, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse label font: %w", err)
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    labelFontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

func drawBlock(dc *gg.Context, b *board.Block, opts Options) {
	r := b.Rect()

	// Tile background in the block's identity color.
	cr, cg, cb := b.Color.RGB255()
	dc.SetColor(color.RGBA{R: cr, G: cg, B: cb, A: 255})
	dc.DrawRoundedRectangle(r.Min.X, r.Min.Y, r.Size.X, r.Size.Y, cornerRadius)
	dc.Fill()

	if frame := b.CurrentFrame(); frame != nil && !b.IsGroup {
		drawFrame(dc, frame, b)
	}

	if b.IsGroup {
		drawGroupBadge(dc, b)
	}

	if b.Chained {
		dc.SetLineWidth(chainStroke)
		dc.SetRGB255(255, 200, 60)
		dc.DrawRoundedRectangle(r.Min.X, r.Min.Y, r.Size.X, r.Size.Y, cornerRadius)
		dc.Stroke()
	}

	if opts.ShowFileNames || b.IsGroup {
		dc.SetRGB255(230, 230, 230)
		dc.DrawStringAnchored(b.DisplayName(), r.Center().X, r.Max().Y+labelMargin+labelFontSize/2, 0.5, 0.5)
	}
}

// drawFrame scales the frame into the block's inner rectangle.
func drawFrame(dc *gg.Context, frame image.Image, b *board.Block) {
	fb := frame.Bounds()
	if fb.Dx() == 0 || fb.Dy() == 0 {
		return
	}
	sx := b.ImageSize.X / float64(fb.Dx())
	sy := b.ImageSize.Y / float64(fb.Dy())

	dc.Push()
	dc.Translate(b.Pos.X+board.BlockPadding, b.Pos.Y+board.BlockPadding)
	dc.Scale(sx, sy)
	dc.DrawImage(frame, 0, 0)
	dc.Pop()
}

// drawGroupBadge marks a group tile with its child count.
func drawGroupBadge(dc *gg.Context, b *board.Block) {
	r := b.Rect()
	dc.SetRGBA(0, 0, 0, 0.35)
	dc.DrawRoundedRectangle(r.Min.X+board.BlockPadding, r.Min.Y+board.BlockPadding,
		r.Size.X-board.BlockPadding*2, r.Size.Y-board.BlockPadding*2, cornerRadius)
	dc.Fill()

	dc.SetRGB255(255, 255, 255)
	dc.DrawStringAnchored(fmt.Sprintf("%d", len(b.Children)), r.Center().X, r.Center().Y, 0.5, 0.5)
}
