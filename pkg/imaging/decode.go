package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"os"
	"time"

	_ "image/jpeg"
	_ "image/png"

	xdraw "golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/blockboard/blockboard/pkg/board"
)

const (
	// MaxAnimationFrames caps animated decodes to bound memory usage.
	MaxAnimationFrames = 1024

	// maxDecodePixels refuses absurd single images before allocation.
	maxDecodePixels = 100_000_000

	// staticFrameDuration is the nominal duration for single-frame images.
	staticFrameDuration = time.Second

	// gifDelayUnit is the GIF delay resolution.
	gifDelayUnit = 10 * time.Millisecond

	// minFrameDuration substitutes for zero delays, which many encoders
	// emit for "as fast as possible" frames.
	minFrameDuration = 16 * time.Millisecond
)

// Loaded is the result of decoding one image file.
type Loaded struct {
	Frames       []board.Frame
	OriginalSize board.Vec2
	HasAnimation bool
}

// Decode reads and decodes the image at path. Frames larger than maxDimension
// on either axis are scaled down proportionally; pass 0 to keep full
// resolution. With firstFrameOnly set, animated formats decode only their
// first frame, which is much cheaper for previews and session restores.
func Decode(path string, maxDimension int, firstFrameOnly bool) (*Loaded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("sniff %s: %w", path, err)
	}
	if cfg.Width*cfg.Height > maxDecodePixels {
		return nil, fmt.Errorf("%s (%dx%d): %w", path, cfg.Width, cfg.Height, ErrTooLarge)
	}

	var loaded *Loaded
	if format == "gif" {
		loaded, err = decodeGIF(data, firstFrameOnly)
	} else {
		loaded, err = decodeStatic(data)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	if maxDimension > 0 {
		for i := range loaded.Frames {
			loaded.Frames[i].Image = scaleDown(loaded.Frames[i].Image, maxDimension)
		}
	}
	return loaded, nil
}

func decodeStatic(data []byte) (*Loaded, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return newLoaded([]board.Frame{{Image: img, Duration: staticFrameDuration}}, false), nil
}

// decodeGIF composites every frame onto a full-size canvas, since GIF frames
// may be partial updates of the previous frame.
func decodeGIF(data []byte, firstFrameOnly bool) (*Loaded, error) {
	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if len(g.Image) == 0 {
		return nil, ErrNoFrames
	}

	limit := MaxAnimationFrames
	if firstFrameOnly {
		limit = 1
	}
	if limit > len(g.Image) {
		limit = len(g.Image)
	}

	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() {
		bounds = g.Image[0].Bounds()
	}
	canvas := image.NewRGBA(bounds)

	frames := make([]board.Frame, 0, limit)
	for i := 0; i < limit; i++ {
		xdraw.Draw(canvas, g.Image[i].Bounds(), g.Image[i], g.Image[i].Bounds().Min, xdraw.Over)

		snapshot := image.NewRGBA(bounds)
		copy(snapshot.Pix, canvas.Pix)

		d := staticFrameDuration
		if i < len(g.Delay) {
			d = sanitizeDuration(time.Duration(g.Delay[i]) * gifDelayUnit)
		}
		frames = append(frames, board.Frame{Image: snapshot, Duration: d})

		if i < len(g.Disposal) && g.Disposal[i] == gif.DisposalBackground {
			clear(canvas.Pix)
		}
	}

	return newLoaded(frames, len(g.Image) > 1), nil
}

func newLoaded(frames []board.Frame, hasAnimation bool) *Loaded {
	size := board.Vec2{X: 1, Y: 1}
	if len(frames) > 0 && frames[0].Image != nil {
		b := frames[0].Image.Bounds()
		size = board.Vec2{X: float64(b.Dx()), Y: float64(b.Dy())}
	}
	return &Loaded{Frames: frames, OriginalSize: size, HasAnimation: hasAnimation}
}

func sanitizeDuration(d time.Duration) time.Duration {
	if d <= 0 {
		return minFrameDuration
	}
	return d
}

func scaleDown(img image.Image, maxDimension int) image.Image {
	if img == nil {
		return nil
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDimension && h <= maxDimension {
		return img
	}

	scale := float64(maxDimension) / float64(max(w, h))
	nw, nh := int(float64(w)*scale), int(float64(h)*scale)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}

// ScaledBlockSize maps a source image size onto the initial on-canvas size,
// shrinking so neither axis exceeds MaxBlockDimension but never enlarging.
func ScaledBlockSize(original board.Vec2) board.Vec2 {
	w := original.X
	if w < 1 {
		w = 1
	}
	h := original.Y
	if h < 1 {
		h = 1
	}
	scale := min(board.MaxBlockDimension/w, board.MaxBlockDimension/h, 1)
	return original.Scale(scale)
}
