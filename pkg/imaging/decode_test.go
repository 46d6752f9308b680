package imaging

import (
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/blockboard/blockboard/pkg/board"
)

func writePNG(t *testing.T, dir string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	path := filepath.Join(dir, "test.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create png: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return path
}

func writeGIF(t *testing.T, dir string, frames int, delay int) string {
	t.Helper()
	g := &gif.GIF{Config: image.Config{Width: 8, Height: 8}}
	palette := color.Palette{color.Black, color.White}
	for i := 0; i < frames; i++ {
		img := image.NewPaletted(image.Rect(0, 0, 8, 8), palette)
		g.Image = append(g.Image, img)
		g.Delay = append(g.Delay, delay)
		g.Disposal = append(g.Disposal, gif.DisposalNone)
	}
	path := filepath.Join(dir, "test.gif")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create gif: %v", err)
	}
	defer f.Close()
	if err := gif.EncodeAll(f, g); err != nil {
		t.Fatalf("encode gif: %v", err)
	}
	return path
}

func TestDecodeStaticPNG(t *testing.T) {
	path := writePNG(t, t.TempDir(), 20, 10)

	loaded, err := Decode(path, 0, false)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(loaded.Frames) != 1 {
		t.Fatalf("frames = %d, want 1", len(loaded.Frames))
	}
	if loaded.HasAnimation {
		t.Error("static image should not report animation")
	}
	if loaded.OriginalSize != (board.Vec2{X: 20, Y: 10}) {
		t.Errorf("original size = %v", loaded.OriginalSize)
	}
	if loaded.Frames[0].Duration != staticFrameDuration {
		t.Errorf("static duration = %v", loaded.Frames[0].Duration)
	}
}

func TestDecodeGIFAnimation(t *testing.T) {
	path := writeGIF(t, t.TempDir(), 3, 5) // 5 hundredths = 50ms

	loaded, err := Decode(path, 0, false)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(loaded.Frames) != 3 {
		t.Fatalf("frames = %d, want 3", len(loaded.Frames))
	}
	if !loaded.HasAnimation {
		t.Error("multi-frame GIF should report animation")
	}
	if loaded.Frames[1].Duration != 50*time.Millisecond {
		t.Errorf("frame duration = %v, want 50ms", loaded.Frames[1].Duration)
	}
}

func TestDecodeGIFFirstFrameOnly(t *testing.T) {
	path := writeGIF(t, t.TempDir(), 4, 5)

	loaded, err := Decode(path, 0, true)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(loaded.Frames) != 1 {
		t.Errorf("frames = %d, want 1", len(loaded.Frames))
	}
	// The file is still animated even when only a preview was decoded.
	if !loaded.HasAnimation {
		t.Error("preview decode should still report animation")
	}
}

func TestDecodeGIFZeroDelaySanitized(t *testing.T) {
	path := writeGIF(t, t.TempDir(), 2, 0)

	loaded, err := Decode(path, 0, false)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	for i, f := range loaded.Frames {
		if f.Duration < minFrameDuration {
			t.Errorf("frame %d duration %v below minimum", i, f.Duration)
		}
	}
}

func TestDecodeScalesDown(t *testing.T) {
	path := writePNG(t, t.TempDir(), 200, 100)

	loaded, err := Decode(path, 50, false)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	b := loaded.Frames[0].Image.Bounds()
	if b.Dx() != 50 || b.Dy() != 25 {
		t.Errorf("scaled to %dx%d, want 50x25", b.Dx(), b.Dy())
	}
}

func TestDecodeMissingFile(t *testing.T) {
	if _, err := Decode(filepath.Join(t.TempDir(), "nope.png"), 0, false); err == nil {
		t.Error("missing file should error")
	}
}

func TestDecodeGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.png")
	if err := os.WriteFile(path, []byte("not an image at all"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Decode(path, 0, false); err == nil {
		t.Error("garbage bytes should error")
	}
}

func TestScaledBlockSize(t *testing.T) {
	tests := []struct {
		name string
		in   board.Vec2
		want board.Vec2
	}{
		{"small stays", board.Vec2{X: 100, Y: 50}, board.Vec2{X: 100, Y: 50}},
		{"wide shrinks", board.Vec2{X: 840, Y: 420}, board.Vec2{X: 420, Y: 210}},
		{"tall shrinks", board.Vec2{X: 210, Y: 840}, board.Vec2{X: 105, Y: 420}},
		{"exact limit", board.Vec2{X: 420, Y: 420}, board.Vec2{X: 420, Y: 420}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScaledBlockSize(tt.in); got != tt.want {
				t.Errorf("ScaledBlockSize(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
