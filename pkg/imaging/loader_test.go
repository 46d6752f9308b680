package imaging

import (
	"path/filepath"
	"testing"
	"time"
)

func drainAll(t *testing.T, l *Loader, want int) []Result {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	var results []Result
	for len(results) < want {
		if time.Now().After(deadline) {
			t.Fatalf("timed out with %d of %d results", len(results), want)
		}
		results = append(results, l.Drain()...)
		time.Sleep(5 * time.Millisecond)
	}
	return results
}

func TestLoaderDecodesInBackground(t *testing.T) {
	dir := t.TempDir()
	pngPath := writePNG(t, dir, 10, 10)
	gifPath := writeGIF(t, dir, 3, 5)

	l := NewLoader(2)
	defer l.Close()

	l.Load(pngPath, false)
	l.Load(gifPath, false)

	results := drainAll(t, l, 2)
	byPath := map[string]Result{}
	for _, r := range results {
		byPath[r.Path] = r
	}

	pr, ok := byPath[pngPath]
	if !ok || pr.Err != nil {
		t.Fatalf("png result missing or failed: %+v", pr)
	}
	if !pr.FullSequence {
		t.Error("full decode should be flagged as a full sequence")
	}

	gr := byPath[gifPath]
	if gr.Err != nil || len(gr.Loaded.Frames) != 3 {
		t.Fatalf("gif result: %+v", gr)
	}
}

func TestLoaderReportsErrors(t *testing.T) {
	l := NewLoader(1)
	defer l.Close()

	l.Load(filepath.Join(t.TempDir(), "missing.png"), true)

	results := drainAll(t, l, 1)
	if results[0].Err == nil {
		t.Error("missing file should produce an error result")
	}
	if results[0].FullSequence {
		t.Error("first-frame request should not be flagged full")
	}
}

func TestDrainEmptyDoesNotBlock(t *testing.T) {
	l := NewLoader(1)
	defer l.Close()

	done := make(chan struct{})
	go func() {
		l.Drain()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Drain blocked with no pending results")
	}
}
