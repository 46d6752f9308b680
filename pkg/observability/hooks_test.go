package observability

import (
	"context"
	"testing"
	"time"
)

type recordingDecodeHooks struct {
	starts    int
	completes int
	lastPath  string
}

func (r *recordingDecodeHooks) OnDecodeStart(_ context.Context, path string, _ bool) {
	r.starts++
	r.lastPath = path
}

func (r *recordingDecodeHooks) OnDecodeComplete(_ context.Context, path string, _ int, _ time.Duration, _ error) {
	r.completes++
	r.lastPath = path
}

type recordingCacheHooks struct {
	hits, misses, sets int
}

func (r *recordingCacheHooks) OnCacheHit(context.Context, string)      { r.hits++ }
func (r *recordingCacheHooks) OnCacheMiss(context.Context, string)     { r.misses++ }
func (r *recordingCacheHooks) OnCacheSet(context.Context, string, int) { r.sets++ }

func TestDefaultHooksAreNoop(t *testing.T) {
	Reset()

	// Must not panic.
	Decode().OnDecodeStart(context.Background(), "a.png", true)
	Decode().OnDecodeComplete(context.Background(), "a.png", 1, time.Millisecond, nil)
	Cache().OnCacheHit(context.Background(), "file")
	Cache().OnCacheMiss(context.Background(), "file")
	Cache().OnCacheSet(context.Background(), "file", 42)
}

func TestSetDecodeHooks(t *testing.T) {
	t.Cleanup(Reset)

	rec := &recordingDecodeHooks{}
	SetDecodeHooks(rec)

	Decode().OnDecodeStart(context.Background(), "cat.gif", false)
	Decode().OnDecodeComplete(context.Background(), "cat.gif", 8, time.Second, nil)

	if rec.starts != 1 || rec.completes != 1 {
		t.Errorf("starts = %d, completes = %d, want 1 each", rec.starts, rec.completes)
	}
	if rec.lastPath != "cat.gif" {
		t.Errorf("lastPath = %q", rec.lastPath)
	}
}

func TestSetCacheHooks(t *testing.T) {
	t.Cleanup(Reset)

	rec := &recordingCacheHooks{}
	SetCacheHooks(rec)

	Cache().OnCacheHit(context.Background(), "file")
	Cache().OnCacheMiss(context.Background(), "file")
	Cache().OnCacheSet(context.Background(), "file", 10)

	if rec.hits != 1 || rec.misses != 1 || rec.sets != 1 {
		t.Errorf("hits/misses/sets = %d/%d/%d, want 1/1/1", rec.hits, rec.misses, rec.sets)
	}
}

func TestSetNilKeepsCurrent(t *testing.T) {
	t.Cleanup(Reset)

	rec := &recordingCacheHooks{}
	SetCacheHooks(rec)
	SetCacheHooks(nil)

	Cache().OnCacheHit(context.Background(), "file")
	if rec.hits != 1 {
		t.Error("nil registration should keep the previous hooks")
	}
}

func TestResetRestoresNoop(t *testing.T) {
	rec := &recordingCacheHooks{}
	SetCacheHooks(rec)
	Reset()

	Cache().OnCacheHit(context.Background(), "file")
	if rec.hits != 0 {
		t.Error("Reset should detach custom hooks")
	}
}
