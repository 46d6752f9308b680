package imaging

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/blockboard/blockboard/pkg/observability"
)

// Result is one finished decode. Err is set when the decode failed; the
// remaining fields mirror the request so the caller can match results back
// to waiting blocks by path.
type Result struct {
	Path         string
	Loaded       *Loaded
	FullSequence bool
	Err          error
}

type request struct {
	path           string
	firstFrameOnly bool
}

// Loader decodes images on a fixed pool of workers.
type Loader struct {
	requests chan request
	results  chan Result

	maxDimension int
	logger       *log.Logger

	wg        sync.WaitGroup
	closeOnce sync.Once
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithMaxDimension scales decoded frames down to fit the given dimension.
func WithMaxDimension(px int) LoaderOption {
	return func(l *Loader) { l.maxDimension = px }
}

// WithLogger attaches a logger for decode failures and slow paths.
func WithLogger(logger *log.Logger) LoaderOption {
	return func(l *Loader) { l.logger = logger }
}

// NewLoader starts a loader with the given number of workers. Workers below
// one are bumped to one.
func NewLoader(workers int, opts ...LoaderOption) *Loader {
	if workers < 1 {
		workers = 1
	}
	l := &Loader{
		requests: make(chan request, 64),
		results:  make(chan Result, 64),
	}
	for _, opt := range opts {
		opt(l)
	}
	for i := 0; i < workers; i++ {
		l.wg.Add(1)
		go l.work()
	}
	return l
}

func (l *Loader) work() {
	defer l.wg.Done()
	ctx := context.Background()
	for req := range l.requests {
		observability.Decode().OnDecodeStart(ctx, req.path, req.firstFrameOnly)
		start := time.Now()
		loaded, err := Decode(req.path, l.maxDimension, req.firstFrameOnly)
		frames := 0
		if loaded != nil {
			frames = len(loaded.Frames)
		}
		observability.Decode().OnDecodeComplete(ctx, req.path, frames, time.Since(start), err)
		if err != nil && l.logger != nil {
			l.logger.Error("image decode failed", "path", req.path, "error", err)
		}
		l.results <- Result{
			Path:         req.path,
			Loaded:       loaded,
			FullSequence: !req.firstFrameOnly,
			Err:          err,
		}
	}
}

// Load queues a decode. With firstFrameOnly set, animated formats return
// just their first frame. Load blocks only when the request queue is full.
func (l *Loader) Load(path string, firstFrameOnly bool) {
	l.requests <- request{path: path, firstFrameOnly: firstFrameOnly}
}

// Drain collects every result available right now without blocking. It
// returns nil when nothing has finished since the last call.
func (l *Loader) Drain() []Result {
	var out []Result
	for {
		select {
		case r := <-l.results:
			out = append(out, r)
		default:
			return out
		}
	}
}

// Close stops accepting work and waits for in-flight decodes to finish.
// Pending results remain drainable after Close returns.
func (l *Loader) Close() {
	l.closeOnce.Do(func() {
		close(l.requests)
		l.wg.Wait()
	})
}
