package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Defaults applied to zero Options fields.
const (
	DefaultDebounce          = 500 * time.Millisecond
	DefaultPollInterval      = 10 * time.Second
	DefaultCompletionTimeout = 60 * time.Second
)

// =============================================================================
// EMITTER
// =============================================================================

// Emitter delivers watcher notifications. Delivery is fire-and-forget.
type Emitter interface {
	Emit(event string, payload any)
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func(event string, payload any)

// Emit calls f.
func (f EmitterFunc) Emit(event string, payload any) { f(event, payload) }

// =============================================================================
// ENGINE
// =============================================================================

// Options configures an Engine.
type Options struct {
	Root              string
	Debounce          time.Duration
	PollInterval      time.Duration
	CompletionTimeout time.Duration
	Now               func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Debounce <= 0 {
		o.Debounce = DefaultDebounce
	}
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.CompletionTimeout <= 0 {
		o.CompletionTimeout = DefaultCompletionTimeout
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// started is the process-wide start latch: however many engines are
// created, at most one watch runs per process.
var started atomic.Bool

// Engine runs the background watch over the archive root.
type Engine struct {
	opts    Options
	emitter Emitter
	running atomic.Bool
}

// New creates an idle engine. Only the first engine to start successfully
// in a process ever runs.
func New(emitter Emitter, opts Options) *Engine {
	return &Engine{opts: opts.withDefaults(), emitter: emitter}
}

// Running reports whether the background watch is alive. Start never returns
// an error, so this is how callers tell a degraded engine from a working one.
func (e *Engine) Running() bool {
	return e.running.Load()
}

// Start begins watching in the background until ctx is cancelled. Calling it
// again, on this or any other engine, after a start attempt went ahead is a
// no-op. A missing root leaves
// the engine idle and startable; a failure to set up the watch is logged and
// leaves it permanently idle.
func (e *Engine) Start(ctx context.Context) {
	if !started.CompareAndSwap(false, true) {
		log.Debug().Msg("watcher already started")
		return
	}

	info, err := os.Stat(e.opts.Root)
	if err != nil || !info.IsDir() {
		log.Warn().Str("root", e.opts.Root).Msg("watch root does not exist, watcher not started")
		started.Store(false)
		return
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		log.Error().Err(err).Msg("failed to create file watcher")
		return
	}
	if err := addTree(w, e.opts.Root); err != nil {
		log.Error().Err(err).Str("root", e.opts.Root).Msg("failed to watch directory")
		w.Close()
		return
	}

	e.running.Store(true)
	go func() {
		defer e.running.Store(false)
		defer w.Close()
		e.run(ctx, w)
	}()
	log.Info().Str("root", e.opts.Root).Msg("watcher started")
}

// run is the engine loop. Paths are coalesced over a fixed window that opens
// with the first path after a flush; later events do not extend it.
func (e *Engine) run(ctx context.Context, w *fsnotify.Watcher) {
	state := newActivity(e.opts.CompletionTimeout, e.opts.Now)
	pending := newPathSet()

	var window <-chan time.Time
	poll := time.NewTicker(e.opts.PollInterval)
	defer poll.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addTree(w, event.Name); err != nil {
						log.Debug().Err(err).Str("dir", event.Name).Msg("failed to watch new directory")
					}
				}
			}
			pending.add(event.Name)
			if window == nil {
				window = time.After(e.opts.Debounce)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("watch error")

		case <-window:
			window = nil
			if ctx.Err() != nil {
				return
			}
			e.process(state, pending.drain())
			e.sweep(state)

		case <-poll.C:
			if ctx.Err() != nil {
				return
			}
			e.sweep(state)
		}
	}
}

// process emits each event kind raised by the batch once and refreshes the
// activity of the session files it touched.
func (e *Engine) process(state *activity, paths []string) {
	for _, event := range Events(paths) {
		e.emitter.Emit(event, nil)
	}
	state.touch(paths)
}

// sweep announces every session that has been quiet past the timeout.
func (e *Engine) sweep(state *activity) {
	for _, sessionID := range state.expire() {
		log.Debug().Str("session", sessionID).Msg("session completed")
		e.emitter.Emit(EventSessionCompleted, sessionID)
	}
}

// addTree watches dir and every directory below it.
func addTree(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.Add(path); err != nil {
			if path == dir {
				return err
			}
			log.Debug().Err(err).Str("dir", path).Msg("failed to watch directory")
		}
		return nil
	})
}

// =============================================================================
// PENDING PATHS
// =============================================================================

// pathSet collects the distinct paths seen during one window in the order
// they first arrived. It is owned by the engine loop.
type pathSet struct {
	seen  map[string]struct{}
	order []string
}

func newPathSet() *pathSet {
	return &pathSet{seen: make(map[string]struct{})}
}

func (s *pathSet) add(path string) {
	if _, ok := s.seen[path]; ok {
		return
	}
	s.seen[path] = struct{}{}
	s.order = append(s.order, path)
}

// drain returns the collected paths and empties the set.
func (s *pathSet) drain() []string {
	out := s.order
	s.seen = make(map[string]struct{})
	s.order = nil
	return out
}
