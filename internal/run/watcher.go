package run

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// errWatchDone signals between watcher goroutines that a terminal
// observation was recorded.
var errWatchDone = errors.New("watch done")

// WatchResult is the terminal observation of an engine run's output log.
type WatchResult struct {
	Completed bool
	Reason    string
}

// Watcher observes one output log for append activity and a completion
// marker. The log may not exist yet when watching starts; the engine
// creates it some time after launch, so absence is tolerated. Filesystem
// notifications are backed by a poll ticker that also detects a log that
// stopped growing without ever reaching the marker.
type Watcher struct {
	path   string
	marker string
	poll   time.Duration
	stall  time.Duration
	log    *zap.Logger

	mu       sync.Mutex
	result   WatchResult
	lastSize int64
	lastGrew time.Time
}

// NewWatcher creates a watcher for an output log path. Zero poll and stall
// values fall back to one second and fifteen minutes.
func NewWatcher(path, marker string, poll, stall time.Duration, log *zap.Logger) *Watcher {
	if marker == "" {
		marker = DefaultMarker
	}
	if poll <= 0 {
		poll = time.Second
	}
	if stall <= 0 {
		stall = 15 * time.Minute
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{path: path, marker: marker, poll: poll, stall: stall, log: log}
}

// Wait blocks until the marker appears, the log stalls without one, or ctx
// is canceled. Cancellation returns ctx.Err() and the watcher exits without
// recording a result.
func (w *Watcher) Wait(ctx context.Context) (WatchResult, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return WatchResult{}, err
	}
	defer fw.Close()

	// Watch the directory rather than the file: the log usually does not
	// exist yet at launch time.
	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		w.log.Warn("fsnotify unavailable, relying on polling",
			zap.String("dir", dir), zap.Error(err))
	}

	w.mu.Lock()
	w.lastGrew = time.Now()
	w.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case ev, ok := <-fw.Events:
				if !ok {
					return nil
				}
				if ev.Name != w.path || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if w.scan() {
					return errWatchDone
				}
			case err, ok := <-fw.Errors:
				if !ok {
					return nil
				}
				w.log.Warn("watch error", zap.String("path", w.path), zap.Error(err))
			}
		}
	})

	g.Go(func() error {
		ticker := time.NewTicker(w.poll)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-ticker.C:
				if w.scan() {
					return errWatchDone
				}
			}
		}
	})

	err = g.Wait()
	if errors.Is(err, errWatchDone) {
		w.mu.Lock()
		defer w.mu.Unlock()
		return w.result, nil
	}
	return WatchResult{}, err
}

// scan checks the log once and reports whether the watch is finished. It
// tracks growth for stall detection and looks for the completion marker.
func (w *Watcher) scan() bool {
	info, err := os.Stat(w.path)
	if err != nil {
		// Not created yet; startup latency is expected.
		return false
	}

	w.mu.Lock()
	if info.Size() != w.lastSize {
		w.lastSize = info.Size()
		w.lastGrew = time.Now()
	}
	stalled := time.Since(w.lastGrew) > w.stall
	w.mu.Unlock()

	data, err := os.ReadFile(w.path)
	if err != nil {
		return false
	}
	if strings.Contains(string(data), w.marker) {
		w.finish(WatchResult{Completed: true, Reason: "completion marker found"})
		return true
	}
	if stalled {
		w.finish(WatchResult{Completed: false, Reason: "log stopped growing without a completion marker"})
		return true
	}
	return false
}

func (w *Watcher) finish(res WatchResult) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.result = res
}
