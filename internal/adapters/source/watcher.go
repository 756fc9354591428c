package source

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/okian/scoutcalc/pkg/logger"
)

const defaultDebounce = 500 * time.Millisecond

// TriggerFunc is called when the watched file settles after a change.
type TriggerFunc func(ctx context.Context, reason string)

// Watcher calls a trigger whenever a file is written or replaced. Bursts of
// events are collapsed into one call after the debounce interval.
type Watcher struct {
	path     string
	trigger  TriggerFunc
	debounce time.Duration

	fs   *fsnotify.Watcher
	wg   sync.WaitGroup
	mu   sync.Mutex
	tmr  *time.Timer
	stop chan struct{}
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the quiet period before the trigger fires.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// NewWatcher creates a watcher for path.
func NewWatcher(path string, trigger TriggerFunc, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		path:     filepath.Clean(path),
		trigger:  trigger,
		debounce: defaultDebounce,
		stop:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start begins watching. The parent directory is watched so editors that
// replace the file by rename are still noticed.
func (w *Watcher) Start(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		_ = fw.Close()
		return fmt.Errorf("watch %s: %w", w.path, err)
	}
	w.fs = fw

	w.wg.Add(1)
	go w.loop(ctx)
	logger.Get().Info(ctx, "watching source file", logger.String("path", w.path))
	return nil
}

// Stop ends watching and waits for the event loop to exit.
func (w *Watcher) Stop() error {
	if w.fs == nil {
		return nil
	}
	close(w.stop)
	err := w.fs.Close()
	w.wg.Wait()

	w.mu.Lock()
	if w.tmr != nil {
		w.tmr.Stop()
	}
	w.mu.Unlock()
	return err
}

func (w *Watcher) loop(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				w.schedule(ctx, ev.Op.String())
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			logger.Get().Warn(ctx, "source watcher error", logger.Error(err))
		}
	}
}

func (w *Watcher) schedule(ctx context.Context, op string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.tmr != nil {
		w.tmr.Stop()
	}
	w.tmr = time.AfterFunc(w.debounce, func() {
		select {
		case <-w.stop:
			return
		default:
		}
		w.trigger(ctx, "file "+op)
	})
}
