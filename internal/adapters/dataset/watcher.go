package dataset

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/okian/unirank/pkg/logger"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher calls onChange once a burst of writes to the dataset file settles.
// It watches the parent directory so that editors replacing the file are
// noticed too.
type Watcher struct {
	path     string
	debounce time.Duration
	onChange func(context.Context)
	logger   logger.Logger

	watcher  *fsnotify.Watcher
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WithDebounce sets the quiet period before onChange fires.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithWatchLogger sets the watcher logger.
func WithWatchLogger(log logger.Logger) WatchOption {
	return func(w *Watcher) {
		if log != nil {
			w.logger = log
		}
	}
}

// NewWatcher creates a watcher for path.
func NewWatcher(path string, onChange func(context.Context), opts ...WatchOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	w := &Watcher{
		path:     abs,
		debounce: defaultDebounce,
		onChange: onChange,
		logger:   logger.Discard(),
		stopChan: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	w.watcher = fw
	return w, nil
}

// Start runs the event loop until ctx is done or Close is called.
func (w *Watcher) Start(ctx context.Context) {
	w.wg.Add(1)
	go w.run(ctx)
}

func (w *Watcher) run(ctx context.Context) {
	defer w.wg.Done()
	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug(ctx, "dataset changed", logger.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			timerC = timer.C
		case <-timerC:
			timerC = nil
			w.onChange(ctx)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn(ctx, "dataset watcher error", logger.Error(err))
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	name, err := filepath.Abs(event.Name)
	if err != nil || name != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

// Close stops the loop and releases the OS watcher.
func (w *Watcher) Close() error {
	select {
	case <-w.stopChan:
		return nil
	default:
		close(w.stopChan)
	}
	w.wg.Wait()
	return w.watcher.Close()
}
