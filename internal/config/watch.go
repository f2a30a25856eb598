package config

import (
	"context"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits after the last write before
// reloading, so editors that save in several steps cause one reload.
const DefaultDebounce = 100 * time.Millisecond

// Update is sent by a Watcher after the config file changed. Err is set when
// the new file could not be loaded; the previous config stays in effect.
type Update struct {
	Config *Config
	Err    error
}

// Watcher reloads the config whenever its file is written.
type Watcher struct {
	Debounce time.Duration

	cfg     *Config
	logger  *log.Logger
	watcher *fsnotify.Watcher
	updates chan Update
}

// NewWatcher watches the directory holding cfg.ConfigFile. The directory is
// watched rather than the file so that rename-based saves are seen.
func NewWatcher(cfg *Config, logger *log.Logger) (*Watcher, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(cfg.ConfigFile)); err != nil {
		fw.Close()
		return nil, err
	}
	return &Watcher{
		Debounce: DefaultDebounce,
		cfg:      cfg,
		logger:   logger,
		watcher:  fw,
		updates:  make(chan Update, 1),
	}, nil
}

// Updates returns the channel reloaded configs are delivered on. It is
// closed when Run returns.
func (w *Watcher) Updates() <-chan Update {
	return w.updates
}

// Run delivers updates until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	defer close(w.updates)

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		target  = filepath.Clean(w.cfg.ConfigFile)
		reloads = 0
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
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.Debounce)
			} else {
				timer.Reset(w.Debounce)
			}
			timerC = timer.C
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watch error", "error", err)
		case <-timerC:
			timerC = nil
			reloads++
			next, err := w.cfg.Reload()
			if err != nil {
				w.logger.Error("config reload failed", "path", target, "error", err)
				w.send(ctx, Update{Err: err})
				continue
			}
			w.cfg = next
			w.logger.Info("config reloaded", "path", target, "reloads", reloads)
			w.send(ctx, Update{Config: next})
		}
	}
}

func (w *Watcher) send(ctx context.Context, u Update) {
	select {
	case w.updates <- u:
	case <-ctx.Done():
	}
}

// Close stops watching. Run returns once the underlying event channels close.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
