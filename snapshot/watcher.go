package snapshot

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/teranos/tagweb/errors"
	"github.com/teranos/tagweb/logger"
)

// ReloadFunc receives a freshly loaded, valid snapshot
type ReloadFunc func(*File)

// Watcher reloads a snapshot file whenever it changes on disk. Invalid
// edits are logged and skipped; the last good snapshot stays in effect.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	onReload ReloadFunc
	debounce time.Duration
	logger   *zap.SugaredLogger

	mu    sync.Mutex
	timer *time.Timer
	done  chan struct{}
	wg    sync.WaitGroup
}

// NewWatcher watches path. The parent directory is watched so that
// editors replacing the file by rename are noticed.
func NewWatcher(path string, onReload ReloadFunc, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve %s", path)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, errors.Wrapf(err, "failed to watch %s", filepath.Dir(abs))
	}
	return &Watcher{
		path:     abs,
		watcher:  fw,
		onReload: onReload,
		debounce: debounce,
		logger:   logger.Logger.Named("snapshot.watcher"),
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching in the background
func (w *Watcher) Start() {
	w.wg.Add(1)
	go w.watchLoop()
}

func (w *Watcher) watchLoop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Debugw("Snapshot file changed", logger.FieldFile, event.Name, "op", event.Op.String())
			w.scheduleReload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warnw("Snapshot watcher error", logger.FieldError, err)
		}
	}
}

// scheduleReload collapses bursts of events into one reload
func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	select {
	case <-w.done:
		return
	default:
	}

	f, err := Load(w.path)
	if err != nil {
		w.logger.Warnw("Snapshot reload failed, keeping previous snapshot", logger.FieldFile, w.path, logger.FieldError, err)
		return
	}
	w.logger.Infow("Snapshot reloaded",
		logger.FieldFile, w.path,
		logger.FieldNodes, len(f.Tags),
		logger.FieldLinks, len(f.Relations),
	)
	w.onReload(f)
}

// Stop ends watching. Pending reloads are cancelled.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	select {
	case <-w.done:
		w.mu.Unlock()
		return nil
	default:
	}
	close(w.done)
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	err := w.watcher.Close()
	w.wg.Wait()
	return err
}
