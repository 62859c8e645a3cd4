package am

import (
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/teranos/tagweb/errors"
	"github.com/teranos/tagweb/logger"
)

// ReloadCallback receives the configuration loaded after am.toml changed.
// An error is logged; the remaining callbacks still run.
type ReloadCallback func(*Config) error

// ConfigWatcher re-reads the configuration cascade when am.toml changes so a
// running view can be retuned without a restart
type ConfigWatcher struct {
	path     string
	fs       *fsnotify.Watcher
	debounce time.Duration
	logger   *zap.SugaredLogger

	// Set by SetValue; the next debounced reload is skipped
	selfWrite atomic.Bool

	mu        sync.Mutex
	callbacks []ReloadCallback
	timer     *time.Timer
	done      chan struct{}
	wg        sync.WaitGroup
}

var (
	activeWatcher   *ConfigWatcher
	activeWatcherMu sync.Mutex
)

// NewConfigWatcher watches configPath. Its directory is watched rather than
// the file, so backups, staged writes and editor renames are told apart by
// name.
func NewConfigWatcher(configPath string, debounce time.Duration) (*ConfigWatcher, error) {
	abs, err := filepath.Abs(configPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve %s", configPath)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, errors.Wrapf(err, "failed to watch %s", filepath.Dir(abs))
	}

	return &ConfigWatcher{
		path:     abs,
		fs:       fw,
		debounce: debounce,
		logger:   logger.ComponentLogger("am.watcher"),
		done:     make(chan struct{}),
	}, nil
}

// OnReload adds fn to the callbacks run after every successful reload
func (cw *ConfigWatcher) OnReload(fn ReloadCallback) {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	cw.callbacks = append(cw.callbacks, fn)
}

// MarkOwnWrite tells the watcher that the next change is tagweb's own
// `am set`, which must not bounce back as a reload
func (cw *ConfigWatcher) MarkOwnWrite() {
	cw.selfWrite.Store(true)
}

// Start watches in the background until Stop
func (cw *ConfigWatcher) Start() {
	cw.wg.Add(1)
	go cw.loop()
}

func (cw *ConfigWatcher) loop() {
	defer cw.wg.Done()
	for {
		select {
		case <-cw.done:
			return

		case ev, ok := <-cw.fs.Events:
			if !ok {
				return
			}
			if !cw.concerns(ev) {
				continue
			}
			cw.logger.Debugw("am.toml changed", logger.FieldFile, ev.Name, "op", ev.Op.String())
			cw.schedule()

		case err, ok := <-cw.fs.Errors:
			if !ok {
				return
			}
			cw.logger.Warnw("Config watch error", logger.FieldError, err)
		}
	}
}

// concerns reports whether ev touches the watched file's content
func (cw *ConfigWatcher) concerns(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != cw.path {
		return false
	}
	return ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

// schedule restarts the debounce timer; a burst of events yields one reload
func (cw *ConfigWatcher) schedule() {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	select {
	case <-cw.done:
		return
	default:
	}
	if cw.timer != nil {
		cw.timer.Stop()
	}
	cw.timer = time.AfterFunc(cw.debounce, cw.reload)
}

// reload rebuilds the configuration and hands it to the callbacks. When the
// edit does not validate, callbacks are not run and the running view keeps
// its settings.
func (cw *ConfigWatcher) reload() {
	select {
	case <-cw.done:
		return
	default:
	}
	if cw.selfWrite.Swap(false) {
		cw.logger.Debugw("Skipping reload of own write", logger.FieldFile, cw.path)
		return
	}

	Reset()
	cfg, err := Load()
	if err != nil {
		cw.logger.Warnw("Ignoring invalid am.toml edit", logger.FieldFile, cw.path, logger.FieldError, err)
		return
	}

	cw.mu.Lock()
	callbacks := append([]ReloadCallback(nil), cw.callbacks...)
	cw.mu.Unlock()

	cw.logger.Infow("Configuration reloaded", logger.FieldFile, cw.path, "callbacks", len(callbacks))
	for _, fn := range callbacks {
		if err := fn(cfg); err != nil {
			cw.logger.Warnw("Reload callback failed", logger.FieldError, err)
		}
	}
}

// Stop ends watching and cancels a pending reload. Calling it twice is safe.
func (cw *ConfigWatcher) Stop() error {
	cw.mu.Lock()
	select {
	case <-cw.done:
		cw.mu.Unlock()
		return nil
	default:
	}
	close(cw.done)
	if cw.timer != nil {
		cw.timer.Stop()
	}
	cw.mu.Unlock()

	err := cw.fs.Close()
	cw.wg.Wait()
	return err
}

// SetGlobalWatcher registers the watcher that SetValue notifies before it
// writes. nil unregisters.
func SetGlobalWatcher(w *ConfigWatcher) {
	activeWatcherMu.Lock()
	defer activeWatcherMu.Unlock()
	activeWatcher = w
}

// GetGlobalWatcher returns the registered watcher, or nil
func GetGlobalWatcher() *ConfigWatcher {
	activeWatcherMu.Lock()
	defer activeWatcherMu.Unlock()
	return activeWatcher
}
