package view

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/tagweb/errors"
	"github.com/teranos/tagweb/graph"
	"github.com/teranos/tagweb/interact"
	"github.com/teranos/tagweb/logger"
	"github.com/teranos/tagweb/physics"
	"github.com/teranos/tagweb/render"
)

// ErrStopped is returned by Do once the engine has stopped
var ErrStopped = errors.New("view engine stopped")

// Presenter receives the scene after every simulation step and every
// interaction that changed something. It runs on the engine goroutine and
// must not retain the scene.
type Presenter interface {
	Present(scene *Scene)
}

// effect tells the loop what a command did to the scene
type effect int

const (
	effectNone effect = iota
	effectRedraw
	effectRebuild
)

type command struct {
	fn   func(*Scene) effect
	done chan struct{}
}

// EngineConfig contains configuration for the simulation loop
type EngineConfig struct {
	Interval time.Duration // Time between simulation steps (default: 50ms)
}

// DefaultEngineConfig returns the 20 steps per second cadence
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{Interval: 50 * time.Millisecond}
}

// Engine owns a Scene on a single goroutine. A ticker drives simulation
// steps; every other access is posted onto the same loop, so the scene is
// never touched concurrently.
type Engine struct {
	scene     *Scene
	presenter Presenter
	interval  time.Duration

	cmds     chan command
	stopped  chan struct{}
	stopOnce sync.Once
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	mu       sync.Mutex
	running  bool
	logger   *zap.SugaredLogger
}

// NewEngine wraps scene. presenter may be nil.
func NewEngine(scene *Scene, cfg EngineConfig, presenter Presenter, log *zap.SugaredLogger) *Engine {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultEngineConfig().Interval
	}
	if log == nil {
		log = logger.Logger
	}
	return &Engine{
		scene:     scene,
		presenter: presenter,
		interval:  cfg.Interval,
		cmds:      make(chan command, 64),
		stopped:   make(chan struct{}),
		logger:    log.Named("view.engine"),
	}
}

// Start begins the simulation loop. It returns immediately; the loop runs
// until ctx is cancelled or Stop is called.
func (e *Engine) Start(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return
	}
	select {
	case <-e.stopped:
		return // not restartable
	default:
	}

	loopCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.running = true

	e.wg.Add(1)
	go e.run(loopCtx)
	e.logger.Infow("View engine started", logger.FieldInterval, e.interval)
}

// Stop cancels the loop and waits for it to exit. After Stop returns the
// scene is no longer mutated and every later call reports ErrStopped, even
// when the engine was never started.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.markStopped()
		e.mu.Unlock()
		return
	}
	e.running = false
	e.cancel()
	e.mu.Unlock()

	e.wg.Wait()
	e.logger.Infow("View engine stopped", logger.FieldSteps, e.scene.Steps())
}

// run is the main loop
func (e *Engine) run(ctx context.Context) {
	defer e.wg.Done()
	defer e.markStopped()

	ticker := time.NewTicker(e.interval)
	defer func() { ticker.Stop() }()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			e.scene.Step()
			e.present()

		case cmd := <-e.cmds:
			switch cmd.fn(e.scene) {
			case effectRebuild:
				// The old node set is gone; never step it again
				ticker.Stop()
				ticker = time.NewTicker(e.interval)
				e.present()
			case effectRedraw:
				e.present()
			}
			if cmd.done != nil {
				close(cmd.done)
			}
		}
	}
}

func (e *Engine) markStopped() {
	e.stopOnce.Do(func() { close(e.stopped) })
}

// isStopped lets callers fail fast; select picks ready cases at random
func (e *Engine) isStopped() bool {
	select {
	case <-e.stopped:
		return true
	default:
		return false
	}
}

func (e *Engine) present() {
	if e.presenter != nil {
		e.presenter.Present(e.scene)
	}
}

// post queues fn without waiting. Commands after Stop are dropped.
func (e *Engine) post(fn func(*Scene) effect) {
	if e.isStopped() {
		return
	}
	select {
	case e.cmds <- command{fn: fn}:
	case <-e.stopped:
	}
}

// Do runs fn on the engine goroutine and waits for it. Use it to read
// scene state from other goroutines.
func (e *Engine) Do(fn func(*Scene)) error {
	cmd := command{
		fn: func(s *Scene) effect {
			fn(s)
			return effectNone
		},
		done: make(chan struct{}),
	}
	if e.isStopped() {
		return ErrStopped
	}
	select {
	case e.cmds <- cmd:
	case <-e.stopped:
		return ErrStopped
	}
	select {
	case <-cmd.done:
		return nil
	case <-e.stopped:
		return ErrStopped
	}
}

// SetSnapshot replaces the host data
func (e *Engine) SetSnapshot(snap graph.Snapshot) {
	e.post(func(s *Scene) effect {
		s.SetSnapshot(snap)
		return effectRebuild
	})
}

// SetFilter changes the visible links
func (e *Engine) SetFilter(f graph.FilterState) {
	e.post(func(s *Scene) effect {
		s.SetFilter(f)
		return effectRebuild
	})
}

// Resize changes the surface size
func (e *Engine) Resize(width, height float64) {
	e.post(func(s *Scene) effect {
		s.Resize(width, height)
		return effectRebuild
	})
}

// HandlePointer forwards a pointer event
func (e *Engine) HandlePointer(ev interact.PointerEvent) {
	e.post(func(s *Scene) effect {
		if s.HandlePointer(ev) {
			return effectRedraw
		}
		return effectNone
	})
}

func (e *Engine) ZoomIn()  { e.postRedraw((*Scene).ZoomIn) }
func (e *Engine) ZoomOut() { e.postRedraw((*Scene).ZoomOut) }
func (e *Engine) Reset()   { e.postRedraw((*Scene).Reset) }

// SelectTag sets the selection from the host
func (e *Engine) SelectTag(id string) {
	e.postRedraw(func(s *Scene) { s.SelectTag(id) })
}

// OnTagSelect registers the selection callback. It runs on the engine
// goroutine.
func (e *Engine) OnTagSelect(fn SelectFunc) {
	e.post(func(s *Scene) effect {
		s.OnTagSelect(fn)
		return effectNone
	})
}

// Retune swaps physics, style and zoom limits on the running scene
func (e *Engine) Retune(cfg physics.Config, style render.Style, limits interact.Limits) {
	e.postRedraw(func(s *Scene) {
		s.SetPhysics(cfg)
		s.SetStyle(style)
		s.SetLimits(limits)
	})
}

func (e *Engine) postRedraw(fn func(*Scene)) {
	e.post(func(s *Scene) effect {
		fn(s)
		return effectRedraw
	})
}
