package statechart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

var (
	ErrNotStarted       = errors.New("statechart not started")
	ErrStopped          = errors.New("statechart stopped")
	ErrMalformedPayload = errors.New("malformed event payload")
)

// Logger is the default logger used when none is provided
var Logger = slog.Default()

// TraceEntry records a run-to-completion step that changed the current state
type TraceEntry struct {
	Time    time.Time
	Trigger string
	From    State
	To      State
}

func (t TraceEntry) String() string {
	return fmt.Sprintf("e->%s() %s->%s", t.Trigger, t.From, t.To)
}

// Statechart is the ruler's hierarchical controller. Events are queued by any
// goroutine with Post and dispatched one at a time by whoever calls
// ProcessNext, normally Run on a dedicated goroutine.
type Statechart struct {
	name   string
	bus    *Bus
	logger *slog.Logger
	spy    func(string)

	queue *queue

	// held for the whole of Start and each ProcessNext, so at most one
	// dispatch is in flight
	step sync.Mutex

	mu      sync.RWMutex
	current State
	trace   []TraceEntry
	started bool

	// owned by the dispatching goroutine
	size     int
	stopping bool

	done     chan struct{}
	stopOnce sync.Once
}

// Option configures a Statechart
type Option func(*Statechart)

// WithName sets the name used in log lines
func WithName(name string) Option {
	return func(c *Statechart) {
		c.name = name
	}
}

// WithLogger sets the logger for the statechart
func WithLogger(logger *slog.Logger) Option {
	return func(c *Statechart) {
		c.logger = logger
	}
}

// WithSpy installs a callback that receives every dispatch step, e.g.
// "MOVE:horizontal", "MOVE:init", "MOVE:init:HANDLED", "<- Queued:(0)".
// It is called from the dispatching goroutine.
func WithSpy(fn func(string)) Option {
	return func(c *Statechart) {
		c.spy = fn
	}
}

// WithInitialSize sets the size index used on the first layout
func WithInitialSize(size int) Option {
	return func(c *Statechart) {
		c.size = size
	}
}

// New creates a statechart and registers it on bus
func New(bus *Bus, opts ...Option) *Statechart {
	c := &Statechart{
		name:    "statechart",
		bus:     bus,
		logger:  Logger,
		queue:   newQueue(),
		current: StateTop,
		size:    1,
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("statechart", c.name)
	bus.RegisterStatechart(c)
	return c
}

// State returns the current state
func (c *Statechart) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Trace returns the state changes so far, oldest first
func (c *Statechart) Trace() []TraceEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]TraceEntry(nil), c.trace...)
}

// Done is closed once the statechart has stopped processing events
func (c *Statechart) Done() <-chan struct{} {
	return c.done
}

// Post queues an event for asynchronous processing. It never blocks.
// Events posted after shutdown are dropped.
func (c *Statechart) Post(e Event) {
	if !c.queue.push(queued{event: e}) {
		c.logger.Debug("statechart stopped, dropping event", "event", e.Signal)
	}
}

// PostSync queues an event and waits until it has been dispatched. It returns
// the dispatch error, ErrStopped if the event was dropped by a shutdown, or
// the context's error.
func (c *Statechart) PostSync(ctx context.Context, e Event) error {
	done := make(chan error, 1)
	if !c.queue.push(queued{event: e, done: done}) {
		return ErrStopped
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Start enters the initial state: top, init, then horizontal by init's
// initial transition. Calling it again is a no-op.
func (c *Statechart) Start() error {
	c.step.Lock()
	defer c.step.Unlock()

	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return nil
	}
	c.started = true
	c.mu.Unlock()

	c.emit("START")
	c.logger.Debug("starting", "state", StateTop)
	if err := c.transition(StateInit); err != nil {
		return fmt.Errorf("failed to enter initial state: %w", err)
	}
	c.record("start", StateTop)
	c.emit(fmt.Sprintf("<- Queued:(%d)", c.queue.len()))
	return nil
}

// ProcessNext removes one event from the queue and dispatches it, waiting
// while the queue is empty. After a Shutdown has been dispatched it returns
// ErrStopped.
func (c *Statechart) ProcessNext(ctx context.Context) error {
	c.mu.RLock()
	started := c.started
	c.mu.RUnlock()
	if !started {
		return ErrNotStarted
	}

	c.step.Lock()
	it, err := c.queue.pop(ctx)
	if err != nil {
		c.step.Unlock()
		return err
	}

	from := c.State()
	c.logger.Debug("processing event", "event", it.event.Signal, "state", from)
	err = c.dispatch(it.event)
	if err == nil {
		c.record(it.event.Signal.String(), from)
	}
	c.emit(fmt.Sprintf("<- Queued:(%d)", c.queue.len()))
	if c.stopping {
		// close the queue before another caller can take the step
		c.stop()
	}
	c.step.Unlock()

	if it.done != nil {
		it.done <- err
	}
	return err
}

// Run starts the statechart and processes events until a Shutdown is
// dispatched (nil), ctx is cancelled (ctx.Err()) or a dispatch fails.
// Queued events are dropped when Run returns.
func (c *Statechart) Run(ctx context.Context) error {
	defer c.stop()

	if err := c.Start(); err != nil {
		return err
	}
	for {
		err := c.ProcessNext(ctx)
		switch {
		case err == nil:
		case errors.Is(err, ErrStopped):
			return nil
		default:
			c.logger.Error("event loop stopped", "error", err)
			return err
		}
	}
}

func (c *Statechart) stop() {
	c.stopOnce.Do(func() {
		rest := c.queue.close()
		for _, it := range rest {
			if it.done != nil {
				it.done <- ErrStopped
			}
		}
		if len(rest) > 0 {
			c.logger.Debug("dropped queued events on shutdown", "count", len(rest))
		}
		close(c.done)
	})
}

// dispatch offers e to the current state and then to its superstates until
// one of them takes it. Events nobody takes are dropped at top.
func (c *Statechart) dispatch(e Event) error {
	for s := c.State(); s != StateNone; s = s.Super() {
		c.emit(fmt.Sprintf("%s:%s", e.Signal, s))
		r, err := handlers[s](c, e)
		if err != nil {
			return err
		}
		switch r.status {
		case Handled:
			c.emit(fmt.Sprintf("%s:%s:HANDLED", e.Signal, s))
			return nil
		case Unhandled:
			c.logger.Debug("event discarded", "event", e.Signal, "state", s)
			return nil
		case Transition:
			return c.transition(r.target)
		}
	}
	return nil
}

// transition exits from the current state up to the least common ancestor
// with target, enters down to target and then gives target its InitSignal.
func (c *Statechart) transition(target State) error {
	from := c.State()
	ancestor := lca(from, target)
	c.logger.Debug("executing transition", "from", from, "to", target, "lca", ancestor)

	for s := from; s != ancestor && s != StateNone; s = s.Super() {
		if _, err := c.lifecycle(s, ExitSignal); err != nil {
			return fmt.Errorf("exit %s: %w", s, err)
		}
	}

	for _, s := range pathFrom(ancestor, target) {
		if _, err := c.lifecycle(s, EntrySignal); err != nil {
			return fmt.Errorf("enter %s: %w", s, err)
		}
	}

	c.mu.Lock()
	c.current = target
	c.mu.Unlock()

	r, err := c.lifecycle(target, InitSignal)
	if err != nil {
		return fmt.Errorf("init %s: %w", target, err)
	}
	if r.status == Transition {
		return c.transition(r.target)
	}
	return nil
}

func (c *Statechart) lifecycle(s State, sig Signal) (result, error) {
	c.emit(fmt.Sprintf("%s:%s", sig, s))
	return handlers[s](c, Event{Signal: sig})
}

// pathFrom returns the states below ancestor down to target, outermost first
func pathFrom(ancestor, target State) []State {
	var path []State
	for s := target; s != ancestor && s != StateNone; s = s.Super() {
		path = append([]State{s}, path...)
	}
	return path
}

func (c *Statechart) record(trigger string, from State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == from {
		return
	}
	c.trace = append(c.trace, TraceEntry{
		Time:    time.Now(),
		Trigger: trigger,
		From:    from,
		To:      c.current,
	})
}

func (c *Statechart) emit(s string) {
	if c.spy != nil {
		c.spy(s)
	}
}
