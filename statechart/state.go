package statechart

import "fmt"

// State is one of the statechart's states
type State int

const (
	// StateNone is the superstate of StateTop
	StateNone State = iota - 1
	// StateTop is the implicit root; it discards everything it does not know
	StateTop
	// StateInit is the transient entry state; it owns orientation independent signals
	StateInit
	StateHorizontal
	StateVertical
)

func (s State) String() string {
	switch s {
	case StateNone:
		return "none"
	case StateTop:
		return "top"
	case StateInit:
		return "init"
	case StateHorizontal:
		return "horizontal"
	case StateVertical:
		return "vertical"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// superstates is the static hierarchy. It is never mutated.
var superstates = map[State]State{
	StateTop:        StateNone,
	StateInit:       StateTop,
	StateHorizontal: StateInit,
	StateVertical:   StateInit,
}

// Super returns the superstate of s, StateNone for StateTop or unknown states
func (s State) Super() State {
	if p, ok := superstates[s]; ok {
		return p
	}
	return StateNone
}

// Ancestors returns s followed by its superstates up to and including StateTop
func (s State) Ancestors() []State {
	var path []State
	for cur := s; cur != StateNone; cur = cur.Super() {
		path = append(path, cur)
	}
	return path
}

// lca returns the least common ancestor of a and b
func lca(a, b State) State {
	if a == b {
		return a
	}
	seen := make(map[State]bool)
	for _, s := range a.Ancestors() {
		seen[s] = true
	}
	for _, s := range b.Ancestors() {
		if seen[s] {
			return s
		}
	}
	return StateNone
}

// Status is the outcome of a state handler
type Status int

const (
	Handled Status = iota
	Unhandled
	Super
	Transition
)

func (s Status) String() string {
	switch s {
	case Handled:
		return "HANDLED"
	case Unhandled:
		return "UNHANDLED"
	case Super:
		return "SUPER"
	case Transition:
		return "TRANSITION"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// result is what a handler returns: a status and, for Transition, the target
type result struct {
	status Status
	target State
}

var (
	handled   = result{status: Handled}
	unhandled = result{status: Unhandled}
	super     = result{status: Super}
)

func trans(target State) result {
	return result{status: Transition, target: target}
}

type handler func(c *Statechart, e Event) (result, error)

// handlers is the dispatch table
var handlers = map[State]handler{
	StateTop:        (*Statechart).top,
	StateInit:       (*Statechart).initial,
	StateHorizontal: (*Statechart).horizontal,
	StateVertical:   (*Statechart).vertical,
}

func (c *Statechart) top(e Event) (result, error) {
	switch e.Signal {
	case EntrySignal, ExitSignal, InitSignal:
		return handled, nil
	}
	return unhandled, nil
}

func (c *Statechart) initial(e Event) (result, error) {
	switch e.Signal {
	case EntrySignal, ExitSignal:
		return handled, nil
	case InitSignal:
		return trans(StateHorizontal), nil
	case Move:
		p, ok := e.Payload.(MovePayload)
		if !ok {
			return handled, malformed(e, StateInit)
		}
		if err := c.bus.Surface().Move(p.DX, p.DY, p.Speedup); err != nil {
			return handled, fmt.Errorf("move: %w", err)
		}
		return handled, nil
	case Shutdown:
		c.stopping = true
		if err := c.bus.Surface().Quit(); err != nil {
			return handled, fmt.Errorf("quit: %w", err)
		}
		return handled, nil
	}
	return super, nil
}

func (c *Statechart) horizontal(e Event) (result, error) {
	return c.oriented(e, StateHorizontal)
}

func (c *Statechart) vertical(e Event) (result, error) {
	return c.oriented(e, StateVertical)
}

// oriented implements the horizontal and vertical states, which differ only in
// the axis they redraw and which pointer coordinate they report.
func (c *Statechart) oriented(e Event, self State) (result, error) {
	s := c.bus.Surface()
	axis, other := AxisHorizontal, StateVertical
	layout := s.MakeHorizontal
	if self == StateVertical {
		axis, other = AxisVertical, StateHorizontal
		layout = s.MakeVertical
	}

	switch e.Signal {
	case EntrySignal, ExitSignal:
		return handled, nil
	case InitSignal:
		if err := layout(c.size); err != nil {
			return handled, fmt.Errorf("layout %s: %w", axis, err)
		}
		return handled, nil
	case ToggleOrientation:
		return trans(other), nil
	case SetSize1, SetSize2, SetSize3:
		n, _ := sizeIndex(e.Signal)
		c.size = n
		if err := layout(n); err != nil {
			return handled, fmt.Errorf("layout %s size %d: %w", axis, n, err)
		}
		return handled, nil
	case PointerMoved:
		p, ok := e.Payload.(PointerPayload)
		if !ok {
			return handled, malformed(e, self)
		}
		pos := p.X
		if axis == AxisVertical {
			pos = p.Y
		}
		if err := s.UpdatePositionMarker(pos, axis); err != nil {
			return handled, fmt.Errorf("position marker: %w", err)
		}
		return handled, nil
	case ShowExternalMarker:
		if err := s.ShowExternalMarker(); err != nil {
			return handled, fmt.Errorf("show external marker: %w", err)
		}
		return handled, nil
	case HideExternalMarker:
		if err := s.HideExternalMarker(); err != nil {
			return handled, fmt.Errorf("hide external marker: %w", err)
		}
		return handled, nil
	}
	return super, nil
}

func malformed(e Event, s State) error {
	return fmt.Errorf("%w: %s in %s carries %T", ErrMalformedPayload, e.Signal, s, e.Payload)
}
