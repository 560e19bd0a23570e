package statechart

// Signal selects which handler logic applies to an Event
type Signal int

const (
	// EntrySignal is delivered to a state when a transition enters it
	EntrySignal Signal = iota
	// ExitSignal is delivered to a state when a transition leaves it
	ExitSignal
	// InitSignal is delivered to the target of a transition once it is current
	InitSignal

	ToggleOrientation
	SetSize1
	SetSize2
	SetSize3
	Move
	PointerMoved
	ShowExternalMarker
	HideExternalMarker
	Shutdown
)

var signalNames = [...]string{
	EntrySignal:        "ENTRY_SIGNAL",
	ExitSignal:         "EXIT_SIGNAL",
	InitSignal:         "INIT_SIGNAL",
	ToggleOrientation:  "TOGGLE_ORIENTATION",
	SetSize1:           "SET_SIZE_1",
	SetSize2:           "SET_SIZE_2",
	SetSize3:           "SET_SIZE_3",
	Move:               "MOVE",
	PointerMoved:       "POINTER_MOVED",
	ShowExternalMarker: "SHOW_EXTERNAL_MARKER",
	HideExternalMarker: "HIDE_EXTERNAL_MARKER",
	Shutdown:           "SHUTDOWN",
}

func (s Signal) String() string {
	if s < 0 || int(s) >= len(signalNames) {
		return "UNKNOWN_SIGNAL"
	}
	return signalNames[s]
}

// Event carries a signal and its optional payload through the statechart.
// Events are values and must not be modified after construction.
type Event struct {
	Signal  Signal
	Payload any
}

// MovePayload is the payload of a Move event. Speedup is the factor the
// direction is multiplied by; the input layer decides it.
type MovePayload struct {
	DX, DY  int
	Speedup int
}

// PointerPayload is the payload of a PointerMoved event, in window-local pixels
type PointerPayload struct {
	X, Y int
}

// NewMoveEvent builds a Move event
func NewMoveEvent(dx, dy, speedup int) Event {
	return Event{Signal: Move, Payload: MovePayload{DX: dx, DY: dy, Speedup: speedup}}
}

// NewPointerEvent builds a PointerMoved event
func NewPointerEvent(x, y int) Event {
	return Event{Signal: PointerMoved, Payload: PointerPayload{X: x, Y: y}}
}

// sizeIndex maps the SetSize signals to their table index
func sizeIndex(s Signal) (int, bool) {
	switch s {
	case SetSize1:
		return 1, true
	case SetSize2:
		return 2, true
	case SetSize3:
		return 3, true
	}
	return 0, false
}
