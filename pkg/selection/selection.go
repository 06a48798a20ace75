package selection

import "fmt"

// Kind names the shape of a State.
type Kind int

// Kinds of State.
const (
	KindIdle Kind = iota
	KindActive
	KindActiveFlipped
)

func (k Kind) String() string {
	switch k {
	case KindActive:
		return "Active"
	case KindActiveFlipped:
		return "ActiveFlipped"
	default:
		return "Idle"
	}
}

// State is an immutable selection value. The zero value is Idle.
// A flipped state always carries an active id.
type State struct {
	active  string
	set     bool
	flipped bool
}

// Idle returns the state with no selection.
func Idle() State { return State{} }

// Active returns the state where id is selected and not flipped.
func Active(id string) State { return State{active: id, set: true} }

// ActiveFlipped returns the state where id is selected and flipped.
func ActiveFlipped(id string) State { return State{active: id, set: true, flipped: true} }

// ActiveID returns the selected id, if any.
func (s State) ActiveID() (string, bool) { return s.active, s.set }

// Flipped reports whether the selected card shows its back face.
func (s State) Flipped() bool { return s.flipped }

// IsIdle reports whether nothing is selected.
func (s State) IsIdle() bool { return !s.set }

// IsActive reports whether id is the selected card, flipped or not.
func (s State) IsActive(id string) bool { return s.set && s.active == id }

// Kind returns the shape of the state.
func (s State) Kind() Kind {
	switch {
	case !s.set:
		return KindIdle
	case s.flipped:
		return KindActiveFlipped
	default:
		return KindActive
	}
}

func (s State) String() string {
	if !s.set {
		return "Idle"
	}
	return fmt.Sprintf("%s{%s}", s.Kind(), s.active)
}

// Event is an input to the state machine.
type Event interface {
	isEvent()
	String() string
}

// Click is a click on the card with the given id.
type Click struct{ ID string }

// Dismiss is a click on the dismiss overlay.
type Dismiss struct{}

func (Click) isEvent()   {}
func (Dismiss) isEvent() {}

func (c Click) String() string { return fmt.Sprintf("click(%s)", c.ID) }
func (Dismiss) String() string { return "dismiss" }

// Next returns the state that follows s after e. It is defined for every
// state and event.
func Next(s State, e Event) State {
	switch e := e.(type) {
	case Click:
		if s.IsActive(e.ID) {
			if s.flipped {
				return Active(e.ID)
			}
			return ActiveFlipped(e.ID)
		}
		return Active(e.ID)
	case Dismiss:
		return Idle()
	}
	return s
}
