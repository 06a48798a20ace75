package selection

// Machine holds the current selection of one grid and applies events to it.
// It is not safe for concurrent use; events are expected from a single
// event loop.
type Machine struct {
	state    State
	observer func(from, to State, e Event)
}

// NewMachine returns a machine in the Idle state.
func NewMachine() *Machine {
	return &Machine{}
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Dispatch applies e and returns the new state.
func (m *Machine) Dispatch(e Event) State {
	from := m.state
	m.state = Next(from, e)
	if m.observer != nil {
		m.observer(from, m.state, e)
	}
	return m.state
}

// OnTransition registers fn to be called after every dispatched event,
// including events that leave the state unchanged. A nil fn removes the
// observer.
func (m *Machine) OnTransition(fn func(from, to State, e Event)) {
	m.observer = fn
}

// Transition is one symbolic row of the transition table, used to describe
// the machine (for example as a diagram).
type Transition struct {
	From  Kind
	Event string
	To    Kind
}

// Transitions returns the symbolic transition table. "click(same)" means a
// click on the selected card; "click(other)" means a click on any other card.
func Transitions() []Transition {
	return []Transition{
		{From: KindIdle, Event: "click(id)", To: KindActive},
		{From: KindActive, Event: "click(same)", To: KindActiveFlipped},
		{From: KindActive, Event: "click(other)", To: KindActive},
		{From: KindActiveFlipped, Event: "click(same)", To: KindActive},
		{From: KindActiveFlipped, Event: "click(other)", To: KindActive},
		{From: KindIdle, Event: "dismiss", To: KindIdle},
		{From: KindActive, Event: "dismiss", To: KindIdle},
		{From: KindActiveFlipped, Event: "dismiss", To: KindIdle},
	}
}
