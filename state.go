package stagefsm

// State is a long-lived instance keyed by its identifier. The automaton keeps
// exactly one registered instance per identifier and pushes that same
// instance every time the identifier is entered, so mutable fields survive
// across pushes unless OnPopped resets them.
type State[ID comparable] interface {
	ID() ID
	// OnPopped runs after the instance is removed from the stack and after
	// the pop observers have been notified.
	OnPopped()
}

// BaseState provides the identifier half of State and a no-op OnPopped.
// Embed it in concrete states that carry their own data.
type BaseState[ID comparable] struct {
	id ID
}

// NewBaseState creates a new base state
func NewBaseState[ID comparable](id ID) *BaseState[ID] {
	return &BaseState[ID]{id: id}
}

// Init sets the identifier of an embedded BaseState.
func (s *BaseState[ID]) Init(id ID) {
	s.id = id
}

// ID returns the state identifier
func (s *BaseState[ID]) ID() ID {
	return s.id
}

// OnPopped is a no-op for base states
func (s *BaseState[ID]) OnPopped() {}

// FuncState is a state whose pop hook is a plain function.
type FuncState[ID comparable] struct {
	BaseState[ID]
	onPopped func()
}

// NewFuncState creates a state that calls onPopped when it leaves the stack.
// onPopped may be nil.
func NewFuncState[ID comparable](id ID, onPopped func()) *FuncState[ID] {
	s := &FuncState[ID]{onPopped: onPopped}
	s.Init(id)
	return s
}

// OnPopped runs the configured hook
func (s *FuncState[ID]) OnPopped() {
	if s.onPopped != nil {
		s.onPopped()
	}
}
