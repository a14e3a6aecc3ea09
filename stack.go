package stagefsm

// Stack is the LIFO of active states. The top entry is the current state.
type Stack[ID comparable] struct {
	entries []State[ID]
}

// NewStack creates an empty stack
func NewStack[ID comparable]() *Stack[ID] {
	return &Stack[ID]{entries: make([]State[ID], 0, 4)}
}

// Push places state on top. Nil states are ignored.
func (s *Stack[ID]) Push(state State[ID]) {
	if state == nil {
		return
	}
	s.entries = append(s.entries, state)
}

// Pop removes and returns the top state
func (s *Stack[ID]) Pop() (State[ID], bool) {
	n := len(s.entries)
	if n == 0 {
		return nil, false
	}
	top := s.entries[n-1]
	s.entries[n-1] = nil
	s.entries = s.entries[:n-1]
	return top, true
}

// Peek returns the top state without removing it
func (s *Stack[ID]) Peek() (State[ID], bool) {
	if len(s.entries) == 0 {
		return nil, false
	}
	return s.entries[len(s.entries)-1], true
}

// Len returns the stack depth
func (s *Stack[ID]) Len() int {
	return len(s.entries)
}

// Contains reports whether any entry has the given identifier
func (s *Stack[ID]) Contains(id ID) bool {
	for _, entry := range s.entries {
		if entry.ID() == id {
			return true
		}
	}
	return false
}

// Snapshot returns the entries from bottom to top
func (s *Stack[ID]) Snapshot() []State[ID] {
	result := make([]State[ID], len(s.entries))
	copy(result, s.entries)
	return result
}
