package stagefsm

// Registry owns the canonical instance of every known identifier.
//
// Registering an identifier a second time replaces its instance. That is
// legal but rarely what a caller wants: entries already on the stack keep
// pointing at the old instance while later pushes use the new one.
type Registry[ID comparable] struct {
	states map[ID]State[ID]
	order  []ID
}

// NewRegistry creates an empty registry
func NewRegistry[ID comparable]() *Registry[ID] {
	return &Registry[ID]{
		states: make(map[ID]State[ID]),
		order:  make([]ID, 0),
	}
}

// Register stores state under its identifier. It reports whether an earlier
// registration was replaced.
func (r *Registry[ID]) Register(state State[ID]) (replaced bool) {
	id := state.ID()
	if _, exists := r.states[id]; exists {
		replaced = true
	} else {
		r.order = append(r.order, id)
	}
	r.states[id] = state
	return replaced
}

// Lookup returns the canonical instance for id
func (r *Registry[ID]) Lookup(id ID) (State[ID], bool) {
	state, ok := r.states[id]
	return state, ok
}

// Contains reports whether id has been registered
func (r *Registry[ID]) Contains(id ID) bool {
	_, ok := r.states[id]
	return ok
}

// IDs returns all registered identifiers in first-registration order
func (r *Registry[ID]) IDs() []ID {
	ids := make([]ID, len(r.order))
	copy(ids, r.order)
	return ids
}

// Len returns the number of registered identifiers
func (r *Registry[ID]) Len() int {
	return len(r.order)
}
