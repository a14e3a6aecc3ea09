package stagefsm

import "fmt"

// BehaviorTable maps an identifier to the action run every tick while that
// identifier is on top of the stack.
type BehaviorTable[ID comparable] struct {
	actions map[ID]ActionFunc
}

// NewBehaviorTable creates an empty behavior table
func NewBehaviorTable[ID comparable]() *BehaviorTable[ID] {
	return &BehaviorTable[ID]{actions: make(map[ID]ActionFunc)}
}

// Set binds action to id, replacing any earlier binding
func (bt *BehaviorTable[ID]) Set(id ID, action ActionFunc) {
	if action == nil {
		delete(bt.actions, id)
		return
	}
	bt.actions[id] = action
}

// Get returns the action bound to id
func (bt *BehaviorTable[ID]) Get(id ID) (ActionFunc, bool) {
	action, ok := bt.actions[id]
	return action, ok
}

// BehaviorSet collects behavior bindings and installs them in one step
type BehaviorSet[ID comparable] struct {
	ids     []ID
	actions map[ID]ActionFunc
	errs    []error
}

// Behaviors creates an empty behavior set
func Behaviors[ID comparable]() *BehaviorSet[ID] {
	return &BehaviorSet[ID]{actions: make(map[ID]ActionFunc)}
}

// On binds action to id. Binding the same id twice is recorded as a
// configuration error and reported by Apply.
func (b *BehaviorSet[ID]) On(id ID, action ActionFunc) *BehaviorSet[ID] {
	if action == nil {
		b.errs = append(b.errs, NewConfigurationError("Behaviors", fmt.Sprintf("nil behavior for state '%v'", id)))
		return b
	}
	if _, exists := b.actions[id]; exists {
		b.errs = append(b.errs, NewConfigurationError("Behaviors", fmt.Sprintf("duplicate behavior for state '%v'", id)))
		return b
	}
	b.ids = append(b.ids, id)
	b.actions[id] = action
	return b
}

// Apply registers every binding on a. Nothing is registered if the set
// recorded an error.
func (b *BehaviorSet[ID]) Apply(a *Automaton[ID]) error {
	if len(b.errs) > 0 {
		return b.errs[0]
	}
	for _, id := range b.ids {
		a.RegisterStateBehavior(id, b.actions[id])
	}
	return nil
}
