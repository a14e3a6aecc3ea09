package stagefsm

import (
	"errors"
	"fmt"
)

// MachineBuilder provides a fluent way to assemble an automaton. Unlike the
// Register* calls on Automaton, Build validates the whole configuration, so
// unregistered targets are reported before the first tick.
type MachineBuilder[ID comparable] struct {
	initial     State[ID]
	opts        []Option
	states      []State[ID]
	behaviors   *BehaviorSet[ID]
	transitions []*TransitionBuilder[ID]
	hijacks     []Hijack[ID]
	observers   []Observer[ID]
}

// TransitionBuilder configures a single transition rule
type TransitionBuilder[ID comparable] struct {
	machine    *MachineBuilder[ID]
	source     ID
	fanOut     bool
	exceptions []ID
	target     Target[ID]
	targetSet  bool
	remember   bool
	conditions []ConditionFunc
	negated    []bool
	callback   ActionFunc
}

// NewMachine starts a builder whose automaton begins in initial
func NewMachine[ID comparable](initial State[ID], opts ...Option) *MachineBuilder[ID] {
	return &MachineBuilder[ID]{
		initial:   initial,
		opts:      opts,
		behaviors: Behaviors[ID](),
	}
}

// State registers additional states
func (b *MachineBuilder[ID]) State(states ...State[ID]) *MachineBuilder[ID] {
	b.states = append(b.states, states...)
	return b
}

// Behavior binds the per-tick action of id
func (b *MachineBuilder[ID]) Behavior(id ID, action ActionFunc) *MachineBuilder[ID] {
	b.behaviors.On(id, action)
	return b
}

// From starts a transition leaving source
func (b *MachineBuilder[ID]) From(source ID) *TransitionBuilder[ID] {
	t := &TransitionBuilder[ID]{machine: b, source: source}
	b.transitions = append(b.transitions, t)
	return t
}

// FromAllExcept starts a transition registered for every state known at
// Build time except those listed.
func (b *MachineBuilder[ID]) FromAllExcept(exceptions ...ID) *TransitionBuilder[ID] {
	t := &TransitionBuilder[ID]{machine: b, fanOut: true, exceptions: exceptions}
	b.transitions = append(b.transitions, t)
	return t
}

// Hijack adds a global target override
func (b *MachineBuilder[ID]) Hijack(sel HijackSelectFunc[ID], onHijack HijackFunc[ID]) *MachineBuilder[ID] {
	b.hijacks = append(b.hijacks, Hijack[ID]{Select: sel, OnHijack: onHijack})
	return b
}

// Observer subscribes an observer on the built automaton
func (b *MachineBuilder[ID]) Observer(observer Observer[ID]) *MachineBuilder[ID] {
	b.observers = append(b.observers, observer)
	return b
}

// To sets the state pushed by the transition
func (t *TransitionBuilder[ID]) To(target ID) *TransitionBuilder[ID] {
	t.target = TargetOf(target)
	t.targetSet = true
	return t
}

// Pop makes the transition pop without pushing a replacement
func (t *TransitionBuilder[ID]) Pop() *TransitionBuilder[ID] {
	t.target = NoTarget[ID]()
	t.targetSet = true
	return t
}

// Remember keeps the source state beneath the target
func (t *TransitionBuilder[ID]) Remember() *TransitionBuilder[ID] {
	t.remember = true
	return t
}

// When adds a condition; all conditions must hold
func (t *TransitionBuilder[ID]) When(condition ConditionFunc) *TransitionBuilder[ID] {
	t.conditions = append(t.conditions, condition)
	t.negated = append(t.negated, false)
	return t
}

// Unless adds a condition that must not hold
func (t *TransitionBuilder[ID]) Unless(condition ConditionFunc) *TransitionBuilder[ID] {
	t.conditions = append(t.conditions, condition)
	t.negated = append(t.negated, true)
	return t
}

// Do sets the callback run after the transition is applied
func (t *TransitionBuilder[ID]) Do(callback ActionFunc) *TransitionBuilder[ID] {
	t.callback = callback
	return t
}

// From starts the next transition
func (t *TransitionBuilder[ID]) From(source ID) *TransitionBuilder[ID] {
	return t.machine.From(source)
}

// End returns to the machine builder
func (t *TransitionBuilder[ID]) End() *MachineBuilder[ID] {
	return t.machine
}

// Build finishes the machine
func (t *TransitionBuilder[ID]) Build() (*Automaton[ID], error) {
	return t.machine.Build()
}

// condition folds the configured conditions into one, short-circuiting in
// declaration order.
func (t *TransitionBuilder[ID]) condition() ConditionFunc {
	conditions := t.conditions
	negated := t.negated
	return func() bool {
		for i, c := range conditions {
			if c() == negated[i] {
				return false
			}
		}
		return true
	}
}

func (t *TransitionBuilder[ID]) hasNilCondition() bool {
	for _, c := range t.conditions {
		if c == nil {
			return true
		}
	}
	return false
}

func (t *TransitionBuilder[ID]) describe() string {
	if t.fanOut {
		return fmt.Sprintf("* -> %s", t.target)
	}
	return fmt.Sprintf("%v -> %s", t.source, t.target)
}

// Build validates the configuration and returns the automaton
func (b *MachineBuilder[ID]) Build() (*Automaton[ID], error) {
	if b.initial == nil {
		return nil, NewConfigurationError("MachineBuilder", "no initial state defined")
	}

	a := New(b.initial, b.opts...)
	for _, state := range b.states {
		if state == nil {
			return nil, NewConfigurationError("MachineBuilder", "nil state")
		}
		if a.RegisterState(state) {
			return nil, NewConfigurationError("MachineBuilder",
				fmt.Sprintf("state '%v' registered more than once", state.ID()))
		}
	}

	var errs []error
	for _, t := range b.transitions {
		if !t.targetSet {
			errs = append(errs, NewConfigurationError("MachineBuilder",
				fmt.Sprintf("transition %s has no target; use To or Pop", t.describe())))
			continue
		}
		if len(t.conditions) == 0 {
			errs = append(errs, NewConfigurationError("MachineBuilder",
				fmt.Sprintf("transition %s has no condition", t.describe())))
			continue
		}
		if t.hasNilCondition() {
			errs = append(errs, NewConfigurationError("MachineBuilder",
				fmt.Sprintf("transition %s has a nil condition", t.describe())))
			continue
		}
		if t.target.Valid && !a.registry.Contains(t.target.ID) {
			errs = append(errs, NewStateNotFoundError(idString(t.target.ID)))
			continue
		}
		if !t.fanOut && !a.registry.Contains(t.source) {
			errs = append(errs, NewStateNotFoundError(idString(t.source)))
			continue
		}

		t := t
		register := func(source ID) {
			rule := NewTransition(source, t.target, t.condition()).WithCallback(t.callback)
			rule.RememberPrevious = t.remember
			_ = a.AddTransition(rule)
		}
		if t.fanOut {
			a.ApplyToAllStatesExcept(register, t.exceptions...)
		} else {
			register(t.source)
		}
	}

	for _, h := range b.hijacks {
		if err := a.AddTransitionStateHijack(h.Select, h.OnHijack); err != nil {
			errs = append(errs, err)
		}
	}

	for _, id := range b.behaviors.ids {
		if !a.registry.Contains(id) {
			errs = append(errs, NewStateNotFoundError(idString(id)))
		}
	}
	if err := b.behaviors.Apply(a); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	for _, observer := range b.observers {
		a.AddObserver(observer)
	}
	return a, nil
}
