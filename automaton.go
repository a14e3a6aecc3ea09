package stagefsm

import (
	"fmt"

	"github.com/google/uuid"
)

// DefaultMaxSettleSteps bounds the number of transitions a single call to
// PerformStateTransitionCheck may apply.
const DefaultMaxSettleSteps = 256

// settlePathLen is how many recent identifiers a SettleError reports
const settlePathLen = 16

// Automaton is a pushdown state machine driven once per simulation tick.
//
// A tick normally calls PerformBehaviors followed by
// PerformStateTransitionCheck (or Tick, which does both). The automaton is
// not safe for concurrent use; all registration is expected to happen
// before ticking starts.
type Automaton[ID comparable] struct {
	id             string
	name           string
	maxSettleSteps int

	registry    *Registry[ID]
	stack       *Stack[ID]
	transitions *TransitionTable[ID]
	hijacks     []Hijack[ID]
	behaviors   *BehaviorTable[ID]
	observers   *ObserverManager[ID]
}

type options struct {
	name           string
	maxSettleSteps int
}

// Option configures an Automaton
type Option func(*options)

// WithName sets the name used in logs, diagrams and errors
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithMaxSettleSteps sets how many transitions one check may apply before it
// fails with a SettleError. Values below 1 keep the default.
func WithMaxSettleSteps(steps int) Option {
	return func(o *options) {
		if steps > 0 {
			o.maxSettleSteps = steps
		}
	}
}

// New creates an automaton with initial registered and pushed as its only
// stack entry.
func New[ID comparable](initial State[ID], opts ...Option) *Automaton[ID] {
	cfg := options{
		name:           "automaton",
		maxSettleSteps: DefaultMaxSettleSteps,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	a := &Automaton[ID]{
		id:             uuid.New().String(),
		name:           cfg.name,
		maxSettleSteps: cfg.maxSettleSteps,
		registry:       NewRegistry[ID](),
		stack:          NewStack[ID](),
		transitions:    NewTransitionTable[ID](),
		hijacks:        make([]Hijack[ID], 0),
		behaviors:      NewBehaviorTable[ID](),
		observers:      NewObserverManager[ID](),
	}

	if initial != nil {
		a.registry.Register(initial)
		a.stack.Push(initial)
	}
	return a
}

// ID returns the unique identifier of this automaton instance
func (a *Automaton[ID]) ID() string {
	return a.id
}

// Name returns the configured name
func (a *Automaton[ID]) Name() string {
	return a.name
}

// MaxSettleSteps returns the transition limit of a single check
func (a *Automaton[ID]) MaxSettleSteps() int {
	return a.maxSettleSteps
}

// RegisterState makes state the canonical instance for its identifier.
// Re-registering an identifier replaces the previous instance (last write
// wins) and reports true; callers should treat that as suspicious unless
// they mean to hot-swap the instance.
func (a *Automaton[ID]) RegisterState(state State[ID]) (replaced bool) {
	if state == nil {
		return false
	}
	return a.registry.Register(state)
}

// RegisterStateBehavior binds the per-tick action of id. A nil action
// removes the binding.
func (a *Automaton[ID]) RegisterStateBehavior(id ID, action ActionFunc) {
	a.behaviors.Set(id, action)
}

// RegisterTransition appends a rule for source. Rules are evaluated in the
// order they were registered and the first satisfied one wins.
func (a *Automaton[ID]) RegisterTransition(source ID, target Target[ID], rememberPrevious bool, condition ConditionFunc, callback ActionFunc) error {
	rule := NewTransition(source, target, condition).WithCallback(callback)
	rule.RememberPrevious = rememberPrevious
	return a.AddTransition(rule)
}

// AddTransition appends a prepared rule
func (a *Automaton[ID]) AddTransition(rule *Transition[ID]) error {
	if rule == nil {
		return NewConfigurationError("RegisterTransition", "nil transition")
	}
	if rule.Condition == nil {
		return NewConfigurationError("RegisterTransition",
			fmt.Sprintf("transition '%v' -> '%s' has no condition", rule.Source, rule.Target))
	}
	rule.Target = rule.Target.normalize()
	a.transitions.Add(rule)
	return nil
}

// ApplyToAllStatesExcept calls action for every registered identifier not
// listed in exceptions, in registration order.
func (a *Automaton[ID]) ApplyToAllStatesExcept(action func(id ID), exceptions ...ID) {
	skip := make(map[ID]struct{}, len(exceptions))
	for _, id := range exceptions {
		skip[id] = struct{}{}
	}
	for _, id := range a.registry.IDs() {
		if _, excluded := skip[id]; excluded {
			continue
		}
		action(id)
	}
}

// AddTransitionStateHijack appends a global override consulted for every
// transition target. onHijack may be nil.
func (a *Automaton[ID]) AddTransitionStateHijack(sel HijackSelectFunc[ID], onHijack HijackFunc[ID]) error {
	if sel == nil {
		return NewConfigurationError("AddTransitionStateHijack", "nil select function")
	}
	a.hijacks = append(a.hijacks, Hijack[ID]{Select: sel, OnHijack: onHijack})
	return nil
}

// AddObserver subscribes observer to lifecycle events
func (a *Automaton[ID]) AddObserver(observer Observer[ID]) {
	a.observers.AddObserver(observer)
}

// RemoveObserver unsubscribes observer
func (a *Automaton[ID]) RemoveObserver(observer Observer[ID]) {
	a.observers.RemoveObserver(observer)
}

// OnStatePop subscribes fn to state pops
func (a *Automaton[ID]) OnStatePop(fn func(state State[ID])) {
	a.observers.AddObserver(&popListener[ID]{fn: fn})
}

// OnStateTransition subscribes fn to applied transitions
func (a *Automaton[ID]) OnStateTransition(fn func(popped bool, previous State[ID])) {
	a.observers.AddObserver(&transitionListener[ID]{fn: fn})
}

// OnStackEmpty subscribes fn to empty-stack checks
func (a *Automaton[ID]) OnStackEmpty(fn func()) {
	a.observers.AddObserver(&emptyListener[ID]{fn: fn})
}

// CurrentState returns the top of the stack, or false if the stack is empty
func (a *Automaton[ID]) CurrentState() (State[ID], bool) {
	return a.stack.Peek()
}

// IsInState reports whether id is the current state
func (a *Automaton[ID]) IsInState(id ID) bool {
	top, ok := a.stack.Peek()
	return ok && top.ID() == id
}

// Contains reports whether id is anywhere on the stack
func (a *Automaton[ID]) Contains(id ID) bool {
	return a.stack.Contains(id)
}

// Depth returns the stack depth
func (a *Automaton[ID]) Depth() int {
	return a.stack.Len()
}

// Stack returns the active states from bottom to top
func (a *Automaton[ID]) Stack() []State[ID] {
	return a.stack.Snapshot()
}

// State returns the registered instance for id
func (a *Automaton[ID]) State(id ID) (State[ID], bool) {
	return a.registry.Lookup(id)
}

// States returns registered identifiers in registration order
func (a *Automaton[ID]) States() []ID {
	return a.registry.IDs()
}

// Transitions returns a copy of the rules registered for source
func (a *Automaton[ID]) Transitions(source ID) []Transition[ID] {
	rules := a.transitions.Rules(source)
	result := make([]Transition[ID], len(rules))
	for i, rule := range rules {
		result[i] = *rule
	}
	return result
}

// Hijacks returns the number of registered hijacks
func (a *Automaton[ID]) Hijacks() int {
	return len(a.hijacks)
}

// PerformBehaviors runs the behavior bound to the current state. It does
// nothing when the stack is empty or no behavior is bound.
func (a *Automaton[ID]) PerformBehaviors() {
	top, ok := a.stack.Peek()
	if !ok {
		return
	}
	if action, ok := a.behaviors.Get(top.ID()); ok {
		action()
	}
}

// Tick runs the current behavior and then settles transitions
func (a *Automaton[ID]) Tick() error {
	a.PerformBehaviors()
	return a.PerformStateTransitionCheck()
}

// PerformStateTransitionCheck applies satisfied transitions until none
// fires. Each applied transition is followed by a fresh check, so chains
// such as A -> B -> C resolve within one call.
//
// A target that was never registered returns a *StateError. At most
// MaxSettleSteps transitions are applied; if a further one is still
// satisfied after that, it is not applied and a *SettleError is returned.
// The transitions applied up to that point are not rolled back.
func (a *Automaton[ID]) PerformStateTransitionCheck() error {
	var path []string
	for fired := 0; ; fired++ {
		if fired == a.maxSettleSteps {
			if !a.pending() {
				return nil
			}
			err := NewSettleError(a.name, a.id, a.maxSettleSteps, path)
			a.observers.NotifyError(err)
			return err
		}

		applied, err := a.step()
		if err != nil {
			a.observers.NotifyError(err)
			return err
		}
		if !applied {
			return nil
		}

		path = append(path, a.topName())
		if len(path) > settlePathLen {
			path = path[len(path)-settlePathLen:]
		}
	}
}

// pending reports whether a transition would fire from the current state
// without applying it.
func (a *Automaton[ID]) pending() bool {
	top, ok := a.stack.Peek()
	if !ok {
		a.observers.NotifyStackEmpty()
		return false
	}
	_, ok = a.transitions.FirstSatisfied(top.ID())
	return ok
}

// step evaluates and applies at most one transition
func (a *Automaton[ID]) step() (bool, error) {
	top, ok := a.stack.Peek()
	if !ok {
		a.observers.NotifyStackEmpty()
		return false, nil
	}

	rule, ok := a.transitions.FirstSatisfied(top.ID())
	if !ok {
		return false, nil
	}

	var popped State[ID]
	wasPopped := false
	if !rule.RememberPrevious {
		popped, _ = a.stack.Pop()
		wasPopped = true
		// Listeners run before the state's own hook so they see its data
		// before it is reset.
		a.observers.NotifyStatePop(popped)
		popped.OnPopped()
	}

	target, hijack := resolveHijack(a.hijacks, rule.Target)
	if hijack != nil {
		if hijack.OnHijack != nil {
			hijack.OnHijack(target)
		}
		a.observers.NotifyHijack(rule.Target, target)
	}

	if target.Valid {
		next, ok := a.registry.Lookup(target.ID)
		if !ok {
			return false, NewStateNotFoundError(idString(target.ID))
		}
		a.stack.Push(next)
		a.observers.NotifyStatePush(next)
	}

	a.observers.NotifyStateTransition(wasPopped, popped)

	if rule.Callback != nil {
		rule.Callback()
	}
	return true, nil
}

func (a *Automaton[ID]) topName() string {
	top, ok := a.stack.Peek()
	if !ok {
		return "<empty>"
	}
	return idString(top.ID())
}
