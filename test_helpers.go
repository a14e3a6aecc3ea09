package stagefsm

import (
	"fmt"
	"testing"
)

// Recorded event kinds
const (
	RecordPop        = "pop"
	RecordPush       = "push"
	RecordTransition = "transition"
	RecordEmpty      = "empty"
	RecordHijack     = "hijack"
	RecordError      = "error"
)

// RecordedEvent is one notification captured by TestObserver
type RecordedEvent[ID comparable] struct {
	Kind   string
	State  State[ID]
	Popped bool
	Target Target[ID]
	Err    error
}

// TestObserver is a mock observer for testing that captures all observer
// events in the order they were delivered.
type TestObserver[ID comparable] struct {
	Events []RecordedEvent[ID]
}

// NewTestObserver creates a new test observer
func NewTestObserver[ID comparable]() *TestObserver[ID] {
	return &TestObserver[ID]{Events: make([]RecordedEvent[ID], 0)}
}

func (o *TestObserver[ID]) OnStatePop(state State[ID]) {
	o.Events = append(o.Events, RecordedEvent[ID]{Kind: RecordPop, State: state})
}

func (o *TestObserver[ID]) OnStateTransition(popped bool, previous State[ID]) {
	o.Events = append(o.Events, RecordedEvent[ID]{Kind: RecordTransition, State: previous, Popped: popped})
}

func (o *TestObserver[ID]) OnStackEmpty() {
	o.Events = append(o.Events, RecordedEvent[ID]{Kind: RecordEmpty})
}

func (o *TestObserver[ID]) OnStatePush(state State[ID]) {
	o.Events = append(o.Events, RecordedEvent[ID]{Kind: RecordPush, State: state})
}

func (o *TestObserver[ID]) OnHijack(proposed Target[ID], resolved Target[ID]) {
	o.Events = append(o.Events, RecordedEvent[ID]{Kind: RecordHijack, Target: resolved})
}

func (o *TestObserver[ID]) OnError(err error) {
	o.Events = append(o.Events, RecordedEvent[ID]{Kind: RecordError, Err: err})
}

// Reset clears recorded events
func (o *TestObserver[ID]) Reset() {
	o.Events = nil
}

// Count returns how many events of kind were recorded
func (o *TestObserver[ID]) Count(kind string) int {
	n := 0
	for _, e := range o.Events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Trace renders the recorded events as "kind" or "kind:id" strings
func (o *TestObserver[ID]) Trace() []string {
	trace := make([]string, 0, len(o.Events))
	for _, e := range o.Events {
		if e.State != nil {
			trace = append(trace, fmt.Sprintf("%s:%v", e.Kind, e.State.ID()))
		} else {
			trace = append(trace, e.Kind)
		}
	}
	return trace
}

// AssertCurrent checks the identifier on top of the stack
func AssertCurrent[ID comparable](t *testing.T, a *Automaton[ID], expected ID) {
	t.Helper()
	current, ok := a.CurrentState()
	if !ok {
		t.Errorf("Expected state %v, got empty stack", expected)
		return
	}
	if current.ID() != expected {
		t.Errorf("Expected state %v, got %v", expected, current.ID())
	}
}

// AssertStack checks the identifiers on the stack from bottom to top
func AssertStack[ID comparable](t *testing.T, a *Automaton[ID], expected ...ID) {
	t.Helper()
	stack := a.Stack()
	if len(stack) != len(expected) {
		t.Errorf("Expected stack depth %d, got %d", len(expected), len(stack))
		return
	}
	for i, state := range stack {
		if state.ID() != expected[i] {
			t.Errorf("Expected stack[%d] to be %v, got %v", i, expected[i], state.ID())
		}
	}
}

// AssertEmpty checks that the stack is empty
func AssertEmpty[ID comparable](t *testing.T, a *Automaton[ID]) {
	t.Helper()
	if current, ok := a.CurrentState(); ok {
		t.Errorf("Expected empty stack, got %v", current.ID())
	}
}

// Flag is a settable condition for tests and examples
type Flag struct {
	value bool
}

// Set changes the flag
func (f *Flag) Set(value bool) {
	f.value = value
}

// Get reports the flag; it has the ConditionFunc signature
func (f *Flag) Get() bool {
	return f.value
}
