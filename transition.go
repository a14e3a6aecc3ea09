package stagefsm

import "fmt"

// ConditionFunc reports whether a transition may fire. It is evaluated fresh
// on every check.
type ConditionFunc func() bool

// ActionFunc is a zero-argument behavior or transition callback
type ActionFunc func()

// Target is an optional state identifier. The zero value means "no target":
// the transition only pops.
type Target[ID comparable] struct {
	ID    ID
	Valid bool
}

// TargetOf returns a target naming id
func TargetOf[ID comparable](id ID) Target[ID] {
	return Target[ID]{ID: id, Valid: true}
}

// NoTarget returns the empty target
func NoTarget[ID comparable]() Target[ID] {
	return Target[ID]{}
}

// normalize zeroes the identifier of an empty target so that two empty
// targets always compare equal.
func (t Target[ID]) normalize() Target[ID] {
	if !t.Valid {
		return Target[ID]{}
	}
	return t
}

func (t Target[ID]) String() string {
	if !t.Valid {
		return "<pop>"
	}
	return fmt.Sprint(t.ID)
}

// Transition is a conditional rule leaving Source
type Transition[ID comparable] struct {
	Source ID
	Target Target[ID]
	// RememberPrevious keeps Source on the stack beneath the target.
	RememberPrevious bool
	Condition        ConditionFunc
	Callback         ActionFunc
}

// NewTransition creates a new transition that pops source and pushes target
func NewTransition[ID comparable](source ID, target Target[ID], condition ConditionFunc) *Transition[ID] {
	return &Transition[ID]{
		Source:    source,
		Target:    target.normalize(),
		Condition: condition,
	}
}

// WithRemember keeps the source state on the stack
func (t *Transition[ID]) WithRemember() *Transition[ID] {
	t.RememberPrevious = true
	return t
}

// WithCallback adds a callback run after the transition is applied
func (t *Transition[ID]) WithCallback(callback ActionFunc) *Transition[ID] {
	t.Callback = callback
	return t
}

// HijackSelectFunc maps a proposed target to a replacement. Returning the
// proposal unchanged leaves the transition alone.
type HijackSelectFunc[ID comparable] func(proposed Target[ID]) Target[ID]

// HijackFunc is notified with the replacement target when a hijack applies
type HijackFunc[ID comparable] func(resolved Target[ID])

// Hijack is a global override consulted for every transition
type Hijack[ID comparable] struct {
	Select   HijackSelectFunc[ID]
	OnHijack HijackFunc[ID]
}

// TransitionTable holds the ordered rules per source identifier
type TransitionTable[ID comparable] struct {
	rules map[ID][]*Transition[ID]
}

// NewTransitionTable creates an empty table
func NewTransitionTable[ID comparable]() *TransitionTable[ID] {
	return &TransitionTable[ID]{rules: make(map[ID][]*Transition[ID])}
}

// Add appends a rule after the existing rules for its source
func (tt *TransitionTable[ID]) Add(rule *Transition[ID]) {
	tt.rules[rule.Source] = append(tt.rules[rule.Source], rule)
}

// Rules returns the rules for source in registration order
func (tt *TransitionTable[ID]) Rules(source ID) []*Transition[ID] {
	return tt.rules[source]
}

// Sources returns the number of identifiers that have at least one rule
func (tt *TransitionTable[ID]) Sources() int {
	return len(tt.rules)
}

// FirstSatisfied returns the earliest-registered rule for source whose
// condition currently holds. Later rules are not evaluated once one matches.
func (tt *TransitionTable[ID]) FirstSatisfied(source ID) (*Transition[ID], bool) {
	for _, rule := range tt.rules[source] {
		if rule.Condition() {
			return rule, true
		}
	}
	return nil, false
}

// resolveHijack applies the first hijack whose selection differs from the
// proposal. It returns the resolved target and the hijack that fired.
func resolveHijack[ID comparable](hijacks []Hijack[ID], proposed Target[ID]) (Target[ID], *Hijack[ID]) {
	proposed = proposed.normalize()
	for i := range hijacks {
		selected := hijacks[i].Select(proposed).normalize()
		if selected != proposed {
			return selected, &hijacks[i]
		}
	}
	return proposed, nil
}
