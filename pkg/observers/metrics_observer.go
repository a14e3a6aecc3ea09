package observers

import (
	"sync"

	"github.com/anggasct/stagefsm"
)

// Metrics is a point-in-time copy of the collected counters
type Metrics[ID comparable] struct {
	Pops        map[ID]int
	Pushes      map[ID]int
	Transitions int
	Hijacks     int
	StackEmpty  int
	Errors      int
	MaxDepth    int
}

// MetricsObserver collects metrics about automaton execution
type MetricsObserver[ID comparable] struct {
	automaton   *stagefsm.Automaton[ID]
	pops        map[ID]int
	pushes      map[ID]int
	transitions int
	hijacks     int
	stackEmpty  int
	errorCount  int
	maxDepth    int
	mutex       sync.RWMutex
}

// NewMetricsObserver creates a new metrics observer for a. The automaton is
// used to sample the stack depth after every push.
func NewMetricsObserver[ID comparable](a *stagefsm.Automaton[ID]) *MetricsObserver[ID] {
	return &MetricsObserver[ID]{
		automaton: a,
		pops:      make(map[ID]int),
		pushes:    make(map[ID]int),
		maxDepth:  a.Depth(),
	}
}

// OnStatePop records a pop
func (o *MetricsObserver[ID]) OnStatePop(state stagefsm.State[ID]) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.pops[state.ID()]++
}

// OnStatePush records a push and the resulting depth
func (o *MetricsObserver[ID]) OnStatePush(state stagefsm.State[ID]) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.pushes[state.ID()]++
	if depth := o.automaton.Depth(); depth > o.maxDepth {
		o.maxDepth = depth
	}
}

// OnStateTransition records a transition
func (o *MetricsObserver[ID]) OnStateTransition(popped bool, previous stagefsm.State[ID]) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.transitions++
}

// OnStackEmpty records an empty-stack check
func (o *MetricsObserver[ID]) OnStackEmpty() {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.stackEmpty++
}

// OnHijack records a hijack
func (o *MetricsObserver[ID]) OnHijack(proposed, resolved stagefsm.Target[ID]) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.hijacks++
}

// OnError records error metrics
func (o *MetricsObserver[ID]) OnError(err error) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.errorCount++
}

// Snapshot returns a copy of the current metrics
func (o *MetricsObserver[ID]) Snapshot() Metrics[ID] {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	m := Metrics[ID]{
		Pops:        make(map[ID]int, len(o.pops)),
		Pushes:      make(map[ID]int, len(o.pushes)),
		Transitions: o.transitions,
		Hijacks:     o.hijacks,
		StackEmpty:  o.stackEmpty,
		Errors:      o.errorCount,
		MaxDepth:    o.maxDepth,
	}
	for id, count := range o.pops {
		m.Pops[id] = count
	}
	for id, count := range o.pushes {
		m.Pushes[id] = count
	}
	return m
}

// GetErrorCount returns the number of errors
func (o *MetricsObserver[ID]) GetErrorCount() int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return o.errorCount
}

// Reset resets all metrics
func (o *MetricsObserver[ID]) Reset() {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.pops = make(map[ID]int)
	o.pushes = make(map[ID]int)
	o.transitions = 0
	o.hijacks = 0
	o.stackEmpty = 0
	o.errorCount = 0
	o.maxDepth = o.automaton.Depth()
}
