package stagefsm

// Observer represents an entity that observes automaton lifecycle events
type Observer[ID comparable] interface {
	// OnStatePop is called when a state is removed from the stack, before
	// the state's own OnPopped hook runs.
	OnStatePop(state State[ID])

	// OnStateTransition is called once per applied transition, after the
	// stack has changed and before the rule's callback. previous is nil
	// when popped is false.
	OnStateTransition(popped bool, previous State[ID])

	// OnStackEmpty is called when a transition check finds the stack empty
	OnStackEmpty()
}

// ExtendedObserver provides additional optional observation methods
type ExtendedObserver[ID comparable] interface {
	Observer[ID]

	// OnStatePush is called when a registered instance is pushed
	OnStatePush(state State[ID])

	// OnHijack is called when a hijack replaces a proposed target
	OnHijack(proposed Target[ID], resolved Target[ID])

	// OnError is called before an error is returned to the tick caller
	OnError(err error)
}

// BaseObserver provides a default implementation with no-op methods
type BaseObserver[ID comparable] struct{}

// OnStatePop implements Observer
func (o *BaseObserver[ID]) OnStatePop(state State[ID]) {}

// OnStateTransition implements Observer
func (o *BaseObserver[ID]) OnStateTransition(popped bool, previous State[ID]) {}

// OnStackEmpty implements Observer
func (o *BaseObserver[ID]) OnStackEmpty() {}

// OnStatePush implements ExtendedObserver
func (o *BaseObserver[ID]) OnStatePush(state State[ID]) {}

// OnHijack implements ExtendedObserver
func (o *BaseObserver[ID]) OnHijack(proposed Target[ID], resolved Target[ID]) {}

// OnError implements ExtendedObserver
func (o *BaseObserver[ID]) OnError(err error) {}

// popListener adapts a plain function subscribed with Automaton.OnStatePop
type popListener[ID comparable] struct {
	BaseObserver[ID]
	fn func(State[ID])
}

func (l *popListener[ID]) OnStatePop(state State[ID]) { l.fn(state) }

type transitionListener[ID comparable] struct {
	BaseObserver[ID]
	fn func(bool, State[ID])
}

func (l *transitionListener[ID]) OnStateTransition(popped bool, previous State[ID]) {
	l.fn(popped, previous)
}

type emptyListener[ID comparable] struct {
	BaseObserver[ID]
	fn func()
}

func (l *emptyListener[ID]) OnStackEmpty() { l.fn() }

// ObserverManager manages a collection of observers. Notifications are
// delivered in subscription order; a panicking observer is not recovered.
type ObserverManager[ID comparable] struct {
	observers []Observer[ID]
}

// NewObserverManager creates a new observer manager
func NewObserverManager[ID comparable]() *ObserverManager[ID] {
	return &ObserverManager[ID]{
		observers: make([]Observer[ID], 0),
	}
}

// AddObserver adds an observer to the manager
func (om *ObserverManager[ID]) AddObserver(observer Observer[ID]) {
	om.observers = append(om.observers, observer)
}

// RemoveObserver removes an observer from the manager
func (om *ObserverManager[ID]) RemoveObserver(observer Observer[ID]) {
	for i, obs := range om.observers {
		if obs == observer {
			om.observers = append(om.observers[:i], om.observers[i+1:]...)
			break
		}
	}
}

// Len returns the number of subscribed observers
func (om *ObserverManager[ID]) Len() int {
	return len(om.observers)
}

// snapshot lets observers subscribe or unsubscribe while being notified
// without affecting the current delivery.
func (om *ObserverManager[ID]) snapshot() []Observer[ID] {
	observers := make([]Observer[ID], len(om.observers))
	copy(observers, om.observers)
	return observers
}

// NotifyStatePop notifies all observers of a popped state
func (om *ObserverManager[ID]) NotifyStatePop(state State[ID]) {
	for _, observer := range om.snapshot() {
		observer.OnStatePop(state)
	}
}

// NotifyStateTransition notifies all observers of an applied transition
func (om *ObserverManager[ID]) NotifyStateTransition(popped bool, previous State[ID]) {
	for _, observer := range om.snapshot() {
		observer.OnStateTransition(popped, previous)
	}
}

// NotifyStackEmpty notifies all observers that the stack is empty
func (om *ObserverManager[ID]) NotifyStackEmpty() {
	for _, observer := range om.snapshot() {
		observer.OnStackEmpty()
	}
}

// NotifyStatePush notifies extended observers of a pushed state
func (om *ObserverManager[ID]) NotifyStatePush(state State[ID]) {
	for _, observer := range om.snapshot() {
		if extObs, ok := observer.(ExtendedObserver[ID]); ok {
			extObs.OnStatePush(state)
		}
	}
}

// NotifyHijack notifies extended observers of a hijacked target
func (om *ObserverManager[ID]) NotifyHijack(proposed, resolved Target[ID]) {
	for _, observer := range om.snapshot() {
		if extObs, ok := observer.(ExtendedObserver[ID]); ok {
			extObs.OnHijack(proposed, resolved)
		}
	}
}

// NotifyError notifies extended observers of an error
func (om *ObserverManager[ID]) NotifyError(err error) {
	for _, observer := range om.snapshot() {
		if extObs, ok := observer.(ExtendedObserver[ID]); ok {
			extObs.OnError(err)
		}
	}
}
