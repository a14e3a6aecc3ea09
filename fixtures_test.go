package stagefsm

type phase int

const (
	idle phase = iota
	charging
	attacking
	stunned
	recovering
)

func (p phase) String() string {
	switch p {
	case idle:
		return "Idle"
	case charging:
		return "Charging"
	case attacking:
		return "Attacking"
	case stunned:
		return "Stunned"
	case recovering:
		return "Recovering"
	default:
		return "Unknown"
	}
}

// timedState counts ticks spent active and resets the counter when popped
type timedState struct {
	BaseState[phase]
	elapsed int
	pops    int
}

func newTimedState(id phase) *timedState {
	s := &timedState{}
	s.Init(id)
	return s
}

func (s *timedState) OnPopped() {
	s.pops++
	s.elapsed = 0
}

func always() bool { return true }

func never() bool { return false }

// once returns a condition that is satisfied a single time after f is set
func once(f *Flag) ConditionFunc {
	return func() bool {
		if f.Get() {
			f.Set(false)
			return true
		}
		return false
	}
}

// newPhaseMachine registers idle (initial), charging, attacking and stunned
func newPhaseMachine(opts ...Option) (*Automaton[phase], map[phase]*timedState) {
	states := map[phase]*timedState{
		idle:      newTimedState(idle),
		charging:  newTimedState(charging),
		attacking: newTimedState(attacking),
		stunned:   newTimedState(stunned),
	}
	a := New[phase](states[idle], opts...)
	a.RegisterState(states[charging])
	a.RegisterState(states[attacking])
	a.RegisterState(states[stunned])
	return a, states
}
