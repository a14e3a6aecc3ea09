package observers

import (
	"fmt"

	"github.com/anggasct/stagefsm"
)

// NewDefaultLoggingObserver creates a LogInfo observer whose prefix names the
// automaton and the first block of its instance ID
func NewDefaultLoggingObserver[ID comparable](a *stagefsm.Automaton[ID]) *LoggingObserver[ID] {
	id := a.ID()
	if len(id) > 8 {
		id = id[:8]
	}
	return NewLoggingObserver[ID](LogInfo, fmt.Sprintf("%s/%s", a.Name(), id))
}
