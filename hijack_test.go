package stagefsm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func redirectTo(target phase, when *Flag) HijackSelectFunc[phase] {
	return func(proposed Target[phase]) Target[phase] {
		if when.Get() {
			return TargetOf(target)
		}
		return proposed
	}
}

func TestHijack_ReplacesTarget(t *testing.T) {
	a, _ := newPhaseMachine()
	observer := NewTestObserver[phase]()
	a.AddObserver(observer)
	stun := &Flag{}
	var hijacked []Target[phase]

	require.NoError(t, a.RegisterTransition(idle, TargetOf(charging), false, always, nil))
	require.NoError(t, a.AddTransitionStateHijack(redirectTo(stunned, stun), func(resolved Target[phase]) {
		hijacked = append(hijacked, resolved)
	}))

	stun.Set(true)
	require.NoError(t, a.PerformStateTransitionCheck())

	AssertStack(t, a, stunned)
	assert.Equal(t, []Target[phase]{TargetOf(stunned)}, hijacked)
	assert.Equal(t, 1, observer.Count(RecordHijack))
	assert.Equal(t, []string{"pop:Idle", "hijack", "push:Stunned", "transition:Idle"}, observer.Trace())
}

func TestHijack_UnchangedProposalIsNotHijacked(t *testing.T) {
	a, _ := newPhaseMachine()
	calls := 0
	require.NoError(t, a.RegisterTransition(idle, TargetOf(charging), false, always, nil))
	require.NoError(t, a.AddTransitionStateHijack(redirectTo(stunned, &Flag{}), func(Target[phase]) {
		calls++
	}))

	require.NoError(t, a.PerformStateTransitionCheck())

	AssertStack(t, a, charging)
	assert.Zero(t, calls)
}

func TestHijack_SelectReturningProposalIsIgnored(t *testing.T) {
	a, _ := newPhaseMachine()
	calls := 0
	require.NoError(t, a.RegisterTransition(idle, TargetOf(stunned), false, once(&Flag{value: true}), nil))
	// Redirecting to the proposed target is not a hijack.
	require.NoError(t, a.AddTransitionStateHijack(redirectTo(stunned, &Flag{value: true}), func(Target[phase]) {
		calls++
	}))

	require.NoError(t, a.PerformStateTransitionCheck())

	AssertStack(t, a, stunned)
	assert.Zero(t, calls)
}

func TestHijack_FirstChangingHijackWins(t *testing.T) {
	a, _ := newPhaseMachine()
	var order []string
	require.NoError(t, a.RegisterTransition(idle, TargetOf(charging), false, always, nil))

	require.NoError(t, a.AddTransitionStateHijack(func(proposed Target[phase]) Target[phase] {
		order = append(order, "passive")
		return proposed
	}, nil))
	require.NoError(t, a.AddTransitionStateHijack(redirectTo(attacking, &Flag{value: true}), func(Target[phase]) {
		order = append(order, "attacking")
	}))
	require.NoError(t, a.AddTransitionStateHijack(func(proposed Target[phase]) Target[phase] {
		order = append(order, "late")
		return TargetOf(stunned)
	}, nil))

	require.NoError(t, a.PerformStateTransitionCheck())

	AssertStack(t, a, attacking)
	assert.Equal(t, []string{"passive", "attacking"}, order)
}

func TestHijack_CanTurnPushIntoPop(t *testing.T) {
	a, _ := newPhaseMachine()
	interrupt := &Flag{}
	require.NoError(t, a.RegisterTransition(idle, TargetOf(charging), true, once(interrupt), nil))
	require.NoError(t, a.RegisterTransition(charging, TargetOf(attacking), false, always, nil))
	require.NoError(t, a.AddTransitionStateHijack(func(proposed Target[phase]) Target[phase] {
		if proposed == TargetOf(attacking) {
			return NoTarget[phase]()
		}
		return proposed
	}, nil))

	interrupt.Set(true)
	require.NoError(t, a.PerformStateTransitionCheck())

	AssertStack(t, a, idle)
}

func TestHijack_CanRedirectPop(t *testing.T) {
	a, _ := newPhaseMachine()
	var resolved Target[phase]
	require.NoError(t, a.RegisterTransition(idle, NoTarget[phase](), false, once(&Flag{value: true}), nil))
	require.NoError(t, a.AddTransitionStateHijack(func(proposed Target[phase]) Target[phase] {
		if !proposed.Valid {
			return TargetOf(stunned)
		}
		return proposed
	}, func(target Target[phase]) {
		resolved = target
	}))

	require.NoError(t, a.PerformStateTransitionCheck())

	AssertStack(t, a, stunned)
	assert.Equal(t, TargetOf(stunned), resolved)
}

func TestHijack_ToUnregisteredStateFails(t *testing.T) {
	a, _ := newPhaseMachine()
	require.NoError(t, a.RegisterTransition(idle, TargetOf(charging), false, always, nil))
	require.NoError(t, a.AddTransitionStateHijack(redirectTo(recovering, &Flag{value: true}), nil))

	err := a.PerformStateTransitionCheck()

	assert.True(t, IsStateError(err))
}

func TestTarget_String(t *testing.T) {
	assert.Equal(t, "Stunned", TargetOf(stunned).String())
	assert.Equal(t, "<pop>", NoTarget[phase]().String())
	assert.Equal(t, NoTarget[phase](), Target[phase]{ID: charging}.normalize())
}
