// Package stagefsm provides a pushdown state machine for authoring staged,
// per-tick entity behavior such as multi-phase adversary AI.
//
// States are long-lived instances registered once per identifier. The
// automaton keeps them on a stack so an interrupting state can be pushed on
// top of a base phase and later popped to resume it. Each tick the host
// calls PerformBehaviors and then PerformStateTransitionCheck; the check
// keeps applying satisfied transitions until the stack settles.
package stagefsm
