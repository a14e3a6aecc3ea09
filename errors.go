package stagefsm

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents specific error conditions in the automaton
type ErrorCode int

const (
	// No error occurred
	ErrCodeNone ErrorCode = iota
	// State was not found in the registry
	ErrCodeStateNotFound
	// Automaton configuration is invalid
	ErrCodeInvalidConfiguration
	// Transition chain did not settle within the step limit
	ErrCodeSettleLimit
)

// StateError represents state-related errors
type StateError struct {
	Code    ErrorCode
	StateID string
	Message string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("state error [%s]: %s", e.StateID, e.Message)
}

// NewStateNotFoundError creates a new state not found error
func NewStateNotFoundError(stateID string) *StateError {
	return &StateError{
		Code:    ErrCodeStateNotFound,
		StateID: stateID,
		Message: fmt.Sprintf("state '%s' is not registered", stateID),
	}
}

// ConfigurationError represents automaton configuration issues
type ConfigurationError struct {
	Component string
	Issue     string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Issue)
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(component, issue string) *ConfigurationError {
	return &ConfigurationError{
		Component: component,
		Issue:     issue,
	}
}

// SettleError is returned when a single transition check keeps firing
// transitions past the configured step limit.
type SettleError struct {
	Machine   string
	MachineID string
	Limit     int
	// Path holds the identifiers that were on top of the stack after each
	// transition, oldest first, truncated to the most recent entries.
	Path []string
}

func (e *SettleError) Error() string {
	return fmt.Sprintf("machine %s [%s] did not settle after %d transitions (recent path: %s)",
		e.Machine, e.MachineID, e.Limit, strings.Join(e.Path, " -> "))
}

// NewSettleError creates a new settle limit error
func NewSettleError(machine, machineID string, limit int, path []string) *SettleError {
	return &SettleError{
		Machine:   machine,
		MachineID: machineID,
		Limit:     limit,
		Path:      path,
	}
}

// IsStateError checks if an error is a StateError
func IsStateError(err error) bool {
	var target *StateError
	return errors.As(err, &target)
}

// IsConfigurationError checks if an error is a ConfigurationError
func IsConfigurationError(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}

// IsSettleError checks if an error is a SettleError
func IsSettleError(err error) bool {
	var target *SettleError
	return errors.As(err, &target)
}

// GetErrorCode returns the error code for known error types
func GetErrorCode(err error) ErrorCode {
	var (
		stateErr  *StateError
		configErr *ConfigurationError
		settleErr *SettleError
	)
	switch {
	case errors.As(err, &stateErr):
		return stateErr.Code
	case errors.As(err, &configErr):
		return ErrCodeInvalidConfiguration
	case errors.As(err, &settleErr):
		return ErrCodeSettleLimit
	default:
		return ErrCodeNone
	}
}

func idString[ID comparable](id ID) string {
	return fmt.Sprint(id)
}
