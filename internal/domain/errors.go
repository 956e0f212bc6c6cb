package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for simple conditions without extra context.
var (
	ErrClientNotFound   = errors.New("client not found")
	ErrOfferingNotFound = errors.New("offering not found")
	ErrServiceNotFound  = errors.New("service not found")
	ErrOfferingInactive = errors.New("offering is not available")
	ErrUnauthenticated  = errors.New("authentication required")
)

// SlugConflictError is returned when a client slug is already in use.
type SlugConflictError struct {
	Slug string
}

func (e *SlugConflictError) Error() string {
	return fmt.Sprintf("slug %q is already in use", e.Slug)
}

// TransitionError is returned when no lifecycle rule matches the action.
type TransitionError struct {
	Action  ServiceAction
	Current ServiceState
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("action %q is not valid from state %q", e.Action, e.Current)
}

// ForbiddenError is returned when a rule exists but the actor may not use it.
type ForbiddenError struct {
	Action  ServiceAction
	Current ServiceState
	Role    Role
}

func (e *ForbiddenError) Error() string {
	if e.Action == "" {
		return fmt.Sprintf("role %q may not access this resource", e.Role)
	}
	return fmt.Sprintf("role %q may not perform %q from state %q", e.Role, e.Action, e.Current)
}

// StaleStateError is returned when a service changed state between being
// read and being written.
type StaleStateError struct {
	ServiceID string
	Expected  ServiceState
}

func (e *StaleStateError) Error() string {
	return fmt.Sprintf("service %q is no longer in state %q", e.ServiceID, e.Expected)
}
