package fsm

import (
	"context"
	"errors"

	loopfsm "github.com/looplab/fsm"

	"github.com/neomorfeo/agencyhub/internal/domain"
)

// Compile-time check: Validator implements domain.TransitionValidator.
var _ domain.TransitionValidator = (*Validator)(nil)

// events converts domain.Transitions into looplab/fsm EventDesc format.
// Rules sharing an action and destination collapse into a single EventDesc
// with several sources (e.g. request_cancellation from "active" and
// "expiring_soon" both go to "cancelling").
var events = buildEvents()

func buildEvents() []loopfsm.EventDesc {
	type key struct {
		action string
		dst    string
	}
	type pair struct {
		action domain.ServiceAction
		src    domain.ServiceState
	}
	grouped := make(map[key][]string)
	order := make([]key, 0)
	seen := make(map[pair]bool)

	for _, t := range domain.Transitions {
		// looplab/fsm keeps the last rule for a pair; the domain keeps the first.
		p := pair{action: t.Action, src: t.From}
		if seen[p] {
			continue
		}
		seen[p] = true

		k := key{action: string(t.Action), dst: string(t.To)}
		if _, exists := grouped[k]; !exists {
			order = append(order, k)
		}
		grouped[k] = append(grouped[k], string(t.From))
	}

	out := make([]loopfsm.EventDesc, 0, len(order))
	for _, k := range order {
		out = append(out, loopfsm.EventDesc{
			Name: k.action,
			Src:  grouped[k],
			Dst:  k.dst,
		})
	}
	return out
}

// Validator implements domain.TransitionValidator using looplab/fsm.
// looplab/fsm tracks its current state internally, so every Apply call gets
// a fresh machine seeded with the service's stored state.
type Validator struct{}

// New creates a new FSM-backed transition validator.
func New() *Validator {
	return &Validator{}
}

// Apply checks if the given action is valid from the current state and
// returns the destination state. Returns a domain.TransitionError if no
// rule allows it.
func (v *Validator) Apply(ctx context.Context, current domain.ServiceState, action domain.ServiceAction) (domain.ServiceState, error) {
	machine := loopfsm.NewFSM(string(current), events, nil)

	if err := machine.Event(ctx, string(action)); err != nil {
		var invalidEvent loopfsm.InvalidEventError
		var unknownEvent loopfsm.UnknownEventError
		var noTransition loopfsm.NoTransitionError
		if errors.As(err, &invalidEvent) || errors.As(err, &unknownEvent) || errors.As(err, &noTransition) {
			return "", &domain.TransitionError{
				Action:  action,
				Current: current,
			}
		}
		return "", err
	}

	return domain.ServiceState(machine.Current()), nil
}

// AvailableActions lists every action the lifecycle accepts from current,
// regardless of role.
func (v *Validator) AvailableActions(current domain.ServiceState) []domain.ServiceAction {
	machine := loopfsm.NewFSM(string(current), events, nil)
	names := machine.AvailableTransitions()

	out := make([]domain.ServiceAction, 0, len(names))
	for _, t := range domain.Transitions {
		if t.From != current {
			continue
		}
		for _, n := range names {
			if n == string(t.Action) {
				out = append(out, t.Action)
				break
			}
		}
	}
	return out
}
