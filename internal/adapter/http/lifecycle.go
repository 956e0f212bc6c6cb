package http

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/neomorfeo/agencyhub/internal/domain"
)

type TransitionsOutput struct {
	Body []TransitionRule
}

type LifecycleActionsInput struct {
	State string `query:"state" required:"true" doc:"Current lifecycle state"`
	Role  string `query:"role" required:"true" doc:"Role asking"`
}

type LifecycleActionsOutput struct {
	Body struct {
		State   string   `json:"state"`
		Role    string   `json:"role"`
		Actions []string `json:"actions"`
	}
}

type NextStateInput struct {
	State  string `query:"state" required:"true" doc:"Current lifecycle state"`
	Action string `query:"action" required:"true" doc:"Action to perform"`
}

type NextStateOutput struct {
	Body struct {
		State  string `json:"state"`
		Action string `json:"action"`
		Next   string `json:"next"`
	}
}

// registerLifecycle exposes the lifecycle table itself. These routes read no
// stored data.
func registerLifecycle(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-transitions",
		Method:      http.MethodGet,
		Path:        "/api/v1/lifecycle/transitions",
		Summary:     "List every lifecycle transition",
		Tags:        []string{"Lifecycle"},
	}, func(_ context.Context, _ *struct{}) (*TransitionsOutput, error) {
		resp := make([]TransitionRule, len(domain.Transitions))
		for i, t := range domain.Transitions {
			resp[i] = toTransitionRule(t)
		}
		return &TransitionsOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "lifecycle-actions",
		Method:      http.MethodGet,
		Path:        "/api/v1/lifecycle/actions",
		Summary:     "Actions a role may perform from a state",
		Tags:        []string{"Lifecycle"},
	}, func(_ context.Context, input *LifecycleActionsInput) (*LifecycleActionsOutput, error) {
		state := domain.ServiceState(input.State)
		if !state.Valid() {
			return nil, huma.Error422UnprocessableEntity("unknown state " + input.State)
		}
		role := domain.Role(input.Role)
		if !role.Valid() {
			return nil, huma.Error422UnprocessableEntity("unknown role " + input.Role)
		}

		out := &LifecycleActionsOutput{}
		out.Body.State = input.State
		out.Body.Role = input.Role
		out.Body.Actions = actionStrings(domain.ValidNextActions(state, role))
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "lifecycle-next-state",
		Method:      http.MethodGet,
		Path:        "/api/v1/lifecycle/next",
		Summary:     "Resolve the state an action leads to",
		Tags:        []string{"Lifecycle"},
	}, func(_ context.Context, input *NextStateInput) (*NextStateOutput, error) {
		state := domain.ServiceState(input.State)
		if !state.Valid() {
			return nil, huma.Error422UnprocessableEntity("unknown state " + input.State)
		}
		action := domain.ServiceAction(input.Action)
		if !action.Valid() {
			return nil, huma.Error422UnprocessableEntity("unknown action " + input.Action)
		}

		next, ok := domain.NextState(state, action)
		if !ok {
			return nil, huma.Error404NotFound("no transition for " + input.Action + " from " + input.State)
		}

		out := &NextStateOutput{}
		out.Body.State = input.State
		out.Body.Action = input.Action
		out.Body.Next = string(next)
		return out, nil
	})
}
