package http

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/neomorfeo/agencyhub/internal/app"
	"github.com/neomorfeo/agencyhub/internal/domain"
)

type RequestServiceInput struct {
	Body struct {
		ClientID   string `json:"client_id" minLength:"1" doc:"Client the service is for"`
		OfferingID string `json:"offering_id" minLength:"1" doc:"Catalog entry to request"`
		Name       string `json:"name,omitempty" maxLength:"255" doc:"Display name (defaults to the offering name)"`
		Notes      string `json:"notes,omitempty" maxLength:"2000" doc:"Anything the agency should know"`
	}
}

type ServiceOutput struct {
	Body ServiceResponse
}

type GetServiceInput struct {
	ID string `path:"id" doc:"Service ID"`
}

type ListServicesInput struct {
	ClientID string `query:"client_id" required:"false" doc:"Filter by client (ignored for client users)"`
	State    string `query:"state" required:"false" doc:"Filter by lifecycle state"`
	Limit    int    `query:"limit" required:"false" default:"50" minimum:"1" maximum:"500" doc:"Max results"`
	Offset   int    `query:"offset" required:"false" default:"0" minimum:"0" doc:"Pagination offset"`
}

type ListServicesOutput struct {
	Body []ServiceResponse
}

type AvailableActionsOutput struct {
	Body struct {
		Service ServiceResponse `json:"service"`
		Actions []string        `json:"actions" doc:"Actions the caller may perform now"`
	}
}

type ApplyActionInput struct {
	ID   string `path:"id" doc:"Service ID"`
	Body struct {
		Action string `json:"action" minLength:"1" doc:"Lifecycle action to perform"`
		Note   string `json:"note,omitempty" maxLength:"2000" doc:"Recorded in the service history"`
	}
}

type HistoryOutput struct {
	Body []HistoryEntry
}

func registerServices(api huma.API, svc *app.LifecycleService) {
	huma.Register(api, huma.Operation{
		OperationID:   "request-service",
		Method:        http.MethodPost,
		Path:          "/api/v1/services",
		Summary:       "Request a new service",
		Tags:          []string{"Services"},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *RequestServiceInput) (*ServiceOutput, error) {
		actor, err := actorFrom(ctx)
		if err != nil {
			return nil, err
		}
		service, err := svc.Request(ctx, actor, input.Body.ClientID, input.Body.OfferingID, input.Body.Name, input.Body.Notes)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &ServiceOutput{Body: toServiceResponse(service)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-service",
		Method:      http.MethodGet,
		Path:        "/api/v1/services/{id}",
		Summary:     "Get a service by ID",
		Tags:        []string{"Services"},
	}, func(ctx context.Context, input *GetServiceInput) (*ServiceOutput, error) {
		actor, err := actorFrom(ctx)
		if err != nil {
			return nil, err
		}
		service, err := svc.Get(ctx, actor, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &ServiceOutput{Body: toServiceResponse(service)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-services",
		Method:      http.MethodGet,
		Path:        "/api/v1/services",
		Summary:     "List services",
		Tags:        []string{"Services"},
	}, func(ctx context.Context, input *ListServicesInput) (*ListServicesOutput, error) {
		actor, err := actorFrom(ctx)
		if err != nil {
			return nil, err
		}

		filter := domain.ServiceFilter{
			ClientID: input.ClientID,
			Limit:    input.Limit,
			Offset:   input.Offset,
		}
		if input.State != "" {
			s := domain.ServiceState(input.State)
			if !s.Valid() {
				return nil, huma.Error422UnprocessableEntity("unknown state " + input.State)
			}
			filter.State = &s
		}

		services, err := svc.List(ctx, actor, filter)
		if err != nil {
			return nil, toHumaError(err)
		}

		resp := make([]ServiceResponse, len(services))
		for i, s := range services {
			resp[i] = toServiceResponse(s)
		}
		return &ListServicesOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-service-actions",
		Method:      http.MethodGet,
		Path:        "/api/v1/services/{id}/actions",
		Summary:     "List the actions the caller may perform on a service",
		Tags:        []string{"Services"},
	}, func(ctx context.Context, input *GetServiceInput) (*AvailableActionsOutput, error) {
		actor, err := actorFrom(ctx)
		if err != nil {
			return nil, err
		}
		service, actions, err := svc.AvailableActions(ctx, actor, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}

		out := &AvailableActionsOutput{}
		out.Body.Service = toServiceResponse(service)
		out.Body.Actions = actionStrings(actions)
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "apply-service-action",
		Method:      http.MethodPost,
		Path:        "/api/v1/services/{id}/actions",
		Summary:     "Perform a lifecycle action",
		Tags:        []string{"Services"},
	}, func(ctx context.Context, input *ApplyActionInput) (*ServiceOutput, error) {
		actor, err := actorFrom(ctx)
		if err != nil {
			return nil, err
		}
		action := domain.ServiceAction(input.Body.Action)
		if !action.Valid() {
			return nil, huma.Error422UnprocessableEntity("unknown action " + input.Body.Action)
		}
		service, err := svc.Apply(ctx, actor, input.ID, action, input.Body.Note)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &ServiceOutput{Body: toServiceResponse(service)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-service-history",
		Method:      http.MethodGet,
		Path:        "/api/v1/services/{id}/history",
		Summary:     "Get the transition history of a service",
		Tags:        []string{"Services"},
	}, func(ctx context.Context, input *GetServiceInput) (*HistoryOutput, error) {
		actor, err := actorFrom(ctx)
		if err != nil {
			return nil, err
		}
		records, err := svc.History(ctx, actor, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}

		resp := make([]HistoryEntry, len(records))
		for i, r := range records {
			resp[i] = toHistoryEntry(r)
		}
		return &HistoryOutput{Body: resp}, nil
	})
}
