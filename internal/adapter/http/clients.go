package http

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/neomorfeo/agencyhub/internal/app"
	"github.com/neomorfeo/agencyhub/internal/domain"
)

type CreateClientInput struct {
	Body struct {
		Name  string `json:"name" minLength:"1" maxLength:"255" doc:"Display name"`
		Slug  string `json:"slug" minLength:"1" maxLength:"100" pattern:"^[a-z0-9]+(?:-[a-z0-9]+)*$" doc:"URL-friendly identifier (lowercase, hyphens)"`
		Email string `json:"email" format:"email" doc:"Contact address"`
	}
}

type ClientOutput struct {
	Body ClientResponse
}

type GetClientInput struct {
	ID string `path:"id" doc:"Client ID"`
}

type UpdateClientInput struct {
	ID   string `path:"id" doc:"Client ID"`
	Body struct {
		Name  *string `json:"name,omitempty" minLength:"1" maxLength:"255" doc:"Display name"`
		Slug  *string `json:"slug,omitempty" minLength:"1" maxLength:"100" pattern:"^[a-z0-9]+(?:-[a-z0-9]+)*$" doc:"URL-friendly identifier (staff only)"`
		Email *string `json:"email,omitempty" format:"email" doc:"Contact address"`
	}
}

type ListClientsInput struct {
	Limit  int `query:"limit" required:"false" default:"50" minimum:"1" maximum:"500" doc:"Max results"`
	Offset int `query:"offset" required:"false" default:"0" minimum:"0" doc:"Pagination offset"`
}

type ListClientsOutput struct {
	Body []ClientResponse
}

func registerClients(api huma.API, svc *app.ClientService) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-client",
		Method:        http.MethodPost,
		Path:          "/api/v1/clients",
		Summary:       "Create a client",
		Tags:          []string{"Clients"},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *CreateClientInput) (*ClientOutput, error) {
		actor, err := actorFrom(ctx)
		if err != nil {
			return nil, err
		}
		client, err := svc.Create(ctx, actor, input.Body.Name, input.Body.Slug, input.Body.Email)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &ClientOutput{Body: toClientResponse(client)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-client",
		Method:      http.MethodGet,
		Path:        "/api/v1/clients/{id}",
		Summary:     "Get a client by ID",
		Tags:        []string{"Clients"},
	}, func(ctx context.Context, input *GetClientInput) (*ClientOutput, error) {
		actor, err := actorFrom(ctx)
		if err != nil {
			return nil, err
		}
		client, err := svc.GetByID(ctx, actor, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &ClientOutput{Body: toClientResponse(client)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-client",
		Method:      http.MethodPatch,
		Path:        "/api/v1/clients/{id}",
		Summary:     "Update a client",
		Description: "Clients may edit their own name and email.",
		Tags:        []string{"Clients"},
	}, func(ctx context.Context, input *UpdateClientInput) (*ClientOutput, error) {
		actor, err := actorFrom(ctx)
		if err != nil {
			return nil, err
		}
		client, err := svc.Update(ctx, actor, input.ID, app.ClientChanges{
			Name:  input.Body.Name,
			Slug:  input.Body.Slug,
			Email: input.Body.Email,
		})
		if err != nil {
			return nil, toHumaError(err)
		}
		return &ClientOutput{Body: toClientResponse(client)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-clients",
		Method:      http.MethodGet,
		Path:        "/api/v1/clients",
		Summary:     "List clients",
		Description: "Client users only see their own record.",
		Tags:        []string{"Clients"},
	}, func(ctx context.Context, input *ListClientsInput) (*ListClientsOutput, error) {
		actor, err := actorFrom(ctx)
		if err != nil {
			return nil, err
		}
		clients, err := svc.List(ctx, actor, domain.ClientFilter{Limit: input.Limit, Offset: input.Offset})
		if err != nil {
			return nil, toHumaError(err)
		}

		resp := make([]ClientResponse, len(clients))
		for i, c := range clients {
			resp[i] = toClientResponse(c)
		}
		return &ListClientsOutput{Body: resp}, nil
	})
}
