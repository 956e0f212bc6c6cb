package http

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/neomorfeo/agencyhub/internal/app"
)

type CreateOfferingInput struct {
	Body struct {
		Name        string `json:"name" minLength:"1" maxLength:"255" doc:"Display name"`
		Description string `json:"description,omitempty" maxLength:"2000" doc:"What the offering includes"`
		PriceCents  int64  `json:"price_cents" minimum:"0" doc:"Price per term in cents"`
		TermDays    int    `json:"term_days" minimum:"1" maximum:"3660" doc:"Length of one term in days"`
	}
}

type OfferingOutput struct {
	Body OfferingResponse
}

type ListOfferingsInput struct {
	IncludeInactive bool `query:"include_inactive" required:"false" doc:"Include retired offerings (staff and admin only)"`
}

type ListOfferingsOutput struct {
	Body []OfferingResponse
}

func registerOfferings(api huma.API, svc *app.CatalogService) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-offering",
		Method:        http.MethodPost,
		Path:          "/api/v1/offerings",
		Summary:       "Add an offering to the catalog",
		Tags:          []string{"Catalog"},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *CreateOfferingInput) (*OfferingOutput, error) {
		actor, err := actorFrom(ctx)
		if err != nil {
			return nil, err
		}
		offering, err := svc.Create(ctx, actor, input.Body.Name, input.Body.Description, input.Body.PriceCents, input.Body.TermDays)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &OfferingOutput{Body: toOfferingResponse(offering)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-offerings",
		Method:      http.MethodGet,
		Path:        "/api/v1/offerings",
		Summary:     "List the catalog",
		Tags:        []string{"Catalog"},
	}, func(ctx context.Context, input *ListOfferingsInput) (*ListOfferingsOutput, error) {
		actor, err := actorFrom(ctx)
		if err != nil {
			return nil, err
		}
		offerings, err := svc.List(ctx, actor, input.IncludeInactive)
		if err != nil {
			return nil, toHumaError(err)
		}

		resp := make([]OfferingResponse, len(offerings))
		for i, o := range offerings {
			resp[i] = toOfferingResponse(o)
		}
		return &ListOfferingsOutput{Body: resp}, nil
	})
}
