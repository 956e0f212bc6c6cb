package http

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/neomorfeo/agencyhub/internal/app"
	"github.com/neomorfeo/agencyhub/internal/auth"
	"github.com/neomorfeo/agencyhub/internal/domain"
)

// Services are the application services exposed over HTTP.
type Services struct {
	Clients   *app.ClientService
	Catalog   *app.CatalogService
	Lifecycle *app.LifecycleService
}

// Register adds all API routes to the Huma API.
func Register(api huma.API, svc Services) {
	registerClients(api, svc.Clients)
	registerOfferings(api, svc.Catalog)
	registerServices(api, svc.Lifecycle)
	registerLifecycle(api)
}

// actorFrom returns the authenticated caller. The authentication middleware
// rejects anonymous requests before they reach a handler.
func actorFrom(ctx context.Context) (domain.Actor, error) {
	actor, ok := auth.ActorFrom(ctx)
	if !ok {
		return domain.Actor{}, huma.Error401Unauthorized(domain.ErrUnauthenticated.Error())
	}
	return actor, nil
}

// toHumaError translates domain errors to Huma HTTP errors.
func toHumaError(err error) error {
	switch {
	case errors.Is(err, domain.ErrClientNotFound),
		errors.Is(err, domain.ErrOfferingNotFound),
		errors.Is(err, domain.ErrServiceNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, domain.ErrOfferingInactive):
		return huma.Error422UnprocessableEntity(err.Error())
	case errors.Is(err, domain.ErrUnauthenticated):
		return huma.Error401Unauthorized(err.Error())
	}

	var slugErr *domain.SlugConflictError
	if errors.As(err, &slugErr) {
		return huma.Error409Conflict(slugErr.Error())
	}

	var staleErr *domain.StaleStateError
	if errors.As(err, &staleErr) {
		return huma.Error409Conflict(staleErr.Error())
	}

	var trErr *domain.TransitionError
	if errors.As(err, &trErr) {
		return huma.Error422UnprocessableEntity(trErr.Error())
	}

	var forbidden *domain.ForbiddenError
	if errors.As(err, &forbidden) {
		return huma.Error403Forbidden(forbidden.Error())
	}

	return huma.Error500InternalServerError("internal server error")
}
