package http

import (
	"time"

	"github.com/neomorfeo/agencyhub/internal/domain"
)

const timeFormat = "2006-01-02T15:04:05Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

// ClientResponse is the API representation of a client.
type ClientResponse struct {
	ID        string `json:"id" doc:"Unique identifier"`
	Name      string `json:"name" doc:"Display name"`
	Slug      string `json:"slug" doc:"URL-friendly identifier"`
	Email     string `json:"email" doc:"Contact address"`
	CreatedAt string `json:"created_at" doc:"Creation timestamp (ISO 8601)"`
	UpdatedAt string `json:"updated_at" doc:"Last update timestamp (ISO 8601)"`
}

func toClientResponse(c domain.Client) ClientResponse {
	return ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Slug:      c.Slug,
		Email:     c.Email,
		CreatedAt: formatTime(c.CreatedAt),
		UpdatedAt: formatTime(c.UpdatedAt),
	}
}

// OfferingResponse is the API representation of a catalog entry.
type OfferingResponse struct {
	ID          string `json:"id" doc:"Unique identifier"`
	Name        string `json:"name" doc:"Display name"`
	Description string `json:"description,omitempty" doc:"What the offering includes"`
	PriceCents  int64  `json:"price_cents" doc:"Price per term in cents"`
	TermDays    int    `json:"term_days" doc:"Length of one term in days"`
	Active      bool   `json:"active" doc:"Whether new services may be requested"`
	CreatedAt   string `json:"created_at" doc:"Creation timestamp (ISO 8601)"`
}

func toOfferingResponse(o domain.Offering) OfferingResponse {
	return OfferingResponse{
		ID:          o.ID,
		Name:        o.Name,
		Description: o.Description,
		PriceCents:  o.PriceCents,
		TermDays:    o.TermDays,
		Active:      o.Active,
		CreatedAt:   formatTime(o.CreatedAt),
	}
}

// ServiceResponse is the API representation of a service instance.
type ServiceResponse struct {
	ID         string `json:"id" doc:"Unique identifier"`
	ClientID   string `json:"client_id" doc:"Owning client"`
	OfferingID string `json:"offering_id" doc:"Catalog entry"`
	Name       string `json:"name" doc:"Display name"`
	State      string `json:"state" doc:"Lifecycle state"`
	Phase      string `json:"phase" doc:"Lifecycle phase the state belongs to"`
	Terminal   bool   `json:"terminal" doc:"No further action can be taken"`
	Notes      string `json:"notes,omitempty" doc:"Free-form notes from the request"`
	ExpiresAt  string `json:"expires_at,omitempty" doc:"End of the current term (ISO 8601)"`
	CreatedAt  string `json:"created_at" doc:"Creation timestamp (ISO 8601)"`
	UpdatedAt  string `json:"updated_at" doc:"Last update timestamp (ISO 8601)"`
}

func toServiceResponse(s domain.Service) ServiceResponse {
	resp := ServiceResponse{
		ID:         s.ID,
		ClientID:   s.ClientID,
		OfferingID: s.OfferingID,
		Name:       s.Name,
		State:      string(s.State),
		Phase:      string(s.State.Phase()),
		Terminal:   s.State.IsTerminal(),
		Notes:      s.Notes,
		CreatedAt:  formatTime(s.CreatedAt),
		UpdatedAt:  formatTime(s.UpdatedAt),
	}
	if s.ExpiresAt != nil {
		resp.ExpiresAt = formatTime(*s.ExpiresAt)
	}
	return resp
}

// HistoryEntry is one recorded transition.
type HistoryEntry struct {
	ID        string `json:"id"`
	From      string `json:"from,omitempty" doc:"Empty for the initial request"`
	To        string `json:"to"`
	Action    string `json:"action"`
	ActorID   string `json:"actor_id"`
	ActorRole string `json:"actor_role"`
	Note      string `json:"note,omitempty"`
	CreatedAt string `json:"created_at"`
}

func toHistoryEntry(r domain.TransitionRecord) HistoryEntry {
	return HistoryEntry{
		ID:        r.ID,
		From:      string(r.From),
		To:        string(r.To),
		Action:    string(r.Action),
		ActorID:   r.ActorID,
		ActorRole: string(r.ActorRole),
		Note:      r.Note,
		CreatedAt: formatTime(r.CreatedAt),
	}
}

// TransitionRule is one row of the lifecycle table.
type TransitionRule struct {
	From         string   `json:"from"`
	Action       string   `json:"action"`
	To           string   `json:"to"`
	RequiredRole string   `json:"required_role"`
	NotifyRoles  []string `json:"notify_roles"`
}

func toTransitionRule(t domain.Transition) TransitionRule {
	return TransitionRule{
		From:         string(t.From),
		Action:       string(t.Action),
		To:           string(t.To),
		RequiredRole: string(t.RequiredRole),
		NotifyRoles:  roleStrings(t.NotifyRoles),
	}
}

func actionStrings(actions []domain.ServiceAction) []string {
	out := make([]string, len(actions))
	for i, a := range actions {
		out[i] = string(a)
	}
	return out
}

func roleStrings(roles []domain.Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}
