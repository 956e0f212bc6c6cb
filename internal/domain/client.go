package domain

import "time"

// Client is an organization buying services from the agency.
type Client struct {
	ID        string
	Name      string
	Slug      string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewClient creates a client record stamped with the current time.
func NewClient(id, name, slug, email string) Client {
	now := time.Now().UTC()
	return Client{
		ID:        id,
		Name:      name,
		Slug:      slug,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Offering is an entry of the service catalog.
type Offering struct {
	ID          string
	Name        string
	Description string
	PriceCents  int64
	// TermDays is how long a service stays active after activation or renewal.
	TermDays  int
	Active    bool
	CreatedAt time.Time
}

// NewOffering creates an active catalog entry.
func NewOffering(id, name, description string, priceCents int64, termDays int) Offering {
	return Offering{
		ID:          id,
		Name:        name,
		Description: description,
		PriceCents:  priceCents,
		TermDays:    termDays,
		Active:      true,
		CreatedAt:   time.Now().UTC(),
	}
}

// Term returns the offering's term as a duration.
func (o Offering) Term() time.Duration {
	return time.Duration(o.TermDays) * 24 * time.Hour
}
