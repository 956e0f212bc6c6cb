package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/neomorfeo/agencyhub/internal/domain"
)

// Compile-time check: OfferingRepository implements domain.OfferingRepository.
var _ domain.OfferingRepository = (*OfferingRepository)(nil)

// OfferingRepository implements domain.OfferingRepository using SQLite.
type OfferingRepository struct {
	db *sql.DB
}

const offeringColumns = `id, name, description, price_cents, term_days, active, created_at`

func (r *OfferingRepository) Create(ctx context.Context, o domain.Offering) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO offerings (`+offeringColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.Name, o.Description, o.PriceCents, o.TermDays, o.Active,
		formatTime(o.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting offering: %w", err)
	}
	return nil
}

func (r *OfferingRepository) GetByID(ctx context.Context, id string) (domain.Offering, error) {
	return scanOffering(r.db.QueryRowContext(ctx,
		`SELECT `+offeringColumns+` FROM offerings WHERE id = ?`, id,
	))
}

func (r *OfferingRepository) List(ctx context.Context, activeOnly bool) ([]domain.Offering, error) {
	query := `SELECT ` + offeringColumns + ` FROM offerings`
	if activeOnly {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing offerings: %w", err)
	}
	defer rows.Close()

	offerings := make([]domain.Offering, 0)
	for rows.Next() {
		o, err := scanOffering(rows)
		if err != nil {
			return nil, err
		}
		offerings = append(offerings, o)
	}

	return offerings, rows.Err()
}

func scanOffering(row rowScanner) (domain.Offering, error) {
	var o domain.Offering
	var createdAt string

	err := row.Scan(&o.ID, &o.Name, &o.Description, &o.PriceCents, &o.TermDays, &o.Active, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Offering{}, domain.ErrOfferingNotFound
		}
		return domain.Offering{}, fmt.Errorf("scanning offering: %w", err)
	}

	o.CreatedAt = parseTime(createdAt)
	return o, nil
}
