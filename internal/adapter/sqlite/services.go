package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/neomorfeo/agencyhub/internal/domain"
)

// Compile-time check: ServiceRepository implements domain.ServiceRepository.
var _ domain.ServiceRepository = (*ServiceRepository)(nil)

// ServiceRepository implements domain.ServiceRepository using SQLite.
type ServiceRepository struct {
	db *sql.DB
}

const serviceColumns = `id, client_id, offering_id, name, state, notes, expires_at, created_at, updated_at`

func (r *ServiceRepository) Create(ctx context.Context, s domain.Service, record domain.TransitionRecord, hook domain.WriteHook) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	_, err = tx.ExecContext(ctx,
		`INSERT INTO services (`+serviceColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.ClientID, s.OfferingID, s.Name, string(s.State), s.Notes,
		nullableTime(s), formatTime(s.CreatedAt), formatTime(s.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting service: %w", err)
	}

	if err := insertRecord(ctx, tx, record); err != nil {
		return err
	}

	if err := runHook(ctx, tx, hook); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing service: %w", err)
	}
	return nil
}

func (r *ServiceRepository) GetByID(ctx context.Context, id string) (domain.Service, error) {
	return scanService(r.db.QueryRowContext(ctx,
		`SELECT `+serviceColumns+` FROM services WHERE id = ?`, id,
	))
}

func (r *ServiceRepository) List(ctx context.Context, filter domain.ServiceFilter) ([]domain.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE 1 = 1`
	var args []any

	if filter.ClientID != "" {
		query += ` AND client_id = ?`
		args = append(args, filter.ClientID)
	}

	if filter.State != nil {
		query += ` AND state = ?`
		args = append(args, string(*filter.State))
	}

	if filter.ExpiringBefore != nil {
		query += ` AND expires_at IS NOT NULL AND expires_at < ?`
		args = append(args, formatTime(*filter.ExpiringBefore))
	}

	query += ` ORDER BY created_at DESC, id`

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += ` OFFSET ?`
			args = append(args, filter.Offset)
		}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing services: %w", err)
	}
	defer rows.Close()

	services := make([]domain.Service, 0)
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		services = append(services, s)
	}

	return services, rows.Err()
}

func (r *ServiceRepository) ApplyTransition(ctx context.Context, s domain.Service, record domain.TransitionRecord, expected domain.ServiceState, hook domain.WriteHook) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	result, err := tx.ExecContext(ctx,
		`UPDATE services SET state = ?, expires_at = ?, updated_at = ?
		 WHERE id = ? AND state = ?`,
		string(s.State), nullableTime(s), formatTime(s.UpdatedAt),
		s.ID, string(expected),
	)
	if err != nil {
		return fmt.Errorf("updating service: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		// Tell a missing service apart from one that moved on.
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM services WHERE id = ?`, s.ID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrServiceNotFound
		}
		if err != nil {
			return fmt.Errorf("checking service: %w", err)
		}
		return &domain.StaleStateError{ServiceID: s.ID, Expected: expected}
	}

	if err := insertRecord(ctx, tx, record); err != nil {
		return err
	}

	if err := runHook(ctx, tx, hook); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transition: %w", err)
	}
	return nil
}

func (r *ServiceRepository) History(ctx context.Context, serviceID string) ([]domain.TransitionRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, service_id, from_state, to_state, action, actor_id, actor_role, note, created_at
		 FROM service_transitions WHERE service_id = ? ORDER BY created_at, rowid`, serviceID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing transitions: %w", err)
	}
	defer rows.Close()

	records := make([]domain.TransitionRecord, 0)
	for rows.Next() {
		var rec domain.TransitionRecord
		var from, to, action, role, createdAt string
		if err := rows.Scan(&rec.ID, &rec.ServiceID, &from, &to, &action, &rec.ActorID, &role, &rec.Note, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning transition row: %w", err)
		}
		rec.From = domain.ServiceState(from)
		rec.To = domain.ServiceState(to)
		rec.Action = domain.ServiceAction(action)
		rec.ActorRole = domain.Role(role)
		rec.CreatedAt = parseTime(createdAt)
		records = append(records, rec)
	}

	return records, rows.Err()
}

func insertRecord(ctx context.Context, tx *sql.Tx, rec domain.TransitionRecord) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO service_transitions
		 (id, service_id, from_state, to_state, action, actor_id, actor_role, note, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.ServiceID, string(rec.From), string(rec.To), string(rec.Action),
		rec.ActorID, string(rec.ActorRole), rec.Note, formatTime(rec.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting transition record: %w", err)
	}
	return nil
}

func nullableTime(s domain.Service) sql.NullString {
	if s.ExpiresAt == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*s.ExpiresAt), Valid: true}
}

func scanService(row rowScanner) (domain.Service, error) {
	var s domain.Service
	var state, createdAt, updatedAt string
	var expiresAt sql.NullString

	err := row.Scan(&s.ID, &s.ClientID, &s.OfferingID, &s.Name, &state, &s.Notes, &expiresAt, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Service{}, domain.ErrServiceNotFound
		}
		return domain.Service{}, fmt.Errorf("scanning service: %w", err)
	}

	s.State = domain.ServiceState(state)
	if expiresAt.Valid {
		t := parseTime(expiresAt.String)
		s.ExpiresAt = &t
	}
	s.CreatedAt = parseTime(createdAt)
	s.UpdatedAt = parseTime(updatedAt)
	return s, nil
}
