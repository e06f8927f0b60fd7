// Package directory reads the bookable doctor records backing the list menu.
package directory

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultSpecialization is shown for doctors without a recorded specialization.
const DefaultSpecialization = "General Physician"

// Doctor is one bookable provider.
type Doctor struct {
	ID             int64
	Name           string
	Specialization string
}

// Store reads doctors from Postgres.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a directory store backed by the given pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// ListDoctors returns up to limit doctors in the store's natural order.
// A missing specialization comes back as the empty string; display defaults
// are the renderer's concern.
func (s *Store) ListDoctors(ctx context.Context, limit int) ([]Doctor, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, COALESCE(specialization, '') FROM doctors LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query doctors: %w", err)
	}
	defer rows.Close()

	var doctors []Doctor
	for rows.Next() {
		var d Doctor
		if err := rows.Scan(&d.ID, &d.Name, &d.Specialization); err != nil {
			return nil, fmt.Errorf("scan doctor: %w", err)
		}
		doctors = append(doctors, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read doctors: %w", err)
	}

	return doctors, nil
}
