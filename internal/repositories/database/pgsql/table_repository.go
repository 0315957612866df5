package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spinhall/tt_booking_app/internal/apperrors"
	"github.com/spinhall/tt_booking_app/internal/core/domain"
	portsrepo "github.com/spinhall/tt_booking_app/internal/core/ports/repositories"
)

type PgxTableRepository struct {
	BaseRepository
}

// newPgxTableRepository creates a new repository for table data.
func newPgxTableRepository(pool *pgxpool.Pool) *PgxTableRepository {
	return &PgxTableRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxTableRepository implements portsrepo.TableReader
var _ portsrepo.TableReader = (*PgxTableRepository)(nil)

// FindTableByID retrieves a table by ID.
func (r *PgxTableRepository) FindTableByID(ctx context.Context, tableID string) (*domain.Table, error) {
	query := `
		SELECT table_id, number, campus_id, status, created_at
		FROM tables
		WHERE table_id = $1;
	`
	var t domain.Table
	err := r.Pool.QueryRow(ctx, query, tableID).Scan(
		&t.TableID, &t.Number, &t.CampusID, &t.Status, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find table %s: %w", tableID, err)
	}
	return &t, nil
}

// ListTablesByCampus retrieves a campus's tables in the given status, ordered
// by table number.
func (r *PgxTableRepository) ListTablesByCampus(ctx context.Context, campusID string, status domain.TableStatus) ([]domain.Table, error) {
	query := `
		SELECT table_id, number, campus_id, status, created_at
		FROM tables
		WHERE campus_id = $1 AND status = $2
		ORDER BY number;
	`
	rows, err := r.Pool.Query(ctx, query, campusID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables of campus %s: %w", campusID, err)
	}
	defer rows.Close()

	tables := []domain.Table{}
	for rows.Next() {
		var t domain.Table
		if err := rows.Scan(&t.TableID, &t.Number, &t.CampusID, &t.Status, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan table row: %w", err)
		}
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating table rows: %w", err)
	}
	return tables, nil
}
