package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spinhall/tt_booking_app/internal/core/domain"
	portsrepo "github.com/spinhall/tt_booking_app/internal/core/ports/repositories"
)

type PgxAuditRepository struct {
	BaseRepository
}

// newPgxAuditRepository creates a new repository for audit entries.
func newPgxAuditRepository(pool *pgxpool.Pool) *PgxAuditRepository {
	return &PgxAuditRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxAuditRepository implements portsrepo.AuditRecorder
var _ portsrepo.AuditRecorder = (*PgxAuditRepository)(nil)

// RecordAction appends an audit entry. Callers treat failures as log-only.
func (r *PgxAuditRepository) RecordAction(ctx context.Context, entry domain.AuditLog) error {
	query := `
		INSERT INTO audit_logs (log_id, user_id, action, description, ip_address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := r.Pool.Exec(ctx, query,
		entry.LogID, entry.UserID, entry.Action, entry.Description, entry.IPAddress, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}
