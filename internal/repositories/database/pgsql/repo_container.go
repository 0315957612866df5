package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/spinhall/tt_booking_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		BookingRepo: newPgxBookingRepository(dbPool),
		LedgerRepo:  newPgxLedgerRepository(dbPool),
		MatchRepo:   newPgxMatchRepository(dbPool),
		UserRepo:    newPgxUserRepository(dbPool),
		TableRepo:   newPgxTableRepository(dbPool),
		AuditRepo:   newPgxAuditRepository(dbPool),
	}
}
