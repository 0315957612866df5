package services

import (
	portsrepo "github.com/spinhall/tt_booking_app/internal/core/ports/repositories"
	portssvc "github.com/spinhall/tt_booking_app/internal/core/ports/services"
)

// NewServiceProvider wires every service implementation to its repositories.
func NewServiceProvider(repos *portsrepo.RepositoryProvider, token TokenConfig) *portssvc.ServiceProvider {
	return &portssvc.ServiceProvider{
		AuthSvc:       NewAuthServiceImpl(repos.UserRepo, token, repos.AuditRepo),
		BookingSvc:    NewBookingServiceImpl(repos.BookingRepo, repos.UserRepo, repos.TableRepo, repos.AuditRepo),
		CalendarSvc:   NewCalendarServiceImpl(repos.BookingRepo, repos.TableRepo),
		LedgerSvc:     NewLedgerServiceImpl(repos.LedgerRepo, repos.AuditRepo),
		MatchSvc:      NewMatchServiceImpl(repos.MatchRepo, repos.AuditRepo),
		TournamentSvc: NewTournamentServiceImpl(repos.MatchRepo, repos.AuditRepo),
	}
}
