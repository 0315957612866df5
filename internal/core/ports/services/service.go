package services

// ServiceProvider holds all service interfaces needed by the handlers.
type ServiceProvider struct {
	AuthSvc       AuthSvcFacade
	BookingSvc    BookingSvcFacade
	CalendarSvc   CalendarSvcFacade
	LedgerSvc     LedgerSvcFacade
	MatchSvc      MatchSvcFacade
	TournamentSvc TournamentSvcFacade
}
