package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	BookingRepo BookingRepositoryFacade
	LedgerRepo  LedgerRepositoryFacade
	MatchRepo   MatchRepositoryFacade
	UserRepo    UserRepositoryFacade
	TableRepo   TableReader
	AuditRepo   AuditRecorder
}
