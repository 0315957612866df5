package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spinhall/tt_booking_app/internal/core/domain"
	portsrepo "github.com/spinhall/tt_booking_app/internal/core/ports/repositories"
	"github.com/spinhall/tt_booking_app/internal/middleware"
)

// BaseService provides common functionality for all services.
type BaseService struct {
	AuditRepo portsrepo.AuditRecorder
}

// GetLogger gets the logger from context or returns a default one.
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting.
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting.
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting.
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// RecordAudit writes a fire-and-forget audit entry. Failures are logged and
// never surfaced: the audited operation has already committed.
func (s *BaseService) RecordAudit(ctx context.Context, actorID, action, description string) {
	if s.AuditRepo == nil {
		return
	}
	entry := domain.AuditLog{
		LogID:       uuid.NewString(),
		UserID:      actorID,
		Action:      action,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.AuditRepo.RecordAction(ctx, entry); err != nil {
		s.LogError(ctx, err, "Failed to record audit entry", slog.String("action", action))
	}
}
