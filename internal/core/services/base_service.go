package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/buddyair/internal/apperrors"
	"github.com/SscSPs/buddyair/internal/middleware"
	"github.com/SscSPs/buddyair/internal/utils/clock"
)

// AnalyticsTracker receives product analytics events.
type AnalyticsTracker interface {
	Enqueue(distinctId string, event string, properties map[string]any)
}

// BaseService provides common functionality for all services
type BaseService struct {
	Clock clock.Clock
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		// Return a default logger if not found in context
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Debug(msg, keyvals...)
}

// Now reads the service clock, falling back to the wall clock.
func (s *BaseService) Now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock.Now()
}

// AuthorizeOwner hides resources of other users behind ErrNotFound.
func (s *BaseService) AuthorizeOwner(ctx context.Context, ownerID, userID, resource, resourceID string) error {
	if ownerID == userID {
		return nil
	}
	s.LogDebug(ctx, "Resource owned by another user",
		slog.String("resource", resource),
		slog.String("resource_id", resourceID),
		slog.String("user_id", userID))
	return fmt.Errorf("%s %s: %w", resource, resourceID, apperrors.ErrNotFound)
}

// dateOnly keeps the calendar date of t as midnight UTC, which is how DATE columns come back.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// endOfDay is 23:59:59 UTC on t's calendar date, comparable with DATE columns.
func endOfDay(t time.Time) time.Time {
	return dateOnly(t).Add(24*time.Hour - time.Second)
}

func dateOnlyPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := dateOnly(*t)
	return &d
}
