package service

import (
	"context"
	"time"

	dErrors "carehub/pkg/domain-errors"
	"carehub/pkg/platform/privacy"
	"carehub/pkg/requestcontext"
)

// Observability helpers for logging and metrics. Emails are only logged as
// their domain and only on failure paths.

func (s *Service) logInfo(ctx context.Context, event string, attributes ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", event, "log_type", "audit")
	s.logger.InfoContext(ctx, event, args...)
}

func (s *Service) logFailure(ctx context.Context, reason string, isError bool, email string, attributes ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes,
		"event", "auth_failed",
		"reason", reason,
		"email_domain", privacy.EmailDomain(email),
		"log_type", "standard",
	)
	if isError {
		s.logger.ErrorContext(ctx, "auth_failed", args...)
		return
	}
	s.logger.WarnContext(ctx, "auth_failed", args...)
}

func (s *Service) registerRejected(ctx context.Context, reason string, err error, email string) {
	s.logFailure(ctx, reason, false, email, "error", err)
	if s.metrics != nil {
		s.metrics.IncRegisterRejection(string(dErrors.CodeOf(err)))
	}
}

func (s *Service) incrementUserRegistered() {
	if s.metrics != nil {
		s.metrics.IncUserRegistered()
	}
}

func (s *Service) incrementLogin(result string) {
	if s.metrics != nil {
		s.metrics.IncLogin(result)
	}
}

func (s *Service) observeHashDuration(d time.Duration) {
	if s.metrics != nil {
		s.metrics.ObserveHashDuration(float64(d.Milliseconds()))
	}
}
