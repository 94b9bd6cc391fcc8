package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"carehub/internal/auth/metrics"
	"carehub/internal/auth/models"
	"carehub/internal/platform/tracer"
	dErrors "carehub/pkg/domain-errors"
	"carehub/pkg/requestcontext"
)

// UserStore defines the persistence interface for user data.
// Error Contract: FindByEmail returns sentinel.ErrNotFound when no user has the
// email; Create returns sentinel.ErrConflict when email or id number is taken.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

// PasswordHasher hashes and verifies credentials.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) (bool, error)
}

// TokenIssuer signs session tokens for an identity.
type TokenIssuer interface {
	Issue(ctx context.Context, claim requestcontext.Identity) (string, error)
}

// Service registers users and exchanges credentials for session tokens.
type Service struct {
	users   UserStore
	hasher  PasswordHasher
	tokens  TokenIssuer
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  tracer.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// New constructs the auth service. All three dependencies are required.
func New(users UserStore, hasher PasswordHasher, tokens TokenIssuer, opts ...Option) (*Service, error) {
	if users == nil {
		return nil, errors.New("users store is required")
	}
	if hasher == nil {
		return nil, errors.New("password hasher is required")
	}
	if tokens == nil {
		return nil, errors.New("token issuer is required")
	}

	svc := &Service{
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	if svc.tracer == nil {
		svc.tracer = tracer.NewNoop()
	}
	return svc, nil
}

// hash wraps the hasher with a span and the hash duration histogram.
func (s *Service) hash(ctx context.Context, plaintext string) (hashed string, err error) {
	_, span := s.tracer.Start(ctx, tracer.SpanPasswordHash)
	defer func() { span.End(err) }()

	start := time.Now()
	hashed, err = s.hasher.Hash(plaintext)
	elapsed := time.Since(start)
	span.SetAttributes(tracer.Duration("duration_ms", elapsed))
	s.observeHashDuration(elapsed)
	return hashed, err
}

func (s *Service) verify(ctx context.Context, plaintext, hash string) (ok bool, err error) {
	_, span := s.tracer.Start(ctx, tracer.SpanPasswordVerify)
	defer func() { span.End(err) }()

	ok, err = s.hasher.Verify(plaintext, hash)
	span.SetAttributes(tracer.Bool(tracer.AttrResult, ok))
	return ok, err
}

// internalError keeps the code of an already classified failure (hashing,
// misconfiguration) and classifies anything else as internal.
func internalError(err error, msg string) error {
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
