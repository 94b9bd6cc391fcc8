package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"errors"
	"log/slog"

	"carehub/internal/medication/models"
	"carehub/internal/platform/metrics"
	"carehub/internal/platform/tracer"
	id "carehub/pkg/domain"
	dErrors "carehub/pkg/domain-errors"
	"carehub/pkg/platform/sentinel"
	"carehub/pkg/requestcontext"
)

// MsgMedicationNotFound is returned for unknown ids and for ids owned by another user.
const MsgMedicationNotFound = "Medication not found"

// Store defines the persistence interface for medications.
// Error Contract: Update and Delete return sentinel.ErrNotFound when no
// medication with that id belongs to the user. Create returns
// sentinel.ErrNotFound when the owning user no longer exists.
type Store interface {
	ListByUser(ctx context.Context, userID id.UserID) ([]*models.Medication, error)
	Create(ctx context.Context, med *models.Medication) error
	Update(ctx context.Context, med *models.Medication) (*models.Medication, error)
	Delete(ctx context.Context, userID id.UserID, medID id.MedicationID) error
}

// Service manages a user's medication schedule. Every operation is scoped to
// the caller's user id.
type Service struct {
	store   Store
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

func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("medication store is required")
	}
	svc := &Service{store: store}
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

// List returns the user's medications, oldest first.
func (s *Service) List(ctx context.Context, userID id.UserID) (meds []*models.Medication, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanMedicationList, tracer.String(tracer.AttrUserID, userID.String()))
	defer func() { span.End(err) }()

	meds, err = s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, s.fail(ctx, metrics.OpList, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list medications"))
	}
	span.SetAttributes(tracer.Int(tracer.AttrCount, len(meds)))
	s.succeed(metrics.OpList)
	return meds, nil
}

// Add stores a new medication for the user.
func (s *Service) Add(ctx context.Context, userID id.UserID, req *models.MedicationRequest) (med *models.Medication, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanMedicationAdd, tracer.String(tracer.AttrUserID, userID.String()))
	defer func() { span.End(err) }()

	if err = prepare(req); err != nil {
		return nil, s.fail(ctx, metrics.OpAdd, err)
	}

	med = &models.Medication{
		ID:        id.NewMedicationID(),
		UserID:    userID,
		Name:      req.Name,
		Dosage:    req.Dosage,
		Frequency: req.Frequency,
		Reminders: req.Reminders,
		CreatedAt: requestcontext.Now(ctx).UTC(),
	}
	if err = s.store.Create(ctx, med); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, s.fail(ctx, metrics.OpAdd, dErrors.Wrap(err, dErrors.CodeNotFound, "user not found"))
		}
		return nil, s.fail(ctx, metrics.OpAdd, dErrors.Wrap(err, dErrors.CodeInternal, "failed to add medication"))
	}

	span.SetAttributes(tracer.String(tracer.AttrMedicationID, med.ID.String()))
	s.logger.InfoContext(ctx, "medication added",
		"user_id", userID.String(),
		"medication_id", med.ID.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	s.succeed(metrics.OpAdd)
	return med, nil
}

// Update replaces the editable fields of one of the user's medications.
func (s *Service) Update(ctx context.Context, userID id.UserID, medID id.MedicationID, req *models.MedicationRequest) (med *models.Medication, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanMedicationUpdate,
		tracer.String(tracer.AttrUserID, userID.String()),
		tracer.String(tracer.AttrMedicationID, medID.String()),
	)
	defer func() { span.End(err) }()

	if err = prepare(req); err != nil {
		return nil, s.fail(ctx, metrics.OpUpdate, err)
	}

	med, err = s.store.Update(ctx, &models.Medication{
		ID:        medID,
		UserID:    userID,
		Name:      req.Name,
		Dosage:    req.Dosage,
		Frequency: req.Frequency,
		Reminders: req.Reminders,
	})
	if err != nil {
		return nil, s.fail(ctx, metrics.OpUpdate, storeError(err, "failed to update medication"))
	}
	s.succeed(metrics.OpUpdate)
	return med, nil
}

// Delete removes one of the user's medications.
func (s *Service) Delete(ctx context.Context, userID id.UserID, medID id.MedicationID) (err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanMedicationDelete,
		tracer.String(tracer.AttrUserID, userID.String()),
		tracer.String(tracer.AttrMedicationID, medID.String()),
	)
	defer func() { span.End(err) }()

	if err = s.store.Delete(ctx, userID, medID); err != nil {
		return s.fail(ctx, metrics.OpDelete, storeError(err, "failed to delete medication"))
	}
	s.logger.InfoContext(ctx, "medication deleted",
		"user_id", userID.String(),
		"medication_id", medID.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	s.succeed(metrics.OpDelete)
	return nil
}

func prepare(req *models.MedicationRequest) error {
	if req == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	req.Normalize()
	return req.Validate()
}

func storeError(err error, msg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeNotFound, MsgMedicationNotFound)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}

func (s *Service) fail(ctx context.Context, op string, err error) error {
	code := dErrors.CodeOf(err)
	if code == dErrors.CodeInternal {
		s.logger.ErrorContext(ctx, "medication operation failed",
			"op", op,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	if s.metrics != nil {
		s.metrics.IncMedicationError(op, string(code))
	}
	return err
}

func (s *Service) succeed(op string) {
	if s.metrics != nil {
		s.metrics.IncMedicationOp(op)
	}
}
