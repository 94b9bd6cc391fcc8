package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"carehub/internal/medication/models"
	id "carehub/pkg/domain"
	dErrors "carehub/pkg/domain-errors"
	"carehub/pkg/platform/httputil"
	"carehub/pkg/requestcontext"
)

// MessageDeleted is the body of a successful DELETE /medications/{id}.
const MessageDeleted = "Medication deleted"

// Service defines the medication operations the handler needs.
type Service interface {
	List(ctx context.Context, userID id.UserID) ([]*models.Medication, error)
	Add(ctx context.Context, userID id.UserID, req *models.MedicationRequest) (*models.Medication, error)
	Update(ctx context.Context, userID id.UserID, medID id.MedicationID, req *models.MedicationRequest) (*models.Medication, error)
	Delete(ctx context.Context, userID id.UserID, medID id.MedicationID) error
}

// Gate rejects unauthenticated requests and attaches the caller's identity.
type Gate interface {
	RequireAuth(next http.Handler) http.Handler
}

// Handler serves /medications. Every route requires a session.
type Handler struct {
	meds   Service
	logger *slog.Logger
}

func New(meds Service, logger *slog.Logger) *Handler {
	return &Handler{meds: meds, logger: logger}
}

// Register mounts the /medications routes behind gate.
func (h *Handler) Register(r chi.Router, gate Gate) {
	r.Route("/medications", func(r chi.Router) {
		r.Use(gate.RequireAuth)
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleAdd)
		r.Put("/{id}", h.HandleUpdate)
		r.Delete("/{id}", h.HandleDelete)
	})
}

// HandleList implements GET /medications. An empty schedule is [].
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	meds, err := h.meds.List(ctx, requestcontext.UserID(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.NewMedicationListResponse(meds))
}

// HandleAdd implements POST /medications.
//
// Input: { "medicationName", "dosage", "frequency", "reminders": ["HH:MM"] }
// Output: 201 with the stored medication
func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.DecodeAndPrepare[models.MedicationRequest](w, r, h.logger)
	if !ok {
		return
	}

	med, err := h.meds.Add(ctx, requestcontext.UserID(ctx), req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, models.NewMedicationResponse(med))
}

// HandleUpdate implements PUT /medications/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	medID, ok := h.medicationID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.MedicationRequest](w, r, h.logger)
	if !ok {
		return
	}

	med, err := h.meds.Update(ctx, requestcontext.UserID(ctx), medID, req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.NewMedicationResponse(med))
}

// HandleDelete implements DELETE /medications/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	medID, ok := h.medicationID(w, r)
	if !ok {
		return
	}
	if err := h.meds.Delete(ctx, requestcontext.UserID(ctx), medID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": MessageDeleted})
}

func (h *Handler) medicationID(w http.ResponseWriter, r *http.Request) (id.MedicationID, bool) {
	medID, err := id.ParseMedicationID(chi.URLParam(r, "id"))
	if err != nil {
		h.logger.WarnContext(r.Context(), "invalid medication id",
			"error", err,
			"request_id", requestcontext.RequestID(r.Context()),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid medication id"))
		return id.MedicationID{}, false
	}
	return medID, true
}
