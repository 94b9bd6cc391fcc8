package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	dErrors "carehub/pkg/domain-errors"
	"carehub/pkg/requestcontext"
)

// Normalizable request types are canonicalised (trimmed, lower-cased) before validation.
type Normalizable interface {
	Normalize()
}

// Validatable request types check their own fields and return a domain error.
type Validatable interface {
	Validate() error
}

// DecodeAndPrepare reads a JSON body into T, normalizes it and validates it.
// On any failure the response has already been written and ok is false:
//   - oversized body: 413 "request body too large"
//   - malformed JSON: 400 "invalid request body"
//   - validation: the request's own domain error, or validation_failed
func DecodeAndPrepare[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger) (*T, bool) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req := new(T)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		logger.WarnContext(ctx, "failed to decode request body",
			"error", err,
			"request_id", requestID,
		)
		if tooLarge := new(http.MaxBytesError); errors.As(err, &tooLarge) {
			WriteJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: "request body too large"})
			return nil, false
		}
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return nil, false
	}

	if err := prepare(req); err != nil {
		logger.WarnContext(ctx, "invalid request",
			"error", err,
			"request_id", requestID,
		)
		var coded *dErrors.Error
		if !errors.As(err, &coded) {
			err = dErrors.New(dErrors.CodeValidation, err.Error())
		}
		WriteError(w, err)
		return nil, false
	}
	return req, true
}

func prepare(req any) error {
	if n, ok := req.(Normalizable); ok {
		n.Normalize()
	}
	if v, ok := req.(Validatable); ok {
		return v.Validate()
	}
	return nil
}
