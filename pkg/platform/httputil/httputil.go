package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "carehub/pkg/domain-errors"
)

// ErrorResponse is the single error shape the API emits.
type ErrorResponse struct {
	Error string `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Errors after WriteHeader cannot change the status code, so we ignore encoding errors.
	_ = json.NewEncoder(w).Encode(response)
}

// WriteError centralizes domain error translation to HTTP responses.
// Client errors carry the domain message; server errors are always rendered as
// "internal_error" so infrastructure details never reach the client.
func WriteError(w http.ResponseWriter, err error) {
	var domainErr *dErrors.Error
	if !errors.As(err, &domainErr) {
		WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Error: string(dErrors.CodeInternal)})
		return
	}

	status := DomainCodeToHTTPStatus(domainErr.Code)
	if status >= http.StatusInternalServerError {
		WriteJSON(w, status, ErrorResponse{Error: string(dErrors.CodeInternal)})
		return
	}

	msg := domainErr.Message
	if msg == "" {
		msg = string(domainErr.Code)
	}
	WriteJSON(w, status, ErrorResponse{Error: msg})
}

// WriteBusinessError renders an expected business failure (validation,
// duplicate email, unknown user, password mismatch) as 200 with an error body,
// which is what the web client branches on. Anything else goes through WriteError.
func WriteBusinessError(w http.ResponseWriter, err error) {
	if !IsBusinessError(err) {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, ErrorResponse{Error: dErrors.Message(err)})
}

// IsBusinessError reports whether err is an expected outcome of register/login.
func IsBusinessError(err error) bool {
	switch dErrors.CodeOf(err) {
	case dErrors.CodeValidation, dErrors.CodeConflict, dErrors.CodeNotFound, dErrors.CodeUnauthorized:
		return true
	default:
		return false
	}
}

// DomainCodeToHTTPStatus translates domain error codes to HTTP status codes.
func DomainCodeToHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeBadRequest, dErrors.CodeValidation:
		return http.StatusBadRequest
	case dErrors.CodeConflict:
		return http.StatusConflict
	case dErrors.CodeUnauthorized, dErrors.CodeInvalidToken:
		return http.StatusUnauthorized
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	case dErrors.CodeHashing, dErrors.CodeMisconfigured, dErrors.CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
