package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "carehub/pkg/domain-errors"
	"carehub/pkg/requestcontext"
)

type plainRequest struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type checkedRequest struct {
	Name      string `json:"name"`
	validated bool
}

func (r *checkedRequest) Normalize() { r.Name = strings.TrimSpace(r.Name) }

func (r *checkedRequest) Validate() error {
	r.validated = true
	if r.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

type codedRequest struct {
	Email string `json:"email"`
}

func (r *codedRequest) Validate() error {
	if r.Email == "" {
		return dErrors.New(dErrors.CodeConflict, "email already registered")
	}
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newJSONRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	return req.WithContext(requestcontext.WithRequestID(req.Context(), "req-1"))
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

func TestDecodeAndPrepare_Plain(t *testing.T) {
	w := httptest.NewRecorder()

	got, ok := DecodeAndPrepare[plainRequest](w, newJSONRequest(`{"name":"aspirin","count":2}`), quietLogger())

	require.True(t, ok)
	assert.Equal(t, &plainRequest{Name: "aspirin", Count: 2}, got)
}

func TestDecodeAndPrepare_DecodeFailures(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		limit      int64
		wantStatus int
		wantError  string
	}{
		{name: "malformed json", body: `{nope}`, wantStatus: http.StatusBadRequest, wantError: "invalid request body"},
		{name: "empty body", body: ``, wantStatus: http.StatusBadRequest, wantError: "invalid request body"},
		{name: "wrong type", body: `{"count":"two"}`, wantStatus: http.StatusBadRequest, wantError: "invalid request body"},
		{
			name:       "oversized body",
			body:       `{"name":"` + strings.Repeat("x", 256) + `"}`,
			limit:      64,
			wantStatus: http.StatusRequestEntityTooLarge,
			wantError:  "request body too large",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := newJSONRequest(tt.body)
			if tt.limit > 0 {
				req.Body = http.MaxBytesReader(w, req.Body, tt.limit)
			}

			got, ok := DecodeAndPrepare[plainRequest](w, req, quietLogger())

			assert.False(t, ok)
			assert.Nil(t, got)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantError, errorBody(t, w))
		})
	}
}

func TestDecodeAndPrepare_NormalizesThenValidates(t *testing.T) {
	w := httptest.NewRecorder()

	got, ok := DecodeAndPrepare[checkedRequest](w, newJSONRequest(`{"name":"  padded  "}`), quietLogger())

	require.True(t, ok)
	assert.Equal(t, "padded", got.Name)
	assert.True(t, got.validated)
}

func TestDecodeAndPrepare_PlainValidationErrorBecomes400(t *testing.T) {
	w := httptest.NewRecorder()

	_, ok := DecodeAndPrepare[checkedRequest](w, newJSONRequest(`{"name":"   "}`), quietLogger())

	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "name is required", errorBody(t, w))
}

func TestDecodeAndPrepare_KeepsDomainCode(t *testing.T) {
	w := httptest.NewRecorder()

	_, ok := DecodeAndPrepare[codedRequest](w, newJSONRequest(`{}`), quietLogger())

	assert.False(t, ok)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "email already registered", errorBody(t, w))
}
