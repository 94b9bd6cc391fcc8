package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"carehub/internal/auth/handler/mocks"
	"carehub/internal/auth/models"
	jwttoken "carehub/internal/jwt_token"
	dErrors "carehub/pkg/domain-errors"
	"carehub/pkg/platform/middleware/auth"
	"carehub/pkg/requestcontext"
	"carehub/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/auth-mocks.go -package=mocks Service

const testSecret = "handler-test-secret"

type AuthHandlerSuite struct {
	suite.Suite
	ctx   context.Context
	codec *jwttoken.Codec
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerSuite))
}

func (s *AuthHandlerSuite) SetupSuite() {
	s.ctx = context.Background()
	s.codec = jwttoken.NewCodec(testSecret, 0)
}

func (s *AuthHandlerSuite) newHandler(t *testing.T, cookie CookieConfig, expose bool) (*mocks.MockService, *chi.Mux) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := New(svc, logger, cookie, expose)
	gate := auth.NewGate(s.codec, cookie.Name, logger, nil)

	r := chi.NewRouter()
	h.Register(r, gate)
	return svc, r
}

func (s *AuthHandlerSuite) do(router http.Handler, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	return body["error"]
}

func (s *AuthHandlerSuite) TestLiveness() {
	_, router := s.newHandler(s.T(), CookieConfig{}, false)

	rr := s.do(router, http.MethodGet, "/auth/", "")

	s.Equal(http.StatusOK, rr.Code)
	s.Equal("application/json", rr.Header().Get("Content-Type"))
	s.JSONEq(`"test is working"`, rr.Body.String())
}

func (s *AuthHandlerSuite) TestRegister() {
	user := testutil.NewUserBuilder().WithEmail("ada@example.com").WithName("Ada", "Lovelace").Build()
	body := `{"firstName":" Ada ","lastName":"Lovelace","email":"ADA@example.com","idNumber":"8512105009087","phoneNumber":"+27821234567","address":"12 Lane","password":" secret1 "}`

	s.T().Run("200 - normalizes request and hides hash", func(t *testing.T) {
		svc, router := s.newHandler(t, CookieConfig{}, false)
		svc.EXPECT().Register(gomock.Any(), &models.RegisterRequest{
			FirstName:   "Ada",
			LastName:    "Lovelace",
			Email:       "ada@example.com",
			IDNumber:    "8512105009087",
			PhoneNumber: "+27821234567",
			Address:     "12 Lane",
			Password:    " secret1 ",
		}).Return(user, nil)

		rr := s.do(router, http.MethodPost, "/auth/register", body)

		require.Equal(t, http.StatusOK, rr.Code)
		var got map[string]any
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
		assert.Equal(t, user.ID.String(), got["id"])
		assert.Equal(t, "ada@example.com", got["email"])
		assert.NotContains(t, got, "password")
	})

	s.T().Run("200 - exposes hash when configured", func(t *testing.T) {
		svc, router := s.newHandler(t, CookieConfig{}, true)
		svc.EXPECT().Register(gomock.Any(), gomock.Any()).Return(user, nil)

		rr := s.do(router, http.MethodPost, "/auth/register", body)

		var got map[string]any
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
		assert.Equal(t, user.PasswordHash, got["password"])
	})

	s.T().Run("200 - business errors carry the message", func(t *testing.T) {
		for _, bizErr := range []error{
			dErrors.New(dErrors.CodeValidation, "Full name is required"),
			dErrors.New(dErrors.CodeConflict, "Email is taken already"),
		} {
			svc, router := s.newHandler(t, CookieConfig{}, false)
			svc.EXPECT().Register(gomock.Any(), gomock.Any()).Return(nil, bizErr)

			rr := s.do(router, http.MethodPost, "/auth/register", body)

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, bizErr.Error(), decodeError(t, rr))
		}
	})

	s.T().Run("500 - hashing failure is masked", func(t *testing.T) {
		svc, router := s.newHandler(t, CookieConfig{}, false)
		svc.EXPECT().Register(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeHashing, "could not hash password"))

		rr := s.do(router, http.MethodPost, "/auth/register", body)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, "internal_error", decodeError(t, rr))
	})

	s.T().Run("400 - invalid json body", func(t *testing.T) {
		svc, router := s.newHandler(t, CookieConfig{}, false)
		svc.EXPECT().Register(gomock.Any(), gomock.Any()).Times(0)

		rr := s.do(router, http.MethodPost, "/auth/register", `{"email": "`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "invalid request body", decodeError(t, rr))
	})
}

func (s *AuthHandlerSuite) TestLogin() {
	user := testutil.NewUserBuilder().Build()

	s.T().Run("200 - sets session cookie", func(t *testing.T) {
		svc, router := s.newHandler(t, CookieConfig{Name: "token", Secure: true, TTL: time.Hour}, false)
		svc.EXPECT().Login(gomock.Any(), "test@example.com", "secret1").Return(user, "signed-token", nil)

		rr := s.do(router, http.MethodPost, "/auth/login", `{"email":" Test@Example.com","password":"secret1"}`)

		require.Equal(t, http.StatusOK, rr.Code)
		cookies := rr.Result().Cookies()
		require.Len(t, cookies, 1)
		c := cookies[0]
		assert.Equal(t, "token", c.Name)
		assert.Equal(t, "signed-token", c.Value)
		assert.Equal(t, "/", c.Path)
		assert.True(t, c.HttpOnly)
		assert.True(t, c.Secure)
		assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
		assert.Equal(t, 3600, c.MaxAge)

		var got map[string]any
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
		assert.Equal(t, user.ID.String(), got["id"])
		assert.NotContains(t, got, "password")
	})

	s.T().Run("session cookie when no ttl", func(t *testing.T) {
		svc, router := s.newHandler(t, CookieConfig{}, false)
		svc.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).Return(user, "signed-token", nil)

		rr := s.do(router, http.MethodPost, "/auth/login", `{"email":"test@example.com","password":"secret1"}`)

		cookies := rr.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, 0, cookies[0].MaxAge)
		assert.False(t, cookies[0].Secure)
	})

	s.T().Run("200 - no user found", func(t *testing.T) {
		svc, router := s.newHandler(t, CookieConfig{}, false)
		svc.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, "", dErrors.New(dErrors.CodeNotFound, "No user found"))

		rr := s.do(router, http.MethodPost, "/auth/login", `{"email":"ghost@example.com","password":"x"}`)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Empty(t, rr.Result().Cookies())
		assert.Equal(t, "No user found", decodeError(t, rr))
	})

	s.T().Run("200 - password mismatch", func(t *testing.T) {
		svc, router := s.newHandler(t, CookieConfig{}, false)
		svc.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, "", dErrors.New(dErrors.CodeUnauthorized, "Passwords do not match"))

		rr := s.do(router, http.MethodPost, "/auth/login", `{"email":"test@example.com","password":"x"}`)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "Passwords do not match", decodeError(t, rr))
	})

	s.T().Run("500 - unexpected error", func(t *testing.T) {
		svc, router := s.newHandler(t, CookieConfig{}, false)
		svc.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, "", errors.New("db down"))

		rr := s.do(router, http.MethodPost, "/auth/login", `{"email":"test@example.com","password":"x"}`)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, "internal_error", decodeError(t, rr))
	})
}

func (s *AuthHandlerSuite) TestProfile() {
	user := testutil.NewUserBuilder().WithName("Ada", "Lovelace").Build()

	s.T().Run("null without token", func(t *testing.T) {
		_, router := s.newHandler(t, CookieConfig{}, false)

		rr := s.do(router, http.MethodGet, "/auth/profile", "")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "null", strings.TrimSpace(rr.Body.String()))
	})

	s.T().Run("claim with valid token", func(t *testing.T) {
		_, router := s.newHandler(t, CookieConfig{}, false)
		token, err := s.codec.Issue(s.ctx, user.Claim())
		require.NoError(t, err)

		rr := s.do(router, http.MethodGet, "/auth/profile", "", &http.Cookie{Name: "token", Value: token})

		require.Equal(t, http.StatusOK, rr.Code)
		var got map[string]any
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
		assert.Equal(t, map[string]any{
			"id":        user.ID.String(),
			"email":     user.Email,
			"firstName": "Ada",
		}, got)
	})

	s.T().Run("401 with invalid token", func(t *testing.T) {
		_, router := s.newHandler(t, CookieConfig{}, false)

		rr := s.do(router, http.MethodGet, "/auth/profile", "", &http.Cookie{Name: "token", Value: "garbage"})

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, auth.MessageInvalidToken, decodeError(t, rr))
	})
}

func (s *AuthHandlerSuite) TestLogout() {
	_, router := s.newHandler(s.T(), CookieConfig{Name: "token"}, false)

	rr := s.do(router, http.MethodPost, "/auth/logout", "")

	s.Equal(http.StatusOK, rr.Code)
	cookies := rr.Result().Cookies()
	s.Require().Len(cookies, 1)
	s.Equal("token", cookies[0].Name)
	s.Empty(cookies[0].Value)
	s.Less(cookies[0].MaxAge, 0)
}

func TestHandleProfileReadsClaimFromContext(t *testing.T) {
	h := New(nil, slog.New(slog.NewTextHandler(io.Discard, nil)), CookieConfig{}, false)
	claim := requestcontext.Identity{UserID: testutil.TestIDs.UserID1, Email: "a@b.c", FirstName: "A"}

	req := httptest.NewRequest(http.MethodGet, "/auth/profile", nil)
	req = req.WithContext(requestcontext.WithClaim(req.Context(), claim))
	rr := httptest.NewRecorder()
	h.HandleProfile(rr, req)

	var got models.ProfileResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.Equal(t, claim.UserID.String(), got.ID)
}
