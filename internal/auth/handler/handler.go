package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"carehub/internal/auth/models"
	"carehub/pkg/platform/httputil"
	"carehub/pkg/requestcontext"
)

// LivenessMessage is sent as a JSON string by GET /auth/.
const LivenessMessage = "test is working"

// Service defines the interface for authentication operations.
type Service interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
}

// Authenticator wraps routes that may carry a session token.
type Authenticator interface {
	OptionalAuth(next http.Handler) http.Handler
}

// CookieConfig controls the session cookie set on login.
type CookieConfig struct {
	Name   string
	Secure bool
	// TTL is mirrored into Max-Age. Zero leaves a session cookie.
	TTL time.Duration
}

// Handler serves /auth: register, login, profile and logout.
type Handler struct {
	auth               Service
	logger             *slog.Logger
	cookie             CookieConfig
	exposePasswordHash bool
}

// New creates a new auth Handler.
func New(auth Service, logger *slog.Logger, cookie CookieConfig, exposePasswordHash bool) *Handler {
	if cookie.Name == "" {
		cookie.Name = "token"
	}
	return &Handler{
		auth:               auth,
		logger:             logger,
		cookie:             cookie,
		exposePasswordHash: exposePasswordHash,
	}
}

// Register mounts the /auth routes. The profile route runs behind the
// authenticator's optional mode so anonymous callers get null instead of 401.
func (h *Handler) Register(r chi.Router, authn Authenticator) {
	r.Route("/auth", func(r chi.Router) {
		r.Get("/", h.HandleLiveness)
		r.Post("/register", h.HandleRegister)
		r.Post("/login", h.HandleLogin)
		r.Post("/logout", h.HandleLogout)
		r.With(authn.OptionalAuth).Get("/profile", h.HandleProfile)
	})
}

func (h *Handler) HandleLiveness(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, LivenessMessage)
}

// HandleRegister implements POST /auth/register.
// Business failures come back as 200 {"error": "..."}.
//
// Input: { "firstName", "lastName", "email", "idNumber", "phoneNumber", "address", "password" }
// Output: the created user
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.RegisterRequest](w, r, h.logger)
	if !ok {
		return
	}

	user, err := h.auth.Register(ctx, req)
	if err != nil {
		h.logOutcome(ctx, "register failed", err, requestID)
		httputil.WriteBusinessError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "register successful",
		"request_id", requestID,
		"user_id", user.ID.String(),
	)
	httputil.WriteJSON(w, http.StatusOK, models.NewUserResponse(user, h.exposePasswordHash))
}

// HandleLogin implements POST /auth/login. On success the session token is
// set as an HttpOnly cookie and the user is returned in the body.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.LoginRequest](w, r, h.logger)
	if !ok {
		return
	}

	user, token, err := h.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		h.logOutcome(ctx, "login failed", err, requestID)
		httputil.WriteBusinessError(w, err)
		return
	}

	http.SetCookie(w, h.sessionCookie(token))
	h.logger.InfoContext(ctx, "login successful",
		"request_id", requestID,
		"user_id", user.ID.String(),
	)
	httputil.WriteJSON(w, http.StatusOK, models.NewUserResponse(user, h.exposePasswordHash))
}

// HandleProfile implements GET /auth/profile: the caller's claim, or null
// when no token was sent.
func (h *Handler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	claim, ok := requestcontext.Claim(r.Context())
	if !ok {
		httputil.WriteJSON(w, http.StatusOK, nil)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.ProfileResponse{
		ID:        claim.UserID.String(),
		Email:     claim.Email,
		FirstName: claim.FirstName,
	})
}

// HandleLogout expires the session cookie. Tokens stay valid until their own
// expiry; there is no server-side revocation.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	cookie := h.sessionCookie("")
	cookie.MaxAge = -1
	cookie.Expires = time.Unix(0, 0)
	http.SetCookie(w, cookie)

	h.logger.InfoContext(r.Context(), "logout",
		"request_id", requestcontext.RequestID(r.Context()),
	)
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func (h *Handler) sessionCookie(value string) *http.Cookie {
	c := &http.Cookie{
		Name:     h.cookie.Name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if h.cookie.TTL > 0 {
		c.MaxAge = int(h.cookie.TTL.Seconds())
	}
	return c
}

func (h *Handler) logOutcome(ctx context.Context, msg string, err error, requestID string) {
	if httputil.IsBusinessError(err) {
		h.logger.InfoContext(ctx, msg, "error", err, "request_id", requestID)
		return
	}
	h.logger.ErrorContext(ctx, msg, "error", err, "request_id", requestID)
}
