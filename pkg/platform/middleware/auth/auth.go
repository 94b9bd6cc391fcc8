package auth

import (
	"log/slog"
	"net/http"
	"strings"

	dErrors "carehub/pkg/domain-errors"
	"carehub/pkg/platform/httputil"
	"carehub/pkg/requestcontext"
)

// DefaultCookieName is the cookie the login handler sets the session token in.
const DefaultCookieName = "token"

// Client-facing rejection messages. The web client matches on these strings.
const (
	MessageNoToken      = "Unauthorized: No token provided"
	MessageInvalidToken = "Unauthorized: Invalid token"
)

// Rejection reasons, used as log attributes and metric labels.
const (
	ReasonNoToken       = "no_token"
	ReasonInvalidToken  = "invalid_token"
	ReasonMisconfigured = "misconfigured"
)

// Both carry CodeUnauthorized, so errors.Is cannot tell them apart; compare
// by identity.
var (
	ErrNoToken      = dErrors.New(dErrors.CodeUnauthorized, "no token")
	ErrInvalidToken = dErrors.New(dErrors.CodeUnauthorized, "invalid token")
)

// ErrGateMisconfigured means the verifier cannot check any token at all. It
// is a server fault and answered with 500, not 401.
var ErrGateMisconfigured = dErrors.New(dErrors.CodeMisconfigured, "token verification is not configured")

// TokenVerifier turns a raw session token into the identity it was issued for.
type TokenVerifier interface {
	Verify(token string) (*requestcontext.Identity, error)
}

// RejectionRecorder counts rejected requests by reason. Optional.
type RejectionRecorder interface {
	IncGateRejection(reason string)
}

// Gate enforces authentication on protected routes.
type Gate struct {
	verifier   TokenVerifier
	cookieName string
	logger     *slog.Logger
	metrics    RejectionRecorder
}

// NewGate builds a gate reading the token from cookieName (falling back to
// DefaultCookieName) or an "Authorization: Bearer" header.
func NewGate(verifier TokenVerifier, cookieName string, logger *slog.Logger, metrics RejectionRecorder) *Gate {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	return &Gate{
		verifier:   verifier,
		cookieName: cookieName,
		logger:     logger,
		metrics:    metrics,
	}
}

// CookieName reports the cookie the gate reads.
func (g *Gate) CookieName() string {
	return g.cookieName
}

// TokenFromRequest returns the session token carried by r, preferring the
// cookie over the Authorization header. Returns "" when neither is present.
func (g *Gate) TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(g.cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// Authenticate resolves the caller of r. It returns ErrNoToken when the request
// carries no token, ErrGateMisconfigured when the verifier has no secret and
// ErrInvalidToken for any other verification failure.
func (g *Gate) Authenticate(r *http.Request) (*requestcontext.Identity, error) {
	token := g.TokenFromRequest(r)
	if token == "" {
		return nil, ErrNoToken
	}

	claim, err := g.verifier.Verify(token)
	if err != nil {
		ctx := r.Context()
		if dErrors.HasCode(err, dErrors.CodeMisconfigured) {
			g.logger.ErrorContext(ctx, "token verification misconfigured",
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
			return nil, ErrGateMisconfigured
		}
		g.logger.WarnContext(ctx, "unauthorized access - invalid token",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return nil, ErrInvalidToken
	}
	return claim, nil
}

// RequireAuth rejects requests without a valid session token with 401 (500
// when verification is misconfigured) and attaches the caller's identity to the context otherwise.
func (g *Gate) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claim, err := g.Authenticate(r)
		if err != nil {
			g.reject(w, r, err)
			return
		}
		ctx := requestcontext.WithClaim(r.Context(), *claim)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth lets anonymous requests through untouched but still rejects a
// token that is present and invalid.
func (g *Gate) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claim, err := g.Authenticate(r)
		switch {
		case err == ErrNoToken:
			next.ServeHTTP(w, r)
		case err != nil:
			g.reject(w, r, err)
		default:
			next.ServeHTTP(w, r.WithContext(requestcontext.WithClaim(r.Context(), *claim)))
		}
	})
}

func (g *Gate) reject(w http.ResponseWriter, r *http.Request, err error) {
	if err == ErrGateMisconfigured {
		if g.metrics != nil {
			g.metrics.IncGateRejection(ReasonMisconfigured)
		}
		httputil.WriteError(w, err)
		return
	}

	reason, message := ReasonInvalidToken, MessageInvalidToken
	if err == ErrNoToken {
		reason, message = ReasonNoToken, MessageNoToken
		ctx := r.Context()
		g.logger.WarnContext(ctx, "unauthorized access - missing token",
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	if g.metrics != nil {
		g.metrics.IncGateRejection(reason)
	}
	httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{Error: message})
}
