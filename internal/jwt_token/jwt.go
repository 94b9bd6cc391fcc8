package jwttoken

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	id "carehub/pkg/domain"
	dErrors "carehub/pkg/domain-errors"
	"carehub/pkg/requestcontext"
)

// SessionClaims is the wire form of a session token: the caller's identity plus
// iat (and exp when a TTL is configured).
type SessionClaims struct {
	UserID    string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	jwt.RegisteredClaims
}

// Codec issues and verifies HS256 session tokens. Tokens are stateless: nothing
// is persisted and a token stays valid until exp (or forever when ttl is 0).
type Codec struct {
	signingKey []byte
	tokenTTL   time.Duration
	now        func() time.Time
}

// NewCodec builds a codec for the given secret. A zero ttl issues tokens
// without an exp claim.
func NewCodec(signingKey string, tokenTTL time.Duration) *Codec {
	return &Codec{
		signingKey: []byte(signingKey),
		tokenTTL:   tokenTTL,
		now:        time.Now,
	}
}

// WithClock overrides the clock used when checking exp/iat during Verify.
func (c *Codec) WithClock(now func() time.Time) *Codec {
	c.now = now
	return c
}

// TTL reports the configured token lifetime (0 means no expiry).
func (c *Codec) TTL() time.Duration {
	return c.tokenTTL
}

// Issue signs claim with the server secret. Issued-at comes from the
// request-scoped clock.
func (c *Codec) Issue(ctx context.Context, claim requestcontext.Identity) (string, error) {
	if len(c.signingKey) == 0 {
		return "", dErrors.New(dErrors.CodeMisconfigured, "token signing secret is not configured")
	}
	if claim.UserID.IsNil() {
		return "", dErrors.New(dErrors.CodeBadRequest, "cannot issue a token without a user id")
	}

	now := requestcontext.Now(ctx)
	registered := jwt.RegisteredClaims{
		IssuedAt: jwt.NewNumericDate(now),
	}
	if c.tokenTTL > 0 {
		registered.ExpiresAt = jwt.NewNumericDate(now.Add(c.tokenTTL))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		UserID:           claim.UserID.String(),
		Email:            claim.Email,
		FirstName:        claim.FirstName,
		RegisteredClaims: registered,
	})

	signed, err := token.SignedString(c.signingKey)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign token")
	}
	return signed, nil
}

// Verify checks signature, algorithm, structure and expiry and returns the
// identity the token was issued for. Every failure carries CodeInvalidToken,
// except a missing secret which is a server misconfiguration.
func (c *Codec) Verify(tokenString string) (*requestcontext.Identity, error) {
	if len(c.signingKey) == 0 {
		return nil, dErrors.New(dErrors.CodeMisconfigured, "token signing secret is not configured")
	}
	if tokenString == "" {
		return nil, dErrors.New(dErrors.CodeInvalidToken, "empty token")
	}

	claims := new(SessionClaims)
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return c.signingKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, dErrors.Wrap(err, dErrors.CodeInvalidToken, "token expired")
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, dErrors.Wrap(err, dErrors.CodeInvalidToken, "invalid token signature")
		default:
			return nil, dErrors.Wrap(err, dErrors.CodeInvalidToken, "invalid token")
		}
	}
	if !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeInvalidToken, "invalid token")
	}

	userID, err := id.ParseUserID(claims.UserID)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeInvalidToken, "invalid token claims")
	}

	return &requestcontext.Identity{
		UserID:    userID,
		Email:     claims.Email,
		FirstName: claims.FirstName,
	}, nil
}
