// Package requestcontext carries request-scoped values (request ID, request time,
// client address and the authenticated identity) through context.Context.
package requestcontext

import (
	"context"
	"time"

	id "carehub/pkg/domain"
)

type (
	contextKeyRequestID   struct{}
	contextKeyRequestTime struct{}
	contextKeyClientIP    struct{}
	contextKeyClaim       struct{}
)

// Identity is the authenticated caller attached by the auth gate.
// It never carries credential material.
type Identity struct {
	UserID    id.UserID
	Email     string
	FirstName string
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextKeyRequestID{}, requestID)
}

// RequestID returns the request ID or "" when none was set.
func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(contextKeyRequestID{}).(string)
	return v
}

// WithTime pins "now" for everything downstream of ctx.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, contextKeyRequestTime{}, t)
}

// Now returns the request-scoped time, falling back to time.Now() outside HTTP
// (CLI, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(contextKeyRequestTime{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, contextKeyClientIP{}, ip)
}

func ClientIP(ctx context.Context) string {
	v, _ := ctx.Value(contextKeyClientIP{}).(string)
	return v
}

// WithClaim attaches the authenticated identity.
func WithClaim(ctx context.Context, claim Identity) context.Context {
	return context.WithValue(ctx, contextKeyClaim{}, claim)
}

// Claim returns the authenticated identity and whether one was attached.
func Claim(ctx context.Context) (Identity, bool) {
	v, ok := ctx.Value(contextKeyClaim{}).(Identity)
	return v, ok
}

// UserID is a shortcut for handlers that only need the caller's ID.
// It returns the zero ID when the request is unauthenticated.
func UserID(ctx context.Context) id.UserID {
	c, _ := Claim(ctx)
	return c.UserID
}
