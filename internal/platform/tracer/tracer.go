// Package tracer is a small tracing seam over OpenTelemetry.
//
// Services depend on Tracer rather than the OpenTelemetry API so tests can run
// with NewNoop and production wiring can pass NewOTel.
package tracer

import (
	"context"
	"time"
)

// InstrumentationName is the tracer name reported to the global provider.
const InstrumentationName = "carehub"

// Span represents an active trace span.
type Span interface {
	// End completes the span. A non-nil err marks the span as failed.
	// End must be called exactly once, typically via defer.
	End(err error)

	SetAttributes(attrs ...Attribute)

	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	// Start creates a span and returns a context carrying it.
	//
	//   ctx, span := t.Start(ctx, tracer.SpanAuthLogin,
	//       tracer.String(tracer.AttrEmailDomain, domain),
	//   )
	//   defer func() { span.End(err) }()
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute represents a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

func Strings(key string, values []string) Attribute {
	return Attribute{Key: key, Value: values}
}

func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

func Int(key string, value int) Attribute {
	return Attribute{Key: key, Value: value}
}

func Float64(key string, value float64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration creates a duration attribute in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// Span names.
const (
	SpanAuthRegister     = "auth.register"
	SpanAuthLogin        = "auth.login"
	SpanPasswordHash     = "auth.password.hash"
	SpanPasswordVerify   = "auth.password.verify"
	SpanMedicationList   = "medication.list"
	SpanMedicationAdd    = "medication.add"
	SpanMedicationUpdate = "medication.update"
	SpanMedicationDelete = "medication.delete"
)

// Attribute keys.
const (
	AttrEmailDomain  = "user.email_domain"
	AttrUserID       = "user.id"
	AttrMedicationID = "medication.id"
	AttrResult       = "result"
	AttrCount        = "count"
)

// Event names.
const (
	EventUserCreated  = "user.created"
	EventTokenIssued  = "token.issued"
	EventEmailTaken   = "email.taken"
	EventHashComputed = "password.hashed"
)
