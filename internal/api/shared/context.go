package shared

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"log/slog"
	"time"
)

// ContextKey is the key type for request-scoped values set by the API layer.
type ContextKey string

const (
	// CallerContextKey holds the subject of a validated bearer token.
	CallerContextKey ContextKey = "caller"

	// TraceIDKey is the key for the trace ID in the request context.
	TraceIDKey ContextKey = "traceID"

	// TraceIDLength is the number of random bytes in a trace ID.
	TraceIDLength = 16 // 32 hex characters
)

// SetTraceID returns a copy of ctx carrying a fresh trace ID.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, generateTraceID())
}

// GetTraceID returns the trace ID stored in ctx, or "" if there is none.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// WithCaller stores the authenticated caller's subject in ctx.
func WithCaller(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, CallerContextKey, subject)
}

// Caller returns the authenticated caller's subject, if the auth gate set one.
func Caller(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(CallerContextKey).(string)
	if !ok || subject == "" {
		return "", false
	}
	return subject, true
}

func generateTraceID() string {
	b := make([]byte, TraceIDLength)
	n, err := rand.Read(b)
	if err != nil || n != TraceIDLength {
		slog.Error("failed to generate secure random trace ID",
			"error", err,
			"bytes_read", n,
			"fallback", "time-based generation")
		return fallbackTraceID(time.Now())
	}
	return hex.EncodeToString(b)
}

// fallbackTraceID derives an ID from the clock when crypto/rand is unavailable.
func fallbackTraceID(now time.Time) string {
	b := make([]byte, TraceIDLength)
	binary.BigEndian.PutUint64(b[:8], uint64(now.UnixNano()))
	binary.BigEndian.PutUint32(b[8:12], uint32(now.Nanosecond()))
	binary.BigEndian.PutUint32(b[12:16], uint32(now.Unix()))
	return hex.EncodeToString(b)
}
