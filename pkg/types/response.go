// Package types holds the JSON envelopes every API response is wrapped in.
package types

import "context"

type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public half of a failed request. RequestID echoes the
// X-Request-Id header so a seller can quote it when an upload fails.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
	Details   any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

type requestIDKey struct{}

// WithRequestID stores the request's correlation id on ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns "" when no id was stored.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
