package contextx

import (
	"context"
)

type contextKey string

const (
	TraceIDKey   contextKey = "helix.trace_id"
	RequestIDKey contextKey = "helix.request_id"

	AuditReasonKey  contextKey = "helix.audit_reason"  // free-text justification supplied by the caller
	ChangeTicketKey contextKey = "helix.change_ticket" // external change-management reference
)

func GetTraceID(ctx context.Context) string { return getString(ctx, TraceIDKey, "") }
func WithTraceID(ctx context.Context, v string) context.Context {
	return context.WithValue(ctx, TraceIDKey, v)
}

func GetRequestID(ctx context.Context) string { return getString(ctx, RequestIDKey, "") }
func WithRequestID(ctx context.Context, v string) context.Context {
	return context.WithValue(ctx, RequestIDKey, v)
}

func GetAuditReason(ctx context.Context) string { return getString(ctx, AuditReasonKey, "") }
func WithAuditReason(ctx context.Context, v string) context.Context {
	return context.WithValue(ctx, AuditReasonKey, v)
}

func GetChangeTicket(ctx context.Context) string { return getString(ctx, ChangeTicketKey, "") }
func WithChangeTicket(ctx context.Context, v string) context.Context {
	return context.WithValue(ctx, ChangeTicketKey, v)
}

func getString(ctx context.Context, key contextKey, fallback string) string {
	if ctx == nil {
		return fallback
	}
	if val, ok := ctx.Value(key).(string); ok {
		return val
	}
	return fallback
}
