package middleware

import (
	"context"
	"log/slog"
	"strings"

	"google.golang.org/grpc"

	"github.com/godamri/helix-audit/engine"
)

// ReadSubject is implemented by RPC requests that identify a record
// fetch. Generated request types opt in by exposing these two.
type ReadSubject interface {
	GetRecordTypeKey() string
	GetTrackingId() int64
}

// GRPCReadAuditInterceptor mirrors the HTTP ReadAudit middleware for
// unary RPCs: successful fetch-style calls on requests that carry a
// read subject produce one Read entry, flushed immediately.
func GRPCReadAuditInterceptor(build RecorderBuilder) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		resp, err := handler(ctx, req)
		if err != nil {
			return resp, err
		}

		subject, ok := req.(ReadSubject)
		if !ok || !isFetchMethod(info.FullMethod) {
			return resp, nil
		}

		rec, buildErr := build(ctx)
		if buildErr != nil {
			slog.ErrorContext(ctx, "read audit recorder build failed", "method", info.FullMethod, "error", buildErr)
			return resp, nil
		}

		id := subject.GetTrackingId()
		s := engine.Subject{BaseID: id, ParentID: id, TrackingID: id}
		if recErr := rec.RecordEvent(ctx, engine.EventRead, subject.GetRecordTypeKey(), s, nil, nil); recErr != nil {
			slog.ErrorContext(ctx, "read audit record failed", "method", info.FullMethod, "error", recErr)
			return resp, nil
		}
		_ = rec.Flush(ctx)

		return resp, nil
	}
}

func isFetchMethod(fullMethod string) bool {
	method := fullMethod
	if i := strings.LastIndex(fullMethod, "/"); i >= 0 {
		method = fullMethod[i+1:]
	}
	return strings.HasPrefix(method, "Get") || strings.HasPrefix(method, "Fetch") || strings.HasPrefix(method, "Read")
}
