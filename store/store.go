// Package store defines the read-only record-store collaborator and its
// adapters. The audit engine only ever performs single-row display
// lookups here; it never writes.
package store

import "context"

// UserDisplay is the resolvable identity behind a masked credential
// field. The credential's raw value is never fetched.
type UserDisplay struct {
	First   string
	Last    string
	Account string
}

// RecordStore is the platform's record data, narrowed to the lookups the
// value formatter needs.
type RecordStore interface {
	// FetchFileDisplayName resolves an uploaded file's display name.
	// ("", false) when the file row is absent.
	FetchFileDisplayName(ctx context.Context, fileID int64) (string, bool, error)

	// FetchWorkflowStateLabel resolves the current workflow-state label
	// for a record. ("", false) when the record has no state.
	FetchWorkflowStateLabel(ctx context.Context, typeKey string, trackingID int64) (string, bool, error)

	// FetchUserDisplay resolves the user account referenced by a masked
	// credential value.
	FetchUserDisplay(ctx context.Context, userID int64) (UserDisplay, bool, error)
}
