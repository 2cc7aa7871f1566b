// Package engine is the change-audit orchestrator: it turns CRUD events
// fired against arbitrary records into buffered, human-readable audit
// entries, and commits them only on an explicit flush.
package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/godamri/helix-audit/actor"
)

// EventKind is the CRUD event being audited.
type EventKind string

const (
	EventCreate EventKind = "Create"
	EventRead   EventKind = "Read"
	EventUpdate EventKind = "Update"
	EventDelete EventKind = "Delete"
)

// Subject locates the audited record in its aggregate hierarchy.
type Subject struct {
	// BaseID is the root record of the aggregate.
	BaseID int64 `json:"base_id"`
	// ParentID is the immediate parent, equal to BaseID for top-level
	// records.
	ParentID int64 `json:"parent_id"`
	// TrackingID is the audited record itself.
	TrackingID int64 `json:"tracking_id"`
}

// Entry is one emittable audit unit. Immutable once built; it sits in
// the recorder's buffer until a flush persists it, or is discarded with
// the rest of an aborted unit of work.
type Entry struct {
	ID        uuid.UUID `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	TraceID   string    `json:"trace_id,omitempty"`

	Subject   Subject        `json:"subject"`
	EventKind EventKind      `json:"event_kind"`
	ActorKind actor.Kind     `json:"actor_kind"`
	Actor     actor.Snapshot `json:"actor"`

	RecordTypeName  string `json:"record_type_name"`
	RecordTypeKey   string `json:"record_type_key"`
	RecordTypeLabel string `json:"record_type_label"`
	StorageTable    string `json:"storage_table"`

	// Field-level data. Empty for Delete/Read summary entries.
	FieldStorageKey  string `json:"field_storage_key"`
	FieldDisplayName string `json:"field_display_name"`
	PreviousValue    string `json:"previous_value"`
	NewValue         string `json:"new_value"`

	// Message is the optional templated sentence shown in the UI.
	Message string `json:"message,omitempty"`

	// Reason and ChangeTicket are caller-supplied context, carried when
	// the unit of work provides them.
	Reason       string `json:"reason,omitempty"`
	ChangeTicket string `json:"change_ticket,omitempty"`

	OriginHost actor.Host `json:"origin_host"`
}
