package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/godamri/helix-audit/actor"
	"github.com/godamri/helix-audit/format"
	"github.com/godamri/helix-audit/pkg/contextx"
	"github.com/godamri/helix-audit/record"
	"github.com/godamri/helix-audit/schema"
)

// Sink is the log-entry destination, satisfied by the sink package.
// Declared here so the engine depends only on the narrow contract.
type Sink interface {
	Append(ctx context.Context, entries []Entry) error
}

// Dependencies are the collaborators a Recorder orchestrates.
type Dependencies struct {
	Descriptors *schema.Resolver
	Formatter   *format.Formatter
	Sink        Sink
	Logger      *slog.Logger
}

// Recorder buffers audit entries for one unit of work. Build one per
// record-lifecycle event, use it synchronously, then either Flush to
// commit or let it go out of scope to discard everything — the caller's
// own transaction boundary controls durability. Not safe for concurrent
// use; concurrent units of work each get their own Recorder.
type Recorder struct {
	cfg     Config
	actor   actor.Snapshot
	deps    Dependencies
	now     func() time.Time
	entries []Entry
	flushed bool
}

// New builds an idle Recorder. The actor snapshot is taken once, here,
// and stamped onto every entry of the unit of work.
func New(cfg Config, act actor.Snapshot, deps Dependencies) *Recorder {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Recorder{
		cfg:   cfg,
		actor: act,
		deps:  deps,
		now:   time.Now,
	}
}

// RecordEvent audits one CRUD event against a record instance.
//
// newRecord is the after-image; oldRecord is the before-image and only
// consulted for EventUpdate. subject locates the record in its
// aggregate. The call is all-or-nothing: on any fault it returns with
// zero entries added from this call, and the fault must abort the
// caller's unit of work — a partially recorded trail is worse than an
// aborted operation.
func (r *Recorder) RecordEvent(ctx context.Context, kind EventKind, typeKey string, subject Subject, newRecord, oldRecord any) (err error) {
	defer func() {
		if err != nil {
			recordFailures.WithLabelValues(string(kind)).Inc()
		}
	}()

	rt, err := r.deps.Descriptors.Describe(ctx, typeKey)
	if err != nil {
		return err
	}

	// A record type with no describable fields is intentionally
	// schema-less for audit purposes. Not an error; just nothing to say.
	if len(rt.Fields) == 0 {
		return nil
	}

	switch kind {
	case EventCreate:
		return r.recordCreate(ctx, rt, subject, newRecord)
	case EventUpdate:
		return r.recordUpdate(ctx, rt, subject, newRecord, oldRecord)
	case EventDelete, EventRead:
		return r.recordSummary(ctx, kind, rt, subject)
	default:
		return fmt.Errorf("engine: unknown event kind %q", kind)
	}
}

func (r *Recorder) recordCreate(ctx context.Context, rt *schema.RecordType, subject Subject, newRecord any) error {
	extracted, err := record.Extract(newRecord)
	if err != nil {
		return err
	}
	values := normalizeValues(extracted)

	owner := format.Owner{TypeKey: rt.Key, TrackingID: subject.TrackingID}
	staged := make([]Entry, 0, len(rt.Fields))

	for _, desc := range rt.Fields {
		if r.cfg.Excluded(rt.Table, desc.StorageKey) {
			continue
		}

		formatted, err := r.deps.Formatter.Format(ctx, desc, values[fieldKey(desc)], owner)
		if err != nil {
			return err
		}
		if formatted == "" {
			// Unset fields say nothing about a brand-new record.
			continue
		}

		entry := r.newEntry(ctx, EventCreate, rt, subject)
		entry.FieldStorageKey = desc.StorageKey
		entry.FieldDisplayName = desc.Name
		entry.NewValue = formatted
		if r.cfg.EmitMessages {
			entry.Message = createMessage(desc.Name, formatted, rt.Name, r.actor.AccountName)
		}
		staged = append(staged, entry)
	}

	r.commit(EventCreate, staged)
	return nil
}

func (r *Recorder) recordUpdate(ctx context.Context, rt *schema.RecordType, subject Subject, newRecord, oldRecord any) error {
	newExtracted, err := record.Extract(newRecord)
	if err != nil {
		return err
	}
	oldExtracted, err := record.Extract(oldRecord)
	if err != nil {
		return err
	}
	newValues := normalizeValues(newExtracted)
	oldValues := normalizeValues(oldExtracted)

	owner := format.Owner{TypeKey: rt.Key, TrackingID: subject.TrackingID}
	staged := make([]Entry, 0, len(rt.Fields))

	for _, desc := range rt.Fields {
		if r.cfg.Excluded(rt.Table, desc.StorageKey) {
			continue
		}

		key := fieldKey(desc)
		oldRaw, newRaw := oldValues[key], newValues[key]

		// Raw comparison first: formatting is expensive and must only
		// run on fields that actually changed.
		if !rawChanged(oldRaw, newRaw) {
			continue
		}

		oldFormatted, err := r.deps.Formatter.Format(ctx, desc, oldRaw, owner)
		if err != nil {
			return err
		}
		newFormatted, err := r.deps.Formatter.Format(ctx, desc, newRaw, owner)
		if err != nil {
			return err
		}

		// Second stage: two distinct raw values can format identically
		// (whitespace drift in a lookup key, say). Such pairs must not
		// surface as a "changed from X to X" entry.
		if oldFormatted == newFormatted {
			continue
		}

		entry := r.newEntry(ctx, EventUpdate, rt, subject)
		entry.FieldStorageKey = desc.StorageKey
		entry.FieldDisplayName = desc.Name
		entry.PreviousValue = oldFormatted
		entry.NewValue = newFormatted
		if r.cfg.EmitMessages {
			entry.Message = updateMessage(desc.Name, rt.Name, oldFormatted, newFormatted, r.actor.AccountName)
		}
		staged = append(staged, entry)
	}

	r.commit(EventUpdate, staged)
	return nil
}

// recordSummary emits the single field-less entry that Delete and Read
// produce regardless of how many fields the type has.
func (r *Recorder) recordSummary(ctx context.Context, kind EventKind, rt *schema.RecordType, subject Subject) error {
	entry := r.newEntry(ctx, kind, rt, subject)
	if r.cfg.EmitMessages {
		switch kind {
		case EventDelete:
			entry.Message = deleteMessage(rt.Name, subject.TrackingID, r.actor.AccountName)
		case EventRead:
			entry.Message = readMessage(rt.Name, subject.TrackingID, r.actor.AccountName)
		}
	}
	r.commit(kind, []Entry{entry})
	return nil
}

func (r *Recorder) newEntry(ctx context.Context, kind EventKind, rt *schema.RecordType, subject Subject) Entry {
	return Entry{
		ID:              uuid.New(),
		Timestamp:       r.now(),
		TraceID:         contextx.GetTraceID(ctx),
		Subject:         subject,
		EventKind:       kind,
		ActorKind:       r.actor.Kind,
		Actor:           r.actor,
		RecordTypeName:  rt.Name,
		RecordTypeKey:   rt.Key,
		RecordTypeLabel: rt.Label,
		StorageTable:    rt.Table,
		Reason:          contextx.GetAuditReason(ctx),
		ChangeTicket:    contextx.GetChangeTicket(ctx),
		OriginHost:      r.actor.Origin,
	}
}

// commit moves fully staged entries into the buffer. Staging keeps
// RecordEvent all-or-nothing: a fault mid-call leaves the buffer as it
// was before the call.
func (r *Recorder) commit(kind EventKind, staged []Entry) {
	if len(staged) == 0 {
		return
	}
	r.entries = append(r.entries, staged...)
	r.flushed = false
	entriesBuffered.WithLabelValues(string(kind)).Add(float64(len(staged)))
}

// State reports where the recorder sits in its lifecycle: "idle" before
// anything is buffered, "buffered" while entries are pending, "flushed"
// after a successful flush.
func (r *Recorder) State() string {
	switch {
	case len(r.entries) > 0:
		return "buffered"
	case r.flushed:
		return "flushed"
	default:
		return "idle"
	}
}

// Buffered returns a copy of the pending entries, in emission order.
func (r *Recorder) Buffered() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Flush hands the buffer to the sink in emission order, then clears it.
// Idempotent: flushing an empty or already-flushed recorder is a no-op.
// A sink failure is logged with full batch context and re-raised; the
// buffer is kept so the caller can decide what to do with the unit of
// work.
func (r *Recorder) Flush(ctx context.Context) error {
	if len(r.entries) == 0 {
		flushesTotal.WithLabelValues("empty").Inc()
		return nil
	}

	start := time.Now()
	err := r.deps.Sink.Append(ctx, r.entries)
	flushDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		flushesTotal.WithLabelValues("error").Inc()
		r.deps.Logger.Error("audit flush failed",
			"entries", len(r.entries),
			"record_type", r.entries[0].RecordTypeKey,
			"tracking_id", r.entries[0].Subject.TrackingID,
			"actor", r.actor.AccountName,
			"error", err,
		)
		return err
	}

	flushesTotal.WithLabelValues("ok").Inc()
	r.entries = nil
	r.flushed = true
	return nil
}

// fieldKey is how extractor-derived names are matched to descriptors:
// accessor names drop spaces that display names carry.
func fieldKey(desc schema.FieldDescriptor) string {
	return normalizeFieldName(desc.Name)
}
