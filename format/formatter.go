// Package format renders raw field values into the canonical display
// strings that appear in audit entries.
package format

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/godamri/helix-audit/lookup"
	"github.com/godamri/helix-audit/schema"
	"github.com/godamri/helix-audit/store"
)

// UnsupportedKindError reports a field whose semantic kind has no
// formatting rule. This never happens in steady state; it means the
// taxonomy and the platform metadata have drifted apart, and it must
// surface instead of being coerced to a generic string form.
type UnsupportedKindError struct {
	Kind  schema.Kind
	Field string
}

func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("format: field %q has unsupported kind %s", e.Field, e.Kind)
}

// Owner identifies the record instance a value belongs to. Kinds that
// resolve against the record store (workflow state, lookups) need it.
type Owner struct {
	TypeKey    string
	TrackingID int64
}

// Config carries the server-side rendering policy. Date and Timestamp
// values are localized to the configured zone.
type Config struct {
	Location        *time.Location
	DateLayout      string
	TimestampLayout string
}

func (c Config) withDefaults() Config {
	if c.Location == nil {
		c.Location = time.Local
	}
	if c.DateLayout == "" {
		c.DateLayout = "01/02/2006"
	}
	if c.TimestampLayout == "" {
		c.TimestampLayout = "01/02/2006 03:04:05 PM"
	}
	return c
}

// Formatter dispatches on a descriptor's semantic kind. Lookup-bound
// fields are delegated wholly to the lookup resolver; the raw-kind rule
// never runs for them.
type Formatter struct {
	cfg     Config
	records store.RecordStore
	lookups *lookup.Resolver
}

func New(cfg Config, records store.RecordStore, lookups *lookup.Resolver) *Formatter {
	return &Formatter{
		cfg:     cfg.withDefaults(),
		records: records,
		lookups: lookups,
	}
}

// Format renders raw for display. Null raws render as "" for every
// supported kind.
func (f *Formatter) Format(ctx context.Context, desc schema.FieldDescriptor, raw any, owner Owner) (string, error) {
	if desc.LookupBound {
		return f.lookups.Display(ctx, desc, raw, owner.TrackingID)
	}

	switch desc.Kind {
	case schema.KindText, schema.KindLongText:
		return asString(raw), nil

	case schema.KindNumber, schema.KindLongInteger:
		return formatInteger(raw)

	case schema.KindCurrency:
		return formatCurrency(raw)

	case schema.KindYesNo:
		return formatYesNo(raw), nil

	case schema.KindDate:
		return f.formatTime(raw, f.cfg.DateLayout)

	case schema.KindTimestamp:
		return f.formatTime(raw, f.cfg.TimestampLayout)

	case schema.KindFileReference:
		return f.formatFileReference(ctx, raw)

	case schema.KindWorkflowStateLabel:
		return f.formatWorkflowState(ctx, owner)

	case schema.KindMaskedCredential:
		return f.formatMaskedCredential(ctx, raw)

	default:
		return "", &UnsupportedKindError{Kind: desc.Kind, Field: desc.Name}
	}
}

func formatInteger(raw any) (string, error) {
	if raw == nil {
		return "", nil
	}
	n, err := asInt64(raw)
	if err != nil {
		return "", fmt.Errorf("format: integer value: %w", err)
	}
	// No thousands separators, no locale formatting.
	return strconv.FormatInt(n, 10), nil
}

func formatCurrency(raw any) (string, error) {
	if raw == nil {
		return "", nil
	}
	amount, err := asFloat64(raw)
	if err != nil {
		return "", fmt.Errorf("format: currency value: %w", err)
	}
	return strconv.FormatFloat(amount, 'f', 2, 64), nil
}

func formatYesNo(raw any) string {
	if raw == nil {
		return ""
	}
	// Stored as 0/1; anything else renders literally rather than
	// failing, since legacy rows are known to hold stray values.
	if n, err := asInt64(raw); err == nil {
		switch n {
		case 0:
			return "No"
		case 1:
			return "Yes"
		}
	}
	return asString(raw)
}

func (f *Formatter) formatTime(raw any, layout string) (string, error) {
	if raw == nil {
		return "", nil
	}
	t, err := asTime(raw)
	if err != nil {
		return "", fmt.Errorf("format: time value: %w", err)
	}
	return t.In(f.cfg.Location).Format(layout), nil
}

func (f *Formatter) formatFileReference(ctx context.Context, raw any) (string, error) {
	if raw == nil {
		return "", nil
	}
	fileID, err := asInt64(raw)
	if err != nil {
		return "", fmt.Errorf("format: file reference: %w", err)
	}

	name, found, err := f.records.FetchFileDisplayName(ctx, fileID)
	if err != nil {
		return "", fmt.Errorf("format: resolve file %d: %w", fileID, err)
	}
	if !found {
		return "", nil
	}
	return name, nil
}

func (f *Formatter) formatWorkflowState(ctx context.Context, owner Owner) (string, error) {
	label, found, err := f.records.FetchWorkflowStateLabel(ctx, owner.TypeKey, owner.TrackingID)
	if err != nil {
		return "", fmt.Errorf("format: resolve workflow state of %s/%d: %w", owner.TypeKey, owner.TrackingID, err)
	}
	if !found {
		return "", nil
	}
	return label, nil
}

// formatMaskedCredential renders the identity behind a credential field
// as "<last>, <first> (<account>)". The credential's own value is never
// read, let alone rendered.
func (f *Formatter) formatMaskedCredential(ctx context.Context, raw any) (string, error) {
	if raw == nil || strings.TrimSpace(asString(raw)) == "" {
		return "", nil
	}
	userID, err := asInt64(raw)
	if err != nil {
		return "", fmt.Errorf("format: masked credential reference: %w", err)
	}

	u, found, err := f.records.FetchUserDisplay(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("format: resolve credential user %d: %w", userID, err)
	}
	if !found {
		return "", nil
	}
	return fmt.Sprintf("%s, %s (%s)", u.Last, u.First, u.Account), nil
}
