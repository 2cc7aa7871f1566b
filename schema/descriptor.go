package schema

import "context"

// FieldDescriptor describes one field of a record type. Loaded once per
// record type per audit operation and never mutated afterwards.
type FieldDescriptor struct {
	// Name is the human-facing display name ("Status", "Date Reported").
	Name string `json:"name"`

	// StorageKey is the physical column/slot the value lives in.
	StorageKey string `json:"storage_key"`

	// Kind controls how the raw value is rendered.
	Kind Kind `json:"kind"`

	// LookupBound marks fields whose stored value is an opaque reference
	// id resolved to display text through a configured lookup query.
	LookupBound bool `json:"lookup_bound"`

	// MultiValued marks lookup fields whose raw value is an ordered
	// collection of reference ids rather than a scalar.
	MultiValued bool `json:"multi_valued"`

	// LookupKey is the business identity of the lookup's defining query.
	// Empty unless LookupBound.
	LookupKey string `json:"lookup_key,omitempty"`
}

// RecordType is the resolved shape of one record type at a specific
// published schema generation.
type RecordType struct {
	Key        string            `json:"key"`   // stable type identifier
	Name       string            `json:"name"`  // display name ("Case")
	Label      string            `json:"label"` // UI label, may differ from Name
	Table      string            `json:"table"` // physical storage table
	Generation int64             `json:"generation"`
	Fields     []FieldDescriptor `json:"fields"` // ordered as published
}

// MetadataStore is the platform's live schema metadata. Implementations
// must answer from the published generation, never a draft.
type MetadataStore interface {
	// PublishedGeneration returns the single currently published schema
	// generation for a record type. Zero or multiple published
	// generations is a metadata integrity fault.
	PublishedGeneration(ctx context.Context, typeKey string) (int64, error)

	// DescribeFields returns the record type shape at a generation.
	DescribeFields(ctx context.Context, typeKey string, generation int64) (*RecordType, error)
}
