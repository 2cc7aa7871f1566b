package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/godamri/helix-audit/database"
	"github.com/godamri/helix-audit/schema"
)

// PostgresRecordStore reads record data through the instrumented *sql.DB
// produced by database.NewPostgres. Every query is a single-row lookup;
// absence is a result, not an error.
type PostgresRecordStore struct {
	db *sql.DB
}

func NewPostgresRecordStore(db *sql.DB) *PostgresRecordStore {
	return &PostgresRecordStore{db: db}
}

func (s *PostgresRecordStore) FetchFileDisplayName(ctx context.Context, fileID int64) (string, bool, error) {
	const q = `SELECT display_name FROM record_files WHERE file_id = $1`

	var name string
	err := s.db.QueryRowContext(ctx, q, fileID).Scan(&name)
	if database.IsNoRows(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("store: fetch file display name %d: %w", fileID, err)
	}
	return name, true, nil
}

func (s *PostgresRecordStore) FetchWorkflowStateLabel(ctx context.Context, typeKey string, trackingID int64) (string, bool, error) {
	const q = `
		SELECT ws.label
		FROM record_workflow rw
		JOIN workflow_states ws ON ws.state_id = rw.state_id
		WHERE rw.type_key = $1 AND rw.tracking_id = $2`

	var label string
	err := s.db.QueryRowContext(ctx, q, typeKey, trackingID).Scan(&label)
	if database.IsNoRows(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("store: fetch workflow state %s/%d: %w", typeKey, trackingID, err)
	}
	return label, true, nil
}

func (s *PostgresRecordStore) FetchUserDisplay(ctx context.Context, userID int64) (UserDisplay, bool, error) {
	const q = `SELECT first_name, last_name, account_name FROM platform_users WHERE user_id = $1`

	var u UserDisplay
	err := s.db.QueryRowContext(ctx, q, userID).Scan(&u.First, &u.Last, &u.Account)
	if database.IsNoRows(err) {
		return UserDisplay{}, false, nil
	}
	if err != nil {
		return UserDisplay{}, false, fmt.Errorf("store: fetch user display %d: %w", userID, err)
	}
	return u, true, nil
}

// PostgresMetadataStore resolves record-type shapes from the platform's
// schema catalog. Only rows with status 'published' are visible here;
// drafts never reach the audit engine.
type PostgresMetadataStore struct {
	db *sql.DB
}

func NewPostgresMetadataStore(db *sql.DB) *PostgresMetadataStore {
	return &PostgresMetadataStore{db: db}
}

func (s *PostgresMetadataStore) PublishedGeneration(ctx context.Context, typeKey string) (int64, error) {
	const q = `SELECT generation FROM schema_generations WHERE type_key = $1 AND status = 'published'`

	rows, err := s.db.QueryContext(ctx, q, typeKey)
	if err != nil {
		return 0, fmt.Errorf("store: query published generation for %q: %w", typeKey, err)
	}
	defer rows.Close()

	var generations []int64
	for rows.Next() {
		var gen int64
		if err := rows.Scan(&gen); err != nil {
			return 0, fmt.Errorf("store: scan generation for %q: %w", typeKey, err)
		}
		generations = append(generations, gen)
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("store: read generations for %q: %w", typeKey, err)
	}

	// Exactly one published generation is the catalog invariant. Zero
	// means the type key is unknown; more than one means a publish was
	// left half-finished. Both are integrity faults, not caller errors.
	if len(generations) != 1 {
		return 0, fmt.Errorf("%w: type %q has %d published generations", schema.ErrAmbiguousGeneration, typeKey, len(generations))
	}
	return generations[0], nil
}

func (s *PostgresMetadataStore) DescribeFields(ctx context.Context, typeKey string, generation int64) (*schema.RecordType, error) {
	const typeQuery = `
		SELECT name, label, storage_table
		FROM record_types
		WHERE type_key = $1 AND generation = $2`

	rt := &schema.RecordType{Key: typeKey, Generation: generation}
	err := s.db.QueryRowContext(ctx, typeQuery, typeKey, generation).Scan(&rt.Name, &rt.Label, &rt.Table)
	if err != nil {
		return nil, fmt.Errorf("store: describe type %q@%d: %w", typeKey, generation, err)
	}

	const fieldQuery = `
		SELECT display_name, storage_key, kind, lookup_bound, multi_valued, COALESCE(lookup_key, '')
		FROM record_fields
		WHERE type_key = $1 AND generation = $2
		ORDER BY ordinal`

	rows, err := s.db.QueryContext(ctx, fieldQuery, typeKey, generation)
	if err != nil {
		return nil, fmt.Errorf("store: enumerate fields of %q@%d: %w", typeKey, generation, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			desc    schema.FieldDescriptor
			rawKind string
		)
		if err := rows.Scan(&desc.Name, &desc.StorageKey, &rawKind, &desc.LookupBound, &desc.MultiValued, &desc.LookupKey); err != nil {
			return nil, fmt.Errorf("store: scan field of %q@%d: %w", typeKey, generation, err)
		}
		kind, err := schema.ParseKind(rawKind)
		if err != nil {
			return nil, fmt.Errorf("store: field %q of %q: %w", desc.Name, typeKey, err)
		}
		desc.Kind = kind
		rt.Fields = append(rt.Fields, desc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: read fields of %q@%d: %w", typeKey, generation, err)
	}

	return rt, nil
}
