package sink

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"github.com/godamri/helix-audit/actor"
	"github.com/godamri/helix-audit/engine"
)

// identPattern guards the configurable destination table name, which is
// the one identifier in this package that cannot be a bind parameter.
var identPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Postgres appends entries to the configured destination table inside a
// single transaction: a flush lands whole or not at all.
type Postgres struct {
	db    *sql.DB
	table string
}

func NewPostgres(db *sql.DB, table string) (*Postgres, error) {
	if table == "" {
		table = engine.DefaultDestinationTable
	}
	if !identPattern.MatchString(table) {
		return nil, fmt.Errorf("sink: invalid destination table name %q", table)
	}
	return &Postgres{db: db, table: table}, nil
}

func (s *Postgres) Append(ctx context.Context, entries []engine.Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &WriteError{Destination: s.table, Entries: len(entries), Cause: err}
	}
	defer tx.Rollback()

	query := fmt.Sprintf(`
		INSERT INTO %s (
			id, recorded_at, trace_id,
			base_id, parent_id, tracking_id,
			event_kind, actor_kind, actor_account, actor_user_id,
			actor_role_id, actor_role_name, actor_org_id, actor_org_name,
			record_type_name, record_type_key, record_type_label, storage_table,
			field_storage_key, field_display_name, previous_value, new_value,
			message, reason, change_ticket, origin_host_name, origin_host_address
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27)`,
		s.table)

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return &WriteError{Destination: s.table, Entries: len(entries), Cause: err}
	}
	defer stmt.Close()

	for _, e := range entries {
		_, err := stmt.ExecContext(ctx,
			e.ID, e.Timestamp, e.TraceID,
			e.Subject.BaseID, e.Subject.ParentID, e.Subject.TrackingID,
			string(e.EventKind), string(e.ActorKind), e.Actor.AccountName, e.Actor.UserID,
			e.Actor.RoleID, e.Actor.RoleName, e.Actor.OrgID, e.Actor.OrgName,
			e.RecordTypeName, e.RecordTypeKey, e.RecordTypeLabel, e.StorageTable,
			e.FieldStorageKey, e.FieldDisplayName, e.PreviousValue, e.NewValue,
			e.Message, e.Reason, e.ChangeTicket, e.OriginHost.Name, e.OriginHost.Address,
		)
		if err != nil {
			return &WriteError{Destination: s.table, Entries: len(entries), Cause: fmt.Errorf("insert entry %s: %w", e.ID, err)}
		}
	}

	if err := tx.Commit(); err != nil {
		return &WriteError{Destination: s.table, Entries: len(entries), Cause: err}
	}
	return nil
}

// Query reads the trail back for the ops surface.
func (s *Postgres) Query(ctx context.Context, q Query) ([]engine.Entry, error) {
	query := fmt.Sprintf(`
		SELECT id, recorded_at, trace_id,
			base_id, parent_id, tracking_id,
			event_kind, actor_kind, actor_account, actor_user_id,
			actor_role_id, actor_role_name, actor_org_id, actor_org_name,
			record_type_name, record_type_key, record_type_label, storage_table,
			field_storage_key, field_display_name, previous_value, new_value,
			message, reason, change_ticket, origin_host_name, origin_host_address
		FROM %s
		WHERE ($1 = '' OR record_type_key = $1)
		  AND ($2 = 0 OR tracking_id = $2)
		  AND ($3 = '' OR event_kind = $3)
		ORDER BY recorded_at
		LIMIT $4`, s.table)

	limit := q.Limit
	if limit <= 0 {
		limit = 500
	}

	rows, err := s.db.QueryContext(ctx, query, q.RecordTypeKey, q.TrackingID, string(q.EventKind), limit)
	if err != nil {
		return nil, fmt.Errorf("sink: query trail from %s: %w", s.table, err)
	}
	defer rows.Close()

	var out []engine.Entry
	for rows.Next() {
		var (
			e         engine.Entry
			eventKind string
			actorKind string
		)
		err := rows.Scan(
			&e.ID, &e.Timestamp, &e.TraceID,
			&e.Subject.BaseID, &e.Subject.ParentID, &e.Subject.TrackingID,
			&eventKind, &actorKind, &e.Actor.AccountName, &e.Actor.UserID,
			&e.Actor.RoleID, &e.Actor.RoleName, &e.Actor.OrgID, &e.Actor.OrgName,
			&e.RecordTypeName, &e.RecordTypeKey, &e.RecordTypeLabel, &e.StorageTable,
			&e.FieldStorageKey, &e.FieldDisplayName, &e.PreviousValue, &e.NewValue,
			&e.Message, &e.Reason, &e.ChangeTicket, &e.OriginHost.Name, &e.OriginHost.Address,
		)
		if err != nil {
			return nil, fmt.Errorf("sink: scan trail row: %w", err)
		}
		e.EventKind = engine.EventKind(eventKind)
		e.ActorKind = actor.Kind(actorKind)
		e.Actor.Kind = e.ActorKind
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sink: read trail rows: %w", err)
	}
	return out, nil
}
