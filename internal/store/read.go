package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/roach88/dfa/internal/ir"
)

// ReadQueries returns recorded queries matching the filter.
// Results are grouped by session, sessions in the order their first query
// was recorded, then ordered by seq ASC, id ASC COLLATE BINARY.
//
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) ReadQueries(ctx context.Context, filter ir.QueryFilter) ([]ir.QueryRecord, error) {
	var where []string
	var args []any
	if filter.SessionID != "" {
		where = append(where, "session_id = ?")
		args = append(args, filter.SessionID)
	}
	if filter.AutomatonID != "" {
		where = append(where, "automaton_id = ?")
		args = append(args, filter.AutomatonID)
	}

	query := `
		SELECT id, session_id, automaton_id, word, accepted, prefix, state, seq, engine_version
		FROM queries`
	if len(where) > 0 {
		query += "\n\t\tWHERE " + strings.Join(where, " AND ")
	}
	query += `
		ORDER BY (SELECT MIN(f.rowid) FROM queries f WHERE f.session_id = queries.session_id) ASC,
			seq ASC, id COLLATE BINARY ASC`
	if filter.Limit > 0 {
		query += "\n\t\tLIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query queries: %w", err)
	}
	defer rows.Close()

	records := []ir.QueryRecord{}
	for rows.Next() {
		rec, err := scanQuery(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate queries: %w", err)
	}

	return records, nil
}

// ReadQuery retrieves a single query record by ID.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadQuery(ctx context.Context, id string) (ir.QueryRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, session_id, automaton_id, word, accepted, prefix, state, seq, engine_version
		FROM queries
		WHERE id = ?
	`, id)

	return scanQuery(row)
}

// ReadAutomaton retrieves a stored description by ID.
// Final states come back sorted and deduplicated.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadAutomaton(ctx context.Context, id string) (ir.Description, error) {
	var descJSON string
	err := s.db.QueryRowContext(ctx, `
		SELECT description FROM automata WHERE id = ?
	`, id).Scan(&descJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return ir.Description{}, err
		}
		return ir.Description{}, fmt.Errorf("read automaton: %w", err)
	}

	return unmarshalDescription(descJSON)
}

// ListSessions returns the distinct session IDs in the log, in the order
// their first query was recorded.
func (s *Store) ListSessions(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id
		FROM queries
		GROUP BY session_id
		ORDER BY MIN(rowid) ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanQuery(row scanner) (ir.QueryRecord, error) {
	var rec ir.QueryRecord
	var accepted, prefix int
	err := row.Scan(
		&rec.ID,
		&rec.SessionID,
		&rec.AutomatonID,
		&rec.Word,
		&accepted,
		&prefix,
		&rec.State,
		&rec.Seq,
		&rec.EngineVer,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return ir.QueryRecord{}, err
		}
		return ir.QueryRecord{}, fmt.Errorf("scan query: %w", err)
	}
	rec.Accepted = accepted != 0
	rec.Prefix = prefix != 0
	return rec, nil
}
