package store

import (
	"context"
	"fmt"

	"github.com/roach88/dfa/internal/ir"
)

// WriteAutomaton records an automaton description under its
// content-addressed ID.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - the same ID always
// names the same description, so a second write is silently ignored.
func (s *Store) WriteAutomaton(ctx context.Context, id string, desc ir.Description) error {
	descJSON, err := marshalDescription(desc)
	if err != nil {
		return fmt.Errorf("write automaton: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO automata
		(id, description, alphabet_size, state_count, ir_version)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		id,
		descJSON,
		desc.AlphabetSize,
		desc.StateCount,
		ir.IRVersion,
	)
	if err != nil {
		return fmt.Errorf("write automaton: %w", err)
	}

	return nil
}

// WriteQuery inserts a query record into the log.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are silently ignored.
//
// Note: The automaton referenced by AutomatonID must exist (foreign key constraint).
func (s *Store) WriteQuery(ctx context.Context, rec ir.QueryRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO queries
		(id, session_id, automaton_id, word, accepted, prefix, state, seq, engine_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		rec.ID,
		rec.SessionID,
		rec.AutomatonID,
		rec.Word,
		boolToInt(rec.Accepted),
		boolToInt(rec.Prefix),
		rec.State,
		rec.Seq,
		rec.EngineVer,
	)
	if err != nil {
		return fmt.Errorf("write query: %w", err)
	}

	return nil
}
