package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/roach88/dfa/internal/engine"
	"github.com/roach88/dfa/internal/ir"
)

// IDGenerator generates session IDs.
// Implemented by UUIDv7Generator (production) and FixedGenerator (tests).
type IDGenerator interface {
	Generate() string
}

// SeqSource hands out strictly increasing sequence numbers.
// Implemented by Clock and testutil.DeterministicClock.
type SeqSource interface {
	Next() int64
}

// Recorder persists automata and query records.
// Implemented by *store.Store.
type Recorder interface {
	WriteAutomaton(ctx context.Context, id string, desc ir.Description) error
	WriteQuery(ctx context.Context, rec ir.QueryRecord) error
}

// Option configures a Session.
type Option func(*Session)

// WithClock replaces the session's logical clock.
func WithClock(clock SeqSource) Option {
	return func(s *Session) {
		s.clock = clock
	}
}

// WithIDGenerator replaces the session ID generator.
func WithIDGenerator(gen IDGenerator) Option {
	return func(s *Session) {
		s.idGen = gen
	}
}

// Session evaluates words against one engine and stamps the verdicts.
//
// Query is safe for concurrent use; seq values are unique across calls but
// records written concurrently may reach the recorder out of seq order.
type Session struct {
	eng         *engine.Engine
	automatonID string
	id          string

	rec   Recorder
	clock SeqSource
	idGen IDGenerator

	mu       sync.Mutex
	recorded bool // automaton row written
}

// New opens a session on eng. rec may be nil, in which case queries are
// stamped but not persisted.
func New(eng *engine.Engine, rec Recorder, opts ...Option) (*Session, error) {
	if eng == nil {
		return nil, fmt.Errorf("new session: nil engine")
	}

	automatonID, err := eng.ID()
	if err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}

	s := &Session{
		eng:         eng,
		automatonID: automatonID,
		rec:         rec,
		clock:       NewClock(),
		idGen:       UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.id = s.idGen.Generate()

	slog.Debug("session opened",
		"session_id", s.id,
		"automaton_id", s.automatonID,
		"recording", rec != nil,
	)
	return s, nil
}

// ID returns the session ID.
func (s *Session) ID() string { return s.id }

// AutomatonID returns the content-addressed ID of the session's automaton.
func (s *Session) AutomatonID() string { return s.automatonID }

// Engine returns the engine queries are evaluated on.
func (s *Session) Engine() *engine.Engine { return s.eng }

// Query evaluates word and returns the stamped record. When a recorder is
// attached the automaton is written before the first query, then the query
// itself.
//
// The verdict never fails; errors come only from the recorder.
func (s *Session) Query(ctx context.Context, word string) (ir.QueryRecord, error) {
	v := s.eng.Evaluate(word)
	seq := s.clock.Next()

	id, err := ir.QueryID(s.id, s.automatonID, word, seq)
	if err != nil {
		return ir.QueryRecord{}, fmt.Errorf("query %q: %w", word, err)
	}

	rec := ir.QueryRecord{
		ID:          id,
		SessionID:   s.id,
		AutomatonID: s.automatonID,
		Word:        word,
		Accepted:    v.Accepted,
		Prefix:      v.Prefix,
		State:       v.State,
		Seq:         seq,
		EngineVer:   ir.EngineVersion,
	}

	slog.Debug("query evaluated",
		"session_id", s.id,
		"seq", seq,
		"word", word,
		"accepted", rec.Accepted,
		"prefix", rec.Prefix,
	)

	if s.rec == nil {
		return rec, nil
	}
	if err := s.ensureAutomaton(ctx); err != nil {
		return ir.QueryRecord{}, err
	}
	if err := s.rec.WriteQuery(ctx, rec); err != nil {
		return ir.QueryRecord{}, fmt.Errorf("record query %q: %w", word, err)
	}
	return rec, nil
}

// ensureAutomaton writes the automaton row once per session.
func (s *Session) ensureAutomaton(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.recorded {
		return nil
	}
	if err := s.rec.WriteAutomaton(ctx, s.automatonID, s.eng.Description()); err != nil {
		return fmt.Errorf("record automaton: %w", err)
	}
	s.recorded = true
	return nil
}
