package cli

import (
	"log/slog"

	"github.com/roach88/dfa/internal/engine"
	"github.com/roach88/dfa/internal/session"
	"github.com/roach88/dfa/internal/store"
)

// openSession opens a query session on eng. With a database path the
// session records into that query log; the returned close func releases it.
func openSession(eng *engine.Engine, dbPath string) (*session.Session, func(), error) {
	noop := func() {}

	if dbPath == "" {
		sess, err := session.New(eng, nil)
		if err != nil {
			return nil, noop, WrapExitError(ExitCommandError, "failed to open session", err)
		}
		return sess, noop, nil
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return nil, noop, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	closeStore := func() {
		if err := st.Close(); err != nil {
			slog.Warn("failed to close database", "path", dbPath, "error", err)
		}
	}

	sess, err := session.New(eng, st)
	if err != nil {
		closeStore()
		return nil, noop, WrapExitError(ExitCommandError, "failed to open session", err)
	}
	slog.Debug("recording queries", "db", dbPath, "session_id", sess.ID())
	return sess, closeStore, nil
}
