package journal

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Session is one recorded tuirobot session
type Session struct {
	ID        string
	Name      string
	StartedAt time.Time
	EndedAt   time.Time // zero while the session runs
}

// Event is one window event as the monitor processed it
type Event struct {
	ID        int64
	SessionID string
	Kind      string
	Window    string
	Queue     string
	From      string
	To        string
	At        time.Time
}

// Search is one finished wait for a component
type Search struct {
	ID        int64
	SessionID string
	Matcher   string
	Found     int
	Timeout   time.Duration
	Elapsed   time.Duration
	Error     string
	At        time.Time
}

func (s *Store) ready() error {
	if s == nil || s.db == nil {
		return fmt.Errorf("journal store not initialized")
	}
	return nil
}

// BeginSession records the start of session id
func (s *Store) BeginSession(ctx context.Context, id, name string, startedAt time.Time) error {
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("empty session id")
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO sessions(id, name, started_at) VALUES(?,?,?)`, id, name, startedAt.UnixMilli())
	return err
}

// EndSession stamps the end of session id
func (s *Store) EndSession(ctx context.Context, id string, endedAt time.Time) error {
	if err := s.ready(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `UPDATE sessions SET ended_at=? WHERE id=?`, endedAt.UnixMilli(), id)
	return err
}

// Sessions lists recorded sessions, most recent first
func (s *Store) Sessions(ctx context.Context) ([]Session, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, started_at, ended_at FROM sessions ORDER BY started_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		var (
			sess    Session
			started int64
			ended   sql.NullInt64
		)
		if err := rows.Scan(&sess.ID, &sess.Name, &started, &ended); err != nil {
			return nil, err
		}
		sess.StartedAt = time.UnixMilli(started)
		if ended.Valid {
			sess.EndedAt = time.UnixMilli(ended.Int64)
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

// RecordEvent appends a window event to the journal
func (s *Store) RecordEvent(ctx context.Context, e Event) error {
	if err := s.ready(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO window_events(session_id, kind, window_name, queue, from_state, to_state, at)
VALUES(?,?,?,?,?,?,?)`, e.SessionID, e.Kind, e.Window, e.Queue, e.From, e.To, e.At.UnixMilli())
	return err
}

// Events returns the window events of a session in recording order
func (s *Store) Events(ctx context.Context, sessionID string) ([]Event, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, session_id, kind, window_name, queue, from_state, to_state, at
FROM window_events WHERE session_id=? ORDER BY id`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var (
			e  Event
			at int64
		)
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Kind, &e.Window, &e.Queue, &e.From, &e.To, &at); err != nil {
			return nil, err
		}
		e.At = time.UnixMilli(at)
		out = append(out, e)
	}
	return out, rows.Err()
}

// RecordSearch appends a finished wait to the journal
func (s *Store) RecordSearch(ctx context.Context, r Search) error {
	if err := s.ready(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO searches(session_id, matcher, found, timeout_ms, elapsed_ms, error, at)
VALUES(?,?,?,?,?,?,?)`, r.SessionID, r.Matcher, r.Found, r.Timeout.Milliseconds(), r.Elapsed.Milliseconds(), r.Error, r.At.UnixMilli())
	return err
}

// Searches returns the searches of a session in recording order
func (s *Store) Searches(ctx context.Context, sessionID string) ([]Search, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, session_id, matcher, found, timeout_ms, elapsed_ms, error, at
FROM searches WHERE session_id=? ORDER BY id`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Search
	for rows.Next() {
		var (
			r                    Search
			timeout, elapsed, at int64
		)
		if err := rows.Scan(&r.ID, &r.SessionID, &r.Matcher, &r.Found, &timeout, &elapsed, &r.Error, &at); err != nil {
			return nil, err
		}
		r.Timeout = time.Duration(timeout) * time.Millisecond
		r.Elapsed = time.Duration(elapsed) * time.Millisecond
		r.At = time.UnixMilli(at)
		out = append(out, r)
	}
	return out, rows.Err()
}
