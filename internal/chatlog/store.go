// Package chatlog is the append-only session log. Turns are never mutated or
// deleted; insertion order is the ordering contract.
package chatlog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"scribecast/internal/db"
)

// Role identifies who produced a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one logged message in a session.
type Turn struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Seq       int64     `json:"seq"`
	CreatedAt time.Time `json:"created_at"`
}

// Entry is the caller-supplied part of a turn.
type Entry struct {
	Role    Role
	Content string
}

type appendJob struct {
	sessionID string
	entries   []Entry
}

// Store persists chat turns in SQLite. Async appends go through a single
// background writer, so enqueue order is insertion order even across
// concurrent callers.
type Store struct {
	db    *db.DB
	log   *zap.Logger
	queue chan appendJob
	wg    sync.WaitGroup
}

// NewStore creates a session log store and starts its background writer.
// Call Close to drain pending appends.
func NewStore(database *db.DB, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{
		db:    database,
		log:   log,
		queue: make(chan appendJob, 128),
	}
	s.wg.Add(1)
	go s.writer()
	return s
}

func (s *Store) writer() {
	defer s.wg.Done()
	for job := range s.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		for _, e := range job.entries {
			if _, err := s.Append(ctx, job.sessionID, e.Role, e.Content); err != nil {
				s.log.Warn("chat log append failed",
					zap.String("session_id", job.sessionID),
					zap.String("role", string(e.Role)),
					zap.Error(err))
			}
		}
		cancel()
	}
}

// Append writes one turn synchronously and returns it with its assigned seq.
func (s *Store) Append(ctx context.Context, sessionID string, role Role, content string) (*Turn, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_turns (id, session_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, sessionID, string(role), content, now,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting chat turn: %w", err)
	}

	seq, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading turn seq: %w", err)
	}

	return &Turn{
		ID:        id,
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		Seq:       seq,
		CreatedAt: now,
	}, nil
}

// AppendAsync enqueues entries for background persistence and returns without
// touching the database. Entries from one call keep their relative order;
// failures are logged, never returned. When the writer falls behind and the
// queue is full the entries are dropped with a warning rather than stalling
// the caller.
func (s *Store) AppendAsync(sessionID string, entries ...Entry) {
	if len(entries) == 0 {
		return
	}
	select {
	case s.queue <- appendJob{sessionID: sessionID, entries: entries}:
	default:
		s.log.Warn("chat log queue full, dropping entries",
			zap.String("session_id", sessionID),
			zap.Int("dropped", len(entries)))
	}
}

// History returns all turns for a session in insertion order.
func (s *Store) History(ctx context.Context, sessionID string) ([]Turn, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, role, content, seq, created_at
		 FROM chat_turns WHERE session_id = ? ORDER BY seq`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying chat turns: %w", err)
	}
	defer rows.Close()

	var turns []Turn
	for rows.Next() {
		var t Turn
		var role string
		if err := rows.Scan(&t.ID, &t.SessionID, &role, &t.Content, &t.Seq, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning chat turn: %w", err)
		}
		t.Role = Role(role)
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

// Close stops accepting async appends and drains the queue.
func (s *Store) Close() {
	close(s.queue)
	s.wg.Wait()
}
