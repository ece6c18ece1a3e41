package chat

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TranscriptStore persists turn transcripts to PostgreSQL for long-term
// history. All methods are nil-safe so persistence stays optional: a nil
// store silently drops writes.
type TranscriptStore struct {
	db *sql.DB
}

// NewTranscriptStore creates a transcript store.
func NewTranscriptStore(db *sql.DB) *TranscriptStore {
	if db == nil {
		return nil
	}
	return &TranscriptStore{db: db}
}

// SessionRecord represents a chat session in the database.
type SessionRecord struct {
	ID            uuid.UUID
	SessionID     string
	TurnCount     int
	StartedAt     time.Time
	LastMessageAt *time.Time
}

// TurnRecord represents one persisted turn.
type TurnRecord struct {
	ID          uuid.UUID
	SessionID   string
	UserMessage string
	BotResponse string
	Intent      string
	CreatedAt   time.Time
}

// AppendTurn persists a turn and bumps the session counters.
func (s *TranscriptStore) AppendTurn(ctx context.Context, sessionID, userMessage, botResponse string, intent Intent) error {
	if s == nil || s.db == nil {
		return nil
	}

	if err := s.ensureSession(ctx, sessionID); err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chat_turns (id, session_id, user_message, bot_response, intent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.New(), sessionID, userMessage, botResponse, string(intent), now)
	if err != nil {
		return fmt.Errorf("chat: failed to insert turn: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE chat_sessions SET
			turn_count = turn_count + 1,
			last_message_at = $1,
			updated_at = $1
		WHERE session_id = $2
	`, now, sessionID)
	if err != nil {
		return fmt.Errorf("chat: failed to update session counters: %w", err)
	}

	return nil
}

func (s *TranscriptStore) ensureSession(ctx context.Context, sessionID string) error {
	var existingID uuid.UUID
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM chat_sessions WHERE session_id = $1`,
		sessionID,
	).Scan(&existingID)
	if err == nil {
		return nil
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("chat: failed to check session: %w", err)
	}

	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO chat_sessions (id, session_id, turn_count, started_at, created_at, updated_at)
		VALUES ($1, $2, 0, $3, $3, $3)
		ON CONFLICT (session_id) DO NOTHING
	`, uuid.New(), sessionID, now)
	if err != nil {
		return fmt.Errorf("chat: failed to create session record: %w", err)
	}
	return nil
}

// GetTurns retrieves persisted turns for a session, oldest first.
func (s *TranscriptStore) GetTurns(ctx context.Context, sessionID string, limit int) ([]TurnRecord, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}

	query := `
		SELECT id, session_id, user_message, bot_response, intent, created_at
		FROM chat_turns
		WHERE session_id = $1
		ORDER BY created_at ASC
	`
	args := []any{sessionID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("chat: failed to get turns: %w", err)
	}
	defer rows.Close()

	var turns []TurnRecord
	for rows.Next() {
		var turn TurnRecord
		if err := rows.Scan(
			&turn.ID, &turn.SessionID, &turn.UserMessage,
			&turn.BotResponse, &turn.Intent, &turn.CreatedAt,
		); err != nil {
			continue
		}
		turns = append(turns, turn)
	}

	return turns, nil
}

// GetSession retrieves a session record, or nil if it was never persisted.
func (s *TranscriptStore) GetSession(ctx context.Context, sessionID string) (*SessionRecord, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}

	var rec SessionRecord
	var lastMessageAt sql.NullTime
	err := s.db.QueryRowContext(ctx, `
		SELECT id, session_id, turn_count, started_at, last_message_at
		FROM chat_sessions
		WHERE session_id = $1
	`, sessionID).Scan(&rec.ID, &rec.SessionID, &rec.TurnCount, &rec.StartedAt, &lastMessageAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("chat: failed to get session: %w", err)
	}

	if lastMessageAt.Valid {
		rec.LastMessageAt = &lastMessageAt.Time
	}
	return &rec, nil
}
