package chat

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscriptStore_AppendTurn_NewSession(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewTranscriptStore(db)

	// No session row yet: the store creates one before inserting the turn.
	mock.ExpectQuery("SELECT id FROM chat_sessions").
		WithArgs("sess-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("INSERT INTO chat_sessions").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO chat_turns").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE chat_sessions SET").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = store.AppendTurn(context.Background(), "sess-1", "halo", "halo juga", IntentGreeting)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTranscriptStore_AppendTurn_ExistingSession(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewTranscriptStore(db)

	mock.ExpectQuery("SELECT id FROM chat_sessions").
		WithArgs("sess-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectExec("INSERT INTO chat_turns").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE chat_sessions SET").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = store.AppendTurn(context.Background(), "sess-1", "halo", "halo juga", IntentGreeting)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTranscriptStore_AppendTurn_NilSafe(t *testing.T) {
	var store *TranscriptStore
	err := store.AppendTurn(context.Background(), "sess-1", "halo", "halo juga", IntentGreeting)
	assert.NoError(t, err)
}

func TestTranscriptStore_GetTurns(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewTranscriptStore(db)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT id, session_id, user_message, bot_response, intent, created_at").
		WithArgs("sess-1").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "session_id", "user_message", "bot_response", "intent", "created_at"},
		).
			AddRow(uuid.New(), "sess-1", "halo", "halo juga", "GREETING", now).
			AddRow(uuid.New(), "sess-1", "cari gamis", "berikut hasilnya", "PRODUCT_SEARCH", now))

	turns, err := store.GetTurns(context.Background(), "sess-1", 0)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "halo", turns[0].UserMessage)
	assert.Equal(t, "PRODUCT_SEARCH", turns[1].Intent)
}

func TestTranscriptStore_GetSession(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewTranscriptStore(db)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT id, session_id, turn_count, started_at, last_message_at").
		WithArgs("sess-1").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "session_id", "turn_count", "started_at", "last_message_at"},
		).AddRow(uuid.New(), "sess-1", 3, now, now))

	rec, err := store.GetSession(context.Background(), "sess-1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 3, rec.TurnCount)
	require.NotNil(t, rec.LastMessageAt)
}

func TestTranscriptStore_GetSession_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewTranscriptStore(db)

	mock.ExpectQuery("SELECT id, session_id, turn_count, started_at, last_message_at").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "session_id", "turn_count", "started_at", "last_message_at"}))

	rec, err := store.GetSession(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, rec)
}
