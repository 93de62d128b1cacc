package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"majordomo/internal/conversation"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "archive.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndLoadSession(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	turns := []conversation.Turn{
		{Role: conversation.RoleUser, Content: "order a pizza", Timestamp: now},
		{Role: conversation.RoleTool, Content: "Order placed", Timestamp: now.Add(time.Second),
			Metadata: map[string]any{"tool_id": "order_tool"}},
	}
	for _, turn := range turns {
		require.NoError(t, s.SaveTurn(ctx, "session-1", turn))
	}

	got, err := s.SessionTurns(ctx, "session-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, conversation.RoleUser, got[0].Role)
	require.Equal(t, "order a pizza", got[0].Content)
	require.Equal(t, conversation.RoleTool, got[1].Role)
	require.Equal(t, "order_tool", got[1].Metadata["tool_id"])
}

func TestSessionsIsolated(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveTurn(ctx, "a", conversation.Turn{
		Role: conversation.RoleUser, Content: "first", Timestamp: time.Now()}))
	require.NoError(t, s.SaveTurn(ctx, "b", conversation.Turn{
		Role: conversation.RoleUser, Content: "second", Timestamp: time.Now()}))

	got, err := s.SessionTurns(ctx, "a")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "first", got[0].Content)

	ids, err := s.Sessions(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"b", "a"}, ids, "newest session first")
}

func TestCorruptTimestampSurfacesError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO turns (session_id, role, content, metadata, created_at) VALUES (?, ?, ?, ?, ?)`,
		"s", "user", "hello", "", "yesterday-ish")
	require.NoError(t, err)

	_, err = s.SessionTurns(ctx, "s")
	require.Error(t, err)
	require.Contains(t, err.Error(), "yesterday-ish")
}

func TestPurgeOlderThan(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	old := time.Now().UTC().AddDate(0, 0, -40)
	fresh := time.Now().UTC()

	require.NoError(t, s.SaveTurn(ctx, "s", conversation.Turn{
		Role: conversation.RoleUser, Content: "stale", Timestamp: old}))
	require.NoError(t, s.SaveTurn(ctx, "s", conversation.Turn{
		Role: conversation.RoleUser, Content: "recent", Timestamp: fresh}))

	purged, err := s.PurgeOlderThan(ctx, 30)
	require.NoError(t, err)
	require.EqualValues(t, 1, purged)

	got, err := s.SessionTurns(ctx, "s")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "recent", got[0].Content)
}

func TestPurgeDisabledForZeroRetention(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveTurn(ctx, "s", conversation.Turn{
		Role: conversation.RoleUser, Content: "ancient",
		Timestamp: time.Now().AddDate(-1, 0, 0)}))

	purged, err := s.PurgeOlderThan(ctx, 0)
	require.NoError(t, err)
	require.Zero(t, purged)

	got, err := s.SessionTurns(ctx, "s")
	require.NoError(t, err)
	require.Len(t, got, 1)
}
