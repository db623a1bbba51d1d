package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"offense_board/internal/feature/account/domain/entity"
	"offense_board/internal/feature/account/usecase"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis instance for testing.
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })

	return client, mr
}

// createTestSession creates a session entity for testing.
func createTestSession(id string, accountID uint, expiresIn time.Duration) *entity.Session {
	now := time.Now()
	return &entity.Session{
		ID:        id,
		AccountID: accountID,
		UserAgent: "test-agent",
		IPAddress: "127.0.0.1",
		CreatedAt: now,
		ExpiresAt: now.Add(expiresIn),
	}
}

func TestNewSessionRedis(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewSessionRedis(client, "session")

	assert.NotNil(t, repo, "repository is nil")
	assert.NotNil(t, repo.client, "client is nil")
	assert.Equal(t, "session", repo.prefix)
}

func TestSessionRedis_Create(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		session *entity.Session
		wantErr bool
	}{
		{
			name:    "success: create session",
			session: createTestSession("session-001", 1, 14*24*time.Hour),
		},
		{
			name:    "failure: expired session",
			session: createTestSession("expired-session", 1, -1*time.Hour),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client, mr := setupTestRedis(t)
			repo := NewSessionRedis(client, "session")

			err := repo.Create(context.Background(), tt.session)

			if tt.wantErr {
				assert.Error(t, err)
				assert.False(t, mr.Exists("session:"+tt.session.ID))
				return
			}
			require.NoError(t, err)
			assert.True(t, mr.Exists("session:"+tt.session.ID))
			assert.Greater(t, mr.TTL("session:"+tt.session.ID), time.Duration(0))
			members, err := mr.SMembers("session:account:1")
			require.NoError(t, err)
			assert.Equal(t, []string{tt.session.ID}, members)
		})
	}
}

func TestSessionRedis_FindByID(t *testing.T) {
	t.Parallel()

	t.Run("success: find session", func(t *testing.T) {
		t.Parallel()

		client, _ := setupTestRedis(t)
		repo := NewSessionRedis(client, "session")
		require.NoError(t, repo.Create(context.Background(), createTestSession("find-me", 7, time.Hour)))

		found, err := repo.FindByID(context.Background(), "find-me")

		require.NoError(t, err)
		assert.Equal(t, "find-me", found.ID)
		assert.Equal(t, uint(7), found.AccountID)
		assert.True(t, found.IsValid())
	})

	t.Run("failure: session not found", func(t *testing.T) {
		t.Parallel()

		client, _ := setupTestRedis(t)
		repo := NewSessionRedis(client, "session")

		found, err := repo.FindByID(context.Background(), "nonexistent-id")

		assert.ErrorIs(t, err, usecase.ErrSessionNotFound)
		assert.Nil(t, found)
	})

	t.Run("failure: session expired by TTL", func(t *testing.T) {
		t.Parallel()

		client, mr := setupTestRedis(t)
		repo := NewSessionRedis(client, "session")
		require.NoError(t, repo.Create(context.Background(), createTestSession("short", 1, time.Minute)))

		mr.FastForward(2 * time.Minute)
		_, err := repo.FindByID(context.Background(), "short")

		assert.ErrorIs(t, err, usecase.ErrSessionNotFound)
	})

	t.Run("failure: corrupted payload", func(t *testing.T) {
		t.Parallel()

		client, mr := setupTestRedis(t)
		repo := NewSessionRedis(client, "session")
		require.NoError(t, mr.Set("session:broken", "{not json"))

		_, err := repo.FindByID(context.Background(), "broken")

		require.Error(t, err)
		assert.NotErrorIs(t, err, usecase.ErrSessionNotFound)
	})
}

func TestSessionRedis_FindByID_RedisError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	repo := NewSessionRedis(client, "session")
	mock.ExpectGet("session:any").SetErr(errors.New("connection reset"))

	_, err := repo.FindByID(context.Background(), "any")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRedis_Revoke(t *testing.T) {
	t.Parallel()

	t.Run("success: revoke session", func(t *testing.T) {
		t.Parallel()

		client, mr := setupTestRedis(t)
		repo := NewSessionRedis(client, "session")
		require.NoError(t, repo.Create(context.Background(), createTestSession("revoke-me", 1, time.Hour)))

		require.NoError(t, repo.Revoke(context.Background(), "revoke-me"))

		found, err := repo.FindByID(context.Background(), "revoke-me")
		require.NoError(t, err)
		assert.True(t, found.IsRevoked())
		assert.Greater(t, mr.TTL("session:revoke-me"), time.Duration(0), "remaining TTL is kept")

		count, err := repo.CountByAccountID(context.Background(), 1)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("failure: session not found", func(t *testing.T) {
		t.Parallel()

		client, _ := setupTestRedis(t)
		repo := NewSessionRedis(client, "session")

		err := repo.Revoke(context.Background(), "nonexistent")

		assert.ErrorIs(t, err, usecase.ErrSessionNotFound)
	})
}

func TestSessionRedis_CountByAccountID(t *testing.T) {
	t.Parallel()

	client, mr := setupTestRedis(t)
	repo := NewSessionRedis(client, "session")
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, createTestSession("session-1", 1, time.Hour)))
	require.NoError(t, repo.Create(ctx, createTestSession("session-2", 1, 2*time.Hour)))
	require.NoError(t, repo.Create(ctx, createTestSession("session-3", 2, time.Hour)))

	count, err := repo.CountByAccountID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = repo.CountByAccountID(ctx, 999)
	require.NoError(t, err)
	assert.Zero(t, count)

	// session-1 expires; its dangling ID is pruned from the set
	mr.FastForward(90 * time.Minute)
	count, err = repo.CountByAccountID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	members, err := mr.SMembers("session:account:1")
	require.NoError(t, err)
	assert.Equal(t, []string{"session-2"}, members)
}

func TestSessionRedis_DeleteOldestByAccountID(t *testing.T) {
	t.Parallel()

	client, _ := setupTestRedis(t)
	repo := NewSessionRedis(client, "session")
	ctx := context.Background()

	oldest := createTestSession("oldest", 1, time.Hour)
	oldest.CreatedAt = time.Now().Add(-time.Hour)
	require.NoError(t, repo.Create(ctx, oldest))
	require.NoError(t, repo.Create(ctx, createTestSession("newer", 1, time.Hour)))

	require.NoError(t, repo.DeleteOldestByAccountID(ctx, 1))

	_, err := repo.FindByID(ctx, "oldest")
	assert.ErrorIs(t, err, usecase.ErrSessionNotFound)
	_, err = repo.FindByID(ctx, "newer")
	assert.NoError(t, err)

	// No sessions is not an error
	assert.NoError(t, repo.DeleteOldestByAccountID(ctx, 42))
}

func TestSessionRedis_DeleteExpired(t *testing.T) {
	t.Parallel()

	client, mr := setupTestRedis(t)
	repo := NewSessionRedis(client, "session")
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, createTestSession("short-1", 1, time.Minute)))
	require.NoError(t, repo.Create(ctx, createTestSession("short-2", 1, time.Minute)))
	require.NoError(t, repo.Create(ctx, createTestSession("long", 1, time.Hour)))

	mr.FastForward(5 * time.Minute)
	pruned, err := repo.DeleteExpired(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(2), pruned)
	members, err := mr.SMembers("session:account:1")
	require.NoError(t, err)
	assert.Equal(t, []string{"long"}, members)
}

func TestSessionRedis_KeyGeneration(t *testing.T) {
	t.Parallel()

	client, _ := setupTestRedis(t)
	repo := NewSessionRedis(client, "test-prefix")

	assert.Equal(t, "test-prefix:session-id", repo.sessionKey("session-id"))
	assert.Equal(t, "test-prefix:account:123", repo.accountSessionsKey(123))
}
