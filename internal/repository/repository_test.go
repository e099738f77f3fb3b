package repository

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dan9191/tweet-service/internal/models"
)

// newTestRepository connects to the database named by TEST_DB_CONN, skipping otherwise.
func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	conn := os.Getenv("TEST_DB_CONN")
	if conn == "" {
		t.Skip("TEST_DB_CONN not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := Open(ctx, "postgres", conn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewRepository(db)
	require.NoError(t, repo.Migrate(ctx))
	return repo
}

func TestPostgresOwnershipRoundTrip(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	suffix := time.Now().UnixNano()

	alice := &models.User{Username: fmt.Sprintf("alice-%d", suffix), PasswordHash: "hash"}
	bob := &models.User{Username: fmt.Sprintf("bob-%d", suffix), PasswordHash: "hash"}
	require.NoError(t, repo.CreateUser(ctx, alice))
	require.NoError(t, repo.CreateUser(ctx, bob))
	require.Error(t, repo.CreateUser(ctx, &models.User{Username: alice.Username, PasswordHash: "x"}))

	found, err := repo.FindUserByUsername(ctx, alice.Username)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, found.ID)

	post := &models.Post{UserID: alice.ID, Content: "hello"}
	require.NoError(t, repo.CreatePost(ctx, post))
	assert.Positive(t, post.ID)

	n, err := repo.UpdatePost(ctx, post.ID, bob.ID, "x")
	require.NoError(t, err)
	assert.Zero(t, n)

	comment := &models.Comment{PostID: post.ID, UserID: bob.ID, Content: "nice"}
	require.NoError(t, repo.CreateComment(ctx, comment))

	comments, err := repo.ListComments(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, bob.Username, comments[0].Username)

	n, err = repo.DeletePost(ctx, post.ID, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	swept, err := repo.DeleteOrphanComments(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, swept, int64(1))
}
