package postgres

import (
	"context"
	"os"
	"testing"

	"lawvriksh-blog/backend/internal/store"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a postgres store against DATABASE_URL and resets the
// schema. Tests are skipped when no database is configured.
func setupTestDB(t *testing.T) *Store {
	t.Helper()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		t.Skip("DATABASE_URL not set, skipping PostgreSQL tests")
	}

	pool, err := pgxpool.New(context.Background(), databaseURL)
	require.NoError(t, err)
	defer pool.Close()

	_, err = pool.Exec(context.Background(), `
		drop table if exists public.post_likes;
		drop table if exists public.comments;
		drop table if exists public.posts;
		drop table if exists public.users;

		create table public.users (
			id bigserial primary key,
			username text not null,
			email text not null,
			full_name text not null default '',
			password_hash text not null,
			created_at timestamptz not null default now(),
			constraint users_username_key unique (username),
			constraint users_email_key unique (email)
		);

		create table public.posts (
			id bigserial primary key,
			title text not null,
			content text not null,
			author_id bigint not null references public.users(id),
			created_at timestamptz not null default now()
		);

		create table public.comments (
			id bigserial primary key,
			post_id bigint not null references public.posts(id) on delete cascade,
			user_id bigint not null references public.users(id),
			content text not null,
			created_at timestamptz not null default now()
		);

		create table public.post_likes (
			user_id bigint not null references public.users(id),
			post_id bigint not null references public.posts(id) on delete cascade,
			primary key (user_id, post_id)
		);
	`)
	require.NoError(t, err)

	st, err := NewStore(databaseURL)
	require.NoError(t, err)
	t.Cleanup(st.Close)
	return st
}

func TestPostgresUserConflicts(t *testing.T) {
	st := setupTestDB(t)
	ctx := context.Background()

	_, err := st.CreateUser(ctx, store.CreateUserRequest{
		Username: "alice", Email: "a@x.com", FullName: "Alice A", PasswordHash: "hash",
	})
	require.NoError(t, err)

	_, err = st.CreateUser(ctx, store.CreateUserRequest{
		Username: "alice", Email: "fresh@x.com", PasswordHash: "hash",
	})
	assert.ErrorIs(t, err, store.ErrUsernameTaken)

	_, err = st.CreateUser(ctx, store.CreateUserRequest{
		Username: "bob", Email: "a@x.com", PasswordHash: "hash",
	})
	assert.ErrorIs(t, err, store.ErrEmailTaken)
}

func TestPostgresPostsCommentsLikes(t *testing.T) {
	st := setupTestDB(t)
	ctx := context.Background()

	alice, err := st.CreateUser(ctx, store.CreateUserRequest{
		Username: "alice", Email: "a@x.com", PasswordHash: "hash",
	})
	require.NoError(t, err)
	bob, err := st.CreateUser(ctx, store.CreateUserRequest{
		Username: "bob", Email: "b@x.com", PasswordHash: "hash",
	})
	require.NoError(t, err)

	p, err := st.CreatePost(ctx, store.CreatePostRequest{AuthorID: alice.ID, Title: "T", Content: "C"})
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Author.Username)

	_, err = st.CreateComment(ctx, store.CreateCommentRequest{PostID: p.ID, UserID: bob.ID, Content: "Nice"})
	require.NoError(t, err)

	liked, err := st.TogglePostLike(ctx, p.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	got, err := st.GetPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.CommentsCount)
	assert.Equal(t, 1, got.LikesCount)

	liked, err = st.TogglePostLike(ctx, p.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	require.NoError(t, st.DeletePost(ctx, p.ID))
	_, err = st.GetPost(ctx, p.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
