package sqlite

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"lawvriksh-blog/backend/internal/model"
	"lawvriksh-blog/backend/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	st, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return st
}

func createTestUser(t *testing.T, st *Store, username, email string) model.User {
	t.Helper()
	u, err := st.CreateUser(context.Background(), store.CreateUserRequest{
		Username:     username,
		Email:        email,
		FullName:     "Test User",
		PasswordHash: "hash",
	})
	if err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

func TestUserUniqueness(t *testing.T) {
	st := newTestStore(t)
	defer st.Close()
	ctx := context.Background()

	createTestUser(t, st, "alice", "a@x.com")

	_, err := st.CreateUser(ctx, store.CreateUserRequest{
		Username: "ALICE", Email: "fresh@x.com", PasswordHash: "hash",
	})
	if !errors.Is(err, store.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}

	_, err = st.CreateUser(ctx, store.CreateUserRequest{
		Username: "bob", Email: "A@X.com", PasswordHash: "hash",
	})
	if !errors.Is(err, store.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUserLookups(t *testing.T) {
	st := newTestStore(t)
	defer st.Close()
	ctx := context.Background()

	u := createTestUser(t, st, "alice", "a@x.com")

	got, err := st.GetUserByUsername(ctx, "Alice")
	if err != nil {
		t.Fatalf("get by username: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("expected user %d, got %d", u.ID, got.ID)
	}

	got, err = st.GetUserByEmail(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("expected user %d, got %d", u.ID, got.ID)
	}

	if _, err := st.GetUserByID(ctx, u.ID+100); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostLifecycle(t *testing.T) {
	st := newTestStore(t)
	defer st.Close()
	ctx := context.Background()

	u := createTestUser(t, st, "alice", "a@x.com")

	p, err := st.CreatePost(ctx, store.CreatePostRequest{AuthorID: u.ID, Title: "First", Content: "Hello"})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	if p.Author.Username != "alice" {
		t.Fatalf("expected hydrated author, got %+v", p.Author)
	}

	updated, err := st.UpdatePost(ctx, store.UpdatePostRequest{ID: p.ID, Title: "Edited", Content: "Bye"})
	if err != nil {
		t.Fatalf("update post: %v", err)
	}
	if updated.Title != "Edited" {
		t.Fatalf("unexpected title: %s", updated.Title)
	}

	posts, err := st.ListPosts(ctx)
	if err != nil {
		t.Fatalf("list posts: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("expected 1 post, got %d", len(posts))
	}

	if err := st.DeletePost(ctx, p.ID); err != nil {
		t.Fatalf("delete post: %v", err)
	}
	if _, err := st.GetPost(ctx, p.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestCommentsAndCounts(t *testing.T) {
	st := newTestStore(t)
	defer st.Close()
	ctx := context.Background()

	alice := createTestUser(t, st, "alice", "a@x.com")
	bob := createTestUser(t, st, "bob", "b@x.com")

	p, err := st.CreatePost(ctx, store.CreatePostRequest{AuthorID: alice.ID, Title: "T", Content: "C"})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	c, err := st.CreateComment(ctx, store.CreateCommentRequest{PostID: p.ID, UserID: bob.ID, Content: "Nice"})
	if err != nil {
		t.Fatalf("create comment: %v", err)
	}
	if c.User.Username != "bob" {
		t.Fatalf("expected hydrated commenter, got %+v", c.User)
	}

	got, err := st.GetPost(ctx, p.ID)
	if err != nil {
		t.Fatalf("get post: %v", err)
	}
	if got.CommentsCount != 1 {
		t.Fatalf("expected comments_count 1, got %d", got.CommentsCount)
	}

	if _, err := st.ListComments(ctx, p.ID+100); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing post, got %v", err)
	}

	if err := st.DeleteComment(ctx, c.ID); err != nil {
		t.Fatalf("delete comment: %v", err)
	}
	if _, err := st.GetComment(ctx, c.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestTogglePostLike(t *testing.T) {
	st := newTestStore(t)
	defer st.Close()
	ctx := context.Background()

	alice := createTestUser(t, st, "alice", "a@x.com")
	bob := createTestUser(t, st, "bob", "b@x.com")

	p, err := st.CreatePost(ctx, store.CreatePostRequest{AuthorID: alice.ID, Title: "T", Content: "C"})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	liked, err := st.TogglePostLike(ctx, p.ID, bob.ID)
	if err != nil {
		t.Fatalf("toggle like: %v", err)
	}
	if !liked {
		t.Fatalf("expected first toggle to like")
	}

	got, _ := st.GetPost(ctx, p.ID)
	if got.LikesCount != 1 {
		t.Fatalf("expected likes_count 1, got %d", got.LikesCount)
	}

	liked, err = st.TogglePostLike(ctx, p.ID, bob.ID)
	if err != nil {
		t.Fatalf("toggle like: %v", err)
	}
	if liked {
		t.Fatalf("expected second toggle to unlike")
	}

	got, _ = st.GetPost(ctx, p.ID)
	if got.LikesCount != 0 {
		t.Fatalf("expected likes_count 0, got %d", got.LikesCount)
	}

	if _, err := st.TogglePostLike(ctx, p.ID+100, bob.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing post, got %v", err)
	}
}
