package store

import (
	"context"
	"errors"

	"lawvriksh-blog/backend/internal/model"
)

var (
	ErrNotFound      = errors.New("not_found")
	ErrUsernameTaken = errors.New("username_taken")
	ErrEmailTaken    = errors.New("email_taken")
)

type CreateUserRequest struct {
	Username     string
	Email        string
	FullName     string
	PasswordHash string
}

type CreatePostRequest struct {
	AuthorID int64
	Title    string
	Content  string
}

type UpdatePostRequest struct {
	ID      int64
	Title   string
	Content string
}

type CreateCommentRequest struct {
	PostID  int64
	UserID  int64
	Content string
}

type UpdateCommentRequest struct {
	ID      int64
	Content string
}

type Store interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)

	CreatePost(ctx context.Context, req CreatePostRequest) (model.Post, error)
	GetPost(ctx context.Context, id int64) (*model.Post, error)
	ListPosts(ctx context.Context) ([]model.Post, error)
	UpdatePost(ctx context.Context, req UpdatePostRequest) (model.Post, error)
	DeletePost(ctx context.Context, id int64) error

	CreateComment(ctx context.Context, req CreateCommentRequest) (model.Comment, error)
	GetComment(ctx context.Context, id int64) (*model.Comment, error)
	ListComments(ctx context.Context, postID int64) ([]model.Comment, error)
	UpdateComment(ctx context.Context, req UpdateCommentRequest) (model.Comment, error)
	DeleteComment(ctx context.Context, id int64) error

	// TogglePostLike flips (userID, postID) membership in the liked relation
	// and reports the resulting state. The flip is atomic per backend.
	TogglePostLike(ctx context.Context, postID, userID int64) (bool, error)
}
