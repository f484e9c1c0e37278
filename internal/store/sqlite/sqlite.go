package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"lawvriksh-blog/backend/internal/model"
	"lawvriksh-blog/backend/internal/store"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := applySchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// migrations is an ordered list of SQL migrations.
// Each migration runs exactly once, tracked by schema_version table.
var migrations = []string{
	// Migration 1: Initial schema
	`
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL UNIQUE COLLATE NOCASE,
	email TEXT NOT NULL UNIQUE COLLATE NOCASE,
	full_name TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS posts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	content TEXT NOT NULL,
	author_id INTEGER NOT NULL,
	created_at INTEGER NOT NULL,
	FOREIGN KEY(author_id) REFERENCES users(id)
);
CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts(created_at);

CREATE TABLE IF NOT EXISTS comments (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	post_id INTEGER NOT NULL,
	user_id INTEGER NOT NULL,
	content TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	FOREIGN KEY(post_id) REFERENCES posts(id) ON DELETE CASCADE,
	FOREIGN KEY(user_id) REFERENCES users(id)
);
CREATE INDEX IF NOT EXISTS idx_comments_post_id ON comments(post_id);

CREATE TABLE IF NOT EXISTS post_likes (
	user_id INTEGER NOT NULL,
	post_id INTEGER NOT NULL,
	PRIMARY KEY(user_id, post_id),
	FOREIGN KEY(user_id) REFERENCES users(id),
	FOREIGN KEY(post_id) REFERENCES posts(id) ON DELETE CASCADE
);
`,
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		)
	`); err != nil {
		return err
	}

	var currentVersion int
	row := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`)
	if err := row.Scan(&currentVersion); err != nil {
		return err
	}

	for i := currentVersion; i < len(migrations); i++ {
		if _, err := db.Exec(migrations[i]); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
		if _, err := db.Exec(`INSERT INTO schema_version (version) VALUES (?)`, i+1); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", i+1, err)
		}
	}

	return nil
}

func (s *Store) CreateUser(ctx context.Context, req store.CreateUserRequest) (model.User, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.User{}, err
	}
	defer func() { _ = tx.Rollback() }()

	// Explicit existence checks inside the transaction keep the duplicate
	// errors field-specific instead of decoding driver constraint messages.
	var taken bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = ? COLLATE NOCASE)`,
		req.Username).Scan(&taken); err != nil {
		return model.User{}, err
	}
	if taken {
		return model.User{}, store.ErrUsernameTaken
	}
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = ? COLLATE NOCASE)`,
		req.Email).Scan(&taken); err != nil {
		return model.User{}, err
	}
	if taken {
		return model.User{}, store.ErrEmailTaken
	}

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx, `
INSERT INTO users (username, email, full_name, password_hash, created_at)
VALUES (?, ?, ?, ?, ?)
`, req.Username, req.Email, req.FullName, req.PasswordHash, now.Unix())
	if err != nil {
		return model.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.User{}, err
	}

	return model.User{
		ID:           id,
		Username:     req.Username,
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: req.PasswordHash,
		CreatedAt:    now.Truncate(time.Second),
	}, nil
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	return s.getUser(ctx, `WHERE id = ?`, id)
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.getUser(ctx, `WHERE username = ? COLLATE NOCASE`, username)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.getUser(ctx, `WHERE email = ? COLLATE NOCASE`, email)
}

func (s *Store) getUser(ctx context.Context, where string, arg any) (*model.User, error) {
	var u model.User
	var createdAt int64
	err := s.db.QueryRowContext(ctx, `
SELECT id, username, email, full_name, password_hash, created_at
FROM users
`+where, arg).Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.PasswordHash, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	u.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &u, nil
}

const postQuery = `
SELECT p.id, p.title, p.content, p.created_at,
       u.id, u.username, u.email, u.full_name, u.created_at,
       (SELECT COUNT(*) FROM post_likes l WHERE l.post_id = p.id),
       (SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id)
FROM posts p
JOIN users u ON u.id = p.author_id
`

func scanPost(row interface{ Scan(...any) error }) (model.Post, error) {
	var p model.Post
	var postCreated, userCreated int64
	err := row.Scan(
		&p.ID, &p.Title, &p.Content, &postCreated,
		&p.Author.ID, &p.Author.Username, &p.Author.Email, &p.Author.FullName, &userCreated,
		&p.LikesCount, &p.CommentsCount,
	)
	if err != nil {
		return model.Post{}, err
	}
	p.CreatedAt = time.Unix(postCreated, 0).UTC()
	p.Author.CreatedAt = time.Unix(userCreated, 0).UTC()
	return p, nil
}

func (s *Store) CreatePost(ctx context.Context, req store.CreatePostRequest) (model.Post, error) {
	res, err := s.db.ExecContext(ctx, `
INSERT INTO posts (title, content, author_id, created_at)
VALUES (?, ?, ?, ?)
`, req.Title, req.Content, req.AuthorID, time.Now().UTC().Unix())
	if err != nil {
		return model.Post{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Post{}, err
	}

	out, err := s.GetPost(ctx, id)
	if err != nil {
		return model.Post{}, err
	}
	return *out, nil
}

func (s *Store) GetPost(ctx context.Context, id int64) (*model.Post, error) {
	row := s.db.QueryRowContext(ctx, postQuery+`WHERE p.id = ?`, id)
	p, err := scanPost(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Store) ListPosts(ctx context.Context) ([]model.Post, error) {
	rows, err := s.db.QueryContext(ctx, postQuery+`ORDER BY p.created_at ASC, p.id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) UpdatePost(ctx context.Context, req store.UpdatePostRequest) (model.Post, error) {
	res, err := s.db.ExecContext(ctx, `
UPDATE posts SET title = ?, content = ? WHERE id = ?
`, req.Title, req.Content, req.ID)
	if err != nil {
		return model.Post{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Post{}, store.ErrNotFound
	}

	out, err := s.GetPost(ctx, req.ID)
	if err != nil {
		return model.Post{}, err
	}
	return *out, nil
}

func (s *Store) DeletePost(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

const commentQuery = `
SELECT c.id, c.post_id, c.content, c.created_at,
       u.id, u.username, u.email, u.full_name, u.created_at
FROM comments c
JOIN users u ON u.id = c.user_id
`

func scanComment(row interface{ Scan(...any) error }) (model.Comment, error) {
	var c model.Comment
	var commentCreated, userCreated int64
	err := row.Scan(
		&c.ID, &c.PostID, &c.Content, &commentCreated,
		&c.User.ID, &c.User.Username, &c.User.Email, &c.User.FullName, &userCreated,
	)
	if err != nil {
		return model.Comment{}, err
	}
	c.CreatedAt = time.Unix(commentCreated, 0).UTC()
	c.User.CreatedAt = time.Unix(userCreated, 0).UTC()
	return c, nil
}

func (s *Store) CreateComment(ctx context.Context, req store.CreateCommentRequest) (model.Comment, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM posts WHERE id = ?)`, req.PostID).Scan(&exists); err != nil {
		return model.Comment{}, err
	}
	if !exists {
		return model.Comment{}, store.ErrNotFound
	}

	res, err := s.db.ExecContext(ctx, `
INSERT INTO comments (post_id, user_id, content, created_at)
VALUES (?, ?, ?, ?)
`, req.PostID, req.UserID, req.Content, time.Now().UTC().Unix())
	if err != nil {
		return model.Comment{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Comment{}, err
	}

	out, err := s.GetComment(ctx, id)
	if err != nil {
		return model.Comment{}, err
	}
	return *out, nil
}

func (s *Store) GetComment(ctx context.Context, id int64) (*model.Comment, error) {
	row := s.db.QueryRowContext(ctx, commentQuery+`WHERE c.id = ?`, id)
	c, err := scanComment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *Store) ListComments(ctx context.Context, postID int64) ([]model.Comment, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM posts WHERE id = ?)`, postID).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, store.ErrNotFound
	}

	rows, err := s.db.QueryContext(ctx, commentQuery+`WHERE c.post_id = ? ORDER BY c.created_at ASC, c.id ASC`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) UpdateComment(ctx context.Context, req store.UpdateCommentRequest) (model.Comment, error) {
	res, err := s.db.ExecContext(ctx, `
UPDATE comments SET content = ? WHERE id = ?
`, req.Content, req.ID)
	if err != nil {
		return model.Comment{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Comment{}, store.ErrNotFound
	}

	out, err := s.GetComment(ctx, req.ID)
	if err != nil {
		return model.Comment{}, err
	}
	return *out, nil
}

func (s *Store) DeleteComment(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) TogglePostLike(ctx context.Context, postID, userID int64) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	var exists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM posts WHERE id = ?)`, postID).Scan(&exists); err != nil {
		return false, err
	}
	if !exists {
		return false, store.ErrNotFound
	}

	res, err := tx.ExecContext(ctx, `
DELETE FROM post_likes WHERE user_id = ? AND post_id = ?
`, userID, postID)
	if err != nil {
		return false, err
	}

	liked := false
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO post_likes (user_id, post_id) VALUES (?, ?)
`, userID, postID); err != nil {
			return false, err
		}
		liked = true
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return liked, nil
}
