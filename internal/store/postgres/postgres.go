package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lawvriksh-blog/backend/internal/model"
	"lawvriksh-blog/backend/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	// Ping to fail fast.
	ctxPing, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPing()
	if err := pool.Ping(ctxPing); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

const postColumns = `
	p.id, p.title, p.content, p.created_at,
	u.id, u.username, u.email, u.full_name, u.created_at,
	(select count(*) from public.post_likes l where l.post_id = p.id)::int,
	(select count(*) from public.comments c where c.post_id = p.id)::int
`

func scanPost(row pgx.Row) (model.Post, error) {
	var p model.Post
	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Content,
		&p.CreatedAt,
		&p.Author.ID,
		&p.Author.Username,
		&p.Author.Email,
		&p.Author.FullName,
		&p.Author.CreatedAt,
		&p.LikesCount,
		&p.CommentsCount,
	)
	return p, err
}

func (s *Store) CreatePost(ctx context.Context, req store.CreatePostRequest) (model.Post, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `
		insert into public.posts (title, content, author_id)
		values ($1, $2, $3)
		returning id
	`, req.Title, req.Content, req.AuthorID).Scan(&id)
	if err != nil {
		return model.Post{}, mapPgErr(err)
	}

	out, err := s.GetPost(ctx, id)
	if err != nil {
		return model.Post{}, err
	}
	return *out, nil
}

func (s *Store) GetPost(ctx context.Context, id int64) (*model.Post, error) {
	row := s.pool.QueryRow(ctx, `
		select `+postColumns+`
		from public.posts p
		join public.users u on u.id = p.author_id
		where p.id = $1
	`, id)

	p, err := scanPost(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, mapPgErr(err)
	}
	return &p, nil
}

func (s *Store) ListPosts(ctx context.Context) ([]model.Post, error) {
	rows, err := s.pool.Query(ctx, `
		select `+postColumns+`
		from public.posts p
		join public.users u on u.id = p.author_id
		order by p.created_at asc, p.id asc
	`)
	if err != nil {
		return nil, mapPgErr(err)
	}
	defer rows.Close()

	var out []model.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, mapPgErr(err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) UpdatePost(ctx context.Context, req store.UpdatePostRequest) (model.Post, error) {
	cmdTag, err := s.pool.Exec(ctx, `
		update public.posts
		set title = $2,
		    content = $3
		where id = $1
	`, req.ID, req.Title, req.Content)
	if err != nil {
		return model.Post{}, mapPgErr(err)
	}
	if cmdTag.RowsAffected() == 0 {
		return model.Post{}, store.ErrNotFound
	}

	out, err := s.GetPost(ctx, req.ID)
	if err != nil {
		return model.Post{}, err
	}
	return *out, nil
}

func (s *Store) DeletePost(ctx context.Context, id int64) error {
	cmdTag, err := s.pool.Exec(ctx, `
		delete from public.posts
		where id = $1
	`, id)
	if err != nil {
		return mapPgErr(err)
	}
	if cmdTag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

const commentColumns = `
	c.id, c.post_id, c.content, c.created_at,
	u.id, u.username, u.email, u.full_name, u.created_at
`

func scanComment(row pgx.Row) (model.Comment, error) {
	var c model.Comment
	err := row.Scan(
		&c.ID,
		&c.PostID,
		&c.Content,
		&c.CreatedAt,
		&c.User.ID,
		&c.User.Username,
		&c.User.Email,
		&c.User.FullName,
		&c.User.CreatedAt,
	)
	return c, err
}

func (s *Store) CreateComment(ctx context.Context, req store.CreateCommentRequest) (model.Comment, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `
		insert into public.comments (post_id, user_id, content)
		values ($1, $2, $3)
		returning id
	`, req.PostID, req.UserID, req.Content).Scan(&id)
	if err != nil {
		return model.Comment{}, mapPgErr(err)
	}

	out, err := s.GetComment(ctx, id)
	if err != nil {
		return model.Comment{}, err
	}
	return *out, nil
}

func (s *Store) GetComment(ctx context.Context, id int64) (*model.Comment, error) {
	row := s.pool.QueryRow(ctx, `
		select `+commentColumns+`
		from public.comments c
		join public.users u on u.id = c.user_id
		where c.id = $1
	`, id)

	c, err := scanComment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, mapPgErr(err)
	}
	return &c, nil
}

func (s *Store) ListComments(ctx context.Context, postID int64) ([]model.Comment, error) {
	// Post must exist; an empty list and a missing post are different answers.
	var exists bool
	if err := s.pool.QueryRow(ctx, `
		select exists(select 1 from public.posts where id = $1)
	`, postID).Scan(&exists); err != nil {
		return nil, mapPgErr(err)
	}
	if !exists {
		return nil, store.ErrNotFound
	}

	rows, err := s.pool.Query(ctx, `
		select `+commentColumns+`
		from public.comments c
		join public.users u on u.id = c.user_id
		where c.post_id = $1
		order by c.created_at asc, c.id asc
	`, postID)
	if err != nil {
		return nil, mapPgErr(err)
	}
	defer rows.Close()

	out := make([]model.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, mapPgErr(err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) UpdateComment(ctx context.Context, req store.UpdateCommentRequest) (model.Comment, error) {
	cmdTag, err := s.pool.Exec(ctx, `
		update public.comments
		set content = $2
		where id = $1
	`, req.ID, req.Content)
	if err != nil {
		return model.Comment{}, mapPgErr(err)
	}
	if cmdTag.RowsAffected() == 0 {
		return model.Comment{}, store.ErrNotFound
	}

	out, err := s.GetComment(ctx, req.ID)
	if err != nil {
		return model.Comment{}, err
	}
	return *out, nil
}

func (s *Store) DeleteComment(ctx context.Context, id int64) error {
	cmdTag, err := s.pool.Exec(ctx, `
		delete from public.comments
		where id = $1
	`, id)
	if err != nil {
		return mapPgErr(err)
	}
	if cmdTag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) TogglePostLike(ctx context.Context, postID, userID int64) (bool, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, mapPgErr(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var exists bool
	if err := tx.QueryRow(ctx, `
		select exists(select 1 from public.posts where id = $1)
	`, postID).Scan(&exists); err != nil {
		return false, mapPgErr(err)
	}
	if !exists {
		return false, store.ErrNotFound
	}

	// Check-and-flip inside one transaction so concurrent toggles from the
	// same user cannot lose updates.
	cmdTag, err := tx.Exec(ctx, `
		delete from public.post_likes
		where user_id = $1 and post_id = $2
	`, userID, postID)
	if err != nil {
		return false, mapPgErr(err)
	}

	liked := false
	if cmdTag.RowsAffected() == 0 {
		if _, err := tx.Exec(ctx, `
			insert into public.post_likes (user_id, post_id)
			values ($1, $2)
		`, userID, postID); err != nil {
			return false, mapPgErr(err)
		}
		liked = true
	}

	if err := tx.Commit(ctx); err != nil {
		return false, mapPgErr(err)
	}
	return liked, nil
}

// mapPgErr translates structured postgres failures into store sentinels.
// Unique violations on the users table carry the violated constraint name,
// so duplicate username and duplicate email stay distinguishable without
// matching on error message text.
func mapPgErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			switch pgErr.ConstraintName {
			case "users_username_key":
				return store.ErrUsernameTaken
			case "users_email_key":
				return store.ErrEmailTaken
			}
			return fmt.Errorf("db_error %s: %s", pgErr.Code, pgErr.ConstraintName)
		case "23503":
			return store.ErrNotFound
		default:
			return fmt.Errorf("db_error %s: %s", pgErr.Code, pgErr.Message)
		}
	}
	return err
}
