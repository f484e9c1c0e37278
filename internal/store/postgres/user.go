package postgres

import (
	"context"
	"errors"

	"lawvriksh-blog/backend/internal/model"
	"lawvriksh-blog/backend/internal/store"

	"github.com/jackc/pgx/v5"
)

func (s *Store) CreateUser(ctx context.Context, req store.CreateUserRequest) (model.User, error) {
	var out model.User
	err := s.pool.QueryRow(ctx, `
		insert into public.users (username, email, full_name, password_hash)
		values ($1, $2, $3, $4)
		returning id, username, email, full_name, password_hash, created_at
	`, req.Username, req.Email, req.FullName, req.PasswordHash).Scan(
		&out.ID,
		&out.Username,
		&out.Email,
		&out.FullName,
		&out.PasswordHash,
		&out.CreatedAt,
	)
	if err != nil {
		return model.User{}, mapPgErr(err)
	}
	return out, nil
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	return s.getUser(ctx, `where id = $1`, id)
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.getUser(ctx, `where lower(username) = lower($1)`, username)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.getUser(ctx, `where lower(email) = lower($1)`, email)
}

func (s *Store) getUser(ctx context.Context, where string, arg any) (*model.User, error) {
	var u model.User
	err := s.pool.QueryRow(ctx, `
		select id, username, email, full_name, password_hash, created_at
		from public.users
	`+where, arg).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.FullName,
		&u.PasswordHash,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, mapPgErr(err)
	}
	return &u, nil
}
