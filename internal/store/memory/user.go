package memory

import (
	"context"
	"strings"
	"time"

	"lawvriksh-blog/backend/internal/model"
	"lawvriksh-blog/backend/internal/store"
)

func (s *Store) CreateUser(_ context.Context, req store.CreateUserRequest) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Username, req.Username) {
			return model.User{}, store.ErrUsernameTaken
		}
		if strings.EqualFold(existing.Email, req.Email) {
			return model.User{}, store.ErrEmailTaken
		}
	}

	s.nextUserID++
	u := model.User{
		ID:           s.nextUserID,
		Username:     req.Username,
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: req.PasswordHash,
		CreatedAt:    time.Now().UTC(),
	}
	s.users[u.ID] = u
	return u, nil
}

func (s *Store) GetUserByID(_ context.Context, id int64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Username, username) {
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}
