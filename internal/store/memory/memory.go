package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"lawvriksh-blog/backend/internal/model"
	"lawvriksh-blog/backend/internal/store"
)

type likeKey struct {
	userID int64
	postID int64
}

type Store struct {
	mu sync.Mutex

	users    map[int64]model.User
	posts    map[int64]model.Post
	comments map[int64]model.Comment
	likes    map[likeKey]struct{}

	nextUserID    int64
	nextPostID    int64
	nextCommentID int64
}

func NewStore() *Store {
	return &Store{
		users:    make(map[int64]model.User),
		posts:    make(map[int64]model.Post),
		comments: make(map[int64]model.Comment),
		likes:    make(map[likeKey]struct{}),
	}
}

// hydratePost fills in the author and counters. Caller holds s.mu.
func (s *Store) hydratePost(p model.Post) model.Post {
	p.Author = s.users[p.Author.ID]
	p.LikesCount = 0
	for k := range s.likes {
		if k.postID == p.ID {
			p.LikesCount++
		}
	}
	p.CommentsCount = 0
	for _, c := range s.comments {
		if c.PostID == p.ID {
			p.CommentsCount++
		}
	}
	return p
}

func (s *Store) CreatePost(_ context.Context, req store.CreatePostRequest) (model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[req.AuthorID]; !ok {
		return model.Post{}, store.ErrNotFound
	}

	s.nextPostID++
	p := model.Post{
		ID:        s.nextPostID,
		Title:     req.Title,
		Content:   req.Content,
		Author:    model.User{ID: req.AuthorID},
		CreatedAt: time.Now().UTC(),
	}
	s.posts[p.ID] = p
	return s.hydratePost(p), nil
}

func (s *Store) GetPost(_ context.Context, id int64) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := s.hydratePost(p)
	return &out, nil
}

func (s *Store) ListPosts(_ context.Context) ([]model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Post, 0, len(s.posts))
	for _, p := range s.posts {
		out = append(out, s.hydratePost(p))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) UpdatePost(_ context.Context, req store.UpdatePostRequest) (model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[req.ID]
	if !ok {
		return model.Post{}, store.ErrNotFound
	}
	p.Title = req.Title
	p.Content = req.Content
	s.posts[p.ID] = p
	return s.hydratePost(p), nil
}

func (s *Store) DeletePost(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.posts, id)
	for cid, c := range s.comments {
		if c.PostID == id {
			delete(s.comments, cid)
		}
	}
	for k := range s.likes {
		if k.postID == id {
			delete(s.likes, k)
		}
	}
	return nil
}

func (s *Store) CreateComment(_ context.Context, req store.CreateCommentRequest) (model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[req.PostID]; !ok {
		return model.Comment{}, store.ErrNotFound
	}
	if _, ok := s.users[req.UserID]; !ok {
		return model.Comment{}, store.ErrNotFound
	}

	s.nextCommentID++
	c := model.Comment{
		ID:        s.nextCommentID,
		PostID:    req.PostID,
		Content:   req.Content,
		User:      s.users[req.UserID],
		CreatedAt: time.Now().UTC(),
	}
	s.comments[c.ID] = c
	return c, nil
}

func (s *Store) GetComment(_ context.Context, id int64) (*model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	c.User = s.users[c.User.ID]
	return &c, nil
}

func (s *Store) ListComments(_ context.Context, postID int64) ([]model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[postID]; !ok {
		return nil, store.ErrNotFound
	}

	out := make([]model.Comment, 0)
	for _, c := range s.comments {
		if c.PostID != postID {
			continue
		}
		c.User = s.users[c.User.ID]
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) UpdateComment(_ context.Context, req store.UpdateCommentRequest) (model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[req.ID]
	if !ok {
		return model.Comment{}, store.ErrNotFound
	}
	c.Content = req.Content
	s.comments[c.ID] = c
	c.User = s.users[c.User.ID]
	return c, nil
}

func (s *Store) DeleteComment(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.comments[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.comments, id)
	return nil
}

func (s *Store) TogglePostLike(_ context.Context, postID, userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[postID]; !ok {
		return false, store.ErrNotFound
	}
	if _, ok := s.users[userID]; !ok {
		return false, store.ErrNotFound
	}

	k := likeKey{userID: userID, postID: postID}
	if _, ok := s.likes[k]; ok {
		delete(s.likes, k)
		return false, nil
	}
	s.likes[k] = struct{}{}
	return true, nil
}
