package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"lawvriksh-blog/backend/internal/auth"
	"lawvriksh-blog/backend/internal/model"
	"lawvriksh-blog/backend/internal/store"
)

type postRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (r postRequest) validate() string {
	if strings.TrimSpace(r.Title) == "" {
		return "title is required"
	}
	if strings.TrimSpace(r.Content) == "" {
		return "content is required"
	}
	return ""
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.store.ListPosts(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if posts == nil {
		posts = []model.Post{}
	}
	writeJSON(w, http.StatusOK, posts)
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid post id")
		return
	}

	post, err := s.store.GetPost(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, "bad_request", msg)
		return
	}

	post, err := s.store.CreatePost(r.Context(), store.CreatePostRequest{
		AuthorID: user.ID,
		Title:    req.Title,
		Content:  req.Content,
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid post id")
		return
	}

	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, "bad_request", msg)
		return
	}

	post, err := s.store.GetPost(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if !auth.CanModify(user, post.Author.ID) {
		writeError(w, http.StatusForbidden, "forbidden", "not authorized to update this post")
		return
	}

	updated, err := s.store.UpdatePost(r.Context(), store.UpdatePostRequest{
		ID:      id,
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid post id")
		return
	}

	post, err := s.store.GetPost(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if !auth.CanModify(user, post.Author.ID) {
		writeError(w, http.StatusForbidden, "forbidden", "not authorized to delete this post")
		return
	}

	if err := s.store.DeletePost(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Post deleted successfully"})
}
