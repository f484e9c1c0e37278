package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"lawvriksh-blog/backend/internal/auth"
	"lawvriksh-blog/backend/internal/store"
)

type commentRequest struct {
	Content string `json:"content"`
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid post id")
		return
	}

	comments, err := s.store.ListComments(r.Context(), postID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	postID, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid post id")
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "content is required")
		return
	}

	comment, err := s.store.CreateComment(r.Context(), store.CreateCommentRequest{
		PostID:  postID,
		UserID:  user.ID,
		Content: req.Content,
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

func (s *Server) handleUpdateComment(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid comment id")
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "content is required")
		return
	}

	comment, err := s.store.GetComment(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if !auth.CanModify(user, comment.User.ID) {
		writeError(w, http.StatusForbidden, "forbidden", "not authorized to update this comment")
		return
	}

	updated, err := s.store.UpdateComment(r.Context(), store.UpdateCommentRequest{
		ID:      id,
		Content: req.Content,
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid comment id")
		return
	}

	comment, err := s.store.GetComment(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if !auth.CanModify(user, comment.User.ID) {
		writeError(w, http.StatusForbidden, "forbidden", "not authorized to delete this comment")
		return
	}

	if err := s.store.DeleteComment(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
