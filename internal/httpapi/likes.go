package httpapi

import "net/http"

type likeResponse struct {
	PostID  int64  `json:"post_id"`
	Liked   bool   `json:"liked"`
	Message string `json:"message"`
}

func (s *Server) handleToggleLike(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	postID, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid post id")
		return
	}

	liked, err := s.store.TogglePostLike(r.Context(), postID, user.ID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	msg := "Post unliked successfully"
	if liked {
		msg = "Post liked successfully"
	}
	writeJSON(w, http.StatusOK, likeResponse{PostID: postID, Liked: liked, Message: msg})
}
