package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"lawvriksh-blog/backend/internal/auth"
	"lawvriksh-blog/backend/internal/config"
	"lawvriksh-blog/backend/internal/model"
	"lawvriksh-blog/backend/internal/store"
)

type Server struct {
	cfg      config.Config
	store    store.Store
	hasher   auth.Hasher
	tokens   *auth.Tokens
	resolver *auth.Resolver
	mux      *http.ServeMux
}

func NewServer(cfg config.Config, st store.Store, tokens *auth.Tokens) *Server {
	s := &Server{
		cfg:      cfg,
		store:    st,
		hasher:   auth.NewHasher(cfg.BcryptCost),
		tokens:   tokens,
		resolver: auth.NewResolver(tokens, st),
		mux:      http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	var h http.Handler = s.mux
	h = recoverMiddleware(h)
	h = requestIDMiddleware(h)
	h = loggingMiddleware(h)
	return h
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /{$}", s.handleRoot)
	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("POST /api/users/register", s.handleRegister)
	s.mux.HandleFunc("POST /api/users/login", s.handleLogin)
	s.mux.HandleFunc("GET /api/users/me", s.handleMe)

	s.mux.HandleFunc("GET /api/posts", s.handleListPosts)
	s.mux.HandleFunc("POST /api/posts", s.handleCreatePost)
	s.mux.HandleFunc("GET /api/posts/{id}", s.handleGetPost)
	s.mux.HandleFunc("PUT /api/posts/{id}", s.handleUpdatePost)
	s.mux.HandleFunc("DELETE /api/posts/{id}", s.handleDeletePost)

	s.mux.HandleFunc("GET /api/posts/{id}/comments", s.handleListComments)
	s.mux.HandleFunc("POST /api/posts/{id}/comments", s.handleCreateComment)
	s.mux.HandleFunc("PUT /api/posts/comments/{id}", s.handleUpdateComment)
	s.mux.HandleFunc("DELETE /api/posts/comments/{id}", s.handleDeleteComment)

	s.mux.HandleFunc("POST /api/posts/{id}/like", s.handleToggleLike)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome to the LawVriksh Blog API"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// authenticate is the only place a handler may obtain an identity from.
// It pulls the bearer token off the request and hands it to the resolver;
// any failure is auth.ErrUnauthenticated.
func (s *Server) authenticate(r *http.Request) (*model.User, error) {
	authHeader := r.Header.Get("Authorization")
	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return nil, auth.ErrUnauthenticated
	}
	tokenStr := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
	return s.resolver.Resolve(r.Context(), tokenStr)
}

// requireUser authenticates the request and writes the 401 itself when the
// caller cannot proceed.
func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) (*model.User, bool) {
	user, err := s.authenticate(r)
	if err != nil {
		if errors.Is(err, auth.ErrUnauthenticated) {
			writeUnauthorized(w)
		} else {
			writeError(w, http.StatusInternalServerError, "internal", "internal server error")
		}
		return nil, false
	}
	return user, true
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeError(w, http.StatusUnauthorized, "unauthorized", "could not validate credentials")
}

// writeStoreError maps store sentinels that any handler can hit; handlers
// with field-specific conflicts translate those before calling this.
func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found", "resource not found")
		return
	}
	writeError(w, http.StatusInternalServerError, "internal", "internal server error")
}
