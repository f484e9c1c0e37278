package auth

import (
	"context"
	"errors"

	"lawvriksh-blog/backend/internal/model"
	"lawvriksh-blog/backend/internal/store"
)

// ErrUnauthenticated is returned for any token the resolver cannot map to an
// existing user. Callers translate it to a 401 without further detail.
var ErrUnauthenticated = errors.New("unauthenticated")

// Resolver is the single entry point that turns a raw bearer token into a
// user record. Handlers must never decode tokens themselves.
type Resolver struct {
	tokens *Tokens
	store  store.Store
}

func NewResolver(tokens *Tokens, st store.Store) *Resolver {
	return &Resolver{tokens: tokens, store: st}
}

func (r *Resolver) Resolve(ctx context.Context, tokenStr string) (*model.User, error) {
	userID, ok := r.tokens.Validate(tokenStr)
	if !ok {
		return nil, ErrUnauthenticated
	}

	u, err := r.store.GetUserByID(ctx, userID)
	if err != nil {
		// A deleted user and a bad token look the same to the caller.
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	return u, nil
}
