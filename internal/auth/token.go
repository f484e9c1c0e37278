package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultTokenTTL = 60 * time.Minute

type claims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// Tokens issues and validates the bearer tokens handed out at login.
// The signing key is fixed at construction; rotating it invalidates every
// outstanding token.
type Tokens struct {
	key []byte
	ttl time.Duration
}

func NewTokens(secret string, ttl time.Duration) (*Tokens, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("signing secret is empty")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Tokens{key: []byte(secret), ttl: ttl}, nil
}

func (t *Tokens) Issue(userID int64) (string, error) {
	now := time.Now()
	c := claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString(t.key)
}

// Validate returns the user id carried by a token. Every failure mode
// (bad signature, malformed input, expiry, missing subject) collapses to
// ok == false so callers cannot tell which check rejected the token.
func (t *Tokens) Validate(tokenStr string) (int64, bool) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &claims{}, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.key, nil
	})
	if err != nil {
		return 0, false
	}
	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return 0, false
	}
	if c.UserID == 0 {
		return 0, false
	}
	return c.UserID, true
}
