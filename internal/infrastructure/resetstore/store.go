// Package resetstore keeps the demo password-reset tokens and the records of
// completed resets. Nothing here is durable user data.
package resetstore

import (
	"context"
	"errors"
	"time"
)

var ErrTokenNotFound = errors.New("reset token not found")

// Reset records are demo data; both drivers keep them a day.
const resetRecordTTL = 24 * time.Hour

// Token is an issued, not yet used, reset token.
type Token struct {
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether now is past the expiry; the expiry instant itself
// is still valid.
func (t *Token) Expired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}

// Reset records a completed reset. The password is only kept as a hash.
type Reset struct {
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Store interface {
	SaveToken(ctx context.Context, token string, t Token) error
	// TakeToken returns the token and removes it in one step, so a token
	// can be redeemed at most once.
	TakeToken(ctx context.Context, token string) (*Token, error)
	SaveReset(ctx context.Context, id string, r Reset) error
}
