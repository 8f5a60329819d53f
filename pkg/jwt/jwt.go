package jwt

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Authorities holds the granted authorities of a token. Backends emit
// either plain strings ("ROLE_ADMIN") or objects ({"authority": "ROLE_ADMIN"}).
// Any other shape decodes to nil instead of failing the whole token.
type Authorities []string

func (a *Authorities) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		*a = nil
		return nil
	}

	out := make(Authorities, 0, len(raw))
	for _, item := range raw {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			out = append(out, s)
			continue
		}
		var obj struct {
			Authority string `json:"authority"`
		}
		if err := json.Unmarshal(item, &obj); err == nil && obj.Authority != "" {
			out = append(out, obj.Authority)
		}
	}
	*a = out
	return nil
}

type Claims struct {
	Role        string      `json:"role,omitempty"`
	Authorities Authorities `json:"authorities,omitempty"`
	Email       string      `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// HasRoleClaim reports whether the token carries any role information at all.
func (c *Claims) HasRoleClaim() bool {
	return c != nil && (c.Role != "" || c.Authorities != nil)
}

// HasRole matches either the plain role field or a ROLE_-prefixed authority.
func (c *Claims) HasRole(role string) bool {
	if c == nil || role == "" {
		return false
	}
	if c.Role == role {
		return true
	}
	want := "ROLE_" + role
	for _, a := range c.Authorities {
		if a == want {
			return true
		}
	}
	return false
}

// UserID returns the subject, falling back to the e-mail claim.
func (c *Claims) UserID() string {
	if c == nil {
		return ""
	}
	if c.Subject != "" {
		return c.Subject
	}
	return c.Email
}

// Expired reports whether an exp claim exists and lies in the past.
func (c *Claims) Expired(now time.Time) bool {
	if c == nil || c.ExpiresAt == nil {
		return false
	}
	return !now.Before(c.ExpiresAt.Time)
}

// Decoder reads session tokens issued by the backend. It never verifies
// signatures: the portal only routes on the claims, the backend verifies
// the token on every API call.
type Decoder struct {
	parser *jwt.Parser
}

func NewDecoder() *Decoder {
	return &Decoder{parser: jwt.NewParser()}
}

func (d *Decoder) Decode(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := d.parser.ParseUnverified(strings.TrimSpace(tokenString), claims); err != nil {
		return nil, err
	}
	return claims, nil
}
