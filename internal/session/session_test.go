package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"medlink-portal/config"
	"medlink-portal/pkg/jwt"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager() *Manager {
	return NewManager(config.SessionConfig{CookieName: "token", MaxAge: time.Hour}, jwt.NewDecoder())
}

func mint(t *testing.T, claims gojwt.MapClaims) string {
	t.Helper()
	tok, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	require.NoError(t, err)
	return tok
}

func TestManager_SetAndClear(t *testing.T) {
	m := newManager()

	rec := httptest.NewRecorder()
	m.Set(rec, "abc")
	c := rec.Result().Cookies()[0]
	assert.Equal(t, "token", c.Name)
	assert.Equal(t, "abc", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, 3600, c.MaxAge)

	rec = httptest.NewRecorder()
	m.Clear(rec)
	c = rec.Result().Cookies()[0]
	assert.Equal(t, "", c.Value)
	assert.True(t, c.MaxAge < 0)
}

func TestManager_Read(t *testing.T) {
	m := newManager()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, m.Read(r))

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "token", Value: "garbage"})
	s := m.Read(r)
	require.NotNil(t, s)
	assert.Nil(t, s.Claims)

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "token", Value: mint(t, gojwt.MapClaims{"sub": "u1", "role": "ADMIN"})})
	s = m.Read(r)
	require.NotNil(t, s)
	require.NotNil(t, s.Claims)
	assert.Equal(t, "u1", s.Subject())
}

func TestManager_ReadExpired(t *testing.T) {
	m := newManager()
	m.now = func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) }

	tok := mint(t, gojwt.MapClaims{"sub": "u1", "role": "ADMIN", "exp": time.Date(2025, 3, 10, 11, 0, 0, 0, time.UTC).Unix()})
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "token", Value: tok})

	s := m.Read(r)
	require.NotNil(t, s)
	assert.Nil(t, s.Claims)
	assert.Equal(t, tok, s.Token)
}

func TestContext(t *testing.T) {
	ctx := context.Background()
	_, ok := FromContext(ctx)
	assert.False(t, ok)
	assert.Equal(t, "", TokenFromContext(ctx))

	ctx = NewContext(ctx, &Session{Token: "abc"})
	assert.Equal(t, "abc", TokenFromContext(ctx))
}
