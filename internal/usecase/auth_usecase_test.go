package usecase

import (
	"context"
	"net/http"
	"testing"

	"medlink-portal/internal/delivery/dto"
	"medlink-portal/pkg/jwt"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mintToken(t *testing.T, claims gojwt.MapClaims) string {
	t.Helper()
	tok, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	require.NoError(t, err)
	return tok
}

type stubResetter struct {
	email, token, password string
}

func (s *stubResetter) RequestReset(_ context.Context, email string) error {
	s.email = email
	return nil
}

func (s *stubResetter) ResetPassword(_ context.Context, token, password string) error {
	s.token, s.password = token, password
	return nil
}

func TestAuthUsecase_LoginDecodesTokenAndForgetsUserCache(t *testing.T) {
	fb, client := newFakeBackend(t)
	tok := mintToken(t, gojwt.MapClaims{"sub": "p1", "role": "PACIENTE"})
	fb.reply("POST /medlink/login", http.StatusOK, `{"token":"`+tok+`"}`)
	fb.reply("GET /medlink/paciente", http.StatusOK, `{"id":"p1","nome":"Ana"}`)

	q := newQuery()
	log := quietLogger()
	patients := NewPatientUsecase(log, client, q)
	auth := NewAuthUsecase(log, client, q, jwt.NewDecoder(), &stubResetter{})

	ctx := userCtx("p1", "PACIENTE")
	_, err := patients.Profile(ctx)
	require.NoError(t, err)

	s, err := auth.Login(context.Background(), &dto.LoginRequest{Email: "ana@medlink.com", Password: "12345678"})
	require.NoError(t, err)
	assert.Equal(t, tok, s.Token)
	assert.True(t, s.Claims.HasRole("PACIENTE"))

	_, err = patients.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, fb.count("GET /medlink/paciente"))
}

func TestAuthUsecase_LoginUnauthorizedIsInvalidCredentials(t *testing.T) {
	fb, client := newFakeBackend(t)
	fb.reply("POST /medlink/login", http.StatusUnauthorized, "")
	auth := NewAuthUsecase(quietLogger(), client, newQuery(), jwt.NewDecoder(), &stubResetter{})

	_, err := auth.Login(context.Background(), &dto.LoginRequest{Email: "a@b.com", Password: "12345678"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthUsecase_LoginUnreadableToken(t *testing.T) {
	fb, client := newFakeBackend(t)
	fb.reply("POST /medlink/login", http.StatusOK, `{"token":"not-a-jwt"}`)
	auth := NewAuthUsecase(quietLogger(), client, newQuery(), jwt.NewDecoder(), &stubResetter{})

	_, err := auth.Login(context.Background(), &dto.LoginRequest{Email: "a@b.com", Password: "12345678"})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthUsecase_ResetDelegates(t *testing.T) {
	_, client := newFakeBackend(t)
	r := &stubResetter{}
	auth := NewAuthUsecase(quietLogger(), client, newQuery(), jwt.NewDecoder(), r)

	require.NoError(t, auth.RequestPasswordReset(context.Background(), &dto.ForgotPasswordRequest{Email: "ana@medlink.com"}))
	require.NoError(t, auth.ResetPassword(context.Background(), &dto.ResetPasswordRequest{Token: "t", Password: "secret1"}))
	assert.Equal(t, "ana@medlink.com", r.email)
	assert.Equal(t, "t", r.token)
	assert.Equal(t, "secret1", r.password)
}

func TestBackendResetter_PostsToConfiguredPaths(t *testing.T) {
	fb, client := newFakeBackend(t)
	fb.reply("POST /medlink/paciente/forgot-password", http.StatusOK, "")
	fb.reply("POST /medlink/paciente/reset-password", http.StatusBadRequest, `{"message":"Token inválido"}`)
	r := NewBackendResetter(quietLogger(), client, "/medlink/paciente/forgot-password", "/medlink/paciente/reset-password")

	require.NoError(t, r.RequestReset(context.Background(), "ana@medlink.com"))
	assert.Error(t, r.ResetPassword(context.Background(), "t", "secret1"))
}
