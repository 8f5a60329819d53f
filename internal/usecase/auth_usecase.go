package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"medlink-portal/internal/delivery/dto"
	"medlink-portal/internal/infrastructure/backend"
	"medlink-portal/internal/infrastructure/cache"
	"medlink-portal/internal/session"
	"medlink-portal/pkg/jwt"

	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("backend issued an unreadable token")
)

// PasswordResetter issues and redeems password-reset tokens.
type PasswordResetter interface {
	RequestReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
}

type AuthUsecase interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*session.Session, error)
	Register(ctx context.Context, req *dto.RegisterPatientRequest) error
	Logout(ctx context.Context, s *session.Session)
	RequestPasswordReset(ctx context.Context, req *dto.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error
}

type authUsecase struct {
	log      *logrus.Logger
	backend  BackendAPI
	query    *cache.Query
	decoder  *jwt.Decoder
	resetter PasswordResetter
}

func NewAuthUsecase(
	log *logrus.Logger,
	backend BackendAPI,
	query *cache.Query,
	decoder *jwt.Decoder,
	resetter PasswordResetter,
) AuthUsecase {
	return &authUsecase{
		log:      log,
		backend:  backend,
		query:    query,
		decoder:  decoder,
		resetter: resetter,
	}
}

// Login exchanges credentials for a backend token. A 401 here means wrong
// credentials, not an expired session, so it is reported as
// ErrInvalidCredentials. Cached per-user data of the subject is dropped.
func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*session.Session, error) {
	var resp dto.TokenResponse
	if err := u.backend.Post(ctx, pathLogin, req, &resp); err != nil {
		if backend.StatusOf(err) == http.StatusUnauthorized {
			return nil, ErrInvalidCredentials
		}
		u.log.Warnf("Failed to login: %+v", err)
		return nil, err
	}

	claims, err := u.decoder.Decode(resp.Token)
	if err != nil {
		u.log.Warnf("Failed to decode login token: %+v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	s := &session.Session{Token: resp.Token, Claims: claims}
	u.forget(ctx, s)
	return s, nil
}

func (u *authUsecase) Register(ctx context.Context, req *dto.RegisterPatientRequest) error {
	if err := u.backend.Post(ctx, pathRegisterPatient, req, nil); err != nil {
		u.log.Warnf("Failed to register patient: %+v", err)
		return err
	}
	return nil
}

// Logout only forgets cached data; the cookie is cleared by the caller.
func (u *authUsecase) Logout(ctx context.Context, s *session.Session) {
	u.forget(ctx, s)
}

func (u *authUsecase) forget(ctx context.Context, s *session.Session) {
	if sub := s.Subject(); sub != "" {
		u.query.Invalidate(ctx, userKeys(sub)...)
	}
}

func (u *authUsecase) RequestPasswordReset(ctx context.Context, req *dto.ForgotPasswordRequest) error {
	return u.resetter.RequestReset(ctx, req.Email)
}

func (u *authUsecase) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	return u.resetter.ResetPassword(ctx, req.Token, req.Password)
}

// backendResetter forwards reset requests to the backend's endpoints.
type backendResetter struct {
	log        *logrus.Logger
	backend    BackendAPI
	forgotPath string
	resetPath  string
}

func NewBackendResetter(log *logrus.Logger, backend BackendAPI, forgotPath, resetPath string) PasswordResetter {
	return &backendResetter{
		log:        log,
		backend:    backend,
		forgotPath: forgotPath,
		resetPath:  resetPath,
	}
}

func (r *backendResetter) RequestReset(ctx context.Context, email string) error {
	if err := r.backend.Post(ctx, r.forgotPath, map[string]string{"email": email}, nil); err != nil {
		r.log.Warnf("Failed to request password reset: %+v", err)
		return err
	}
	return nil
}

func (r *backendResetter) ResetPassword(ctx context.Context, token, password string) error {
	body := map[string]string{"token": token, "password": password}
	if err := r.backend.Post(ctx, r.resetPath, body, nil); err != nil {
		r.log.Warnf("Failed to reset password: %+v", err)
		return err
	}
	return nil
}
