package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"medlink-portal/internal/delivery/dto"
	"medlink-portal/internal/infrastructure/resetstore"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// Demo reset endpoint messages.
const (
	MsgResetEmailRequired = "E-mail é obrigatório."
	MsgResetRequested     = "Se um usuário com esse e-mail existir, enviaremos instruções."
	MsgResetTokenRequired = "Token é obrigatório."
	MsgResetPasswordShort = "Senha deve ter pelo menos 6 caracteres."
	MsgResetTokenInvalid  = "Token inválido ou expirado."
	MsgResetDone          = "Senha redefinida com sucesso!"
	MsgResetRequestFailed = "Erro ao processar solicitação."
	MsgResetFailed        = "Erro ao redefinir senha."
)

const (
	resetTokenBytes      = 32
	minResetPasswordSize = 6
)

var (
	ErrResetEmailRequired = errors.New("email is required")
	ErrResetTokenRequired = errors.New("token is required")
	ErrResetPasswordShort = errors.New("password too short")
	ErrResetTokenInvalid  = errors.New("reset token invalid or expired")
)

// PasswordResetUsecase is the demo password reset: tokens live in a local
// store and no e-mail is sent. The reset URL is logged instead.
type PasswordResetUsecase interface {
	Forgot(ctx context.Context, email string) (*dto.ForgotPasswordResponse, error)
	Reset(ctx context.Context, token, password string) (*dto.ResetPasswordResponse, error)
}

type passwordResetUsecase struct {
	log     *logrus.Logger
	store   resetstore.Store
	baseURL string
	ttl     time.Duration
	exposed bool
	now     func() time.Time
}

// NewPasswordResetUsecase builds the demo flow. exposeDemo adds the reset URL
// and record id to responses and must only be set in development.
func NewPasswordResetUsecase(log *logrus.Logger, store resetstore.Store, baseURL string, ttl time.Duration, exposeDemo bool) PasswordResetUsecase {
	return &passwordResetUsecase{
		log:     log,
		store:   store,
		baseURL: strings.TrimRight(baseURL, "/"),
		ttl:     ttl,
		exposed: exposeDemo,
		now:     time.Now,
	}
}

func (u *passwordResetUsecase) Forgot(ctx context.Context, email string) (*dto.ForgotPasswordResponse, error) {
	if strings.TrimSpace(email) == "" {
		return nil, ErrResetEmailRequired
	}

	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("generate reset token: %w", err)
	}
	token := hex.EncodeToString(buf)

	if err := u.store.SaveToken(ctx, token, resetstore.Token{Email: email, ExpiresAt: u.now().Add(u.ttl)}); err != nil {
		u.log.Warnf("Failed to store reset token: %+v", err)
		return nil, err
	}

	resetURL := u.baseURL + "/recuperar-senha/reset/" + token
	u.log.WithField("email", email).Infof("[DEMO] Password reset e-mail not sent; reset URL: %s", resetURL)

	resp := &dto.ForgotPasswordResponse{Message: MsgResetRequested}
	if u.exposed {
		resp.DemoURL = resetURL
	}
	return resp, nil
}

func (u *passwordResetUsecase) Reset(ctx context.Context, token, password string) (*dto.ResetPasswordResponse, error) {
	if token == "" {
		return nil, ErrResetTokenRequired
	}
	if len(password) < minResetPasswordSize {
		return nil, ErrResetPasswordShort
	}

	// Consumed before hashing; a token is redeemable once.
	data, err := u.store.TakeToken(ctx, token)
	if errors.Is(err, resetstore.ErrTokenNotFound) {
		return nil, ErrResetTokenInvalid
	}
	if err != nil {
		u.log.Warnf("Failed to take reset token: %+v", err)
		return nil, err
	}
	if data.Expired(u.now()) {
		return nil, ErrResetTokenInvalid
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	resetID := uuid.NewString()
	record := resetstore.Reset{Email: data.Email, PasswordHash: string(hash), CreatedAt: u.now()}
	if err := u.store.SaveReset(ctx, resetID, record); err != nil {
		u.log.Warnf("Failed to store reset record: %+v", err)
		return nil, err
	}

	u.log.WithField("email", data.Email).Info("[DEMO] Password reset recorded")

	resp := &dto.ResetPasswordResponse{Message: MsgResetDone}
	if u.exposed {
		resp.DemoResetID = resetID
	}
	return resp, nil
}

// mockResetter lets the reset pages drive the demo flow when no backend
// reset endpoint exists.
type mockResetter struct {
	uc PasswordResetUsecase
}

func NewMockResetter(uc PasswordResetUsecase) PasswordResetter {
	return &mockResetter{uc: uc}
}

func (r *mockResetter) RequestReset(ctx context.Context, email string) error {
	_, err := r.uc.Forgot(ctx, email)
	return err
}

func (r *mockResetter) ResetPassword(ctx context.Context, token, password string) error {
	_, err := r.uc.Reset(ctx, token, password)
	return err
}
