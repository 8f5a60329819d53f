package usecase

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"medlink-portal/internal/infrastructure/resetstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResetUsecase(t *testing.T, exposed bool) (*passwordResetUsecase, *resetstore.MemoryStore, *time.Time) {
	t.Helper()
	store := resetstore.NewMemoryStore(quietLogger())
	t.Cleanup(store.Stop)

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	uc := NewPasswordResetUsecase(quietLogger(), store, "http://localhost:3000/", 15*time.Minute, exposed).(*passwordResetUsecase)
	uc.now = func() time.Time { return now }
	return uc, store, &now
}

func tokenFrom(t *testing.T, demoURL string) string {
	t.Helper()
	const prefix = "http://localhost:3000/recuperar-senha/reset/"
	require.True(t, strings.HasPrefix(demoURL, prefix), demoURL)
	return strings.TrimPrefix(demoURL, prefix)
}

func TestPasswordReset_ForgotIssuesToken(t *testing.T) {
	uc, _, _ := newResetUsecase(t, true)

	_, err := uc.Forgot(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrResetEmailRequired)

	resp, err := uc.Forgot(context.Background(), "ana@medlink.com")
	require.NoError(t, err)
	assert.Equal(t, MsgResetRequested, resp.Message)
	assert.Len(t, tokenFrom(t, resp.DemoURL), 64)
}

func TestPasswordReset_DemoFieldsHiddenOutsideDevelopment(t *testing.T) {
	uc, store, _ := newResetUsecase(t, false)
	ctx := context.Background()

	resp, err := uc.Forgot(ctx, "ana@medlink.com")
	require.NoError(t, err)
	assert.Empty(t, resp.DemoURL)

	store.SaveToken(ctx, "tok", resetstore.Token{Email: "ana@medlink.com", ExpiresAt: uc.now().Add(time.Minute)})
	reset, err := uc.Reset(ctx, "tok", "secret1")
	require.NoError(t, err)
	assert.Empty(t, reset.DemoResetID)
}

func TestPasswordReset_ResetConsumesToken(t *testing.T) {
	uc, store, _ := newResetUsecase(t, true)
	ctx := context.Background()

	resp, err := uc.Forgot(ctx, "ana@medlink.com")
	require.NoError(t, err)
	token := tokenFrom(t, resp.DemoURL)

	_, err = uc.Reset(ctx, "", "secret1")
	assert.ErrorIs(t, err, ErrResetTokenRequired)
	_, err = uc.Reset(ctx, token, "12345")
	assert.ErrorIs(t, err, ErrResetPasswordShort)

	done, err := uc.Reset(ctx, token, "secret1")
	require.NoError(t, err)
	assert.Equal(t, MsgResetDone, done.Message)
	assert.NotEmpty(t, done.DemoResetID)

	_, err = store.TakeToken(ctx, token)
	assert.ErrorIs(t, err, resetstore.ErrTokenNotFound)

	_, err = uc.Reset(ctx, token, "secret1")
	assert.ErrorIs(t, err, ErrResetTokenInvalid)
}

func TestPasswordReset_ExpiredTokenIsDeleted(t *testing.T) {
	uc, store, now := newResetUsecase(t, true)
	ctx := context.Background()

	resp, err := uc.Forgot(ctx, "ana@medlink.com")
	require.NoError(t, err)
	token := tokenFrom(t, resp.DemoURL)

	*now = now.Add(15*time.Minute + time.Second)
	_, err = uc.Reset(ctx, token, "secret1")
	assert.ErrorIs(t, err, ErrResetTokenInvalid)

	_, err = store.TakeToken(ctx, token)
	assert.ErrorIs(t, err, resetstore.ErrTokenNotFound)
}

func TestPasswordReset_TokenRedeemedOnceUnderConcurrency(t *testing.T) {
	uc, _, _ := newResetUsecase(t, true)
	ctx := context.Background()

	resp, err := uc.Forgot(ctx, "ana@medlink.com")
	require.NoError(t, err)
	token := tokenFrom(t, resp.DemoURL)

	const attempts = 8
	var (
		wg    sync.WaitGroup
		start = make(chan struct{})
		errs  = make(chan error, attempts)
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := uc.Reset(ctx, token, "secret1")
			errs <- err
		}()
	}
	close(start)
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, ErrResetTokenInvalid)
	}
	assert.Equal(t, 1, ok)
}
