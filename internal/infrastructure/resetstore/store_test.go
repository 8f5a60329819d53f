package resetstore

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestMemoryStore_TokenLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(quietLogger())
	defer s.Stop()

	exp := time.Date(2025, 3, 10, 12, 15, 0, 0, time.UTC)
	require.NoError(t, s.SaveToken(ctx, "abc", Token{Email: "ana@medlink.com", ExpiresAt: exp}))

	got, err := s.TakeToken(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "ana@medlink.com", got.Email)

	_, err = s.TakeToken(ctx, "abc")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestMemoryStore_TakeTokenOnce(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(quietLogger())
	defer s.Stop()

	require.NoError(t, s.SaveToken(ctx, "abc", Token{Email: "ana@medlink.com", ExpiresAt: time.Now().Add(time.Hour)}))

	var (
		wg    sync.WaitGroup
		taken atomic.Int32
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.TakeToken(ctx, "abc"); err == nil {
				taken.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), taken.Load())
}

func TestMemoryStore_PurgeExpired(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(quietLogger())
	defer s.Stop()

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	s.SaveToken(ctx, "old", Token{ExpiresAt: now.Add(-time.Second)})
	s.SaveToken(ctx, "new", Token{ExpiresAt: now.Add(time.Minute)})
	s.SaveReset(ctx, "r-old", Reset{Email: "ana@medlink.com", CreatedAt: now.Add(-resetRecordTTL - time.Minute)})
	s.SaveReset(ctx, "r-new", Reset{Email: "bia@medlink.com", CreatedAt: now.Add(-time.Hour)})

	assert.Equal(t, 2, s.purgeExpired())
	_, err := s.TakeToken(ctx, "old")
	assert.ErrorIs(t, err, ErrTokenNotFound)
	_, err = s.TakeToken(ctx, "new")
	assert.NoError(t, err)

	s.mu.Lock()
	defer s.mu.Unlock()
	assert.NotContains(t, s.resets, "r-old")
	assert.Contains(t, s.resets, "r-new")
}

func TestMemoryStore_StopIsIdempotent(t *testing.T) {
	s := NewMemoryStore(quietLogger())
	s.Stop()
	s.Stop()
}

func TestRedisStore_Token(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	s := NewRedisStore(db)
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	tok := Token{Email: "ana@medlink.com", ExpiresAt: now.Add(15 * time.Minute)}
	payload, _ := json.Marshal(tok)

	mock.ExpectSet("medlink:reset:token:abc", payload, 15*time.Minute).SetVal("OK")
	require.NoError(t, s.SaveToken(ctx, "abc", tok))

	mock.ExpectGetDel("medlink:reset:token:abc").SetVal(string(payload))
	got, err := s.TakeToken(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "ana@medlink.com", got.Email)
	assert.True(t, got.ExpiresAt.Equal(tok.ExpiresAt))

	mock.ExpectGetDel("medlink:reset:token:abc").RedisNil()
	_, err = s.TakeToken(ctx, "abc")
	assert.ErrorIs(t, err, ErrTokenNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
