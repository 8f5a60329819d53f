package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore_GetSet(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	s := NewRedisStore(db)

	mock.ExpectGet("medlink:query:slots:").RedisNil()
	_, ok, err := s.Get(ctx, "slots:")
	require.NoError(t, err)
	assert.False(t, ok)

	mock.ExpectSet("medlink:query:slots:", []byte("[]"), 30*time.Second).SetVal("OK")
	require.NoError(t, s.Set(ctx, "slots:", []byte("[]"), 30*time.Second))

	mock.ExpectGet("medlink:query:slots:").SetVal("[]")
	v, ok, err := s.Get(ctx, "slots:")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", string(v))

	mock.ExpectGet("medlink:query:broken:").SetErr(errors.New("conn refused"))
	_, _, err = s.Get(ctx, "broken:")
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_DeletePrefixScansAllPages(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	s := NewRedisStore(db)

	mock.ExpectScan(0, "medlink:query:admin-slots:*", scanBatchSize).
		SetVal([]string{"medlink:query:admin-slots:m1:d1:"}, 7)
	mock.ExpectDel("medlink:query:admin-slots:m1:d1:").SetVal(1)
	mock.ExpectScan(7, "medlink:query:admin-slots:*", scanBatchSize).
		SetVal([]string{}, 0)

	require.NoError(t, s.DeletePrefix(ctx, "admin-slots:"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
