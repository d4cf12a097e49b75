package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rows = [][]string{
	{"Ativo", "Total (R$)"},
	{"BBAS3", "R$ 2,700.00"},
}

func TestRedis_Get(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewRedisWithClient(db, time.Minute)
	ctx := context.Background()

	t.Run("hit decodes values", func(t *testing.T) {
		data, err := json.Marshal(rows)
		require.NoError(t, err)
		mock.ExpectGet("wallet:values:sheet:123").SetVal(string(data))

		values, found, err := c.Get(ctx, "sheet:123")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, rows, values)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing key is a miss", func(t *testing.T) {
		mock.ExpectGet("wallet:values:sheet:0").RedisNil()

		values, found, err := c.Get(ctx, "sheet:0")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, values)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("redis error", func(t *testing.T) {
		mock.ExpectGet("wallet:values:sheet:1").SetErr(redis.TxFailedErr)

		_, found, err := c.Get(ctx, "sheet:1")
		assert.Error(t, err)
		assert.False(t, found)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("corrupt entry", func(t *testing.T) {
		mock.ExpectGet("wallet:values:sheet:2").SetVal("{not json")

		_, found, err := c.Get(ctx, "sheet:2")
		assert.Error(t, err)
		assert.False(t, found)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedis_Set(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ttl := 5 * time.Minute
	c := NewRedisWithClient(db, ttl)
	ctx := context.Background()

	data, err := json.Marshal(rows)
	require.NoError(t, err)

	t.Run("stores with TTL", func(t *testing.T) {
		mock.ExpectSet("wallet:values:sheet:123", data, ttl).SetVal("OK")

		require.NoError(t, c.Set(ctx, "sheet:123", rows))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("redis error", func(t *testing.T) {
		mock.ExpectSet("wallet:values:sheet:123", data, ttl).SetErr(redis.TxFailedErr)

		assert.Error(t, c.Set(ctx, "sheet:123", rows))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedis_Invalidate(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewRedisWithClient(db, time.Minute)
	ctx := context.Background()

	t.Run("deletes cached worksheets", func(t *testing.T) {
		keys := []string{"wallet:values:sheet:0", "wallet:values:sheet:123"}
		mock.ExpectKeys("wallet:values:*").SetVal(keys)
		mock.ExpectDel(keys...).SetVal(2)

		require.NoError(t, c.Invalidate(ctx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nothing cached", func(t *testing.T) {
		mock.ExpectKeys("wallet:values:*").SetVal(nil)

		require.NoError(t, c.Invalidate(ctx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNewRedis_InvalidURL(t *testing.T) {
	_, err := NewRedis(context.Background(), "http://localhost:6379", time.Minute)
	assert.Error(t, err)
}
