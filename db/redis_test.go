package db

import (
	"context"
	"net"
	"testing"

	"blogger-api/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port, err := net.SplitHostPort(mr.Addr())
	require.NoError(t, err)

	rdb, err := ConnectRedis(context.Background(), config.RedisConfig{Host: host, Port: port})
	require.NoError(t, err)
	defer rdb.Close()

	assert.NoError(t, rdb.Set(context.Background(), "k", "v", 0).Err())
	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestConnectRedis_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port, err := net.SplitHostPort(mr.Addr())
	require.NoError(t, err)
	mr.Close()

	_, err = ConnectRedis(context.Background(), config.RedisConfig{Host: host, Port: port})
	assert.ErrorContains(t, err, "failed to ping redis")
}
