package database_test

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/chatshell-api/internal/database"
)

func TestConnectRejectsEmptyTargets(t *testing.T) {
	_, err := database.ConnectPostgres("")
	require.ErrorContains(t, err, "postgres store")

	_, err = database.ConnectSQLite("")
	require.Error(t, err)

	_, err = database.ConnectRedis("", "chatshell-test")
	require.Error(t, err)

	_, err = database.ConnectNATS("", "chatshell-test")
	require.Error(t, err)
}

func TestConnectSQLiteInMemory(t *testing.T) {
	db, err := database.ConnectSQLite("file:database_test?mode=memory&cache=shared")
	require.NoError(t, err)

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	require.Equal(t, 1, one)
}

func TestConnectRedisPings(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := database.ConnectRedis("redis://"+mr.Addr(), "chatshell-test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.Equal(t, "chatshell-test", client.Options().ClientName)

	_, err = database.ConnectRedis("not a url", "chatshell-test")
	require.ErrorContains(t, err, "redis: parse url")

	addr := mr.Addr()
	mr.Close()
	_, err = database.ConnectRedis("redis://"+addr, "chatshell-test")
	require.ErrorContains(t, err, "redis: ping")
}
