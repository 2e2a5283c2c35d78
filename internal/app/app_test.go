package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/finflow-backend/internal/config"
)

func TestOpenStore_Memory(t *testing.T) {
	set, closeFn, err := OpenStore(context.Background(), config.Config{StoreMode: config.StoreMemory})
	require.NoError(t, err)
	defer closeFn()
	assert.NotNil(t, set.Transactions)
	assert.NotNil(t, set.Accounts)
	assert.NotNil(t, set.Users)
	assert.NoError(t, set.Health.Ping(context.Background()))
}

func TestOpenStore_LazyBackendsDoNotConnect(t *testing.T) {
	for _, mode := range []string{config.StorePostgres, config.StoreMongo, config.StoreDynamo} {
		set, closeFn, err := OpenStore(context.Background(), config.Config{
			StoreMode:   mode,
			DatabaseURL: "postgres://nobody@127.0.0.1:1/none",
			MongoURI:    "mongodb://127.0.0.1:1",
			MongoDB:     "none",
		})
		require.NoError(t, err, mode)
		assert.NotNil(t, set.Transactions, mode)
		assert.NotNil(t, set.Users, mode)
		closeFn()
	}
}

func TestOpenStore_Unknown(t *testing.T) {
	_, closeFn, err := OpenStore(context.Background(), config.Config{StoreMode: "cassandra"})
	assert.Error(t, err)
	assert.NotNil(t, closeFn)
}
