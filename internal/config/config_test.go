package config

import (
	"math/rand"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tcfw/dancechain/pkg/block"
	"github.com/tcfw/dancechain/pkg/storage"
)

func withValue(t *testing.T, key string, v interface{}) {
	t.Helper()

	prev := viper.Get(key)
	viper.Set(key, v)
	t.Cleanup(func() { viper.Set(key, prev) })
}

func TestDefaults(t *testing.T) {
	c, err := build()
	require.NoError(t, err)

	assert.Equal(t, uint32(25), c.Chain().Difficulty)
	assert.Equal(t, "changemeyoufool", c.Chain().PlaceholderMiner)
	assert.Nil(t, c.Chain().Genesis)

	assert.Equal(t, "changemeyoufool", c.Miner().Name)
	assert.Equal(t, uint64(1000), c.Miner().MaxIterations)
	assert.Equal(t, 10*time.Millisecond, c.Miner().Delay)

	assert.Equal(t, "http://localhost:8080", c.Store().URL)
	assert.Equal(t, block.CodecJSON, c.Store().Codec)

	assert.Equal(t, time.Second, c.Sync().Interval)
	assert.Equal(t, 10, c.Sync().MaxFailures)

	assert.Equal(t, 8080, c.Server().Port)
	assert.Equal(t, []string{"*"}, c.Server().AllowedOrigins)
}

func TestInvalidValues(t *testing.T) {
	withValue(t, Cfg_store_codec, "xml")
	_, err := build()
	assert.Error(t, err)
}

func TestZeroMaxIterations(t *testing.T) {
	withValue(t, Cfg_miner_maxIterations, 0)
	_, err := build()
	assert.Error(t, err)
}

func TestPinnedGenesis(t *testing.T) {
	g := block.NewGenesis(block.Y)
	_, ok := g.Solve(rand.New(rand.NewSource(5)), 8, block.Unbounded)
	require.True(t, ok)

	enc, err := storage.EncodeGenesisInfo(&storage.GenesisInfo{ChainID: "test", Difficulty: 8, Block: g})
	require.NoError(t, err)

	withValue(t, Cfg_chain_difficulty, 8)
	withValue(t, Cfg_chain_genesisInfo, enc)

	c, err := build()
	require.NoError(t, err)
	require.NotNil(t, c.Chain().Genesis)
	assert.Equal(t, g, c.Chain().Genesis.Block)
	assert.Equal(t, uint32(8), c.Chain().Rules().Difficulty)

	withValue(t, Cfg_chain_genesisInfo, "not base64!")
	_, err = build()
	assert.Error(t, err)
}
