package miner

import (
	"context"
	"io"
	"math/rand"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tcfw/dancechain/internal/metrics"
	"github.com/tcfw/dancechain/internal/utils/logging"
	"github.com/tcfw/dancechain/pkg/block"
)

const testDifficulty = 8

func newTestMiner(t *testing.T, opts ...Option) (*Miner, *metrics.Miner) {
	t.Helper()

	logging.SetOutput(io.Discard)

	mm := metrics.NewMiner(prometheus.NewRegistry())

	opts = append([]Option{
		WithName("miner1"),
		WithDifficulty(testDifficulty),
		WithMaxIterations(1 << 20),
		WithDelay(0),
		WithSource(rand.New(rand.NewSource(99))),
		WithLogger(logging.Component("miner")),
		WithMetrics(mm),
	}, opts...)

	m, err := New(opts...)
	require.NoError(t, err)

	return m, mm
}

func solvedGenesis(t *testing.T, seed int64) block.Block {
	t.Helper()

	g := block.NewGenesis(block.Y)
	_, ok := g.Solve(rand.New(rand.NewSource(seed)), testDifficulty, block.Unbounded)
	require.True(t, ok)

	return g
}

func TestNewOptions(t *testing.T) {
	_, err := New()
	assert.ErrorContains(t, err, "placeholder")

	_, err = New(WithName("bob"), WithPlaceholder("bob"))
	assert.Error(t, err)

	_, err = New(WithName("miner1"), WithMaxIterations(0))
	assert.Error(t, err)

	_, err = New(WithName("miner1"), WithDelay(-time.Second))
	assert.Error(t, err)

	notGenesis := block.New(nil, "someone", 1, block.Y)
	_, err = New(WithName("miner1"), WithGenesis(notGenesis))
	assert.Error(t, err)

	m, err := New(WithName("miner1"))
	require.NoError(t, err)
	assert.Equal(t, "miner1", m.Name())
	assert.Equal(t, DefaultDifficulty, m.difficulty)
	assert.Equal(t, DefaultMaxIterations, m.maxIterations)
}

func TestStepIdleWithoutTree(t *testing.T) {
	m, _ := newTestMiner(t)

	batches := make(chan []block.Block, 1)
	out := make(chan block.Block, 4)

	assert.True(t, m.Step(batches, out))
	assert.Nil(t, m.Tree())
	assert.Len(t, out, 0)
}

func TestStepCreatesGenesis(t *testing.T) {
	m, mm := newTestMiner(t)

	batches := make(chan []block.Block, 1)
	out := make(chan block.Block, 4)

	batches <- []block.Block{}
	require.True(t, m.Step(batches, out))
	require.NotNil(t, m.Tree())

	require.Len(t, out, 2)
	genesis := <-out
	assert.True(t, genesis.IsGenesis(testDifficulty))
	assert.Equal(t, genesis, m.Tree().Genesis())

	mined := <-out
	assert.Equal(t, "miner1", mined.Miner)
	assert.True(t, mined.IsChildOf(genesis.Hash()))
	assert.NoError(t, mined.IsValid(block.Rules{Difficulty: testDifficulty, PlaceholderMiner: DefaultPlaceholder}))

	assert.Equal(t, float64(2), testutil.ToFloat64(mm.Mined))
	assert.Greater(t, testutil.ToFloat64(mm.Attempts), float64(0))

	//own blocks only enter the tree through the store
	assert.Equal(t, 1, m.Tree().Len())
}

func TestStepAdoptsStoreGenesis(t *testing.T) {
	m, mm := newTestMiner(t)

	genesis := solvedGenesis(t, 1)
	child := block.New(genesis.Hash().Bytes(), "other", 0, block.M)
	_, ok := child.Solve(rand.New(rand.NewSource(2)), testDifficulty, block.Unbounded)
	require.True(t, ok)

	orphan := block.New(make([]byte, block.HashSize), "other", 3, block.C)
	for i := range orphan.ParentHash {
		orphan.ParentHash[i] = 0xFF
	}

	batches := make(chan []block.Block, 1)
	out := make(chan block.Block, 4)

	batches <- []block.Block{child, orphan, genesis}
	require.True(t, m.Step(batches, out))

	assert.Equal(t, genesis, m.Tree().Genesis())
	assert.Equal(t, 2, m.Tree().Len())
	assert.Equal(t, float64(1), testutil.ToFloat64(mm.OrphansDropped))
	assert.Equal(t, float64(2), testutil.ToFloat64(mm.Depth))

	require.Len(t, out, 1)
	mined := <-out
	assert.True(t, mined.IsChildOf(child.Hash()))
}

func TestStepMergesLaterBatches(t *testing.T) {
	m, mm := newTestMiner(t)

	genesis := solvedGenesis(t, 3)

	batches := make(chan []block.Block, 1)
	out := make(chan block.Block, 8)

	batches <- []block.Block{genesis}
	require.True(t, m.Step(batches, out))

	first := <-out
	require.True(t, first.IsChildOf(genesis.Hash()))

	batches <- []block.Block{genesis, first}
	require.True(t, m.Step(batches, out))

	assert.Equal(t, 2, m.Tree().Len())
	assert.Equal(t, float64(2), testutil.ToFloat64(mm.Batches))

	second := <-out
	assert.True(t, second.IsChildOf(first.Hash()))
}

func TestStepPinnedGenesis(t *testing.T) {
	genesis := solvedGenesis(t, 4)

	m, _ := newTestMiner(t, WithGenesis(genesis))

	other := solvedGenesis(t, 5)
	require.NotEqual(t, genesis.Nonce, other.Nonce)

	batches := make(chan []block.Block, 1)
	out := make(chan block.Block, 4)

	batches <- []block.Block{other}
	require.True(t, m.Step(batches, out))

	assert.Equal(t, genesis, m.Tree().Genesis())
	require.Len(t, out, 2)
	assert.Equal(t, genesis, <-out)

	m2, _ := newTestMiner(t, WithGenesis(genesis))
	out2 := make(chan block.Block, 4)
	batches <- []block.Block{genesis}
	require.True(t, m2.Step(batches, out2))

	require.Len(t, out2, 1)
	mined := <-out2
	assert.True(t, mined.IsChildOf(genesis.Hash()))
}

func TestStepBoundedSearch(t *testing.T) {
	m, mm := newTestMiner(t, WithDifficulty(64), WithMaxIterations(10))

	genesis := block.NewGenesis(block.Y)

	batches := make(chan []block.Block, 1)
	out := make(chan block.Block, 4)

	m.genesis = &genesis
	batches <- []block.Block{genesis}
	require.True(t, m.Step(batches, out))

	assert.Len(t, out, 0)
	//the dance move draw is not a hash attempt
	assert.Equal(t, float64(10), testutil.ToFloat64(mm.Attempts))
}

func TestRunDisconnect(t *testing.T) {
	m, _ := newTestMiner(t)

	batches := make(chan []block.Block)
	close(batches)

	out := make(chan block.Block, 4)

	assert.NoError(t, m.Run(context.Background(), batches, out))
}

func TestRunCancel(t *testing.T) {
	m, _ := newTestMiner(t, WithDelay(time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- m.Run(ctx, make(chan []block.Block), make(chan block.Block))
	}()

	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("miner did not stop")
	}
}
