package storage

import (
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tcfw/dancechain/pkg/block"
	"github.com/tcfw/dancechain/pkg/storage/mock"
)

func TestMemStore(t *testing.T) {
	m := NewMemStore(&mock.Validator{})

	obj := block.New(make([]byte, block.HashSize), "miner1", 42, block.C)

	if err := m.Put(&obj); err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, []block.Block{obj}, m.All())
	assert.Equal(t, 1, m.Len())

	//stored blocks are copies
	obj.ParentHash[0] = 0xFF
	assert.Equal(t, byte(0), m.All()[0].ParentHash[0])
}

func TestMemStoreDuplicateNonce(t *testing.T) {
	v := &mock.Validator{}
	m := NewMemStore(v)

	b1 := block.New(nil, "miner1", 42, block.C)
	b2 := block.New(nil, "miner2", 42, block.A)

	require.NoError(t, m.Put(&b1))

	err := m.Put(&b2)
	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.Equal(t, "Block already exists", err.Error())
	assert.Equal(t, 1, m.Len())

	//duplicates are refused before validation
	assert.Equal(t, 1, v.Calls)
}

func TestMemStoreRejectsInvalid(t *testing.T) {
	m := NewMemStore(&mock.Validator{Err: block.ErrInvalidDanceMove})

	b := block.New(nil, "miner1", 1, block.DanceMove(9))
	err := m.Put(&b)

	require.Error(t, err)
	assert.ErrorIs(t, err, block.ErrInvalidDanceMove)
	assert.Equal(t, "Invalid block: Invalid dance move", err.Error())

	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.Equal(t, 0, m.Len())
}

func TestMemStoreConcurrentSameNonce(t *testing.T) {
	m := NewMemStore(&mock.Validator{})

	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0

	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			b := block.New(nil, "miner", 7, block.DanceMove(i%4+1))
			if err := m.Put(&b); err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, accepted)
	assert.Equal(t, 1, m.Len())
}
