package storage

import (
	"sync"

	"github.com/tcfw/dancechain/pkg/block"
)

// MemStore is the store side gate: a block is kept only if its nonce is
// unseen and the validator accepts it. Blocks are keyed by nonce and are
// never evicted.
type MemStore struct {
	mu sync.RWMutex

	blocks map[uint64]block.Block
	order  []uint64

	validator Validator
}

func NewMemStore(v Validator) *MemStore {
	return &MemStore{
		blocks:    make(map[uint64]block.Block),
		validator: v,
	}
}

// Put validates and stores b. The duplicate check, validation and insert
// happen under a single lock so concurrent publications of one nonce
// cannot both succeed.
func (m *MemStore) Put(b *block.Block) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.blocks[b.Nonce]; ok {
		return ErrAlreadyExists
	}

	if err := m.validator.IsBlockValid(b); err != nil {
		return &ValidationError{err}
	}

	m.blocks[b.Nonce] = b.Clone()
	m.order = append(m.order, b.Nonce)

	return nil
}

// All returns every accepted block. Callers must not rely on the order.
func (m *MemStore) All() []block.Block {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := make([]block.Block, 0, len(m.order))
	for _, n := range m.order {
		all = append(all, m.blocks[n])
	}

	return all
}

func (m *MemStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.blocks)
}
