package chain

import (
	"github.com/bits-and-blooms/bloom/v3"
	"github.com/tcfw/dancechain/pkg/block"
)

const (
	bloomCapacity = 1 << 16
	falsePositive = 0.01
)

// hashFilter answers "definitely not in the tree" for parent lookups so
// orphans skip the full depth-first search. Positives still go through
// the search, so false positives only cost time.
type hashFilter struct {
	b *bloom.BloomFilter
}

func newHashFilter() *hashFilter {
	return &hashFilter{b: bloom.NewWithEstimates(bloomCapacity, falsePositive)}
}

func (f *hashFilter) Add(h block.Hash) {
	f.b.Add(h[:])
}

func (f *hashFilter) MayContain(h []byte) bool {
	return f.b.Test(h)
}
