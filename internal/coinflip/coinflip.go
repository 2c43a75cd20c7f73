package coinflip

import (
	"math/rand"
	"time"

	"github.com/tcfw/dancechain/pkg/block"
)

// NewSource returns a time seeded source. It is not safe for concurrent use.
func NewSource() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Pick returns a pseudo uniformly chosen element of items, which must not
// be empty
func Pick[T any](src block.Source, items []T) T {
	return items[src.Uint64()%uint64(len(items))]
}
