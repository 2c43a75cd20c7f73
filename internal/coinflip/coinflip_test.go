package coinflip

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fixed uint64

func (f fixed) Uint64() uint64 { return uint64(f) }

func TestPick(t *testing.T) {
	items := []string{"Y", "M", "C", "A"}

	assert.Equal(t, "Y", Pick(fixed(0), items))
	assert.Equal(t, "A", Pick(fixed(3), items))
	assert.Equal(t, "M", Pick(fixed(5), items))
}

func TestPickCoversAll(t *testing.T) {
	src := rand.New(rand.NewSource(1))
	items := []int{1, 2, 3, 4}

	seen := map[int]int{}
	for i := 0; i < 1000; i++ {
		seen[Pick(src, items)]++
	}

	assert.Len(t, seen, 4)
	for _, n := range seen {
		assert.Greater(t, n, 150)
	}
}
