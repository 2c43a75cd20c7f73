package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tcfw/dancechain/pkg/block"
)

func TestHashFilter(t *testing.T) {
	f := newHashFilter()

	b1 := block.New(nil, "miner1", 1, block.Y)
	b2 := block.New(nil, "miner2", 2, block.Y)

	f.Add(b1.Hash())

	assert.True(t, f.MayContain(b1.Hash().Bytes()))
	assert.False(t, f.MayContain(b2.Hash().Bytes()))
	assert.False(t, f.MayContain(nil))
}
