package chain

import (
	"github.com/tcfw/dancechain/pkg/block"
)

// Node owns a single block and its children in insertion order
type Node struct {
	block    block.Block
	hash     block.Hash
	children []*Node
}

func newNode(b block.Block) *Node {
	return &Node{
		block: b,
		hash:  b.Hash(),
	}
}

func (n *Node) Block() block.Block {
	return n.block
}

func (n *Node) Hash() block.Hash {
	return n.hash
}

func (n *Node) Children() []*Node {
	return n.children
}

func (n *Node) insert(b block.Block) *Node {
	c := newNode(b)
	n.children = append(n.children, c)
	return c
}

// find performs a pre-order, left to right search for the first node
// hashing to parent
func (n *Node) find(parent block.Hash) *Node {
	if n.hash == parent {
		return n
	}

	for _, c := range n.children {
		if f := c.find(parent); f != nil {
			return f
		}
	}

	return nil
}

func (n *Node) depth() int {
	deepest := 0
	for _, c := range n.children {
		if d := c.depth(); d > deepest {
			deepest = d
		}
	}

	return deepest + 1
}

// deepestLeaf returns the last leaf, in depth-first order, among those
// farthest from n along with its depth
func (n *Node) deepestLeaf(depth int) (*Node, int) {
	if len(n.children) == 0 {
		return n, depth
	}

	var best *Node
	bestDepth := 0
	for _, c := range n.children {
		if l, d := c.deepestLeaf(depth + 1); d >= bestDepth {
			best, bestDepth = l, d
		}
	}

	return best, bestDepth
}

func (n *Node) remove(b *block.Block) {
	kept := n.children[:0]
	for _, c := range n.children {
		c.remove(b)
		if !c.block.Equal(*b) {
			kept = append(kept, c)
		}
	}

	for i := len(kept); i < len(n.children); i++ {
		n.children[i] = nil
	}
	n.children = kept
}

func (n *Node) walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.walk(fn)
	}
}

// Tree is a rooted, fork tolerant tree of blocks linked by parent hash.
// It is not safe for concurrent use; a single goroutine owns it.
type Tree struct {
	root *Node

	// nonces of every assimilated block. The nonce is the identity key,
	// so a different block reusing a known nonce is treated as already
	// processed.
	seen   map[uint64]struct{}
	filter *hashFilter
}

// NewTree creates a single node tree rooted at genesis. Genesis validity
// is the caller's responsibility.
func NewTree(genesis block.Block) *Tree {
	t := &Tree{}
	t.reset(newNode(genesis.Clone()))

	return t
}

func (t *Tree) reset(root *Node) {
	t.root = root
	t.seen = make(map[uint64]struct{})
	t.filter = newHashFilter()

	root.walk(func(n *Node) {
		t.seen[n.block.Nonce] = struct{}{}
		t.filter.Add(n.hash)
	})
}

func (t *Tree) Root() *Node {
	return t.root
}

func (t *Tree) Genesis() block.Block {
	return t.root.block
}

// Len returns the number of blocks in the tree
func (t *Tree) Len() int {
	return len(t.seen)
}

// Contains reports whether a block with the given nonce has been assimilated
func (t *Tree) Contains(nonce uint64) bool {
	_, ok := t.seen[nonce]
	return ok
}

// Find returns the first node, in pre-order left to right, whose hash
// equals parentHash
func (t *Tree) Find(parentHash []byte) *Node {
	if len(parentHash) != block.HashSize || !t.filter.MayContain(parentHash) {
		return nil
	}

	return t.root.find(block.Hash(parentHash))
}

// Merge assimilates candidates into the tree. Passes over the remaining
// candidates repeat until one makes no progress, so children may arrive
// before their parents within a batch. Candidates whose nonce is already
// known are dropped. The unassimilated orphans are returned.
func (t *Tree) Merge(candidates []block.Block) []block.Block {
	pending := candidates

	progress := true
	for progress && len(pending) > 0 {
		progress = false
		remaining := make([]block.Block, 0, len(pending))

		for _, b := range pending {
			if t.Contains(b.Nonce) {
				continue
			}

			if t.insert(b) {
				progress = true
				continue
			}

			remaining = append(remaining, b)
		}

		pending = remaining
	}

	return pending
}

func (t *Tree) insert(b block.Block) bool {
	parent := t.Find(b.ParentHash)
	if parent == nil {
		return false
	}

	n := parent.insert(b.Clone())
	t.seen[b.Nonce] = struct{}{}
	t.filter.Add(n.hash)

	return true
}

// Chains lists every root to leaf path, root first, in depth-first
// child insertion order
func (t *Tree) Chains() [][]block.Block {
	chains := [][]block.Block{}
	collectChains(t.root, nil, &chains)

	return chains
}

func collectChains(n *Node, current []block.Block, chains *[][]block.Block) {
	chain := make([]block.Block, len(current), len(current)+1)
	copy(chain, current)
	chain = append(chain, n.block)

	if len(n.children) == 0 {
		*chains = append(*chains, chain)
		return
	}

	for _, c := range n.children {
		collectChains(c, chain, chains)
	}
}

// LongestChain returns the chain with the most blocks. Among chains of
// equal length the last one in traversal order wins.
func (t *Tree) LongestChain() []block.Block {
	var longest []block.Block
	for _, c := range t.Chains() {
		if len(c) >= len(longest) {
			longest = c
		}
	}

	return longest
}

// Tip returns the last block of the longest chain without building the
// chains. Ties go to the leaf visited last, as in LongestChain.
func (t *Tree) Tip() block.Block {
	tip, _ := t.root.deepestLeaf(1)
	return tip.block
}

// Depth is the block count of the longest root to leaf path
func (t *Tree) Depth() int {
	return t.root.depth()
}

// Remove drops every non-root node equal to b along with its subtree.
// Mining and sync never remove blocks.
func (t *Tree) Remove(b block.Block) {
	t.root.remove(&b)
	t.reset(t.root)
}
