package block

import (
	"encoding/binary"

	"github.com/minio/sha256-simd"
	"github.com/multiformats/go-multibase"
)

const (
	// GenesisMiner is the reserved miner identity of a genesis block
	GenesisMiner = "Genesis"

	HashSize = sha256.Size
)

// Hash is the SHA-256 digest of a block
type Hash [HashSize]byte

func (h Hash) Bytes() []byte {
	return h[:]
}

// String renders the hash as base58btc multibase
func (h Hash) String() string {
	s, err := multibase.Encode(multibase.Base58BTC, h[:])
	if err != nil {
		return ""
	}

	return s
}

// Block is a single hash-linked record of the ledger. The nonce doubles as
// the block's identity key for deduplication and storage, so two distinct
// blocks sharing a nonce are indistinguishable to the tree and the store.
type Block struct {
	ParentHash Bytes     `json:"parent_hash" msgpack:"parent_hash"`
	Miner      string    `json:"miner" msgpack:"miner"`
	Nonce      uint64    `json:"nonce" msgpack:"nonce"`
	DanceMove  DanceMove `json:"dancemove" msgpack:"dancemove"`
}

func New(parent []byte, miner string, nonce uint64, dm DanceMove) Block {
	return Block{
		ParentHash: Bytes(parent),
		Miner:      miner,
		Nonce:      nonce,
		DanceMove:  dm,
	}
}

// NewGenesis returns an unsolved genesis block
func NewGenesis(dm DanceMove) Block {
	return New(nil, GenesisMiner, 0, dm)
}

// Hash computes SHA-256(parent_hash || miner || nonce (BE u64) || dancemove)
func (b Block) Hash() Hash {
	var nonce [8]byte
	binary.BigEndian.PutUint64(nonce[:], b.Nonce)

	h := sha256.New()
	h.Write(b.ParentHash)
	h.Write([]byte(b.Miner))
	h.Write(nonce[:])
	h.Write([]byte{byte(b.DanceMove)})

	var out Hash
	copy(out[:], h.Sum(nil))

	return out
}

// IsChildOf reports whether b declares parent as its parent
func (b Block) IsChildOf(parent Hash) bool {
	return len(b.ParentHash) == HashSize && Hash(b.ParentHash) == parent
}

func (b Block) Equal(o Block) bool {
	return b.Miner == o.Miner &&
		b.Nonce == o.Nonce &&
		b.DanceMove == o.DanceMove &&
		b.ParentHash.Equal(o.ParentHash)
}

func (b Block) Clone() Block {
	c := b
	if b.ParentHash != nil {
		c.ParentHash = append(Bytes{}, b.ParentHash...)
	}

	return c
}
