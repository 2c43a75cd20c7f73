package storage

import (
	"encoding/base64"

	"github.com/pkg/errors"
	"github.com/tcfw/dancechain/pkg/block"
	"github.com/vmihailenco/msgpack/v5"
)

// GenesisInfo pins the genesis block a chain starts from
type GenesisInfo struct {
	ChainID    string      `msgpack:"c"`
	Difficulty uint32      `msgpack:"d"`
	Block      block.Block `msgpack:"b"`
}

func EncodeGenesisInfo(g *GenesisInfo) (string, error) {
	b, err := msgpack.Marshal(g)
	if err != nil {
		return "", errors.Wrap(err, "marshaling genesis info")
	}

	return base64.StdEncoding.EncodeToString(b), nil
}

func DecodeGenesisInfo(s string) (*GenesisInfo, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(err, "b64 decoding genesis config")
	}

	g := &GenesisInfo{}
	if err := msgpack.Unmarshal(raw, g); err != nil {
		return nil, errors.Wrap(err, "unmarshaling genesis info")
	}

	if !g.Block.IsGenesis(g.Difficulty) {
		return nil, errors.New("pinned block is not a valid genesis")
	}

	return g, nil
}

// SolveGenesisInfo solves a fresh genesis block at difficulty. The search is
// unbounded.
func SolveGenesisInfo(chainID string, difficulty uint32, src block.Source) *GenesisInfo {
	g := block.NewGenesis(block.Y)
	g.Solve(src, difficulty, block.Unbounded)

	return &GenesisInfo{
		ChainID:    chainID,
		Difficulty: difficulty,
		Block:      g,
	}
}
