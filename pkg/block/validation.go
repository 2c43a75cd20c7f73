package block

import "github.com/pkg/errors"

var (
	ErrInvalidMiner       = errors.New("Invalid miner name")
	ErrInvalidDanceMove   = errors.New("Invalid dance move")
	ErrInvalidProofOfWork = errors.New("Invalid proof of work")
)

// Rules are the chain-wide parameters a block is validated against
type Rules struct {
	Difficulty uint32

	// PlaceholderMiner is the default miner name nobody is allowed to mine
	// under. Empty disables the check.
	PlaceholderMiner string
}

func (b Block) IsValid(r Rules) error {
	if r.PlaceholderMiner != "" && b.Miner == r.PlaceholderMiner {
		return ErrInvalidMiner
	}

	if b.Miner == GenesisMiner && len(b.ParentHash) != 0 {
		return ErrInvalidMiner
	}

	if !b.DanceMove.Valid() {
		return ErrInvalidDanceMove
	}

	h := b.Hash()
	if !SatisfiesDifficulty(h[:], r.Difficulty) {
		return ErrInvalidProofOfWork
	}

	return nil
}

func (b Block) IsGenesis(difficulty uint32) bool {
	if len(b.ParentHash) != 0 || b.Miner != GenesisMiner {
		return false
	}

	h := b.Hash()
	return SatisfiesDifficulty(h[:], difficulty)
}
