package mock

import (
	"github.com/tcfw/dancechain/pkg/block"
)

// Validator accepts everything unless Err is set
type Validator struct {
	Err   error
	Calls int
}

func (m *Validator) IsBlockValid(_ *block.Block) error {
	m.Calls++
	return m.Err
}
