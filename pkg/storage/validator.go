package storage

import (
	"github.com/tcfw/dancechain/pkg/block"
)

type Validator interface {
	IsBlockValid(*block.Block) error
}

var _ Validator = (*RulesValidator)(nil)

// RulesValidator checks blocks against the chain rules
type RulesValidator struct {
	rules block.Rules
}

func NewRulesValidator(r block.Rules) *RulesValidator {
	return &RulesValidator{r}
}

func (v *RulesValidator) Rules() block.Rules {
	return v.rules
}

func (v *RulesValidator) IsBlockValid(b *block.Block) error {
	return b.IsValid(v.rules)
}
