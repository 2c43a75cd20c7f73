package storage

import "github.com/pkg/errors"

var (
	ErrAlreadyExists = errors.New("Block already exists")
)

// ValidationError is returned by Put when the validator refuses a block
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return "Invalid block: " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
