package miner

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/tcfw/dancechain/internal/metrics"
	"github.com/tcfw/dancechain/pkg/block"
)

type Option func(*Miner) error

func WithName(name string) Option {
	return func(m *Miner) error {
		if name == "" {
			return errors.New("miner name cannot be empty")
		}
		m.name = name
		return nil
	}
}

func WithDifficulty(d uint32) Option {
	return func(m *Miner) error {
		m.difficulty = d
		return nil
	}
}

// WithPlaceholder sets the miner name the store refuses
func WithPlaceholder(name string) Option {
	return func(m *Miner) error {
		m.placeholder = name
		return nil
	}
}

// WithMaxIterations caps the nonces drawn per extension attempt
func WithMaxIterations(n uint64) Option {
	return func(m *Miner) error {
		if n == block.Unbounded {
			return errors.New("max iterations must be greater than 0")
		}
		m.maxIterations = n
		return nil
	}
}

// WithDelay sets the pause between loop iterations
func WithDelay(d time.Duration) Option {
	return func(m *Miner) error {
		if d < 0 {
			return errors.New("delay cannot be negative")
		}
		m.delay = d
		return nil
	}
}

// WithSource sets the randomness used for nonces and dance moves
func WithSource(src block.Source) Option {
	return func(m *Miner) error {
		m.src = src
		return nil
	}
}

func WithLogger(l *logrus.Entry) Option {
	return func(m *Miner) error {
		m.logger = l
		return nil
	}
}

func WithMetrics(mm *metrics.Miner) Option {
	return func(m *Miner) error {
		m.metrics = mm
		return nil
	}
}

// WithGenesis pins the root of the tree instead of adopting one from the store
func WithGenesis(g block.Block) Option {
	return func(m *Miner) error {
		m.genesis = &g
		return nil
	}
}
