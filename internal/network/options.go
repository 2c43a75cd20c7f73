package network

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/tcfw/dancechain/internal/metrics"
)

type SyncerOption func(*Syncer) error

// WithInterval sets the delay between successful cycles and the first
// delay after a failure
func WithInterval(d time.Duration) SyncerOption {
	return func(s *Syncer) error {
		if d <= 0 {
			return errors.New("sync interval must be positive")
		}
		s.interval = d
		return nil
	}
}

// WithMaxInterval caps the delay between failing cycles. Equal to the
// interval by default which keeps polling at a fixed rate.
func WithMaxInterval(d time.Duration) SyncerOption {
	return func(s *Syncer) error {
		s.maxInterval = d
		return nil
	}
}

// WithMaxFailures sets how many consecutive failing cycles end Run.
// 0 retries forever.
func WithMaxFailures(n int) SyncerOption {
	return func(s *Syncer) error {
		if n < 0 {
			return errors.New("max failures cannot be negative")
		}
		s.maxFailures = n
		return nil
	}
}

func WithLogger(l *logrus.Entry) SyncerOption {
	return func(s *Syncer) error {
		s.logger = l
		return nil
	}
}

func WithMetrics(m *metrics.Sync) SyncerOption {
	return func(s *Syncer) error {
		s.metrics = m
		return nil
	}
}
