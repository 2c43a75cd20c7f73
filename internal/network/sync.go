package network

import (
	"context"
	"time"

	"github.com/jpillora/backoff"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/tcfw/dancechain/internal/metrics"
	"github.com/tcfw/dancechain/internal/utils/logging"
	"github.com/tcfw/dancechain/pkg/block"
)

const (
	DefaultInterval    = time.Second
	DefaultMaxFailures = 10
)

// Store is the remote block store the miner synchronises with
type Store interface {
	Blocks(ctx context.Context) ([]block.Block, error)
	PostBlock(ctx context.Context, b *block.Block) error
}

// temporary is implemented by store errors that know whether a retry can help
type temporary interface {
	Temporary() bool
}

// Syncer shuttles mined blocks to the store and the store's block set back
// to the miner
type Syncer struct {
	store Store

	interval    time.Duration
	maxInterval time.Duration
	maxFailures int

	// mined blocks not yet delivered to the store
	pending []block.Block

	logger  *logrus.Entry
	metrics *metrics.Sync
}

func NewSyncer(store Store, opts ...SyncerOption) (*Syncer, error) {
	s := &Syncer{
		store:       store,
		interval:    DefaultInterval,
		maxFailures: DefaultMaxFailures,
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, errors.Wrap(err, "applying option")
		}
	}

	if s.maxInterval < s.interval {
		s.maxInterval = s.interval
	}
	if s.logger == nil {
		s.logger = logging.Component("sync")
	}
	if s.metrics == nil {
		s.metrics = metrics.NewSync(prometheus.NewRegistry())
	}

	return s, nil
}

// Run loops until ctx is cancelled or maxFailures consecutive cycles fail.
// batches is closed on return so the consumer sees the disconnection.
func (s *Syncer) Run(ctx context.Context, mined <-chan block.Block, batches chan<- []block.Block) error {
	defer close(batches)

	b := &backoff.Backoff{
		Min:    s.interval,
		Max:    s.maxInterval,
		Factor: 2,
	}

	failures := 0

	for {
		mined = s.collect(mined)

		wait := s.interval

		if err := s.cycle(ctx, batches); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			failures++
			s.metrics.Failures.Inc()
			s.logger.WithError(err).WithField("failures", failures).Warn("store sync failed")

			if s.maxFailures > 0 && failures >= s.maxFailures {
				return errors.Wrapf(err, "giving up after %d failed syncs", failures)
			}

			wait = b.Duration()
		} else {
			failures = 0
			b.Reset()
		}

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}

// collect moves every mined block available without blocking into the
// pending list. A closed channel is replaced with nil.
func (s *Syncer) collect(mined <-chan block.Block) <-chan block.Block {
	for {
		select {
		case b, ok := <-mined:
			if !ok {
				return nil
			}
			s.pending = append(s.pending, b)
		default:
			return mined
		}
	}
}

func (s *Syncer) cycle(ctx context.Context, batches chan<- []block.Block) error {
	if err := s.publish(ctx); err != nil {
		return err
	}

	blocks, err := s.store.Blocks(ctx)
	if err != nil {
		return errors.Wrap(err, "fetching blocks")
	}

	if !TrySend(batches, blocks) {
		s.metrics.BatchesDropped.Inc()
		s.logger.WithField("blocks", len(blocks)).Debug("miner busy, dropping batch")
	}

	return nil
}

// publish posts pending blocks in order. A block the store refuses is
// dropped; any other failure keeps it and the rest for the next cycle.
func (s *Syncer) publish(ctx context.Context) error {
	for len(s.pending) > 0 {
		b := s.pending[0]
		l := s.logger.WithFields(logrus.Fields{"nonce": b.Nonce, "miner": b.Miner})

		err := s.store.PostBlock(ctx, &b)
		switch {
		case err == nil:
			s.metrics.Published.Inc()
			l.Info("block published")
		case isRejection(err):
			s.metrics.Rejected.Inc()
			l.WithError(err).Warn("block rejected")
		default:
			return errors.Wrap(err, "publishing block")
		}

		s.pending = s.pending[1:]
	}

	s.pending = nil

	return nil
}

// Pending is the number of mined blocks waiting to be published
func (s *Syncer) Pending() int {
	return len(s.pending)
}

// isRejection reports whether err is a refusal which retrying cannot fix
func isRejection(err error) bool {
	var t temporary
	return errors.As(err, &t) && !t.Temporary()
}

// TrySend delivers v if ch has room and reports whether it did. It never
// blocks; a full channel means v is dropped.
func TrySend[T any](ch chan<- T, v T) bool {
	select {
	case ch <- v:
		return true
	default:
		return false
	}
}
