package miner

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/tcfw/dancechain/internal/coinflip"
	"github.com/tcfw/dancechain/internal/metrics"
	"github.com/tcfw/dancechain/internal/utils/logging"
	"github.com/tcfw/dancechain/pkg/block"
	"github.com/tcfw/dancechain/pkg/chain"
)

const (
	DefaultDifficulty    uint32 = 25
	DefaultPlaceholder          = "changemeyoufool"
	DefaultMaxIterations uint64 = 1000
	DefaultDelay                = 10 * time.Millisecond
)

// Miner extends the longest chain it knows of. It owns its tree and is
// driven by a single goroutine.
type Miner struct {
	name          string
	placeholder   string
	difficulty    uint32
	maxIterations uint64
	delay         time.Duration
	src           block.Source
	genesis       *block.Block

	tree *chain.Tree

	logger  *logrus.Entry
	metrics *metrics.Miner
}

func New(opts ...Option) (*Miner, error) {
	m := &Miner{
		placeholder:   DefaultPlaceholder,
		difficulty:    DefaultDifficulty,
		maxIterations: DefaultMaxIterations,
		delay:         DefaultDelay,
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, errors.Wrap(err, "applying option")
		}
	}

	if m.name == "" {
		m.name = m.placeholder
	}
	if m.name == m.placeholder {
		return nil, errors.Errorf("miner name %q is the placeholder and every block would be rejected, pick a name", m.name)
	}
	if m.genesis != nil && !m.genesis.IsGenesis(m.difficulty) {
		return nil, errors.New("pinned genesis is not a valid genesis block at this difficulty")
	}

	if m.src == nil {
		m.src = coinflip.NewSource()
	}
	if m.logger == nil {
		m.logger = logging.Component("miner")
	}
	if m.metrics == nil {
		m.metrics = metrics.NewMiner(prometheus.NewRegistry())
	}

	return m, nil
}

func (m *Miner) Name() string {
	return m.name
}

// Tree is nil until the first batch arrives
func (m *Miner) Tree() *chain.Tree {
	return m.tree
}

// Run steps until batches is closed, returning nil, or ctx is done
func (m *Miner) Run(ctx context.Context, batches <-chan []block.Block, out chan<- block.Block) error {
	m.logger.WithFields(logrus.Fields{
		"name":       m.name,
		"difficulty": m.difficulty,
	}).Info("starting miner")

	for {
		if !m.Step(batches, out) {
			m.logger.Warn("network connection lost")
			return nil
		}

		if err := m.pause(ctx); err != nil {
			return err
		}
	}
}

func (m *Miner) pause(ctx context.Context) error {
	t := time.NewTimer(m.delay)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Step runs one iteration: take a pending batch if there is one, then try
// once to extend the tip. It reports false once batches is closed.
func (m *Miner) Step(batches <-chan []block.Block, out chan<- block.Block) bool {
	select {
	case batch, ok := <-batches:
		if !ok {
			return false
		}
		m.receive(batch, out)
	default:
	}

	if m.tree != nil {
		m.extend(out)
	}

	return true
}

func (m *Miner) receive(batch []block.Block, out chan<- block.Block) {
	m.metrics.Batches.Inc()
	m.logger.WithField("blocks", len(batch)).Debug("received blocks")

	if m.tree == nil {
		m.tree = chain.NewTree(m.root(batch, out))
	}

	orphans := m.tree.Merge(batch)
	if len(orphans) > 0 {
		m.metrics.OrphansDropped.Add(float64(len(orphans)))
		m.logger.WithField("orphans", len(orphans)).Debug("dropping orphans")
	}

	m.metrics.Depth.Set(float64(m.tree.Depth()))
}

// root picks the tree root: the pinned genesis, else the first genesis in
// the batch, else a freshly solved one which is published
func (m *Miner) root(batch []block.Block, out chan<- block.Block) block.Block {
	if m.genesis != nil {
		for i := range batch {
			if batch[i].Equal(*m.genesis) {
				return *m.genesis
			}
		}

		m.logger.Info("publishing pinned genesis")
		out <- m.genesis.Clone()
		return *m.genesis
	}

	for i := range batch {
		if batch[i].IsGenesis(m.difficulty) {
			m.logger.WithField("hash", batch[i].Hash()).Info("adopting genesis from store")
			return batch[i]
		}
	}

	m.logger.Info("no genesis found, creating one")

	g := block.NewGenesis(block.Y)
	h, _ := g.Solve(m.counted(), m.difficulty, block.Unbounded)

	m.metrics.Mined.Inc()
	m.logger.WithField("hash", h).Info("created genesis")
	out <- g

	return g
}

func (m *Miner) extend(out chan<- block.Block) {
	dm := coinflip.Pick(m.src, block.DanceMoves())

	tip := m.tree.Tip()
	parent := tip.Hash()

	b := block.New(parent.Bytes(), m.name, 0, dm)

	src := m.counted()
	h, ok := b.Solve(src, m.difficulty, m.maxIterations)
	m.metrics.Attempts.Add(float64(src.n))
	if !ok {
		return
	}

	m.metrics.Mined.Inc()
	m.logger.WithFields(logrus.Fields{
		"nonce":     b.Nonce,
		"dancemove": dm,
		"hash":      h,
	}).Info("mined block")

	out <- b
}

func (m *Miner) counted() *countingSource {
	return &countingSource{src: m.src}
}

type countingSource struct {
	src block.Source
	n   uint64
}

func (c *countingSource) Uint64() uint64 {
	c.n++
	return c.src.Uint64()
}
