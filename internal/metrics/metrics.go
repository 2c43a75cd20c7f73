package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dancechain"

// Store collects ValidationGate outcomes
type Store struct {
	Accepted prometheus.Counter
	Rejected *prometheus.CounterVec
	Blocks   prometheus.Gauge
	Requests *prometheus.CounterVec
}

func NewStore(reg prometheus.Registerer) *Store {
	f := promauto.With(reg)

	return &Store{
		Accepted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "blocks_accepted_total",
			Help:      "Blocks accepted by the store",
		}),
		Rejected: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "blocks_rejected_total",
			Help:      "Blocks rejected by the store",
		}, []string{"reason"}),
		Blocks: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "blocks",
			Help:      "Blocks currently held by the store",
		}),
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of API requests",
		}, []string{"method", "path", "status"}),
	}
}

// Miner collects mining loop activity
type Miner struct {
	Attempts       prometheus.Counter
	Mined          prometheus.Counter
	Batches        prometheus.Counter
	OrphansDropped prometheus.Counter
	Depth          prometheus.Gauge
}

func NewMiner(reg prometheus.Registerer) *Miner {
	f := promauto.With(reg)

	return &Miner{
		Attempts: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "miner",
			Name:      "hash_attempts_total",
			Help:      "Nonces drawn by the proof-of-work search",
		}),
		Mined: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "miner",
			Name:      "blocks_mined_total",
			Help:      "Blocks solved locally, genesis included",
		}),
		Batches: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "miner",
			Name:      "batches_merged_total",
			Help:      "Inbound block batches merged into the tree",
		}),
		OrphansDropped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "miner",
			Name:      "orphans_dropped_total",
			Help:      "Blocks left unassimilated after a merge",
		}),
		Depth: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "miner",
			Name:      "tree_depth",
			Help:      "Length of the longest chain",
		}),
	}
}

// Sync collects network-sync activity
type Sync struct {
	Published      prometheus.Counter
	Rejected       prometheus.Counter
	Failures       prometheus.Counter
	BatchesDropped prometheus.Counter
}

func NewSync(reg prometheus.Registerer) *Sync {
	f := promauto.With(reg)

	return &Sync{
		Published: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "blocks_published_total",
			Help:      "Mined blocks accepted by the store",
		}),
		Rejected: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "blocks_rejected_total",
			Help:      "Mined blocks rejected by the store",
		}),
		Failures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "transport_failures_total",
			Help:      "Failed requests to the store",
		}),
		BatchesDropped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "batches_dropped_total",
			Help:      "Fetched batches dropped because the miner had not consumed the previous one",
		}),
	}
}
