// Package metrics instruments the verifiable-execution core with
// Prometheus collectors. Registry is a fixed set of named counters and
// histograms grouped on one struct, all created by NewRegistry; the
// collectors themselves are real github.com/prometheus/client_golang
// instruments rather than a hand-rolled counter type, so the core can be
// scraped by the same exporter the rest of the node uses.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Registry groups the counters and histograms the core's packages report
// against. One Registry is created per process and threaded into
// vsal/hostdb/txtree call sites that want to observe themselves.
type Registry struct {
	CausalityViolations prometheus.Counter
	OrderingViolations  prometheus.Counter
	EnvMismatches       prometheus.Counter

	AccountReads  prometheus.Counter
	AccountWrites prometheus.Counter
	StorageReads  prometheus.Counter
	StorageWrites prometheus.Counter

	LogMergeDuration prometheus.Histogram
	LogMergeSize     prometheus.Histogram

	TreeMerges prometheus.Counter
}

// NewRegistry builds a Registry with all collectors registered against
// reg. Passing prometheus.NewRegistry() isolates metrics per test; passing
// prometheus.DefaultRegisterer wires into the process-wide /metrics
// endpoint.
func NewRegistry(reg prometheus.Registerer) *Registry {
	r := &Registry{
		CausalityViolations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "amethyst",
			Subsystem: "vsal",
			Name:      "causality_violations_total",
			Help:      "Fatal causality violations raised by Access.Merge or VSAL add_read.",
		}),
		OrderingViolations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "amethyst",
			Subsystem: "txtree",
			Name:      "ordering_violations_total",
			Help:      "Fatal ordering violations raised by TxTree.Merge's table.",
		}),
		EnvMismatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "amethyst",
			Subsystem: "txtree",
			Name:      "env_mismatches_total",
			Help:      "TxTree merges rejected for differing envs.",
		}),
		AccountReads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "amethyst", Subsystem: "vsal", Name: "account_reads_total",
			Help: "Account key-space reads recorded into a VSAL.",
		}),
		AccountWrites: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "amethyst", Subsystem: "vsal", Name: "account_writes_total",
			Help: "Account key-space writes recorded into a VSAL.",
		}),
		StorageReads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "amethyst", Subsystem: "vsal", Name: "storage_reads_total",
			Help: "Storage key-space reads recorded into a VSAL.",
		}),
		StorageWrites: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "amethyst", Subsystem: "vsal", Name: "storage_writes_total",
			Help: "Storage key-space writes recorded into a VSAL.",
		}),
		LogMergeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "amethyst", Subsystem: "vsal", Name: "merge_duration_seconds",
			Help:    "Wall time of SealedLog.Merge calls.",
			Buckets: prometheus.DefBuckets,
		}),
		LogMergeSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "amethyst", Subsystem: "vsal", Name: "merge_entries",
			Help:    "Total entries (accounts+storage+blockhashes) produced by a merge.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 16),
		}),
		TreeMerges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "amethyst", Subsystem: "txtree", Name: "merges_total",
			Help: "Successful TxTree.Merge calls.",
		}),
	}
	reg.MustRegister(
		r.CausalityViolations, r.OrderingViolations, r.EnvMismatches,
		r.AccountReads, r.AccountWrites, r.StorageReads, r.StorageWrites,
		r.LogMergeDuration, r.LogMergeSize, r.TreeMerges,
	)
	return r
}
