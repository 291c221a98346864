// Package metrics exposes Prometheus instrumentation for tree
// operations and the block-store I/O that drives them, grounded on the
// teacher's API metrics package but re-pointed at the suspendable I/O
// protocol (reads, allocations, operation latency) instead of HTTP
// request handling.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Recorder holds every Prometheus metric ixtree reports.
type Recorder struct {
	opsTotal       *prometheus.CounterVec
	opDuration     *prometheus.HistogramVec
	readsTotal     prometheus.Counter
	allocatesTotal prometheus.Counter
	bytesRead      prometheus.Counter
	bytesAllocated prometheus.Counter
	treeRootOffset prometheus.Gauge
	nodesVisited   *prometheus.HistogramVec
	treeHeight     prometheus.Gauge
	splitsTotal    *prometheus.CounterVec
}

// NewRecorder creates and registers every metric a Recorder reports.
func NewRecorder() *Recorder {
	return &Recorder{
		opsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ixtree_operations_total",
				Help: "Total number of tree operations by kind and outcome.",
			},
			[]string{"operation", "status"},
		),
		opDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ixtree_operation_duration_seconds",
				Help:    "Tree operation duration in seconds, from call to the last ResumeRead/ResumeAlloc.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		readsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "ixtree_block_reads_total",
				Help: "Total number of ReadBlock suspensions satisfied.",
			},
		),
		allocatesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "ixtree_block_allocates_total",
				Help: "Total number of Allocate suspensions satisfied.",
			},
		),
		bytesRead: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "ixtree_bytes_read_total",
				Help: "Total bytes read from the block store.",
			},
		),
		bytesAllocated: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "ixtree_bytes_allocated_total",
				Help: "Total bytes reserved via Allocate.",
			},
		),
		treeRootOffset: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "ixtree_root_offset",
				Help: "Current root node offset of the tree.",
			},
		),
		nodesVisited: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ixtree_nodes_visited",
				Help:    "Number of nodes (ReadBlock suspensions) visited per operation call.",
				Buckets: prometheus.LinearBuckets(1, 1, 10),
			},
			[]string{"operation"},
		),
		treeHeight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "ixtree_height",
				Help: "Current height of the tree, in levels from root to leaf.",
			},
		),
		splitsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ixtree_splits_total",
				Help: "Total number of node splits by kind (leaf, internal, root).",
			},
			[]string{"kind"},
		),
	}
}

// RecordOperation records one completed tree operation (find, insert,
// append, find_gt, iter, last).
func (r *Recorder) RecordOperation(operation string, success bool, duration time.Duration) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	r.opsTotal.WithLabelValues(operation, status).Inc()
	r.opDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordRead records one satisfied ReadBlock suspension.
func (r *Recorder) RecordRead(bytes int) {
	r.readsTotal.Inc()
	r.bytesRead.Add(float64(bytes))
}

// RecordAllocate records one satisfied Allocate suspension.
func (r *Recorder) RecordAllocate(bytes int) {
	r.allocatesTotal.Inc()
	r.bytesAllocated.Add(float64(bytes))
}

// SetRootOffset updates the current root offset gauge.
func (r *Recorder) SetRootOffset(offset int64) {
	r.treeRootOffset.Set(float64(offset))
}

// RecordNodesVisited records how many nodes one operation call (most
// usefully Find/FindGT) descended through before reaching Done.
func (r *Recorder) RecordNodesVisited(operation string, count int) {
	r.nodesVisited.WithLabelValues(operation).Observe(float64(count))
}

// SetTreeHeight updates the current tree-height gauge.
func (r *Recorder) SetTreeHeight(height int) {
	r.treeHeight.Set(float64(height))
}

// RecordSplit records one node split of the given kind: "leaf",
// "internal", or "root" (see btree.SplitLeaf/SplitInternal/SplitRoot).
func (r *Recorder) RecordSplit(kind string) {
	r.splitsTotal.WithLabelValues(kind).Inc()
}
