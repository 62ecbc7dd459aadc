package piecestorage

import "github.com/rcrowley/go-metrics"

// metricsSet is the small set of swarm-facing counters/gauges exposed by
// a PieceStorage, registered in their own registry so a caller embedding
// several downloads does not collide names.
type metricsSet struct {
	registry        metrics.Registry
	piecesCompleted metrics.Counter
	piecesInFlight  metrics.Gauge
	completedLength metrics.Gauge
	rarityIndexSize metrics.Gauge
	piecesEvicted   metrics.Counter
}

func newMetricsSet() *metricsSet {
	r := metrics.NewRegistry()
	return &metricsSet{
		registry:        r,
		piecesCompleted: metrics.NewRegisteredCounter("pieces_completed", r),
		piecesInFlight:  metrics.NewRegisteredGauge("pieces_in_flight", r),
		completedLength: metrics.NewRegisteredGauge("completed_length", r),
		rarityIndexSize: metrics.NewRegisteredGauge("rarity_index_size", r),
		piecesEvicted:   metrics.NewRegisteredCounter("pieces_evicted", r),
	}
}

// Registry exposes the underlying go-metrics registry so a process can
// wire it into its own reporting (graphite, statsd, an HTTP debug page).
func (s *PieceStorage) Registry() metrics.Registry { return s.metrics.registry }
