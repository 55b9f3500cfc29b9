package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CollectionSource reports the size of the locally held partner collection
// and whether a bulk fetch is in flight.
type CollectionSource interface {
	Len() int
	Loading() bool
}

// RegisterCollectionMetrics exposes the partner collection state as Prometheus gauges.
func RegisterCollectionMetrics(reg prometheus.Registerer, src CollectionSource) error {
	collectors := []prometheus.Collector{
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "partners_collection_size",
			Help: "Number of partner records held in memory",
		}, func() float64 {
			return float64(src.Len())
		}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "partners_collection_loading",
			Help: "1 while a bulk fetch from the remote store is in flight",
		}, func() float64 {
			if src.Loading() {
				return 1
			}
			return 0
		}),
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
