package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Identifiers handed out, partitioned by target collection
	IDsAllocated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aura_ids_allocated_total",
			Help: "Total number of sequential identifiers allocated",
		},
		[]string{"collection"},
	)

	// Allocation failures partitioned by reason (exhausted, storage)
	IDAllocationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aura_id_allocation_failures_total",
			Help: "Total number of failed identifier allocations",
		},
		[]string{"reason"},
	)

	// Per-participant projection writes partitioned by group kind, op and result
	FanOutWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aura_fanout_writes_total",
			Help: "Total number of per-participant membership writes",
		},
		[]string{"kind", "op", "result"},
	)

	// Places API calls partitioned by outcome
	PlacesRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aura_places_requests_total",
			Help: "Total number of upstream places API requests",
		},
		[]string{"result"},
	)
)
