package messaging

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	published = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_messages_published_total",
			Help: "Messages handed to the producer",
		},
		[]string{"topic", "status"},
	)

	consumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_messages_consumed_total",
			Help: "Messages processed by consumers",
		},
		[]string{"topic", "status"},
	)

	handleDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_message_handle_duration_seconds",
			Help:    "Time spent in message handlers",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"topic"},
	)
)
