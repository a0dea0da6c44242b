package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ShiprocketRequests counts outbound Shiprocket calls by endpoint and
	// outcome ("ok", "error").
	ShiprocketRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shiprocket_requests_total",
		Help: "Outbound Shiprocket API calls",
	}, []string{"endpoint", "outcome"})

	OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders persisted after successful payment verification",
	})

	OrdersCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_cancelled_total",
		Help: "Orders cancelled locally",
	})
)
