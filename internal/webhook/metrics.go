package webhook

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Rejection reasons recorded in cronofy_webhook_rejected_total.
const (
	reasonSignature = "signature"
	reasonBody      = "body"
	reasonMethod    = "method"
	reasonHandler   = "handler"

	reasonUnavailable = "unavailable"
)

type metrics struct {
	notifications *prometheus.CounterVec
	rejected      *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cronofy_webhook_notifications_total",
			Help: "Verified push notifications received, by notification type.",
		}, []string{"type"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cronofy_webhook_rejected_total",
			Help: "Push notification requests that were not accepted, by reason.",
		}, []string{"reason"}),
	}
	reg.MustRegister(m.notifications, m.rejected)
	return m
}
