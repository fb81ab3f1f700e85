package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	CheckoutSessionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "intake",
			Subsystem: "checkout",
			Name:      "sessions_total",
			Help:      "Checkout session requests by outcome",
		},
		[]string{"outcome"},
	)

	WebhookEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "intake",
			Subsystem: "webhook",
			Name:      "events_total",
			Help:      "Webhook deliveries by event type and outcome",
		},
		[]string{"type", "outcome"},
	)
)

func init() {
	Registry.MustRegister(CheckoutSessionsTotal, WebhookEventsTotal)
}
