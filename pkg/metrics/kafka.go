package metrics

import "github.com/prometheus/client_golang/prometheus"

var KafkaPublishTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "intake",
		Subsystem: "kafka",
		Name:      "publish_total",
		Help:      "Total number of Kafka publish attempts",
	},
	[]string{"topic", "status"},
)

func init() {
	Registry.MustRegister(KafkaPublishTotal)
}
