package health

import (
	"context"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

const brokerDialTimeout = 2 * time.Second

// KafkaChecker reports up when any configured broker accepts a connection.
type KafkaChecker struct {
	brokers []string
	dialer  *kafka.Dialer
}

func NewKafkaChecker(brokers []string) *KafkaChecker {
	return &KafkaChecker{
		brokers: brokers,
		dialer:  &kafka.Dialer{Timeout: brokerDialTimeout},
	}
}

func (c *KafkaChecker) Name() string { return "kafka" }

func (c *KafkaChecker) Check(ctx context.Context) Result {
	for _, broker := range c.brokers {
		conn, err := c.dialer.DialContext(ctx, "tcp", broker)
		if err == nil {
			_ = conn.Close()
			return up()
		}
	}
	return down("order notification brokers unreachable: " + strings.Join(c.brokers, ","))
}
