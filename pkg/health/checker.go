// Package health serves liveness and readiness for the intake service.
// Readiness covers Postgres and, when notifications are enabled, Kafka.
package health

import (
	"context"
	"time"
)

const DefaultTimeout = 5 * time.Second

type Status string

const (
	StatusUp   Status = "up"
	StatusDown Status = "down"
)

type Result struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

func up() Result { return Result{Status: StatusUp} }

func down(msg string) Result { return Result{Status: StatusDown, Message: msg} }

type Checker interface {
	Name() string
	Check(ctx context.Context) Result
}
