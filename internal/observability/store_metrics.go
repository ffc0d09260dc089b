package observability

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

// ObserveStore times one logical store operation. Nil receiver is fine
// so repos stay usable without a metrics registry (tests).
func (p *Prom) ObserveStore(op string, fn func() error) error {
	if p == nil {
		return fn()
	}

	start := time.Now()
	err := fn()

	status := "ok"

	if err != nil {
		status = "error"
		p.StoreErrorsTotal.WithLabelValues(op, classifyStoreErr(err)).Inc()
	}
	p.StoreOpDuration.WithLabelValues(op, status).Observe(time.Since(start).Seconds())
	return err
}

func classifyStoreErr(err error) string {
	if mongo.IsDuplicateKeyError(err) {
		return "duplicate_key"
	}

	if mongo.IsTimeout(err) {
		return "timeout"
	}

	if mongo.IsNetworkError(err) {
		return "network"
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "no documents"):
		return "not_found"
	case strings.Contains(msg, "deadline"):
		return "timeout"
	default:
		return "unknown"
	}
}
