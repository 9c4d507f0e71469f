package poster

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/metinatakli/movie-catalog/internal/poster"

type storeMetrics struct {
	backend  attribute.KeyValue
	bytes    metric.Int64Counter
	duration metric.Float64Histogram
}

// newStoreMetrics uses the global meter provider, which is a no-op until
// telemetry is initialised.
func newStoreMetrics(backend string) *storeMetrics {
	meter := otel.Meter(meterName)

	bytes, _ := meter.Int64Counter("poster.stored.bytes",
		metric.WithDescription("Bytes written to poster storage"),
		metric.WithUnit("By"),
	)

	duration, _ := meter.Float64Histogram("poster.store.duration",
		metric.WithDescription("Time taken to store a poster"),
		metric.WithUnit("s"),
	)

	return &storeMetrics{
		backend:  attribute.String("backend", backend),
		bytes:    bytes,
		duration: duration,
	}
}

func (m *storeMetrics) record(ctx context.Context, n int64, elapsed time.Duration) {
	if m == nil {
		return
	}

	opt := metric.WithAttributes(m.backend)
	if m.bytes != nil {
		m.bytes.Add(ctx, n, opt)
	}
	if m.duration != nil {
		m.duration.Record(ctx, elapsed.Seconds(), opt)
	}
}
