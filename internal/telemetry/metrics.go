package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/atuleu/meval"

// Metrics counts the evaluation batches run by the command. It uses the
// global meter provider, which does nothing unless Init was called.
type Metrics struct {
	// batches counts evaluation batches by outcome
	batches metric.Int64Counter

	// points counts the data points evaluated successfully
	points metric.Int64Counter
}

// NewMetrics creates the evaluation instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(instrumentationName)

	batches, err := meter.Int64Counter(
		"meval.batches",
		metric.WithDescription("Evaluation batches by outcome"),
	)
	if err != nil {
		return nil, err
	}

	points, err := meter.Int64Counter(
		"meval.points",
		metric.WithDescription("Data points evaluated"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{batches: batches, points: points}, nil
}

// RecordBatch records one batch of n data points. outcome is "ok" or
// the kind of error that aborted it.
func (m *Metrics) RecordBatch(ctx context.Context, n int, outcome string) {
	m.batches.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	if outcome == "ok" {
		m.points.Add(ctx, int64(n))
	}
}
