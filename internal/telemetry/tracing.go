package telemetry

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Tracer returns the tracer of the command, from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}
