package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/MaafiaTroodon/MultiProSim/internal/engine"
)

func TestOTelSink_OneSpanPerProcessLifetime(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(prev)

	s := NewOTelSink()
	s.Emit(engine.TraceEvent{NodeID: 1, NodeClock: 0, NodeLocalPID: 1, Label: "new"})
	s.Emit(engine.TraceEvent{NodeID: 1, NodeClock: 0, NodeLocalPID: 1, Label: "ready"})
	s.Emit(engine.TraceEvent{NodeID: 1, NodeClock: 0, NodeLocalPID: 1, Label: "running"})
	s.Emit(engine.TraceEvent{NodeID: 1, NodeClock: 3, NodeLocalPID: 1, Label: "finished"})

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "process.lifetime", spans[0].Name())
	assert.Len(t, spans[0].Events(), 4)
}

func TestOTelSink_CloseEndsOpenSpans(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(prev)

	s := NewOTelSink()
	s.Emit(engine.TraceEvent{NodeID: 1, NodeClock: 0, NodeLocalPID: 1, Label: "new"})
	s.Emit(engine.TraceEvent{NodeID: 1, NodeClock: 1, NodeLocalPID: 1, Label: "blocked (send)"})
	s.Close()

	assert.Len(t, sr.Ended(), 1)
}
