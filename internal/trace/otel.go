package trace

import (
	"context"
	"io"
	"os"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/MaafiaTroodon/MultiProSim/internal/engine"
)

// InitStdoutProvider installs a global OpenTelemetry TracerProvider backed
// by the stdout exporter, writing to w. Mirrors
// viant-fluxor/tracing.Init's shape, trimmed to what OTelSink needs: no
// external collector is required to see the spans this package emits.
func InitStdoutProvider(w io.Writer) error {
	if w == nil {
		w = os.Stdout
	}
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return err
	}
	res, err := resource.New(context.Background(),
		resource.WithAttributes(attribute.String("service.name", "prosim")),
	)
	if err != nil {
		return err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exporter)),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	return nil
}

// OTelSink emits one span per process lifetime (from its first "new" event
// to its "finished" event, or left open if the process deadlocks), with
// every intermediate state transition recorded as a span event. Keyed by
// (node id, node-local pid) since that pair is stable across a process's
// whole life.
type OTelSink struct {
	tracer oteltrace.Tracer

	mu    sync.Mutex
	spans map[[2]int]spanHandle
}

type spanHandle struct {
	ctx  context.Context
	span oteltrace.Span
}

func NewOTelSink() *OTelSink {
	return &OTelSink{
		tracer: otel.Tracer("github.com/MaafiaTroodon/MultiProSim"),
		spans:  make(map[[2]int]spanHandle),
	}
}

func (s *OTelSink) Emit(e engine.TraceEvent) {
	key := [2]int{e.NodeID, e.NodeLocalPID}

	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.spans[key]
	if !ok {
		ctx, span := s.tracer.Start(context.Background(), "process.lifetime",
			oteltrace.WithAttributes(
				attribute.Int("node.id", e.NodeID),
				attribute.Int("process.node_local_pid", e.NodeLocalPID),
			),
		)
		h = spanHandle{ctx: ctx, span: span}
		s.spans[key] = h
	}

	h.span.AddEvent(e.Label, oteltrace.WithAttributes(
		attribute.Int("node.clock", e.NodeClock),
		attribute.String("state", e.Label),
	))

	if e.Label == "finished" {
		h.span.End()
		delete(s.spans, key)
	}
}

// Close ends any span left open for a process that never reached
// "finished" (a stuck rendezvous deadlock), so no span leaks past the run.
func (s *OTelSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, h := range s.spans {
		h.span.SetAttributes(attribute.Bool("deadlocked", true))
		h.span.End()
		delete(s.spans, key)
	}
}
