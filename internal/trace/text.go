// Package trace holds the engine.TraceSink implementations: the mandatory
// fixed-width text sink and an optional OpenTelemetry sink.
package trace

import (
	"bufio"
	"fmt"
	"io"

	"github.com/MaafiaTroodon/MultiProSim/internal/engine"
)

// TextSink writes the fixed-width trace line format from spec.md §6:
//
//	[NN] TTTTT: process P LABEL
type TextSink struct {
	w *bufio.Writer
}

// NewTextSink wraps w in a buffered writer. Callers must call Flush once
// the run is complete.
func NewTextSink(w io.Writer) *TextSink {
	return &TextSink{w: bufio.NewWriter(w)}
}

func (s *TextSink) Emit(e engine.TraceEvent) {
	fmt.Fprintf(s.w, "[%02d] %05d: process %d %s\n", e.NodeID, e.NodeClock, e.NodeLocalPID, e.Label)
}

// Flush pushes any buffered output to the underlying writer.
func (s *TextSink) Flush() error {
	return s.w.Flush()
}

// MultiSink fans one trace event out to every attached sink, in order, so
// cmd/prosim can attach the text sink and the OTel sink at the same time.
type MultiSink struct {
	sinks []engine.TraceSink
}

func NewMultiSink(sinks ...engine.TraceSink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) Emit(e engine.TraceEvent) {
	for _, s := range m.sinks {
		s.Emit(e)
	}
}
