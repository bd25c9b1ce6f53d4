// Package summary holds the engine.SummarySink implementations: the
// mandatory pipe-delimited text sink and an optional JSON sink.
package summary

import (
	"bufio"
	"fmt"
	"io"

	"github.com/MaafiaTroodon/MultiProSim/internal/engine"
)

// TextSink writes the pipe-delimited summary row format from spec.md §6:
//
//	| TTTTT | Proc NN.PP | Run r, Block b, Wait w, Sends s, Recvs v
type TextSink struct {
	w *bufio.Writer
}

func NewTextSink(w io.Writer) *TextSink {
	return &TextSink{w: bufio.NewWriter(w)}
}

func (s *TextSink) EmitRow(r engine.SummaryRow) {
	fmt.Fprintf(s.w, "| %05d | Proc %02d.%02d | Run %d, Block %d, Wait %d, Sends %d, Recvs %d\n",
		r.FinishTime, r.NodeID, r.NodeLocalPID, r.RunTime, r.BlockTime, r.WaitTime, r.Sends, r.Recvs)
}

func (s *TextSink) Flush() error {
	return s.w.Flush()
}

// MultiSink fans one summary row out to every attached sink, in order, so
// cmd/prosim can attach the text sink and the in-memory capture sink at
// the same time.
type MultiSink struct {
	sinks []engine.SummarySink
}

func NewMultiSink(sinks ...engine.SummarySink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) EmitRow(r engine.SummaryRow) {
	for _, s := range m.sinks {
		s.EmitRow(r)
	}
}
