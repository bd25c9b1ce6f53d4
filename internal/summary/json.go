package summary

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/MaafiaTroodon/MultiProSim/internal/engine"
)

// JSONSink accumulates rows and writes them as one JSON array on Flush.
// The --summary-json flag does not use it; cmd/prosim writes that file
// with WriteJSONFile from the captured rows.
type JSONSink struct {
	w    io.Writer
	rows []engine.SummaryRow
}

func NewJSONSink(w io.Writer) *JSONSink {
	return &JSONSink{w: w}
}

func (s *JSONSink) EmitRow(r engine.SummaryRow) {
	s.rows = append(s.rows, r)
}

func (s *JSONSink) Flush() error {
	enc := json.NewEncoder(s.w)
	enc.SetIndent("", "  ")
	return enc.Encode(s.rows)
}

// WriteJSONFile opens path for writing and flushes rows into it as JSON.
func WriteJSONFile(path string, rows []engine.SummaryRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("summary: creating %s: %w", path, err)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}
