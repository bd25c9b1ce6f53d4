// Package obslog is the simulator's structured diagnostics log: a
// JSON-lines record of driver-internal decisions (iteration progress,
// time-skips, deadlock detection), distinct from the mandated trace/
// summary output. Mirrors Bladjot's Logger/LogEntry shape — a
// mutex-guarded json.Encoder over a single file.
package obslog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MaafiaTroodon/MultiProSim/internal/engine"
)

// Logger writes one JSON object per line; a mutex serializes writes, so
// it is safe for concurrent use.
type Logger struct {
	mu    sync.Mutex
	enc   *json.Encoder
	closer io.Closer
	runID uuid.UUID
}

// Entry is one structured diagnostics record.
type Entry struct {
	WallTime time.Time      `json:"wall_time"`
	RunID    string         `json:"run_id"`
	Event    string         `json:"event"`
	Details  map[string]any `json:"details,omitempty"`
}

// New opens path for writing (truncating any existing content) and
// returns a Logger tagged with a fresh run ID. An empty path yields a
// discarding Logger (writes to io.Discard) so callers never need to
// special-case "no run log requested".
func New(path string) (*Logger, error) {
	runID := uuid.New()
	if path == "" {
		return &Logger{enc: json.NewEncoder(io.Discard), runID: runID}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("obslog: creating %s: %w", path, err)
	}
	return &Logger{enc: json.NewEncoder(f), closer: f, runID: runID}, nil
}

// RunID returns the UUID tagging every entry this Logger writes.
func (l *Logger) RunID() uuid.UUID { return l.runID }

func (l *Logger) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

func (l *Logger) log(event string, details map[string]any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.enc.Encode(Entry{
		WallTime: time.Now(),
		RunID:    l.runID.String(),
		Event:    event,
		Details:  details,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "obslog: write failed: %v\n", err)
	}
}

// RunStarted logs the start of one engine.Driver.Run call.
func (l *Logger) RunStarted(inputPath string) {
	l.log("run_started", map[string]any{"input": inputPath})
}

// RunFinished logs the terminal outcome of a run.
func (l *Logger) RunFinished(finished, deadlocked int) {
	l.log("run_finished", map[string]any{"finished": finished, "deadlocked": deadlocked})
}

// OnIteration implements engine.RunObserver.
func (l *Logger) OnIteration(r engine.IterationReport) {
	details := map[string]any{
		"index":        r.Index,
		"flushed_any":  r.FlushedAny,
		"expired_any":  r.ExpiredAny,
		"ran_any":      r.RanAny,
		"matched_any":  r.MatchedAny,
		"time_skipped": r.TimeSkipped,
	}
	if r.TimeSkipped {
		details["time_skip_node"] = r.TimeSkipNode
		details["time_skip_to"] = r.TimeSkipTo
	}
	l.log("iteration", details)
}

// OnDeadlock implements engine.RunObserver.
func (l *Logger) OnDeadlock(procIDs []int) {
	l.log("deadlock_detected", map[string]any{"global_pids": procIDs})
}
