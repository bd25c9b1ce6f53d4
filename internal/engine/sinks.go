package engine

// TraceEvent is one state-transition record, as produced by the scheduler
// or driver, in emission order.
type TraceEvent struct {
	NodeID       int
	NodeClock    int
	NodeLocalPID int
	Label        string // one of: new, ready, running, blocked, blocked (send), blocked (recv), finished
}

// SummaryRow is one finished process's final counters.
type SummaryRow struct {
	FinishTime   int
	NodeID       int
	NodeLocalPID int
	RunTime      int
	BlockTime    int
	WaitTime     int
	Sends        int
	Recvs        int
}

// TraceSink is the narrow interface the engine emits state transitions
// through. Exactly one method, so production sinks (text, OTel) and
// in-memory test sinks are interchangeable.
type TraceSink interface {
	Emit(TraceEvent)
}

// SummarySink is the narrow interface the engine emits the final summary
// rows through.
type SummarySink interface {
	EmitRow(SummaryRow)
}

// IterationReport summarizes what one driver iteration accomplished, for
// the optional structured run log. It never feeds back into engine state.
type IterationReport struct {
	Index        int
	FlushedAny   bool
	ExpiredAny   bool
	RanAny       bool
	MatchedAny   bool
	TimeSkipped  bool
	TimeSkipNode int
	TimeSkipTo   int
}

// RunObserver is the narrow interface the driver reports its per-iteration
// and terminal decisions through. Nil-safe: a Driver with no observer
// simply skips every call.
type RunObserver interface {
	OnIteration(IterationReport)
	OnDeadlock(procIDs []int)
}

// Sinks bundles the trace and summary sinks and the optional run observer
// a Driver is constructed with. Any field may be nil.
type Sinks struct {
	Trace    TraceSink
	Summary  SummarySink
	Observer RunObserver
}

func (s Sinks) emit(e TraceEvent) {
	if s.Trace != nil {
		s.Trace.Emit(e)
	}
}

func (s Sinks) emitRow(r SummaryRow) {
	if s.Summary != nil {
		s.Summary.EmitRow(r)
	}
}

func (s Sinks) onIteration(r IterationReport) {
	if s.Observer != nil {
		s.Observer.OnIteration(r)
	}
}

func (s Sinks) onDeadlock(procIDs []int) {
	if s.Observer != nil {
		s.Observer.OnDeadlock(procIDs)
	}
}

// CaptureSink is an in-memory TraceSink and SummarySink used by tests to
// assert on exactly what the engine produced, without a text or network
// dependency.
type CaptureSink struct {
	Events []TraceEvent
	Rows   []SummaryRow
}

func NewCaptureSink() *CaptureSink { return &CaptureSink{} }

func (c *CaptureSink) Emit(e TraceEvent)    { c.Events = append(c.Events, e) }
func (c *CaptureSink) EmitRow(r SummaryRow) { c.Rows = append(c.Rows, r) }
