package engine

import "sort"

// Driver owns the whole simulation: the process arena, the per-node
// state, and the global rendezvous registry. It is not a package-level
// singleton — construct one per simulation via NewDriver so independent
// runs never share state.
type Driver struct {
	procs []*Process // arena, index = ProcID
	nodes []*Node    // 1-based; nodes[0] is unused
	reg   registry
	sinks Sinks

	iteration int
	matches   []MatchRecord
}

// MatchRecord records one realized rendezvous pairing, for topology
// export; it has no bearing on simulation semantics.
type MatchRecord struct {
	SenderNodeID       int
	SenderNodeLocalPID int
	RecvNodeID         int
	RecvNodeLocalPID   int
	TriggerTime        int
}

// ProcessSnapshot is a read-only view of one resident process, for
// topology export and the inspection server.
type ProcessSnapshot struct {
	NodeLocalPID int
	GlobalPID    int
	Name         string
}

// NodeSnapshot is a read-only view of one node's resident processes.
type NodeSnapshot struct {
	NodeID    int
	Processes []ProcessSnapshot
}

// Snapshot returns the static node/process placement and every
// rendezvous match realized so far. Safe to call after Run completes.
func (d *Driver) Snapshot() ([]NodeSnapshot, []MatchRecord) {
	var nodes []NodeSnapshot
	for n := 1; n < len(d.nodes); n++ {
		node := d.nodes[n]
		ns := NodeSnapshot{NodeID: node.ID}
		for _, id := range node.residents {
			p := d.procs[id]
			ns.Processes = append(ns.Processes, ProcessSnapshot{
				NodeLocalPID: p.NodeLocalPID,
				GlobalPID:    p.GlobalPID,
				Name:         p.Name,
			})
		}
		nodes = append(nodes, ns)
	}
	return nodes, d.matches
}

// Result is the terminal, immutable outcome of a completed Run: every
// summary row the summary sink received, plus the set of processes left
// non-FINISHED at quiescence (a stuck rendezvous deadlock). Trace events
// are not kept here; they go only to the trace sink.
type Result struct {
	Rows         []SummaryRow
	DeadlockedPIDs []int // GlobalPID of processes never FINISHED
}

// Run drives the simulation to quiescence: emits the time-0 new/ready
// events, then repeatedly flushes pending releases, expires timed BLOCKs,
// runs one time-slice per node, sweeps for rendezvous matches, and — if
// nothing else progressed — time-skips the single node with the nearest
// future event, until no node has any ready, blocked, or pending work.
func (d *Driver) Run() *Result {
	d.emitInitialState()

	for d.anyWorkLeft() {
		d.iteration++
		report := IterationReport{Index: d.iteration}

		for n := 1; n < len(d.nodes); n++ {
			if d.flushPending(d.nodes[n]) {
				report.FlushedAny = true
			}
		}
		for n := 1; n < len(d.nodes); n++ {
			if d.expireBlock(d.nodes[n]) {
				report.ExpiredAny = true
			}
		}
		for n := 1; n < len(d.nodes); n++ {
			if d.runTimeslice(d.nodes[n]) {
				report.RanAny = true
			}
		}

		progress := report.FlushedAny || report.ExpiredAny || report.RanAny
		if !progress {
			report.MatchedAny = d.sweepGlobalMatches()
			progress = report.MatchedAny
		}
		if !progress {
			node, due, ok := d.earliestFutureEvent()
			if !ok {
				d.sinks.onIteration(report)
				break
			}
			node.Clock = due
			report.TimeSkipped = true
			report.TimeSkipNode = node.ID
			report.TimeSkipTo = due
		}
		d.sinks.onIteration(report)
	}

	return d.buildResult()
}

// emitInitialState emits `new` then `ready` for every resident process of
// every node, in node-id order then input order, per spec.md §6.
func (d *Driver) emitInitialState() {
	for n := 1; n < len(d.nodes); n++ {
		node := d.nodes[n]
		for _, id := range node.residents {
			p := d.procs[id]
			p.State = NEW
			d.emitState(node, p, "new")
		}
	}
	for n := 1; n < len(d.nodes); n++ {
		node := d.nodes[n]
		for _, id := range node.residents {
			d.toReady(node, d.procs[id])
		}
	}
}

func (d *Driver) anyWorkLeft() bool {
	for n := 1; n < len(d.nodes); n++ {
		if !d.nodes[n].isIdle() {
			return true
		}
	}
	return false
}

// earliestFutureEvent finds, across all nodes, the node with the smallest
// next-event time strictly greater than its own current clock. Ties are
// broken by lowest node id, since nodes are scanned in ascending order and
// only a strictly smaller time replaces the current best.
func (d *Driver) earliestFutureEvent() (*Node, int, bool) {
	var best *Node
	bestTime := 0
	found := false
	for n := 1; n < len(d.nodes); n++ {
		node := d.nodes[n]
		t, ok := node.nextEventTime(d.procs)
		if ok && (!found || t < bestTime) {
			best, bestTime, found = node, t, true
		}
	}
	return best, bestTime, found
}

func (d *Driver) buildResult() *Result {
	var rows []SummaryRow
	var deadlocked []int
	for n := 1; n < len(d.nodes); n++ {
		for _, id := range d.nodes[n].residents {
			p := d.procs[id]
			if p.State == FINISHED {
				rows = append(rows, SummaryRow{
					FinishTime:   p.FinishTime,
					NodeID:       p.NodeID,
					NodeLocalPID: p.NodeLocalPID,
					RunTime:      p.RunTime,
					BlockTime:    p.BlockTime,
					WaitTime:     p.WaitTime,
					Sends:        p.Sends,
					Recvs:        p.Recvs,
				})
			} else {
				deadlocked = append(deadlocked, p.GlobalPID)
			}
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.FinishTime != b.FinishTime {
			return a.FinishTime < b.FinishTime
		}
		if a.NodeID != b.NodeID {
			return a.NodeID < b.NodeID
		}
		return a.NodeLocalPID < b.NodeLocalPID
	})
	for _, r := range rows {
		d.sinks.emitRow(r)
	}
	if len(deadlocked) > 0 {
		d.sinks.onDeadlock(deadlocked)
	}
	return &Result{Rows: rows, DeadlockedPIDs: deadlocked}
}
