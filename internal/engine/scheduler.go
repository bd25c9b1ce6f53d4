package engine

// addWaitReady credits dt ticks of wait_time to every process currently in
// n's ready queue (the "other ready processes" of spec.md §4.2), batched as
// a single add per call site rather than per-tick.
func (d *Driver) addWaitReady(n *Node, dt int) {
	if dt <= 0 {
		return
	}
	for _, id := range n.ready {
		d.procs[id].WaitTime += dt
	}
}

func (d *Driver) emitState(n *Node, p *Process, label string) {
	d.sinks.emit(TraceEvent{
		NodeID:       n.ID,
		NodeClock:    n.Clock,
		NodeLocalPID: p.NodeLocalPID,
		Label:        label,
	})
}

func (d *Driver) toReady(n *Node, p *Process) {
	p.State = READY
	d.emitState(n, p, "ready")
	n.enqueueReady(p.ProcID)
}

func (d *Driver) toFinished(n *Node, p *Process) {
	p.State = FINISHED
	p.FinishTime = n.Clock
	d.emitState(n, p, "finished")
}

// flushPending applies every pending entry on n whose due_time equals the
// node's current clock, removing it, and reports whether anything fired.
func (d *Driver) flushPending(n *Node) bool {
	progress := false
	kept := n.pend[:0]
	for _, pe := range n.pend {
		if pe.dueTime == n.Clock {
			p := d.procs[pe.procID]
			if pe.isFinish {
				d.toFinished(n, p)
			} else {
				d.toReady(n, p)
			}
			progress = true
		} else {
			kept = append(kept, pe)
		}
	}
	n.pend = kept
	return progress
}

// expireBlock releases every BLOCKED process on n whose timed unblock_time
// has arrived, collapsing an immediately-following HALT into a single
// FINISHED transition.
func (d *Driver) expireBlock(n *Node) bool {
	progress := false
	var stillBlocked []int
	for _, id := range n.blocked {
		p := d.procs[id]
		if p.UnblockTime > 0 && n.Clock >= p.UnblockTime {
			if p.NextIsHalt() {
				p.PC++
				d.toFinished(n, p)
			} else {
				d.toReady(n, p)
			}
			progress = true
		} else {
			stillBlocked = append(stillBlocked, id)
		}
	}
	n.blocked = stillBlocked
	return progress
}

// runTimeslice dispatches the head of n's ready queue for up to one
// quantum, interpreting DOOP/BLOCK/SEND/RECV/HALT. Returns whether
// anything happened (dispatching, even a no-op dispatch, counts).
func (d *Driver) runTimeslice(n *Node) bool {
	procID, ok := n.dequeueReady()
	if !ok {
		return false
	}
	p := d.procs[procID]

	if p.State == FINISHED || p.PC >= len(p.Ops) {
		return true
	}

	p.State = RUNNING
	d.emitState(n, p, "running")

	used := 0
	yielded := false

	for used < n.Quantum && p.PC < len(p.Ops) {
		op := &p.Ops[p.PC]

		switch op.Kind {
		case DOOP:
			runTicks := op.Arg
			if room := n.Quantum - used; runTicks > room {
				runTicks = room
			}
			d.addWaitReady(n, runTicks)
			p.RunTime += runTicks
			n.Clock += runTicks
			used += runTicks
			op.Arg -= runTicks
			if op.Arg == 0 {
				p.PC++
			}

		case BLOCK:
			ticks := op.Arg
			p.BlockTime += ticks
			p.UnblockTime = n.Clock + ticks
			p.State = BLOCKED
			d.emitState(n, p, "blocked")
			p.PC++
			n.addBlocked(p.ProcID)
			yielded = true

		case SEND:
			d.addWaitReady(n, 1)
			p.RunTime++
			n.Clock++
			used++

			p.WantDstAddr = op.Arg
			p.WantSrcAddr = 0
			p.UnblockTime = 0
			p.State = BLOCKED
			d.emitState(n, p, "blocked (send)")
			n.addBlocked(p.ProcID)
			d.reg.add(p.ProcID)
			d.tryMatchNow(n, p)
			yielded = true

		case RECV:
			d.addWaitReady(n, 1)
			p.RunTime++
			n.Clock++
			used++

			p.WantSrcAddr = op.Arg
			p.WantDstAddr = 0
			p.UnblockTime = 0
			p.State = BLOCKED
			d.emitState(n, p, "blocked (recv)")
			n.addBlocked(p.ProcID)
			d.reg.add(p.ProcID)
			d.tryMatchNow(n, p)
			yielded = true

		case HALT:
			p.PC++
			d.toFinished(n, p)
			yielded = true

		default:
			// Defensive: any operation kind other than the five named
			// above still advances pc and costs nothing.
			p.PC++
		}

		if yielded {
			break
		}
	}

	if !yielded && p.State != FINISHED && p.PC < len(p.Ops) {
		p.WaitTime += n.Quantum
		d.toReady(n, p)
	}
	return true
}
