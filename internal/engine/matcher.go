package engine

// tryMatchNow looks for a counterpart to p in the global registry. p must
// have just entered the BLOCKED/rendezvous state on triggerNode. Returns
// whether a match was found and scheduled.
func (d *Driver) tryMatchNow(triggerNode *Node, p *Process) bool {
	if p.State != BLOCKED {
		return false
	}

	if p.IsSender() {
		for _, qid := range d.reg.order {
			q := d.procs[qid]
			if q == p || q.State != BLOCKED || !q.IsReceiver() {
				continue
			}
			if Address(p.WantDstAddr) != q.Address() {
				continue
			}
			if Address(q.WantSrcAddr) != p.Address() {
				continue
			}
			d.commitMatch(triggerNode, p, q)
			return true
		}
		return false
	}

	if p.IsReceiver() {
		for _, sid := range d.reg.order {
			s := d.procs[sid]
			if s == p || s.State != BLOCKED || !s.IsSender() {
				continue
			}
			if Address(s.WantDstAddr) != p.Address() {
				continue
			}
			if Address(p.WantSrcAddr) != s.Address() {
				continue
			}
			d.commitMatch(triggerNode, s, p)
			return true
		}
		return false
	}

	return false
}

// commitMatch consumes the SEND/RECV opcode on both sides, updates their
// counters, removes both from their blocked lists and the registry, and
// schedules a pending release on each home node at triggerNode.Clock+1.
func (d *Driver) commitMatch(triggerNode *Node, sender, receiver *Process) {
	sender.PC++
	sender.Sends++
	receiver.PC++
	receiver.Recvs++

	senderNode := d.nodes[sender.NodeID]
	receiverNode := d.nodes[receiver.NodeID]

	senderNode.removeBlocked(sender.ProcID)
	receiverNode.removeBlocked(receiver.ProcID)
	d.reg.remove(sender.ProcID)
	d.reg.remove(receiver.ProcID)

	sender.clearWish()
	receiver.clearWish()

	due := triggerNode.Clock + 1
	senderNode.addPending(sender.ProcID, due, sender.NextIsHalt())
	receiverNode.addPending(receiver.ProcID, due, receiver.NextIsHalt())

	d.matches = append(d.matches, MatchRecord{
		SenderNodeID:       sender.NodeID,
		SenderNodeLocalPID: sender.NodeLocalPID,
		RecvNodeID:         receiver.NodeID,
		RecvNodeLocalPID:   receiver.NodeLocalPID,
		TriggerTime:        triggerNode.Clock,
	})
}

// sweepGlobalMatches iterates the registry in insertion order and invokes
// tryMatchNow on the first process that finds a match. Deterministic:
// ties within a sweep are broken by earliest-registered counterpart.
func (d *Driver) sweepGlobalMatches() bool {
	for _, id := range d.reg.order {
		p := d.procs[id]
		if p.State != BLOCKED {
			continue
		}
		n := d.nodes[p.NodeID]
		if d.tryMatchNow(n, p) {
			return true
		}
	}
	return false
}
