package engine

// registry is the global rendezvous registry: the set of processes
// currently blocked on SEND or RECV across all nodes, kept in insertion
// order so sweepGlobalMatches is reproducible. It is owned by the Driver,
// not a package-level singleton, so multiple simulations can run
// independently (spec's design note on the global mutable registry).
type registry struct {
	order []int // ProcID, insertion order
}

func (r *registry) add(procID int) {
	r.order = append(r.order, procID)
}

func (r *registry) remove(procID int) {
	for i, id := range r.order {
		if id == procID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			return
		}
	}
}
