package engine

import "fmt"

// ProcessSpec is the parser's output for one process: everything needed
// to construct a Process except the identifiers the engine assigns at
// construction time (GlobalPID, NodeLocalPID).
type ProcessSpec struct {
	Name     string
	Size     int
	Priority int
	NodeID   int
	Ops      []Operation
}

// Program is the parser's complete output: the header plus one spec per
// process, in input order.
type Program struct {
	TotalProcs int
	NumNodes   int
	Quantum    int
	Specs      []ProcessSpec
}

// NewDriver builds the node/process arena from a parsed Program. Node ids
// must be dense in [1, NumNodes]; node-local pids are assigned by input
// order within each node, global pids by input order overall.
func NewDriver(prog *Program, sinks Sinks) (*Driver, error) {
	if prog.NumNodes <= 0 {
		return nil, fmt.Errorf("engine: num_nodes must be > 0, got %d", prog.NumNodes)
	}
	if prog.Quantum <= 0 {
		return nil, fmt.Errorf("engine: quantum must be > 0, got %d", prog.Quantum)
	}

	d := &Driver{
		nodes: make([]*Node, prog.NumNodes+1), // 1-based, index 0 unused
		sinks: sinks,
	}
	for n := 1; n <= prog.NumNodes; n++ {
		d.nodes[n] = newNode(n, prog.Quantum)
	}

	nodeLocalCounters := make([]int, prog.NumNodes+1)
	for i, spec := range prog.Specs {
		if spec.NodeID < 1 || spec.NodeID > prog.NumNodes {
			return nil, fmt.Errorf("engine: process %q has invalid node_id %d", spec.Name, spec.NodeID)
		}
		nodeLocalCounters[spec.NodeID]++
		p := &Process{
			ProcID:       i,
			Name:         spec.Name,
			GlobalPID:    i + 1,
			NodeID:       spec.NodeID,
			NodeLocalPID: nodeLocalCounters[spec.NodeID],
			Size:         spec.Size,
			Priority:     spec.Priority,
			Ops:          spec.Ops,
			State:        NEW,
		}
		d.procs = append(d.procs, p)
		d.nodes[spec.NodeID].residents = append(d.nodes[spec.NodeID].residents, p.ProcID)
	}
	return d, nil
}
