// Package topology renders a simulation's static node/process placement,
// plus the rendezvous matches realized during a run, as a Graphviz graph.
// Purely observational — it has no effect on simulation results.
package topology

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"

	"github.com/MaafiaTroodon/MultiProSim/internal/engine"
)

// Build constructs a DOT graph: one cluster subgraph per node holding its
// resident processes, plus one dashed edge per realized match.
func Build(nodes []engine.NodeSnapshot, matches []engine.MatchRecord) (*graphviz.Graphviz, *cgraph.Graph, error) {
	g := graphviz.New()
	graph, err := g.Graph()
	if err != nil {
		return nil, nil, fmt.Errorf("topology: creating graph: %w", err)
	}
	graph.SetRankDir(cgraph.LRRank)

	nodeHandles := make(map[[2]int]*cgraph.Node)

	for _, n := range nodes {
		sub := graph.SubGraph(fmt.Sprintf("cluster_node_%d", n.NodeID), 1)
		sub.SetLabel(fmt.Sprintf("node %d", n.NodeID))

		for _, p := range n.Processes {
			id := fmt.Sprintf("n%d_p%d", n.NodeID, p.NodeLocalPID)
			gn, err := sub.CreateNode(id)
			if err != nil {
				return nil, nil, fmt.Errorf("topology: creating node for %s: %w", id, err)
			}
			gn.SetLabel(fmt.Sprintf("%s\n%d.%d", p.Name, n.NodeID, p.NodeLocalPID))
			nodeHandles[[2]int{n.NodeID, p.NodeLocalPID}] = gn
		}
	}

	for i, m := range matches {
		sender, ok1 := nodeHandles[[2]int{m.SenderNodeID, m.SenderNodeLocalPID}]
		recv, ok2 := nodeHandles[[2]int{m.RecvNodeID, m.RecvNodeLocalPID}]
		if !ok1 || !ok2 {
			continue
		}
		e, err := graph.CreateEdge(fmt.Sprintf("match_%d", i), sender, recv)
		if err != nil {
			return nil, nil, fmt.Errorf("topology: creating match edge: %w", err)
		}
		e.SetLabel(fmt.Sprintf("t=%d", m.TriggerTime))
		e.SetStyle(cgraph.DashedEdgeStyle)
	}

	return g, graph, nil
}

// Render builds the graph and writes it in the format implied by path's
// extension (.dot/.gv, .svg, .png; defaults to DOT for anything else).
func Render(nodes []engine.NodeSnapshot, matches []engine.MatchRecord, path string) error {
	g, graph, err := Build(nodes, matches)
	if err != nil {
		return err
	}
	defer g.Close()
	defer graph.Close()

	return g.RenderFilename(graph, formatFor(path), path)
}

// RenderTo writes the graph in the given format to w, for callers that
// don't want a file on disk (e.g. the inspection server).
func RenderTo(nodes []engine.NodeSnapshot, matches []engine.MatchRecord, format graphviz.Format, w io.Writer) error {
	g, graph, err := Build(nodes, matches)
	if err != nil {
		return err
	}
	defer g.Close()
	defer graph.Close()

	return g.Render(graph, format, w)
}

func formatFor(path string) graphviz.Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		return graphviz.SVG
	case ".png":
		return graphviz.PNG
	case ".xdot":
		return graphviz.XDOT
	default:
		return graphviz.XDOT
	}
}
