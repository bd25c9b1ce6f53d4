package topology

import (
	"bytes"
	"testing"

	"github.com/goccy/go-graphviz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaafiaTroodon/MultiProSim/internal/engine"
)

func sampleNodes() []engine.NodeSnapshot {
	return []engine.NodeSnapshot{
		{NodeID: 1, Processes: []engine.ProcessSnapshot{
			{NodeLocalPID: 1, GlobalPID: 1, Name: "A"},
		}},
		{NodeID: 2, Processes: []engine.ProcessSnapshot{
			{NodeLocalPID: 1, GlobalPID: 2, Name: "B"},
		}},
	}
}

func TestBuild_NodesAndEdges(t *testing.T) {
	matches := []engine.MatchRecord{
		{SenderNodeID: 1, SenderNodeLocalPID: 1, RecvNodeID: 2, RecvNodeLocalPID: 1, TriggerTime: 4},
	}
	g, graph, err := Build(sampleNodes(), matches)
	require.NoError(t, err)
	defer g.Close()
	defer graph.Close()
}

func TestRenderTo_XDOT(t *testing.T) {
	var buf bytes.Buffer
	err := RenderTo(sampleNodes(), nil, graphviz.XDOT, &buf)
	require.NoError(t, err)
	assert.NotEmpty(t, buf.Bytes())
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, graphviz.SVG, formatFor("out.svg"))
	assert.Equal(t, graphviz.PNG, formatFor("out.PNG"))
	assert.Equal(t, graphviz.XDOT, formatFor("out.xdot"))
	assert.Equal(t, graphviz.XDOT, formatFor("out.unknown"))
}

func TestBuild_SkipsMatchWithUnknownEndpoint(t *testing.T) {
	matches := []engine.MatchRecord{
		{SenderNodeID: 9, SenderNodeLocalPID: 1, RecvNodeID: 2, RecvNodeLocalPID: 1, TriggerTime: 4},
	}
	g, graph, err := Build(sampleNodes(), matches)
	require.NoError(t, err)
	defer g.Close()
	defer graph.Close()
}
