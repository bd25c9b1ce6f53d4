package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaafiaTroodon/MultiProSim/internal/engine"
)

func TestParse_Header(t *testing.T) {
	prog, err := Parse(strings.NewReader("1 1 2\nP 1 1 1\nHALT\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, prog.TotalProcs)
	assert.Equal(t, 1, prog.NumNodes)
	assert.Equal(t, 2, prog.Quantum)
	require.Len(t, prog.Specs, 1)
	assert.Equal(t, "P", prog.Specs[0].Name)
	assert.Equal(t, []engine.Operation{{Kind: engine.HALT}}, prog.Specs[0].Ops)
}

func TestParse_MalformedHeader(t *testing.T) {
	_, err := Parse(strings.NewReader("1 1\n"))
	assert.ErrorIs(t, err, ErrMalformedHeader)

	_, err = Parse(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrMalformedHeader)
}

func TestParse_MalformedProcess(t *testing.T) {
	_, err := Parse(strings.NewReader("1 1 2\nP 1 1\n"))
	require.Error(t, err)
	var mpe *MalformedProcessError
	require.ErrorAs(t, err, &mpe)
	assert.Equal(t, 0, mpe.Index)
}

func TestParse_UnknownTokenSkipped(t *testing.T) {
	prog, err := Parse(strings.NewReader("1 1 2\nP 1 1 1\nFROB DOOP 3 HALT\n"))
	require.NoError(t, err)
	assert.Equal(t, []engine.Operation{{Kind: engine.DOOP, Arg: 3}, {Kind: engine.HALT}}, prog.Specs[0].Ops)
}

func TestParse_MissingHaltAtEOF(t *testing.T) {
	prog, err := Parse(strings.NewReader("1 1 2\nP 1 1 1\nDOOP 3\n"))
	require.NoError(t, err)
	assert.Equal(t, []engine.Operation{{Kind: engine.DOOP, Arg: 3}}, prog.Specs[0].Ops)
}

func TestParse_LoopExpansion(t *testing.T) {
	prog, err := Parse(strings.NewReader("1 1 2\nP 1 1 1\nLOOP 3 DOOP 1 END HALT\n"))
	require.NoError(t, err)
	want := []engine.Operation{
		{Kind: engine.DOOP, Arg: 1},
		{Kind: engine.DOOP, Arg: 1},
		{Kind: engine.DOOP, Arg: 1},
		{Kind: engine.HALT},
	}
	assert.Equal(t, want, prog.Specs[0].Ops)
}

func TestParse_NestedLoopExpansion(t *testing.T) {
	prog, err := Parse(strings.NewReader("1 1 2\nP 1 1 1\nLOOP 2 LOOP 2 DOOP 1 END END HALT\n"))
	require.NoError(t, err)
	want := []engine.Operation{
		{Kind: engine.DOOP, Arg: 1}, {Kind: engine.DOOP, Arg: 1},
		{Kind: engine.DOOP, Arg: 1}, {Kind: engine.DOOP, Arg: 1},
		{Kind: engine.HALT},
	}
	assert.Equal(t, want, prog.Specs[0].Ops)
}

func TestParse_SendRecvAddresses(t *testing.T) {
	prog, err := Parse(strings.NewReader("2 2 2\nA 1 1 1\nSEND 201\nHALT\nB 1 1 2\nRECV 101\nHALT\n"))
	require.NoError(t, err)
	require.Len(t, prog.Specs, 2)
	assert.Equal(t, []engine.Operation{{Kind: engine.SEND, Arg: 201}, {Kind: engine.HALT}}, prog.Specs[0].Ops)
	assert.Equal(t, []engine.Operation{{Kind: engine.RECV, Arg: 101}, {Kind: engine.HALT}}, prog.Specs[1].Ops)
	assert.Equal(t, 2, prog.Specs[1].NodeID)
}
