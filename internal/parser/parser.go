// Package parser tokenizes the simulator's whitespace-separated input
// format into a flat engine.Program, expanding LOOP/END and skipping
// unknown tokens. It never assigns node-local or global pids — that is
// the engine's job once every process's program is known.
package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/MaafiaTroodon/MultiProSim/internal/engine"
)

// ErrMalformedHeader is returned when stdin has fewer than three integers
// at the very start of input.
var ErrMalformedHeader = errors.New("parser: malformed header, expected: total_procs num_nodes quantum")

// MalformedProcessError is returned when a process line has fewer than
// four fields (name size priority node_id).
type MalformedProcessError struct {
	Index int // 0-based position of the offending process in input order
}

func (e *MalformedProcessError) Error() string {
	return fmt.Sprintf("parser: malformed process at index %d, expected: name size priority node_id", e.Index)
}

// tokenizer is a minimal whitespace-delimited reader, the Go analogue of
// the original's repeated scanf("%s", ...) / scanf("%d", ...) calls.
type tokenizer struct {
	sc *bufio.Scanner
}

func newTokenizer(r io.Reader) *tokenizer {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	sc.Split(bufio.ScanWords)
	return &tokenizer{sc: sc}
}

func (t *tokenizer) next() (string, bool) {
	if !t.sc.Scan() {
		return "", false
	}
	return t.sc.Text(), true
}

func (t *tokenizer) nextInt() (int, bool) {
	tok, ok := t.next()
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Parse reads the header, then each process's static fields and program,
// from r. LOOP n ... END is expanded inline; any token that is not
// DOOP/BLOCK/SEND/RECV/HALT/LOOP/END is skipped silently and does not
// consume an operation slot.
func Parse(r io.Reader) (*engine.Program, error) {
	t := newTokenizer(r)

	totalProcs, ok1 := t.nextInt()
	numNodes, ok2 := t.nextInt()
	quantum, ok3 := t.nextInt()
	if !ok1 || !ok2 || !ok3 {
		return nil, ErrMalformedHeader
	}

	prog := &engine.Program{
		TotalProcs: totalProcs,
		NumNodes:   numNodes,
		Quantum:    quantum,
	}

	for i := 0; i < totalProcs; i++ {
		name, ok := t.next()
		size, okSize := t.nextInt()
		priority, okPrio := t.nextInt()
		nodeID, okNode := t.nextInt()
		if !ok || !okSize || !okPrio || !okNode {
			return nil, &MalformedProcessError{Index: i}
		}

		ops, err := parseProgramBody(t, false)
		if err != nil {
			return nil, err
		}

		prog.Specs = append(prog.Specs, engine.ProcessSpec{
			Name:     name,
			Size:     size,
			Priority: priority,
			NodeID:   nodeID,
			Ops:      ops,
		})
	}

	return prog, nil
}

// parseProgramBody reads operations until HALT, EOF, or (when
// stopOnEnd) an END token — mirroring the original's recursive
// parse_block_into(stop_on_end). LOOP bodies are parsed recursively and
// then replicated n times into the caller's output.
func parseProgramBody(t *tokenizer, stopOnEnd bool) ([]engine.Operation, error) {
	var ops []engine.Operation
	for {
		tok, ok := t.next()
		if !ok {
			return ops, nil // MissingHaltOrEndOfInput: parser returns at EOF
		}

		switch tok {
		case "END":
			if stopOnEnd {
				return ops, nil
			}
			continue // a stray END outside a LOOP body is an unknown token

		case "LOOP":
			times, ok := t.nextInt()
			if !ok {
				times = 0
			}
			body, err := parseProgramBody(t, true)
			if err != nil {
				return nil, err
			}
			for r := 0; r < times; r++ {
				ops = append(ops, body...)
			}
			continue

		case "DOOP":
			arg, _ := t.nextInt()
			ops = append(ops, engine.Operation{Kind: engine.DOOP, Arg: arg})
		case "BLOCK":
			arg, _ := t.nextInt()
			ops = append(ops, engine.Operation{Kind: engine.BLOCK, Arg: arg})
		case "SEND":
			arg, _ := t.nextInt()
			ops = append(ops, engine.Operation{Kind: engine.SEND, Arg: arg})
		case "RECV":
			arg, _ := t.nextInt()
			ops = append(ops, engine.Operation{Kind: engine.RECV, Arg: arg})
		case "HALT":
			ops = append(ops, engine.Operation{Kind: engine.HALT})
			return ops, nil

		default:
			// UnknownToken: skip silently, do not consume an op slot.
			continue
		}
	}
}
