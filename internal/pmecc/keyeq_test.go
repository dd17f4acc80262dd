package pmecc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/kb9vcn/pmecc/internal/galois"
)

// injectSyndromes populates ws.Si directly from a set of 1-based bit
// error positions, bypassing SyndromeBuilder/RemainderSource
// entirely. This is valid because S_i = XOR_j alpha^(-i*(position_j-1))
// is the syndrome of an error pattern over an (unmaterialized)
// all-zero-syndrome codeword, in the convention under which sigma
// vanishes at alpha^(position-1) -- see internal/pmecctest's package
// doc for the full reasoning. Solving and
// locating from directly-injected syndromes exercises exactly the same
// arrays SyndromeBuilder.Substitute would have populated.
func injectSyndromes(f *galois.Field, ws *Workspace, t int, positions []int) {
	ws.Reset()
	for i := 1; i <= 2*t; i++ {
		var s uint16
		for _, p := range positions {
			exp := (f.N - (uint(i)*uint(p-1))%f.N) % f.N
			s ^= f.AlphaTo[exp]
		}
		ws.Si[i] = s
	}
}

func TestKeyEquationSolver_NoErrors(t *testing.T) {
	f, err := galois.New(13)
	require.NoError(t, err)

	const tt = 4
	solver := &KeyEquationSolver{Field: f, T: tt}

	var ws Workspace
	injectSyndromes(f, &ws, tt, nil)
	solver.Solve(&ws)

	assert.Equal(t, 0, solver.Degree(&ws))
}

func TestKeyEquationSolver_SingleBitError(t *testing.T) {
	f, err := galois.New(13)
	require.NoError(t, err)

	const tt = 4
	solver := &KeyEquationSolver{Field: f, T: tt}

	rapid.Check(t, func(rt *rapid.T) {
		pos := rapid.IntRange(1, 4096).Draw(rt, "position")

		var ws Workspace
		injectSyndromes(f, &ws, tt, []int{pos})
		solver.Solve(&ws)

		assert.Equal(rt, 1, solver.Degree(&ws))
	})
}

func TestKeyEquationSolver_ExactlyTErrors(t *testing.T) {
	f, err := galois.New(13)
	require.NoError(t, err)

	const tt = 4
	solver := &KeyEquationSolver{Field: f, T: tt}

	positions := []int{3, 700, 1501, 4090}
	var ws Workspace
	injectSyndromes(f, &ws, tt, positions)
	solver.Solve(&ws)

	assert.Equal(t, tt, solver.Degree(&ws))
}
