package pmecc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/kb9vcn/pmecc/internal/galois"
)

type fixedRemainderSource struct {
	remainders []uint16
}

func (f *fixedRemainderSource) ReadRemainders(sectorIndex int, t int) []uint16 {
	return f.remainders
}

func TestSyndromeBuilder_Build_FillsOddSlotsOnly(t *testing.T) {
	f, err := galois.New(13)
	require.NoError(t, err)

	rem := &fixedRemainderSource{remainders: []uint16{0x11, 0x22, 0x33, 0x44}}
	b := &SyndromeBuilder{Field: f, T: 4, Rem: rem}

	var ws Workspace
	ws.PartialSyn[4] = 0xBEEF // leftover from a previous sector
	b.Build(&ws, 0)

	for k, v := range rem.remainders {
		assert.Equal(t, v, ws.PartialSyn[1+2*k])
	}
	for i := 2; i <= 2*4; i += 2 {
		assert.Equal(t, uint16(0), ws.PartialSyn[i], "even slot %d must stay zero", i)
	}
}

func TestSyndromeBuilder_Substitute_EvenIsSquareOfOdd(t *testing.T) {
	f, err := galois.New(13)
	require.NoError(t, err)

	rapid.Check(t, func(rt *rapid.T) {
		t4 := 4
		rem := make([]uint16, t4)
		for k := range rem {
			rem[k] = uint16(rapid.IntRange(0, int(f.N)).Draw(rt, "partial"))
		}

		b := &SyndromeBuilder{Field: f, T: t4, Rem: &fixedRemainderSource{remainders: rem}}
		var ws Workspace
		b.Build(&ws, 0)
		b.Substitute(&ws)

		for i := 2; i <= 2*t4; i += 2 {
			assert.Equal(rt, f.Square(ws.Si[i/2]), ws.Si[i])
		}
	})
}
