package pmecc

import "github.com/kb9vcn/pmecc/internal/galois"

// RemainderSource supplies the t partial syndromes the PMECC hardware
// block computed for one sector, as polynomial remainders held in its
// memory-mapped REM register table (spec.md §4.1, §6). Implementations
// live in internal/pmeccio: a production one backed by a volatile
// mmap'd read, and a software one used by tests that can't reach real
// hardware.
//
// ReadRemainders must return exactly t elements; SyndromeBuilder does
// not re-validate the length.
type RemainderSource interface {
	ReadRemainders(sectorIndex int, t int) []uint16
}

// SyndromeBuilder assembles the full syndromes S_1..S_2t for one
// sector from the hardware's partial (odd-index only) syndromes,
// using the S_2k = S_k^2 identity for the even ones. This is GenSyn +
// substitute from original_source/driver/pmecc.c, generalized off a
// fixed byte-sized symbol to the session's actual GF(2^m).
type SyndromeBuilder struct {
	Field *galois.Field
	T     int
	Rem   RemainderSource
}

// Build copies the hardware's t partial remainders for sectorIndex
// into Workspace.PartialSyn at their odd slots and zeros the rest,
// mirroring GenSyn: "Fill odd syndromes" is the only thing the
// hardware contributes -- even indices are always derived, never
// read.
func (b *SyndromeBuilder) Build(ws *Workspace, sectorIndex int) {
	ws.Reset()

	remainders := b.Rem.ReadRemainders(sectorIndex, b.T)
	for k := 0; k < b.T; k++ {
		ws.PartialSyn[1+2*k] = remainders[k]
	}
}

// Substitute computes the 2t full syndromes from the partial ones
// already in Workspace.PartialSyn, per spec.md §4.1: odd syndromes are
// evaluated directly from the partial-syndrome bitmask, even ones are
// squares of the corresponding odd-indexed half.
func (b *SyndromeBuilder) Substitute(ws *Workspace) {
	f := b.Field

	for i := 1; i <= 2*b.T-1; i += 2 {
		var si uint16
		for j := uint(0); j < f.M; j++ {
			if ws.PartialSyn[i]&(uint16(1)<<j) != 0 {
				// i*j < 2t*m <= 48*14 < 1024 << n, so this index
				// never needs to wrap -- see spec's substitute().
				si ^= f.AlphaTo[uint(i)*j]
			}
		}
		ws.Si[i] = si
	}

	for i := 2; i <= 2*b.T; i += 2 {
		j := i / 2
		ws.Si[i] = f.Square(ws.Si[j])
	}
}
