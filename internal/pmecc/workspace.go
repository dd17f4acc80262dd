package pmecc

// TMax is the largest correcting capability the PMECC hardware
// supports. Every workspace array is sized for TMax regardless of the
// session's actual t, per spec.md §9's "fixed-size workspace" design
// note and §5's "no dynamic allocation occurs in the decode path."
const TMax = 24

// smuRows is smu's first dimension, sized [0..t+1].
const smuRows = TMax + 2

// smuCols is smu's second (and si's / partialSyn's) dimension, sized
// generously at 2*TMax+1 so every [0..2t] index is always in range
// regardless of the session's t.
const smuCols = 2*TMax + 1

// Workspace is the mutable per-sector scratch area from spec.md §3's
// DecoderWorkspace: partial syndromes from hardware, the full
// syndromes derived from them, and the Berlekamp-Massey solver's
// successive sigma approximations. A single Workspace is reused
// sector-to-sector within one decode_page call -- ownership is
// exclusive to the PageDecoder driving that call, never aliased
// across concurrent sectors (see spec.md §5).
type Workspace struct {
	// PartialSyn holds the hardware's partial syndromes. Only odd
	// indices [1, 2t) are written by SyndromeBuilder; even indices
	// are always zero (GenSyn never touches them, and Reset clears
	// the whole array up front).
	PartialSyn [smuCols]uint16

	// Si holds the full syndromes S_1 .. S_2t once Substitute has
	// run. Si[0] is unused (syndromes are 1-indexed per spec.md).
	Si [smuCols]uint16

	// Smu[mu] is the mu-th successive approximation of the
	// error-locator polynomial, as field-element coefficients.
	// Smu[t+1] holds the final answer after Solve.
	Smu [smuRows][smuCols]uint16

	// Lmu[mu] is twice the degree of Smu[mu] (so Lmu[mu]>>1 is the
	// actual polynomial degree) -- kept doubled throughout to avoid
	// repeated >>1/<<1 conversions matching the original's own
	// convention.
	Lmu [smuRows]int
}

// Reset zeroes the workspace before starting a new sector's decode.
// Nothing here allocates -- this only rewrites the fixed arrays in
// place.
func (w *Workspace) Reset() {
	for i := range w.PartialSyn {
		w.PartialSyn[i] = 0
	}
	for i := range w.Si {
		w.Si[i] = 0
	}
	for i := range w.Smu {
		for j := range w.Smu[i] {
			w.Smu[i][j] = 0
		}
	}
	for i := range w.Lmu {
		w.Lmu[i] = 0
	}
}
