package pmecc

// ChienSearcher drives the Chien-search step described in spec.md
// §4.3: given sigma's coefficients, it finds the bit positions (as
// 1-based indices into the sector bitstream) where sigma evaluates to
// zero. Implementations live in internal/pmeccio -- a production one
// that drives the real PMERRLOC peripheral's registers, and a
// software one that evaluates sigma directly for tests and
// no-hardware operation. Both satisfy this same contract so
// ErrorLocator's bookkeeping (and everything upstream of it) is
// identical either way.
type ChienSearcher interface {
	// Search configures and runs the search over a sector of the
	// given bit length, using exactly coefCount sigma coefficients
	// (sigma[0..coefCount-1], i.e. a degree coefCount-1 polynomial).
	// It returns the root positions found, 1-based from the start of
	// the sector bitstream, in the order the peripheral reports them.
	Search(sigma []uint16, coefCount int, sectorSizeBits int) []int
}

// ErrorLocator wraps a ChienSearcher with the bookkeeping spec.md
// §4.3 specifies: building the coefficient slice and sector-length-in-bits
// value from the session's CodeParameters and the solved Workspace,
// then checking the returned root count against deg(sigma).
type ErrorLocator struct {
	Solver   *KeyEquationSolver
	Searcher ChienSearcher

	// SectorSizeIndex is 0 for 512-byte sectors, 1 for 1024-byte
	// sectors -- CodeParameters.SectorSizeCode().
	SectorSizeIndex int
}

// sectorSizeInBits is spec.md §4.3 step 4's formula for the bit
// length PMERRLOC searches over: the data+ECC portion of one sector,
// expressed in terms of the 512-byte base unit plus m = 13/14 ECC bits
// for each of the t correctable errors.
func (e *ErrorLocator) sectorSizeInBits(t int) int {
	return (((e.SectorSizeIndex + 1) * 512 * 8) +
		(t * (13 + e.SectorSizeIndex)))
}

// Locate runs the Chien search over ws's solved sigma and returns the
// root positions. ok is false when the root count disagrees with
// deg(sigma) -- the uncorrectable case from spec.md §4.3's contract.
func (e *ErrorLocator) Locate(ws *Workspace) (roots []int, ok bool) {
	t := e.Solver.T
	degree := e.Solver.Degree(ws)
	coefCount := degree + 1

	sigma := make([]uint16, coefCount)
	copy(sigma, ws.Smu[t+1][:coefCount])

	roots = e.Searcher.Search(sigma, coefCount, e.sectorSizeInBits(t))

	return roots, len(roots) == degree
}
