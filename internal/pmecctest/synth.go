// Package pmecctest builds synthetic partial syndromes for a chosen
// set of bit-error positions, standing in for real PMECC hardware in
// tests that need to drive internal/pmecc's SyndromeBuilder end to
// end without an actual register block.
//
// It never encodes real BCH codewords -- spec.md explicitly puts
// ECC-byte generation on write out of scope, since that's the
// hardware's job on a real device. Instead it leans on the BCH
// syndrome's own definition: for any error pattern confined to
// positions l_1..l_w over an (unknown, unmaterialized) valid
// codeword, the syndrome S_i is exactly the XOR of one term per error
// position, since a valid codeword has all-zero syndromes before the
// errors were introduced. The term for 0-based bit l is alpha^(-i*l):
// that is the convention under which the solved sigma(x) vanishes at
// alpha^l itself, which is where pmeccio.SoftwareLocator looks for
// roots. Round-trip
// tests only need to check "decode corrects exactly these bits," and
// never need the clean codeword's actual bytes to do so.
package pmecctest

import "github.com/kb9vcn/pmecc/internal/galois"

// ErrorSyndrome computes the BCH syndrome value S_i for a set of
// 1-based bit positions: S_i = XOR_j alpha^(-i*(position_j-1) mod n).
func ErrorSyndrome(f *galois.Field, i int, positions []int) uint16 {
	var s uint16
	for _, p := range positions {
		exp := (f.N - (uint(i)*uint(p-1))%f.N) % f.N
		s ^= f.AlphaTo[exp]
	}
	return s
}

// basisVectors returns the m basis field elements b_j = alpha^(i*j),
// j = 0..m-1, that SyndromeBuilder.Substitute's odd-syndrome formula
// combines: S_i = XOR over set bits j of PartialSyn[i] of b_j.
func basisVectors(f *galois.Field, i int) []uint16 {
	b := make([]uint16, f.M)
	for j := uint(0); j < f.M; j++ {
		b[j] = f.AlphaTo[(uint(i)*j)%f.N]
	}
	return b
}

// solveGF2 finds the m-bit value x such that XOR over set bits j of x
// of basis[j] equals target, by Gauss-Jordan elimination over GF(2).
// Returns ok=false if basis is singular (should never happen for the
// odd i values SyndromeBuilder actually uses -- this hardware scheme
// is only well-defined when it holds).
func solveGF2(basis []uint16, m uint, target uint16) (uint16, bool) {
	rows := make([]uint32, m)
	for r := uint(0); r < m; r++ {
		var coeffs uint32
		for j := uint(0); j < m; j++ {
			if basis[j]&(1<<r) != 0 {
				coeffs |= 1 << j
			}
		}
		rhs := uint32(0)
		if target&(1<<r) != 0 {
			rhs = 1
		}
		rows[r] = coeffs | (rhs << m)
	}

	pivotRowOf := make([]int, m)
	for i := range pivotRowOf {
		pivotRowOf[i] = -1
	}

	next := 0
	for col := uint(0); col < m && next < int(m); col++ {
		sel := -1
		for r := next; r < int(m); r++ {
			if rows[r]&(1<<col) != 0 {
				sel = r
				break
			}
		}
		if sel == -1 {
			continue
		}
		rows[next], rows[sel] = rows[sel], rows[next]

		for r := 0; r < int(m); r++ {
			if r != next && rows[r]&(1<<col) != 0 {
				rows[r] ^= rows[next]
			}
		}

		pivotRowOf[col] = next
		next++
	}

	if next < int(m) {
		return 0, false
	}

	var x uint16
	for col := uint(0); col < m; col++ {
		row := rows[pivotRowOf[col]]
		if row&(1<<m) != 0 {
			x |= 1 << col
		}
	}
	return x, true
}

// SyntheticRemainderSource implements pmecc.RemainderSource over a
// fixed set of 1-based bit error positions within one sector's
// data+ECC bitstream. ReadRemainders ignores sectorIndex (tests only
// ever target a single sector at a time).
type SyntheticRemainderSource struct {
	Field     *galois.Field
	Positions []int
}

// ReadRemainders returns the t partial-syndrome words that would make
// SyndromeBuilder.Substitute reconstruct exactly the syndromes of
// s.Positions.
func (s *SyntheticRemainderSource) ReadRemainders(sectorIndex int, t int) []uint16 {
	out := make([]uint16, t)
	for k := 0; k < t; k++ {
		i := 2*k + 1
		target := ErrorSyndrome(s.Field, i, s.Positions)
		basis := basisVectors(s.Field, i)
		p, ok := solveGF2(basis, s.Field.M, target)
		if !ok {
			panic("pmecctest: singular basis for syndrome index")
		}
		out[k] = p
	}
	return out
}
