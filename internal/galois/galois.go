// Package galois builds the GF(2^m) log/antilog tables the PMECC core
// runs on.
//
// On real hardware these tables live in a ROM region supplied by the
// boot ROM (spec.md calls this out as an external collaborator: "The
// log/antilog lookup tables for GF(2^13) and GF(2^14)... supplied as
// read-only memory regions"). Off hardware there is no ROM to read,
// so this package builds the tables itself; cmd/pmeccdump uses the
// tables built here in both its simulated and live-hardware modes; no
// code in this repository reads or compares against the ROM copies.
//
// The construction itself generalizes the teacher's 8-bit symbol
// table builder (see doismellburning/samoyed's src/fx25_init.go,
// init_rs_char) to the two field sizes the BCH code actually uses.
package galois

import "github.com/pkg/errors"

// ErrNotPrimitive is returned when the configured generator polynomial
// does not generate the full multiplicative group of the field -- it
// would silently produce a broken code if used anyway.
var ErrNotPrimitive = errors.New("galois: generator polynomial is not primitive")

// ErrUnsupportedDegree is returned for any m this decoder's BCH code
// does not use. t-error-correcting PMECC only ever runs at m=13
// (512-byte sectors) or m=14 (1024-byte sectors).
var ErrUnsupportedDegree = errors.New("galois: unsupported field degree")

// primitivePoly holds, for each supported m, the generator polynomial
// of GF(2^m) in the same convention the teacher's RS table builder
// uses: bit m is the implicit leading x^m term, and the low m bits are
// the remaining generator coefficients.
//
// These match the primitive polynomials used to build the PMECC ROM
// lookup tables: 0x201b = x^13+x^4+x^3+x+1, 0x4443 = x^14+x^10+x^6+x+1.
var primitivePoly = map[uint]uint32{
	13: 0x201b,
	14: 0x4443,
}

// Field holds the read-only alpha_to / index_of maps for one GF(2^m)
// instance. A Field is immutable once constructed and safe to share
// across every sector decode in a session.
type Field struct {
	M uint // field extension degree, 13 or 14
	N uint // block length, (1<<M)-1

	// AlphaTo[i] = alpha^i as an m-bit field element, for i in [0, N].
	AlphaTo []uint16

	// IndexOf[v] = the discrete log i such that alpha^i == v, for
	// v in [1, N]. IndexOf[0] holds the sentinel value N, which is
	// never a valid log (valid logs run 0..N-1) -- callers must
	// branch on v == 0 rather than trying to interpret this entry
	// numerically.
	IndexOf []uint16
}

// New builds the GF(2^m) tables for one of the two degrees the PMECC
// core supports.
func New(m uint) (*Field, error) {
	poly, ok := primitivePoly[m]
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedDegree, "m=%d", m)
	}

	n := uint((1 << m) - 1)

	f := &Field{
		M:       m,
		N:       n,
		AlphaTo: make([]uint16, n+1),
		IndexOf: make([]uint16, n+1),
	}

	// IndexOf[0] is the sentinel "element is zero" marker: any value
	// strictly >= N is never a log produced by the loop below.
	f.IndexOf[0] = uint16(n)
	f.AlphaTo[n] = 0

	sr := uint32(1)
	top := uint32(1) << m
	for i := uint(0); i < n; i++ {
		f.IndexOf[sr] = uint16(i)
		f.AlphaTo[i] = uint16(sr)

		sr <<= 1
		if sr&top != 0 {
			sr ^= poly
		}
		sr &= uint32(n)
	}

	if sr != 1 {
		return nil, errors.Wrapf(ErrNotPrimitive, "m=%d poly=%#x", m, poly)
	}

	return f, nil
}

// IsZero reports whether v's discrete log is the zero sentinel --
// i.e. whether v itself is the field's zero element. Decoder code
// should always go through this rather than comparing IndexOf
// entries to magic numbers.
func (f *Field) IsZero(v uint16) bool {
	return v == 0
}

// Mul multiplies two field elements via the log tables, the standard
// alpha_to[(index_of[a]+index_of[b]) mod n] identity. Returns 0 if
// either operand is zero (logs are undefined for zero, so this must
// be special-cased rather than looked up).
func (f *Field) Mul(a, b uint16) uint16 {
	if a == 0 || b == 0 {
		return 0
	}
	sum := uint32(f.IndexOf[a]) + uint32(f.IndexOf[b])
	return f.AlphaTo[sum%uint32(f.N)]
}

// Square returns a^2 via the log tables, using S_2k = S_k^2 identity
// that SyndromeBuilder relies on for even syndromes.
func (f *Field) Square(a uint16) uint16 {
	if a == 0 {
		return 0
	}
	return f.AlphaTo[(2*uint32(f.IndexOf[a]))%uint32(f.N)]
}
