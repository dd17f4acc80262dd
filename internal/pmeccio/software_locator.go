// Package pmeccio holds the hardware-adjacent collaborators spec.md
// treats as external to the core: the PMECC/PMERRLOC register blocks,
// the NAND driver's sysfs-exposed device metadata, and debug-dump
// formatting. See SPEC_FULL.md §4 for the rationale behind each
// component here.
package pmeccio

import "github.com/kb9vcn/pmecc/internal/galois"

// SoftwareLocator implements pmecc.ChienSearcher by evaluating
// sigma(x) directly at every field power, rather than driving a real
// PMERRLOC peripheral. It exists for two reasons: tests need a source
// of truth that does not require mmap'd hardware, and cmd/pmeccdump's
// --simulate mode lets the decoder run on a workstation with no NAND
// controller at all.
//
// This is exactly what spec.md's glossary calls Chien search:
// "exhaustive evaluation of sigma at every field power to find its
// roots." sigma(x)'s roots are, per spec.md §4.2, the field powers
// alpha^l at the error positions l themselves (not their inverses),
// so root position l is returned as l+1, matching the 1-based EL0..EL_t-1
// convention spec.md §6 documents for the real peripheral.
type SoftwareLocator struct {
	Field *galois.Field
}

// Search evaluates sigma at every candidate bit position in
// [0, sectorSizeBits) and returns the 1-based positions where it's
// zero.
func (s *SoftwareLocator) Search(sigma []uint16, coefCount int, sectorSizeBits int) []int {
	f := s.Field

	var roots []int
	for l := 0; l < sectorSizeBits; l++ {
		var sum uint16
		for k := 0; k < coefCount; k++ {
			if sigma[k] == 0 {
				continue
			}
			exponent := (uint(f.IndexOf[sigma[k]]) + uint(l)*uint(k)) % f.N
			sum ^= f.AlphaTo[exponent]
		}
		if sum == 0 {
			roots = append(roots, l+1)
		}
	}

	return roots
}
