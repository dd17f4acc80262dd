package pmecc

// Corrector flips the erroneous bits ErrorLocator found, per spec.md
// §4.4. It performs no verification pass -- the algebra already
// guarantees correctness once the key-equation solve and Chien search
// both succeeded, matching the original's ErrorCorrection which never
// re-checks the flipped bits either.
type Corrector struct {
	SectorSizeBytes int
}

// Apply flips the bit at each root position in roots (1-based,
// counting bits from the start of the sector bitstream) within either
// sectorData (the sector's data bytes) or sectorECC (that sector's
// ECC bytes in the OOB area), depending on whether the position falls
// inside the data region or past it.
func (c *Corrector) Apply(sectorData, sectorECC []byte, roots []int) {
	for _, p := range roots {
		p0 := p - 1
		byteOffset := p0 / 8
		bitOffset := uint(p0 % 8)

		if byteOffset < c.SectorSizeBytes {
			sectorData[byteOffset] ^= 1 << bitOffset
		} else {
			sectorECC[byteOffset-c.SectorSizeBytes] ^= 1 << bitOffset
		}
	}
}
