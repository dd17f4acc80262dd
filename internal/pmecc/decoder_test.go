package pmecc

import (
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/kb9vcn/pmecc/internal/galois"
	"github.com/kb9vcn/pmecc/internal/pmeccconfig"
	"github.com/kb9vcn/pmecc/internal/pmeccio"
	"github.com/kb9vcn/pmecc/internal/pmecctest"
)

// newTestDecoder builds a t=4, 512-byte-sector, 2048-byte-page decoder
// with a software (non-mmap) Chien searcher and a synthetic
// RemainderSource that will reproduce exactly wantPositions' syndromes
// for sector 0 the next time DecodePage asks for them.
func newTestDecoder(t *testing.T, wantPositions []int) (*PageDecoder, *pmeccconfig.CodeParameters) {
	t.Helper()

	f, err := galois.New(13)
	require.NoError(t, err)

	params, err := pmeccconfig.New(4, 512, 2048, 2)
	require.NoError(t, err)

	syn := &SyndromeBuilder{
		Field: f,
		T:     params.T,
		Rem:   &pmecctest.SyntheticRemainderSource{Field: f, Positions: wantPositions},
	}
	solver := &KeyEquationSolver{Field: f, T: params.T}
	locator := &ErrorLocator{
		Solver:          solver,
		Searcher:        &pmeccio.SoftwareLocator{Field: f},
		SectorSizeIndex: params.SectorSizeCode(),
	}
	correct := &Corrector{SectorSizeBytes: params.SectorSizeBytes}

	return &PageDecoder{
		Params:   params,
		Field:    f,
		Syndrome: syn,
		Solver:   solver,
		Locator:  locator,
		Correct:  correct,
	}, params
}

func newBlankPage(params *pmeccconfig.CodeParameters) []byte {
	eccTotal := params.SectorsPerPage * params.EccBytesPerSec
	return make([]byte, params.PageSizeBytes+params.EccStartOffset+eccTotal)
}

// flipBit mirrors Corrector.Apply's byte/bit addressing convention so
// tests can predict exactly which buffer byte a given 1-based sector
// bit position touches.
func flipBit(sectorData, sectorECC []byte, sectorSizeBytes int, p int) {
	p0 := p - 1
	byteOffset := p0 / 8
	bitOffset := uint(p0 % 8)
	if byteOffset < sectorSizeBytes {
		sectorData[byteOffset] ^= 1 << bitOffset
	} else {
		sectorECC[byteOffset-sectorSizeBytes] ^= 1 << bitOffset
	}
}

func TestPageDecoder_CleanStatusWord(t *testing.T) {
	d, params := newTestDecoder(t, nil)
	buf := newBlankPage(params)
	orig := append([]byte(nil), buf...)

	res, err := d.DecodePage(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, ResultClean, res)
	assert.Equal(t, orig, buf)
}

func TestPageDecoder_ErasedPage(t *testing.T) {
	d, params := newTestDecoder(t, []int{17})
	buf := newBlankPage(params)

	eccTotal := params.SectorsPerPage * params.EccBytesPerSec
	eccStart := params.PageSizeBytes + params.EccStartOffset
	for i := 0; i < eccTotal; i++ {
		buf[eccStart+i] = 0xFF
	}
	orig := append([]byte(nil), buf...)

	res, err := d.DecodePage(buf, 1) // sector 0 flagged, but erased wins
	require.NoError(t, err)
	assert.Equal(t, ResultClean, res)
	assert.Equal(t, orig, buf)
}

func TestPageDecoder_CorrectsInjectedBitErrors(t *testing.T) {
	maxPos := (1 * 512 * 8) + (4 * 13) // sectorSizeInBits(t=4) at sectorSizeIndex=0

	rapid.Check(t, func(rt *rapid.T) {
		w := rapid.IntRange(0, 4).Draw(rt, "weight")
		seen := map[int]bool{}
		var positions []int
		for len(positions) < w {
			p := rapid.IntRange(1, maxPos).Draw(rt, "position")
			if seen[p] {
				continue
			}
			seen[p] = true
			positions = append(positions, p)
		}

		d, params := newTestDecoder(t, positions)
		buf := newBlankPage(params)
		for i := range buf {
			buf[i] = byte(i % 251)
		}
		// keep ECC region from reading as all-0xFF by construction of the fill above

		expected := append([]byte(nil), buf...)
		dataStart := 0
		eccStart := params.PageSizeBytes + params.EccStartOffset
		for _, p := range positions {
			flipBit(expected[dataStart:dataStart+params.SectorSizeBytes], expected[eccStart:eccStart+params.EccBytesPerSec], params.SectorSizeBytes, p)
		}

		res, err := d.DecodePage(buf, 1)
		assert.NoError(rt, err)
		assert.Equal(rt, ResultCorrected, res)
		assert.Equal(rt, expected, buf)
	})
}

func TestPageDecoder_UncorrectableReturnsError(t *testing.T) {
	// A position outside the valid Chien-search range but still a
	// legal field index: the key-equation solver will synthesize a
	// nonzero-degree locator from it, but the software searcher can
	// never find its root within [0, sectorSizeBits), so the root
	// count always disagrees with the degree -- deterministically
	// uncorrectable, unlike an over-capacity-weight scenario.
	maxPos := (1 * 512 * 8) + (4 * 13)
	d, params := newTestDecoder(t, []int{maxPos + 100})
	buf := newBlankPage(params)
	for i := range buf {
		buf[i] = byte(i % 251)
	}

	res, err := d.DecodePage(buf, 1)
	require.Error(t, err)
	assert.Equal(t, ResultUncorrectable, res)
	assert.True(t, pkgerrors.Is(err, ErrUncorrectable))
}

func TestPageDecoder_IdempotentOnCleanSector(t *testing.T) {
	// Decoding twice in a row with no flagged sectors must be a no-op
	// both times -- spec.md's idempotence property.
	d, params := newTestDecoder(t, nil)
	buf := newBlankPage(params)
	for i := range buf {
		buf[i] = byte(i % 251)
	}
	orig := append([]byte(nil), buf...)

	res1, err := d.DecodePage(buf, 0)
	require.NoError(t, err)
	res2, err := d.DecodePage(buf, 0)
	require.NoError(t, err)

	assert.Equal(t, ResultClean, res1)
	assert.Equal(t, ResultClean, res2)
	assert.Equal(t, orig, buf)
}
