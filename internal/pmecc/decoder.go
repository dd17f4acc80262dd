// Package pmecc implements the core PMECC BCH decoder pipeline:
// syndrome assembly, field substitution, the Berlekamp-Massey
// key-equation solver, Chien-search error location, and in-place bit
// correction. See SPEC_FULL.md §2 for the module breakdown.
package pmecc

import (
	"github.com/charmbracelet/log"
	"github.com/pkg/errors"

	"github.com/kb9vcn/pmecc/internal/galois"
	"github.com/kb9vcn/pmecc/internal/pmeccconfig"
)

// Result is the caller-facing outcome of decoding one page, per
// spec.md §6's contract: {Clean, Corrected, Uncorrectable}.
type Result int

const (
	// ResultClean means the page needed no correction: either the
	// status bitmap was empty, or the page was detected as erased.
	ResultClean Result = iota
	// ResultCorrected means one or more sectors had errors, all
	// within the code's correcting capability, and the buffer was
	// fixed in place.
	ResultCorrected
	// ResultUncorrectable means some sector's error weight exceeded
	// t. The buffer may already hold partial corrections from
	// earlier sectors in the same page; callers must discard the
	// whole page rather than consume it.
	ResultUncorrectable
)

func (r Result) String() string {
	switch r {
	case ResultClean:
		return "clean"
	case ResultCorrected:
		return "corrected"
	case ResultUncorrectable:
		return "uncorrectable"
	default:
		return "unknown"
	}
}

// SaddrReader lets the PageDecoder double-check the statically
// declared ECC layout against a live register block's PMECC_SADDR, as
// SPEC_FULL.md §7 resolves the "ECC start offset read-back" open
// question. Passing a nil SaddrReader skips the check entirely (the
// common case when there is no live hardware, e.g. under test).
type SaddrReader interface {
	SADDR() (uint32, error)
}

// PageDecoder orchestrates SyndromeBuilder -> KeyEquationSolver ->
// ErrorLocator -> Corrector across every sector a page's status word
// flags, per spec.md §4.5.
type PageDecoder struct {
	Params *pmeccconfig.CodeParameters
	Field  *galois.Field

	Syndrome *SyndromeBuilder
	Solver   *KeyEquationSolver
	Locator  *ErrorLocator
	Correct  *Corrector

	// Saddr, if non-nil, is consulted once per DecodePage call to
	// assert the live hardware's reported ECC offset agrees with
	// Params.EccStartOffset.
	Saddr SaddrReader

	Log *log.Logger
}

// DecodePage implements spec.md §4.5's decode_page entry point.
// pageBuffer must be page_size+oob_size bytes long, laid out with
// data in [0, page_size) and ECC bytes in
// [page_size+ecc_start_offset, ...). statusWord is the per-sector
// error bitmap the PMECC hardware produced for this page (bit s set
// means sector s had a detected error).
//
// On ResultUncorrectable the buffer may already contain partial
// corrections from sectors processed before the failing one; per
// spec.md §7 the caller must treat the whole page as invalid rather
// than consume it.
func (d *PageDecoder) DecodePage(pageBuffer []byte, statusWord uint32) (Result, error) {
	if statusWord == 0 {
		d.logResult(ResultClean, "no error bits set")
		return ResultClean, nil
	}

	if d.pageIsErased(pageBuffer) {
		d.logResult(ResultClean, "erased")
		return ResultClean, nil
	}

	if err := d.checkSaddr(); err != nil {
		return ResultUncorrectable, err
	}

	ws := &Workspace{}

	for s := 0; s < d.Params.SectorsPerPage; s++ {
		if statusWord&(1<<uint(s)) == 0 {
			continue
		}

		sectorData, sectorECC := d.sectorRegions(pageBuffer, s)

		d.Syndrome.Build(ws, s)
		d.Syndrome.Substitute(ws)
		d.Solver.Solve(ws)

		roots, ok := d.Locator.Locate(ws)
		if !ok {
			d.log().Warnf("sector %d uncorrectable: degree=%d roots=%d", s, d.Solver.Degree(ws), len(roots))
			return ResultUncorrectable, errors.Wrapf(ErrUncorrectable, "sector %d", s)
		}

		d.Correct.Apply(sectorData, sectorECC, roots)
		d.log().Debugf("sector %d corrected: %d bit(s) at %v", s, len(roots), roots)
	}

	d.logResult(ResultCorrected, "")
	return ResultCorrected, nil
}

// pageIsErased implements spec.md §4.5 step 3: a page whose entire
// ECC region reads back as 0xFF is treated as unwritten, never as a
// sector full of errors. Matches original_source's
// check_pmecc_ecc_data, generalized across every sector's ECC bytes
// rather than just the first.
func (d *PageDecoder) pageIsErased(pageBuffer []byte) bool {
	eccTotal := d.Params.SectorsPerPage * d.Params.EccBytesPerSec
	start := d.Params.PageSizeBytes + d.Params.EccStartOffset
	for i := 0; i < eccTotal; i++ {
		if pageBuffer[start+i] != 0xFF {
			return false
		}
	}
	return true
}

// sectorRegions slices out sector s's data bytes and its ECC bytes
// from the page buffer, per the addressing rule in spec.md §4.5.
func (d *PageDecoder) sectorRegions(pageBuffer []byte, s int) (data, ecc []byte) {
	dataStart := s * d.Params.SectorSizeBytes
	data = pageBuffer[dataStart : dataStart+d.Params.SectorSizeBytes]

	eccStart := d.Params.PageSizeBytes + d.Params.EccStartOffset + s*d.Params.EccBytesPerSec
	ecc = pageBuffer[eccStart : eccStart+d.Params.EccBytesPerSec]

	return data, ecc
}

func (d *PageDecoder) checkSaddr() error {
	if d.Saddr == nil {
		return nil
	}

	reported, err := d.Saddr.SADDR()
	if err != nil {
		return errors.Wrap(err, "reading PMECC_SADDR")
	}

	if int(reported) != d.Params.EccStartOffset {
		return errors.Wrapf(ErrLayoutMismatch, "declared=%d hardware=%d", d.Params.EccStartOffset, reported)
	}

	return nil
}

func (d *PageDecoder) log() *log.Logger {
	if d.Log != nil {
		return d.Log
	}
	return log.Default()
}

func (d *PageDecoder) logResult(r Result, reason string) {
	if reason == "" {
		d.log().Infof("page decode: %s", r)
		return
	}
	d.log().Infof("page decode: %s (reason=%s)", r, reason)
}
