// Package pmeccconfig holds the immutable CodeParameters for a PMECC
// decode session and the config-invalid error taxonomy from spec.md
// §7. Nothing here is hot-path: it is evaluated once at session init,
// the way the teacher's is_valid_pmecc_params/init_pmecc_descripter
// pair in original_source/driver/pmecc.c run once before any page is
// touched.
package pmeccconfig

import (
	"github.com/pkg/errors"
)

// ErrConfigInvalid is the taxonomy root for every rejected
// CodeParameters. Wrap it (via errors.Wrap) rather than returning a
// bare string so callers can errors.Is against it regardless of which
// specific field was bad.
var ErrConfigInvalid = errors.New("pmecc: invalid configuration")

// Correcting capabilities the PMECC hardware supports.
var validT = map[int]bool{2: true, 4: true, 8: true, 12: true, 24: true}

// Page sizes the hardware's sector-per-page field can express.
var validPageSize = map[int]bool{2048: true, 4096: true}

// eccBytesTable is the ECC-byte-per-sector lookup from spec.md §3,
// indexed [t][sectorSizeIs1024].
var eccBytesTable = map[int][2]int{
	// t: {sector=512, sector=1024}
	2:  {4, 4},
	4:  {7, 7},
	8:  {13, 14},
	12: {20, 21},
	24: {39, 42},
}

// ECCBytesPerSector returns the number of ECC bytes the hardware
// produces for one sector at the given correcting capability and
// sector size, kept as a standalone lookup (rather than inlined into
// New) because the original C driver exposes get_pmecc_bytes() as its
// own API that other driver code calls independently of a full
// descriptor.
func ECCBytesPerSector(t, sectorSizeBytes int) (int, error) {
	row, ok := eccBytesTable[t]
	if !ok {
		return 0, errors.Wrapf(ErrConfigInvalid, "correcting capability t=%d not in {2,4,8,12,24}", t)
	}

	switch sectorSizeBytes {
	case 512:
		return row[0], nil
	case 1024:
		return row[1], nil
	default:
		return 0, errors.Wrapf(ErrConfigInvalid, "sector size %d not in {512,1024}", sectorSizeBytes)
	}
}

// CodeParameters is immutable for the lifetime of a decode session --
// see spec.md §3's Data Model.
type CodeParameters struct {
	T               int // correcting capability: 2, 4, 8, 12 or 24
	SectorSizeBytes int // 512 or 1024
	M               uint // Galois field extension degree: 13 for 512, 14 for 1024
	N               uint // code block length, (1<<M)-1
	EccBytesPerSec  int  // derived from the ECC-byte table
	PageSizeBytes   int  // 2048 or 4096
	SectorsPerPage  int  // PageSizeBytes / SectorSizeBytes
	EccStartOffset  int  // first ECC byte position within the OOB area
}

// New validates and constructs a CodeParameters. It returns a wrapped
// ErrConfigInvalid (never a partially-built value) for any of the
// three rejection reasons spec.md §7 enumerates: bad t, bad sector
// size, or bad page size. eccStartOffset is caller-supplied (it comes
// from the OOB layout the NAND driver configured, which is out of
// this core's scope to derive) and is not itself validated beyond
// being non-negative.
func New(t, sectorSizeBytes, pageSizeBytes, eccStartOffset int) (*CodeParameters, error) {
	if !validT[t] {
		return nil, errors.Wrapf(ErrConfigInvalid, "correcting capability t=%d not in {2,4,8,12,24}", t)
	}
	if sectorSizeBytes != 512 && sectorSizeBytes != 1024 {
		return nil, errors.Wrapf(ErrConfigInvalid, "sector size %d not in {512,1024}", sectorSizeBytes)
	}
	if !validPageSize[pageSizeBytes] {
		return nil, errors.Wrapf(ErrConfigInvalid, "page size %d not in {2048,4096}", pageSizeBytes)
	}
	if eccStartOffset < 0 {
		return nil, errors.Wrapf(ErrConfigInvalid, "ecc start offset %d must be non-negative", eccStartOffset)
	}

	// Every validPageSize/sectorSizeBytes pair divides evenly (2048 and
	// 4096 are both whole multiples of 512 and 1024), so there is no
	// separate divisibility check here -- the sectorsPerPage switch
	// below is what actually bounds the combination.
	eccBytes, err := ECCBytesPerSector(t, sectorSizeBytes)
	if err != nil {
		return nil, err
	}

	m := uint(13)
	if sectorSizeBytes == 1024 {
		m = 14
	}

	sectorsPerPage := pageSizeBytes / sectorSizeBytes
	switch sectorsPerPage {
	case 1, 2, 4, 8:
	default:
		return nil, errors.Wrapf(ErrConfigInvalid, "page size %d / sector size %d yields %d sectors, must be 1, 2, 4 or 8", pageSizeBytes, sectorSizeBytes, sectorsPerPage)
	}

	return &CodeParameters{
		T:               t,
		SectorSizeBytes: sectorSizeBytes,
		M:               m,
		N:               uint(1<<m) - 1,
		EccBytesPerSec:  eccBytes,
		PageSizeBytes:   pageSizeBytes,
		SectorsPerPage:  sectorsPerPage,
		EccStartOffset:  eccStartOffset,
	}, nil
}

// SectorSizeCode maps SectorSizeBytes to the 0/1 PMERRLOC config-register
// encoding used by RegisterBlock.SetSectorSizeCode and by spec.md
// §4.3's sector length formula (ErrorLocator.SectorSizeIndex).
func (c *CodeParameters) SectorSizeCode() int {
	if c.SectorSizeBytes == 1024 {
		return 1
	}
	return 0
}
