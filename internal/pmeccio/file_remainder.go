package pmeccio

import (
	"encoding/binary"
	"os"

	"github.com/pkg/errors"
)

// FileRemainderSource implements pmecc.RemainderSource by replaying a
// previously captured REM-table dump: SectorsPerPage*t 16-bit
// native-endian words laid out sector-major, the same layout
// RegisterBlock.ReadRemainders reads live out of the mmap'd REM table.
// This is what lets --simulate mode replay a page offline once its
// partial syndromes have been captured from real hardware once.
type FileRemainderSource struct {
	words []uint16
	t     int
}

// LoadFileRemainderSource reads a REM-table capture from path.
func LoadFileRemainderSource(path string, sectorsPerPage, t int) (*FileRemainderSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading REM capture %q", path)
	}

	want := sectorsPerPage * t * 2
	if len(data) != want {
		return nil, errors.Errorf("REM capture %q is %d bytes, want %d (%d sectors * t=%d * 2)", path, len(data), want, sectorsPerPage, t)
	}

	words := make([]uint16, sectorsPerPage*t)
	for i := range words {
		words[i] = binary.NativeEndian.Uint16(data[2*i : 2*i+2])
	}

	return &FileRemainderSource{words: words, t: t}, nil
}

// ReadRemainders implements pmecc.RemainderSource.
func (s *FileRemainderSource) ReadRemainders(sectorIndex int, t int) []uint16 {
	base := sectorIndex * s.t
	return s.words[base : base+t]
}
