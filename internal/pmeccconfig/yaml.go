package pmeccconfig

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of a PMECC session config, loaded
// the same way the teacher loads tocalls.yaml in src/deviceid.go:
// a single yaml.Unmarshal into a plain struct, no schema validation
// library.
type FileConfig struct {
	T               int `yaml:"t"`
	SectorSizeBytes int `yaml:"sector_size_bytes"`
	PageSizeBytes   int `yaml:"page_size_bytes"`
	EccStartOffset  int `yaml:"ecc_start_offset"`

	// PMECCBase and PMERRLOCBase are physical addresses of the
	// register blocks, only meaningful when driving real hardware
	// via internal/pmeccio's mmap-backed RegisterBlock. They are
	// ignored by the SoftwareLocator test/simulation path.
	PMECCBase    uint64 `yaml:"pmecc_base,omitempty"`
	PMERRLOCBase uint64 `yaml:"pmerrloc_base,omitempty"`
}

// LoadFile reads and validates a PMECC session config file, returning
// both the raw file shape (for the register base addresses a
// CodeParameters has no room for) and the validated CodeParameters
// built from it.
func LoadFile(path string) (*FileConfig, *CodeParameters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "reading pmecc config %q", path)
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, nil, errors.Wrapf(err, "parsing pmecc config %q", path)
	}

	params, err := New(fc.T, fc.SectorSizeBytes, fc.PageSizeBytes, fc.EccStartOffset)
	if err != nil {
		return nil, nil, errors.WithMessagef(err, "pmecc config %q", path)
	}

	return &fc, params, nil
}
