package pmeccconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pmecc.yaml")
	contents := "t: 4\nsector_size_bytes: 512\npage_size_bytes: 2048\necc_start_offset: 2\npmecc_base: 0xffffe000\npmerrloc_base: 0xffffe600\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	fc, params, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 4, fc.T)
	assert.Equal(t, uint64(0xffffe000), fc.PMECCBase)
	assert.Equal(t, 7, params.EccBytesPerSec)
}

func TestLoadFile_InvalidConfigPropagatesErrConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pmecc.yaml")
	contents := "t: 3\nsector_size_bytes: 512\npage_size_bytes: 2048\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	_, _, err := LoadFile(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfigInvalid)
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
