package pmeccio

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

// HexDump renders p as 16-byte rows of "offset: hex  ascii", the same
// layout as the teacher's fx_hex_dump (src/fx25_init.go) and the
// original C driver's buf_dump/page_dump. Kept as a pure string
// builder rather than printing directly so callers can route it
// through whichever logger/level they want.
func HexDump(p []byte) string {
	var b strings.Builder

	for offset := 0; offset < len(p); offset += 16 {
		n := min(16, len(p)-offset)
		row := p[offset : offset+n]

		fmt.Fprintf(&b, "  %03x: ", offset)
		for i := 0; i < 16; i++ {
			if i < n {
				fmt.Fprintf(&b, " %02x", row[i])
			} else {
				b.WriteString("   ")
			}
		}
		b.WriteString("  ")
		for _, c := range row {
			if c >= 0x20 && c <= 0x7e {
				b.WriteByte(c)
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}

	return b.String()
}

// DumpPage logs a full page+OOB buffer at Debug level, split into its
// data and OOB halves -- the same unconditional dump-on-failure
// behavior as the original's page_dump, called from pmecc_process on
// an uncorrectable result.
func DumpPage(logger *log.Logger, buf []byte, pageSize, oobSize int) {
	logger.Debug("page data", "dump", "\n"+HexDump(buf[:pageSize]))
	logger.Debug("page oob", "dump", "\n"+HexDump(buf[pageSize:pageSize+oobSize]))
}
