package pmeccio

import (
	"encoding/binary"
	"os"
	"sync/atomic"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Register offsets within the PMECC block, per spec.md §6. All
// offsets are in bytes from the block's base address.
const (
	pmeccCTRL  = 0x00
	pmeccCFG   = 0x04
	pmeccSAREA = 0x08
	pmeccSADDR = 0x0c
	pmeccEADDR = 0x10
	pmeccCLK   = 0x14
	pmeccIDR   = 0x30
	pmeccSR    = 0x38
	pmeccISR   = 0x3c
	pmeccREM   = 0x40

	// pmeccRemStride is the per-sector stride within the REM table,
	// per spec.md §4.1.
	pmeccRemStride = 0x40

	pmeccSRBusy = 1 << 0
)

// Register offsets within the PMERRLOC block, per spec.md §6.
const (
	pmerrlocELDIS  = 0x00
	pmerrlocELCFG  = 0x04
	pmerrlocELEN   = 0x08
	pmerrlocELISR  = 0x0c
	pmerrlocSIGMA0 = 0x10
	pmerrlocEL0    = 0x60

	pmerrlocELISRDone       = 1 << 0
	pmerrlocELISRErrCntMask = 0xff00
	pmerrlocELISRErrCntSh   = 8
)

// mmapRegion is a volatile-access view over one mmap'd register
// block. Every load/store goes through sync/atomic, Go's nearest
// equivalent to C's volatile qualifier on readl/writel, so the
// compiler never reorders or coalesces accesses to these addresses.
type mmapRegion struct {
	mem []byte
}

func openRegion(f *os.File, base int64, size int) (*mmapRegion, error) {
	data, err := unix.Mmap(int(f.Fd()), base, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, errors.Wrapf(err, "mmap base=%#x size=%#x", base, size)
	}
	return &mmapRegion{mem: data}, nil
}

func (r *mmapRegion) close() error {
	return unix.Munmap(r.mem)
}

func (r *mmapRegion) word(off int) *uint32 {
	return (*uint32)(ptrAt(r.mem, off))
}

func (r *mmapRegion) readl(off int) uint32 {
	return atomic.LoadUint32(r.word(off))
}

func (r *mmapRegion) writel(off int, v uint32) {
	atomic.StoreUint32(r.word(off), v)
}

// readRemainderWord performs a volatile (atomic) 32-bit load of the
// register word holding the 16-bit entry at off, then takes that
// entry out of the loaded value in native byte order; the mapped
// slice itself is never read byte by byte -- per spec.md §9's caution
// on the partial syndromes' byte layout.
func (r *mmapRegion) readRemainderWord(off int) uint16 {
	var b [4]byte
	binary.NativeEndian.PutUint32(b[:], r.readl(off&^3))
	return binary.NativeEndian.Uint16(b[off&3 : off&3+2])
}

// RegisterBlock is the production register interface: a live mmap of
// the PMECC and PMERRLOC blocks at the physical addresses the SoC
// documents (these vary across AT91 variants, hence configurable
// rather than compiled-in constants).
type RegisterBlock struct {
	pmecc    *mmapRegion
	pmerrloc *mmapRegion
	devMem   *os.File
}

// OpenRegisterBlock mmaps /dev/mem at the given physical base
// addresses for the PMECC and PMERRLOC register windows. Requires
// CAP_SYS_RAWIO (typically root) on the running system.
func OpenRegisterBlock(pmeccBase, pmerrlocBase uint64) (*RegisterBlock, error) {
	f, err := os.OpenFile("/dev/mem", os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, errors.Wrap(err, "opening /dev/mem")
	}

	pmecc, err := openRegion(f, int64(pmeccBase), 0x200)
	if err != nil {
		f.Close()
		return nil, err
	}

	pmerrloc, err := openRegion(f, int64(pmerrlocBase), 0x200)
	if err != nil {
		pmecc.close()
		f.Close()
		return nil, err
	}

	return &RegisterBlock{pmecc: pmecc, pmerrloc: pmerrloc, devMem: f}, nil
}

// Close unmaps both register windows and closes /dev/mem.
func (r *RegisterBlock) Close() error {
	err1 := r.pmecc.close()
	err2 := r.pmerrloc.close()
	err3 := r.devMem.Close()
	if err1 != nil {
		return err1
	}
	if err2 != nil {
		return err2
	}
	return err3
}

// WaitReady busy-waits for the PMECC block's BUSY flag to clear, the
// precondition spec.md §4.5 step 1 requires before DecodePage is
// called.
func (r *RegisterBlock) WaitReady() {
	for r.pmecc.readl(pmeccSR)&pmeccSRBusy != 0 {
	}
}

// StatusWord reads the PMECC per-sector error bitmap (ISR).
func (r *RegisterBlock) StatusWord() uint32 {
	return r.pmecc.readl(pmeccISR)
}

// SADDR implements pmecc.SaddrReader: reads back the hardware's
// configured ECC start offset so PageDecoder can assert it against
// the statically declared layout.
func (r *RegisterBlock) SADDR() (uint32, error) {
	return r.pmecc.readl(pmeccSADDR), nil
}

// ReadRemainders implements pmecc.RemainderSource: reads the t
// 16-bit partial syndromes for one sector out of the REM table.
func (r *RegisterBlock) ReadRemainders(sectorIndex int, t int) []uint16 {
	base := pmeccREM + sectorIndex*pmeccRemStride

	out := make([]uint16, t)
	for k := 0; k < t; k++ {
		out[k] = r.pmecc.readRemainderWord(base + 2*k)
	}
	return out
}

// Search implements pmecc.ChienSearcher by driving the real PMERRLOC
// peripheral, per spec.md §4.3.
func (r *RegisterBlock) Search(sigma []uint16, coefCount int, sectorSizeBits int) []int {
	r.pmerrloc.writel(pmerrlocELDIS, 0xFFFFFFFF)

	for i, c := range sigma[:coefCount] {
		r.pmerrloc.writel(pmerrlocSIGMA0+4*i, uint32(c))
	}

	cfg := r.pmerrloc.readl(pmerrlocELCFG)
	r.pmerrloc.writel(pmerrlocELCFG, (uint32(coefCount-1)<<16)|(cfg&0xffff))

	r.pmerrloc.writel(pmerrlocELEN, uint32(sectorSizeBits))

	for r.pmerrloc.readl(pmerrlocELISR)&pmerrlocELISRDone == 0 {
	}

	isr := r.pmerrloc.readl(pmerrlocELISR)
	rootCount := int((isr & pmerrlocELISRErrCntMask) >> pmerrlocELISRErrCntSh)

	roots := make([]int, rootCount)
	for i := 0; i < rootCount; i++ {
		roots[i] = int(r.pmerrloc.readl(pmerrlocEL0 + 4*i))
	}
	return roots
}

// SetSectorSizeCode writes the sector-size bits into PMERRLOC_ELCFG's
// low half, which spec.md §4.5's ErrorLocation leaves in place across
// sectors -- it's set once per page, not per sector.
func (r *RegisterBlock) SetSectorSizeCode(code int) {
	cfg := r.pmerrloc.readl(pmerrlocELCFG)
	r.pmerrloc.writel(pmerrlocELCFG, (cfg&0xffff0000)|uint32(code))
}
