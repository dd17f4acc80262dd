package pmeccio

import "unsafe"

// ptrAt returns a pointer to the uint32 at byte offset off within
// mem. mem must outlive the returned pointer -- it always does here,
// since mem is the mmap'd register window itself.
func ptrAt(mem []byte, off int) unsafe.Pointer {
	return unsafe.Pointer(&mem[off])
}
