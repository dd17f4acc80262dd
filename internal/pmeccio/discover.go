package pmeccio

import (
	"strconv"

	"github.com/jochenvg/go-udev"
	"github.com/pkg/errors"
)

// DiscoveredDevice is the subset of a live mtd device's sysfs
// attributes this package cares about: the page size used to seed a
// CodeParameters, plus the OOB size. Sector size is not discovered
// here. The NAND controller driver
// itself -- reading pages, issuing commands -- stays out of scope per
// spec.md; this only reads metadata the driver has already exposed.
type DiscoveredDevice struct {
	Name          string
	WriteSizeByte int // nand->pagesize
	OOBSizeByte   int // nand->oobsize
}

// DiscoverMTDDevices enumerates /sys/class/mtd devices via udev and
// reads back their writesize/oobsize attributes, the way
// cmd/pmeccdump's --device flag looks up a real NAND device's layout
// instead of requiring every CodeParameters field on the command
// line.
func DiscoverMTDDevices() ([]DiscoveredDevice, error) {
	u := udev.Udev{}
	e := u.NewEnumerateFromParent(nil)

	if err := e.AddMatchSubsystem("mtd"); err != nil {
		return nil, errors.Wrap(err, "matching mtd subsystem")
	}
	if err := e.AddMatchIsInitialized(); err != nil {
		return nil, errors.Wrap(err, "matching initialized devices")
	}

	devices, err := e.Devices()
	if err != nil {
		return nil, errors.Wrap(err, "enumerating mtd devices")
	}

	var out []DiscoveredDevice
	for _, dev := range devices {
		writesize, err := strconv.Atoi(dev.SysattrValue("writesize"))
		if err != nil {
			continue // not every mtd node (e.g. a partition) exposes geometry attrs
		}
		oobsize, err := strconv.Atoi(dev.SysattrValue("oobsize"))
		if err != nil {
			continue
		}

		out = append(out, DiscoveredDevice{
			Name:          dev.Sysname(),
			WriteSizeByte: writesize,
			OOBSizeByte:   oobsize,
		})
	}

	return out, nil
}
