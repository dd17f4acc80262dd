// Command pmeccdump decodes a single NAND page+OOB dump against a
// PMECC session configuration, either replaying it entirely in
// software or driving a live PMECC/PMERRLOC register block.
//
// Usage:
//
//	pmeccdump --config pmecc.yaml --page page.bin [--status 0x1] [--simulate]
//	pmeccdump --config pmecc.yaml --page page.bin --device mtd0
package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lestrrat-go/strftime"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/kb9vcn/pmecc/internal/galois"
	"github.com/kb9vcn/pmecc/internal/pmecc"
	"github.com/kb9vcn/pmecc/internal/pmeccconfig"
	"github.com/kb9vcn/pmecc/internal/pmeccio"
)

func main() {
	var (
		configPath = pflag.StringP("config", "c", "", "PMECC session config YAML (required)")
		pagePath   = pflag.StringP("page", "p", "", "raw page+OOB dump to decode (required)")
		statusStr  = pflag.StringP("status", "s", "", "per-sector status word, hex, e.g. 0x1 (default: probe live hardware)")
		remPath    = pflag.StringP("rem", "r", "", "captured REM-table dump to replay (required with --simulate)")
		device     = pflag.StringP("device", "d", "", "mtd device name (e.g. mtd0) to seed page size from instead of the config file")
		simulate   = pflag.BoolP("simulate", "S", false, "use the software Chien searcher instead of a live PMERRLOC block")
		verbose    = pflag.BoolP("verbose", "v", false, "debug-level logging, including a hex dump on uncorrectable pages")
		help       = pflag.Bool("help", false, "display help text")
	)

	pflag.Usage = func() {
		fmt.Fprintln(os.Stderr, "pmeccdump: decode a NAND page+OOB dump against a PMECC session config")
		fmt.Fprintln(os.Stderr, "usage: pmeccdump --config pmecc.yaml --page page.bin [--status 0x1] [--simulate]")
		pflag.PrintDefaults()
	}

	pflag.Parse()

	if *help {
		pflag.Usage()
		return
	}

	formattedTime, err := strftime.Format("%Y-%m-%dT%H:%M:%S", time.Now())
	if err != nil {
		formattedTime = time.Now().Format(time.RFC3339)
	}

	logger := log.New(os.Stderr)
	logger = logger.With("time", formattedTime)
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}

	if *configPath == "" || *pagePath == "" {
		logger.Error("--config and --page are both required")
		pflag.Usage()
		os.Exit(2)
	}

	if err := run(logger, *configPath, *pagePath, *statusStr, *remPath, *device, *simulate); err != nil {
		logger.Error("decode failed", "err", err)
		os.Exit(1)
	}
}

func run(logger *log.Logger, configPath, pagePath, statusStr, remPath, device string, simulate bool) error {
	fc, params, err := pmeccconfig.LoadFile(configPath)
	if err != nil {
		return errors.Wrap(err, "loading config")
	}

	if device != "" {
		params, err = seedFromDevice(logger, device, fc, params)
		if err != nil {
			return err
		}
	}

	pageBuf, err := os.ReadFile(pagePath)
	if err != nil {
		return errors.Wrapf(err, "reading page dump %q", pagePath)
	}

	field, err := galois.New(params.M)
	if err != nil {
		return errors.Wrap(err, "building Galois field")
	}

	var (
		rem      pmecc.RemainderSource
		searcher pmecc.ChienSearcher
		saddr    pmecc.SaddrReader
		regs     *pmeccio.RegisterBlock
	)

	if simulate || (fc.PMECCBase == 0 && fc.PMERRLOCBase == 0) {
		logger.Info("running without live hardware", "simulate", simulate)
		searcher = &pmeccio.SoftwareLocator{Field: field}
		if statusStr == "" {
			return errors.New("--status is required in simulate mode (no hardware ISR to read)")
		}
		if remPath == "" {
			return errors.New("--rem is required in simulate mode (no hardware REM table to read)")
		}
		rem, err = pmeccio.LoadFileRemainderSource(remPath, params.SectorsPerPage, params.T)
		if err != nil {
			return err
		}
	} else {
		regs, err = pmeccio.OpenRegisterBlock(fc.PMECCBase, fc.PMERRLOCBase)
		if err != nil {
			return errors.Wrap(err, "opening PMECC register block")
		}
		defer regs.Close()

		regs.SetSectorSizeCode(params.SectorSizeCode())
		rem = regs
		searcher = regs
		saddr = regs
	}

	var statusWord uint32
	if statusStr != "" {
		v, err := strconv.ParseUint(statusStr, 0, 32)
		if err != nil {
			return errors.Wrapf(err, "parsing --status %q", statusStr)
		}
		statusWord = uint32(v)
	} else {
		regs.WaitReady()
		statusWord = regs.StatusWord()
	}

	solver := &pmecc.KeyEquationSolver{Field: field, T: params.T}
	decoder := &pmecc.PageDecoder{
		Params: params,
		Field:  field,
		Syndrome: &pmecc.SyndromeBuilder{
			Field: field,
			T:     params.T,
			Rem:   rem,
		},
		Solver: solver,
		Locator: &pmecc.ErrorLocator{
			Solver:          solver,
			Searcher:        searcher,
			SectorSizeIndex: params.SectorSizeCode(),
		},
		Correct: &pmecc.Corrector{SectorSizeBytes: params.SectorSizeBytes},
		Saddr:   saddr,
		Log:     logger,
	}

	result, err := decoder.DecodePage(pageBuf, statusWord)
	if err != nil {
		if result == pmecc.ResultUncorrectable {
			pmeccio.DumpPage(logger, pageBuf, params.PageSizeBytes, len(pageBuf)-params.PageSizeBytes)
		}
		return err
	}

	if result == pmecc.ResultCorrected {
		if err := os.WriteFile(pagePath, pageBuf, 0o644); err != nil {
			return errors.Wrapf(err, "writing corrected page back to %q", pagePath)
		}
	}

	return nil
}

// seedFromDevice looks up name among the live mtd devices and rebuilds
// params with its reported page size in place of the config file's,
// per SPEC_FULL.md §4.2: --device seeds a starting-point CodeParameters
// from hardware-reported geometry instead of requiring every field on
// the command line. t, sector size, and ECC start offset still come
// from the config file -- udev has no notion of PMECC correcting
// capability, only NAND page/OOB geometry.
func seedFromDevice(logger *log.Logger, name string, fc *pmeccconfig.FileConfig, params *pmeccconfig.CodeParameters) (*pmeccconfig.CodeParameters, error) {
	devices, err := pmeccio.DiscoverMTDDevices()
	if err != nil {
		return nil, errors.Wrap(err, "discovering mtd devices")
	}

	for _, d := range devices {
		if d.Name != name {
			continue
		}
		logger.Info("seeding page size from device", "device", d.Name, "writesize", d.WriteSizeByte, "oobsize", d.OOBSizeByte)
		seeded, err := pmeccconfig.New(fc.T, params.SectorSizeBytes, d.WriteSizeByte, fc.EccStartOffset)
		if err != nil {
			return nil, errors.Wrapf(err, "device %q reported an incompatible page size %d", name, d.WriteSizeByte)
		}
		return seeded, nil
	}

	return nil, errors.Errorf("mtd device %q not found", name)
}
