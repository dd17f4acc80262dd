package pmecc

import "github.com/pkg/errors"

// ErrUncorrectable is returned when the Chien search's root count
// disagrees with deg(sigma) -- spec.md §7's taxonomy entry for an
// error weight beyond the code's correcting capability t.
var ErrUncorrectable = errors.New("pmecc: uncorrectable: error weight exceeds correcting capability")

// ErrLayoutMismatch is returned when a live register block's
// PMECC_SADDR read-back disagrees with the statically declared
// CodeParameters.EccStartOffset -- see SPEC_FULL.md §7's resolution
// of the "ECC start offset read-back" open question.
var ErrLayoutMismatch = errors.New("pmecc: declared ECC layout disagrees with hardware-reported SADDR")
