package undriven

import (
	"strconv"
	"strings"

	"github.com/robert-at-pretension-io/vlog-lint/internal/ast"
	"github.com/robert-at-pretension-io/vlog-lint/internal/diag"
)

// varEntry tracks one signal's used/driven state at bit granularity.
// Aggregate flags record whole-signal references; the bitsets record
// bit-accurate ones. Bit index 0 is the signal's least significant
// declared bit regardless of declaration order.
type varEntry struct {
	varp        *ast.Var
	usedWhole   bool
	drivenWhole bool
	used        bitset
	driven      bitset
}

func newVarEntry(varp *ast.Var) *varEntry {
	return &varEntry{
		varp:   varp,
		used:   newBitset(varp.Width),
		driven: newBitset(varp.Width),
	}
}

func (e *varEntry) setUsedWhole()   { e.usedWhole = true }
func (e *varEntry) setDrivenWhole() { e.drivenWhole = true }

// setUsedBits marks width bits used starting at offset. Bits past the
// declared width are dropped without error: upstream width mismatches
// must never crash this pass.
func (e *varEntry) setUsedBits(offset, width int) {
	for i := 0; i < width; i++ {
		e.used.set(offset + i)
	}
}

func (e *varEntry) setDrivenBits(offset, width int) {
	for i := 0; i < width; i++ {
		e.driven.set(offset + i)
	}
}

// bitNames compresses the unflagged bit indices of b into the bracketed
// range list used in partial-signal diagnostics, e.g. "[7:4,1]". The
// scan runs from the top bit down past index 0 to a -1 sentinel so the
// final run is closed by the same code path as interior ones. Runs are
// printed most significant first; a multi-bit run prints in declaration
// order, so ascending ranges print low:high and descending print
// high:low. Diagnostic text is contract; do not reorder.
func (e *varEntry) bitNames(b bitset) string {
	var sb strings.Builder
	sb.WriteByte('[')
	inRun := false
	msb := 0
	first := true
	for bit := e.varp.Width - 1; bit >= -1; bit-- {
		if bit >= 0 && !b.get(bit) {
			if !inRun {
				inRun = true
				msb = bit
			}
		} else if inRun {
			lsb := bit + 1
			base := e.varp.Lsb
			if !first {
				sb.WriteByte(',')
			}
			first = false
			if lsb == msb {
				sb.WriteString(strconv.Itoa(lsb + base))
			} else if e.varp.Ascending {
				sb.WriteString(strconv.Itoa(lsb + base))
				sb.WriteByte(':')
				sb.WriteString(strconv.Itoa(msb + base))
			} else {
				sb.WriteString(strconv.Itoa(msb + base))
				sb.WriteByte(':')
				sb.WriteString(strconv.Itoa(lsb + base))
			}
			inRun = false
		}
	}
	sb.WriteByte(']')
	return sb.String()
}

// reportViolations folds the per-bit state into the aggregate flags and
// emits at most two findings. Called exactly once, at finalize.
func (e *varEntry) reportViolations(sink diag.Sink) {
	varp := e.varp
	if varp.IsParam || varp.IsGenVar {
		// Elaboration-time values, not storage.
		return
	}
	allU, allD := true, true
	anyU, anyD := e.usedWhole, e.drivenWhole
	for bit := 0; bit < varp.Width; bit++ {
		allU = allU && e.used.get(bit)
		anyU = anyU || e.used.get(bit)
		allD = allD && e.driven.get(bit)
		anyD = anyD || e.driven.get(bit)
	}
	// A signal whose every bit is referenced counts as wholly referenced
	// even without an explicit whole-signal reference.
	if allU {
		e.usedWhole = true
	}
	if allD {
		e.drivenWhole = true
	}
	switch {
	case e.usedWhole && e.drivenWhole:
		// Fully alive, nothing to say.
	case !anyU && !anyD:
		sink.Emit(varp, diag.Undriven, "Signal is not driven, nor used: "+varp.Name)
	default:
		if !e.usedWhole && !anyU {
			sink.Emit(varp, diag.Unused, "Signal is not used: "+varp.Name)
		} else if !e.usedWhole {
			sink.Emit(varp, diag.Unused, "Bits of signal are not used: "+varp.Name+e.bitNames(e.used))
		}
		if !e.drivenWhole && !anyD {
			sink.Emit(varp, diag.Undriven, "Signal is not driven: "+varp.Name)
		} else if !e.drivenWhole {
			sink.Emit(varp, diag.Undriven, "Bits of signal are not driven: "+varp.Name+e.bitNames(e.driven))
		}
	}
}
