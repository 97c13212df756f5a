// Package undriven implements the unused/undriven signal pass.
//
// The pass walks one elaborated netlist exactly once, depth first,
// keeping a per-signal bit vector of which bits were read and which were
// written. Plain references mark the whole signal; a bit or part select
// with a constant two-state offset marks just the selected bits; anything
// it cannot track precisely (dynamic offsets, array indexing) falls back
// to whole-signal marking. At the end every tracked signal that is not
// both wholly used and wholly driven produces an UNUSED or UNDRIVEN
// finding through the supplied sink.
package undriven

import (
	"github.com/hashicorp/go-hclog"

	"github.com/robert-at-pretension-io/vlog-lint/internal/ast"
	"github.com/robert-at-pretension-io/vlog-lint/internal/diag"
)

// visitor carries the pass state for one invocation. The entry map is
// the signal-to-entry lookup, built fresh per run and dropped with the
// visitor, so concurrent runs over different trees cannot interfere.
// order preserves creation order so finding order is deterministic.
type visitor struct {
	log     hclog.Logger
	entries map[*ast.Var]*varEntry
	order   []*varEntry
}

// entryFor returns the signal's entry, creating and registering it on
// first reference. One entry per signal for the pass's lifetime.
func (v *visitor) entryFor(varp *ast.Var) *varEntry {
	if e, ok := v.entries[varp]; ok {
		return e
	}
	v.log.Trace("create entry", "var", varp.Name, "width", varp.Width)
	e := newVarEntry(varp)
	v.entries[varp] = e
	v.order = append(v.order, e)
	return e
}

func (v *visitor) visitChildren(n ast.Node) {
	for _, kid := range n.Children() {
		if kid != nil {
			v.visit(kid)
		}
	}
}

func (v *visitor) visit(n ast.Node) {
	switch n := n.(type) {
	case *ast.Var:
		e := v.entryFor(n)
		// Ports and externally visible signals get the benefit of the
		// doubt: an input or public-writable signal has an assumed
		// external driver, an output or public-readable one an assumed
		// external consumer.
		if n.IsInput || n.Public || n.PublicRW {
			e.setDrivenWhole()
		}
		if n.IsOutput || n.Public || n.PublicRW || n.PublicRead {
			e.setUsedWhole()
		}
		v.visitChildren(n)

	case *ast.ArraySel:
		// Arrays are rarely addressed by a compile-time constant, so no
		// per-element tracking: the recursion reaches the base reference
		// and marks the whole signal.
		v.visitChildren(n)

	case *ast.Sel:
		ref, refOK := n.From.(*ast.VarRef)
		c, constOK := n.Lsb.(*ast.Const)
		if refOK && constOK && !c.Num.FourState() {
			e := v.entryFor(ref.Target)
			lsb := c.Num.Int()
			if ref.LValue {
				v.log.Trace("set driven bits", "var", ref.Target.Name, "lsb", lsb, "width", n.Width)
				e.setDrivenBits(lsb, n.Width)
			} else {
				v.log.Trace("set used bits", "var", ref.Target.Name, "lsb", lsb, "width", n.Width)
				e.setUsedBits(lsb, n.Width)
			}
			// The bit-accurate call fully accounts for the base
			// reference; do not also recurse into it.
		} else {
			v.visitChildren(n)
		}

	case *ast.VarRef:
		// Conservative default for any reference not captured by a
		// recognized select above.
		e := v.entryFor(n.Target)
		if n.LValue {
			e.setDrivenWhole()
		} else {
			e.setUsedWhole()
		}

	case *ast.CoverDecl, *ast.CoverInc, *ast.CoverToggle, *ast.TraceDecl, *ast.TraceInc:
		// Instrumentation reads are not a genuine sink; counting them
		// would mark every traced or covered signal used and hide real
		// dead signals.

	case *ast.Const:
		// Leaf.

	default:
		v.visitChildren(n)
	}
}

// finalize reports every registered entry exactly once, in creation
// order, then the entries die with the visitor.
func (v *visitor) finalize(sink diag.Sink) {
	for _, e := range v.order {
		e.reportViolations(sink)
	}
}

// Check runs the pass over one elaborated design tree, emitting findings
// through sink. It always runs to completion; findings are its only
// output. log may be nil.
func Check(root ast.Node, sink diag.Sink, log hclog.Logger) {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	log.Debug("undriven pass start")
	v := &visitor{
		log:     log,
		entries: make(map[*ast.Var]*varEntry),
	}
	v.visit(root)
	v.finalize(sink)
	log.Debug("undriven pass done", "signals", len(v.order))
}
