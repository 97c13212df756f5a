package undriven

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/robert-at-pretension-io/vlog-lint/internal/ast"
	"github.com/robert-at-pretension-io/vlog-lint/internal/diag"
)

func netlist(items ...ast.Node) *ast.Netlist {
	return &ast.Netlist{Modules: []*ast.Module{{Name: "top", File: "top.v", Items: items}}}
}

func check(t *testing.T, root ast.Node) []diag.Finding {
	t.Helper()
	var sink diag.Collector
	Check(root, &sink, nil)
	return sink.Findings
}

// Declared but never referenced: one combined UNDRIVEN finding.
func TestDeclaredNeverReferenced(t *testing.T) {
	a := &ast.Var{Name: "a", Width: 8, File: "top.v", Line: 2}
	got := check(t, netlist(a))
	want := []diag.Finding{{
		Code: "UNDRIVEN", Signal: "a", File: "top.v", Line: 2,
		Message: "Signal is not driven, nor used: a",
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("findings mismatch (-want +got):\n%s", diff)
	}
}

// A single constant bit read leaves the rest of the signal unused.
func TestPartialBitRead(t *testing.T) {
	b := &ast.Var{Name: "b", Width: 4, Lsb: 0}
	sel := &ast.Sel{
		From:  &ast.VarRef{Target: b},
		Lsb:   &ast.Const{Num: ast.Number{Bits: 32, Value: 1}},
		Width: 1,
	}
	got := check(t, netlist(b, &ast.Assign{
		Lhs: &ast.VarRef{Target: b, LValue: true},
		Rhs: sel,
	}))
	// The whole-signal write satisfies drive; usage is bit 1 only.
	if len(got) != 1 {
		t.Fatalf("expected one finding, got %+v", got)
	}
	if got[0].Message != "Bits of signal are not used: b[3:2,0]" {
		t.Errorf("message = %q", got[0].Message)
	}
}

// Whole-signal write plus whole-signal read elsewhere: clean.
func TestScalarWrittenAndRead(t *testing.T) {
	c := &ast.Var{Name: "c", Width: 1}
	d := &ast.Var{Name: "d", Width: 1, IsOutput: true}
	got := check(t, netlist(
		c, d,
		&ast.Assign{Lhs: &ast.VarRef{Target: c, LValue: true}, Rhs: &ast.Const{Num: ast.Number{Bits: 1, Value: 1}}},
		&ast.Assign{Lhs: &ast.VarRef{Target: d, LValue: true}, Rhs: &ast.VarRef{Target: c}},
	))
	if len(got) != 0 {
		t.Fatalf("expected no findings, got %+v", got)
	}
}

func TestParameterNeverReported(t *testing.T) {
	p := &ast.Var{Name: "p", Width: 32, IsParam: true}
	if got := check(t, netlist(p)); len(got) != 0 {
		t.Fatalf("expected no findings for parameter, got %+v", got)
	}
}

// A reference that exists only inside instrumentation is never observed,
// so the signal still reports as dead.
func TestCoverageReadDoesNotCountAsUsage(t *testing.T) {
	cov := &ast.Var{Name: "cov", Width: 1, File: "top.v", Line: 7}
	decl := &ast.CoverDecl{Name: "cov_pt", Ref: &ast.VarRef{Target: cov}}
	got := check(t, netlist(cov, decl, &ast.CoverInc{Decl: decl}))
	want := []diag.Finding{{
		Code: "UNDRIVEN", Signal: "cov", File: "top.v", Line: 7,
		Message: "Signal is not driven, nor used: cov",
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("findings mismatch (-want +got):\n%s", diff)
	}
}

func TestTraceReadDoesNotCountAsUsage(t *testing.T) {
	s := &ast.Var{Name: "s", Width: 1}
	tr := &ast.TraceDecl{Name: "s", Ref: &ast.VarRef{Target: s}}
	got := check(t, netlist(s, tr, &ast.TraceInc{Decl: tr}))
	if len(got) != 1 || got[0].Code != "UNDRIVEN" {
		t.Fatalf("expected the combined UNDRIVEN finding, got %+v", got)
	}
}

// Input and output ports get assumed external drivers and consumers.
func TestPortRoleAssumptions(t *testing.T) {
	in := &ast.Var{Name: "in", Width: 8, IsInput: true}
	out := &ast.Var{Name: "out", Width: 8, IsOutput: true}
	got := check(t, netlist(
		in, out,
		&ast.Assign{Lhs: &ast.VarRef{Target: out, LValue: true}, Rhs: &ast.VarRef{Target: in}},
	))
	if len(got) != 0 {
		t.Fatalf("expected no findings for wired ports, got %+v", got)
	}
}

func TestPublicSignalsAssumedAlive(t *testing.T) {
	pub := &ast.Var{Name: "pub", Width: 4, Public: true}
	rw := &ast.Var{Name: "rw", Width: 4, PublicRW: true}
	if got := check(t, netlist(pub, rw)); len(got) != 0 {
		t.Fatalf("expected no findings for public signals, got %+v", got)
	}
}

func TestPublicReadOnlyStillNeedsDriver(t *testing.T) {
	rd := &ast.Var{Name: "rd", Width: 4, PublicRead: true}
	got := check(t, netlist(rd))
	if len(got) != 1 || got[0].Message != "Signal is not driven: rd" {
		t.Fatalf("expected undriven finding for read-only public signal, got %+v", got)
	}
}

// Four-state select offsets defeat bit tracking: fall back to marking the
// whole signal through the embedded reference.
func TestFourStateOffsetFallsBackToWholeSignal(t *testing.T) {
	w := &ast.Var{Name: "w", Width: 8}
	sel := &ast.Sel{
		From:  &ast.VarRef{Target: w},
		Lsb:   &ast.Const{Num: ast.Number{Bits: 4, Value: 0, XZ: 0b0011}},
		Width: 1,
	}
	got := check(t, netlist(w, &ast.TaskCall{Name: "$display", Args: []ast.Node{sel}}))
	// Whole signal counts as used; only the missing driver is reported.
	if len(got) != 1 || got[0].Message != "Signal is not driven: w" {
		t.Fatalf("expected whole-signal usage via fallback, got %+v", got)
	}
}

// Dynamic select offsets likewise mark the whole signal.
func TestDynamicOffsetFallsBackToWholeSignal(t *testing.T) {
	w := &ast.Var{Name: "w", Width: 8}
	i := &ast.Var{Name: "i", Width: 3}
	sel := &ast.Sel{
		From:  &ast.VarRef{Target: w},
		Lsb:   &ast.VarRef{Target: i},
		Width: 1,
	}
	got := check(t, netlist(w, i, &ast.TaskCall{Name: "$display", Args: []ast.Node{sel}}))
	byName := map[string]string{}
	for _, f := range got {
		byName[f.Signal] = f.Message
	}
	if byName["w"] != "Signal is not driven: w" {
		t.Errorf("w: got %q, want whole-signal usage with missing driver", byName["w"])
	}
	// The index variable was read by the fallback recursion.
	if byName["i"] != "Signal is not driven: i" {
		t.Errorf("i: got %q", byName["i"])
	}
}

// Array indexing punts to whole-signal marking through the base reference.
func TestArraySelectIsConservative(t *testing.T) {
	mem := &ast.Var{Name: "mem", Width: 8}
	got := check(t, netlist(mem, &ast.Assign{
		Lhs: &ast.ArraySel{
			From:  &ast.VarRef{Target: mem, LValue: true},
			Index: &ast.Const{Num: ast.Number{Bits: 32, Value: 3}},
		},
		Rhs: &ast.Const{Num: ast.Number{Bits: 8, Value: 0}},
	}))
	if len(got) != 1 || got[0].Message != "Signal is not used: mem" {
		t.Fatalf("expected whole-signal drive via array fallback, got %+v", got)
	}
}

// Bit writes accumulate on one entry no matter how many references the
// signal has.
func TestOneEntryPerSignalAcrossReferences(t *testing.T) {
	q := &ast.Var{Name: "q", Width: 4}
	bitWrite := func(lsb int) ast.Node {
		return &ast.Assign{
			Lhs: &ast.Sel{
				From:  &ast.VarRef{Target: q, LValue: true},
				Lsb:   &ast.Const{Num: ast.Number{Bits: 32, Value: uint64(lsb)}},
				Width: 1,
			},
			Rhs: &ast.Const{Num: ast.Number{Bits: 1, Value: 1}},
		}
	}
	got := check(t, netlist(q, bitWrite(0), bitWrite(1), bitWrite(2), bitWrite(3),
		&ast.TaskCall{Name: "$display", Args: []ast.Node{&ast.VarRef{Target: q}}}))
	// Four separate 1-bit writes promote to wholly driven: clean signal.
	if len(got) != 0 {
		t.Fatalf("expected promotion across accumulated references, got %+v", got)
	}
}

// A part select in a write context drives just the selected bits.
func TestPartSelectWrite(t *testing.T) {
	r := &ast.Var{Name: "r", Width: 8}
	got := check(t, netlist(r,
		&ast.Assign{
			Lhs: &ast.Sel{
				From:  &ast.VarRef{Target: r, LValue: true},
				Lsb:   &ast.Const{Num: ast.Number{Bits: 32, Value: 4}},
				Width: 4,
			},
			Rhs: &ast.Const{Num: ast.Number{Bits: 4, Value: 0}},
		},
		&ast.TaskCall{Name: "$display", Args: []ast.Node{&ast.VarRef{Target: r}}},
	))
	if len(got) != 1 || got[0].Message != "Bits of signal are not driven: r[3:0]" {
		t.Fatalf("expected partial drive finding, got %+v", got)
	}
}

// Two invocations over separate trees share nothing.
func TestRunsAreIndependent(t *testing.T) {
	a := &ast.Var{Name: "a", Width: 1}
	first := check(t, netlist(a))
	second := check(t, netlist(a))
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("second run diverged (-first +second):\n%s", diff)
	}
}
