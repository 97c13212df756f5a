package frontend

import (
	"fmt"

	"github.com/robert-at-pretension-io/vlog-lint/internal/ast"
)

// elaborator carries per-module name resolution state. Parameters are
// folded to values up front so declared ranges and select bounds can use
// them; every declared name maps to exactly one ast.Var.
type elaborator struct {
	vars   map[string]*ast.Var
	params map[string]ast.Number
	arrays map[string]bool
	decls  []ast.Node
	behav  []ast.Node
}

// Elaborate resolves a parsed source file into the typed netlist tree.
// Select offsets are normalized so offset 0 is each signal's least
// significant bit, and assignment targets carry lvalue references.
func Elaborate(src *SourceFile) (*ast.Netlist, error) {
	netlist := &ast.Netlist{}
	for _, m := range src.Modules {
		mod, err := elabModule(m)
		if err != nil {
			return nil, err
		}
		netlist.Modules = append(netlist.Modules, mod)
	}
	return netlist, nil
}

func elabModule(m *ModuleDecl) (*ast.Module, error) {
	e := &elaborator{
		vars:   make(map[string]*ast.Var),
		params: make(map[string]ast.Number),
		arrays: make(map[string]bool),
	}

	// Parameters first: port and net ranges may reference them even when
	// the parameter is declared further down.
	for _, item := range m.Items {
		if item.Param == nil {
			continue
		}
		p := item.Param
		val, ok := e.constEval(p.Val)
		if !ok || val.FourState() {
			return nil, fmt.Errorf("%s: parameter %s must have a constant two-state value", p.Pos, p.Name)
		}
		v := &ast.Var{
			Name: p.Name, Width: 32, IsParam: true,
			File: p.Pos.Filename, Line: p.Pos.Line,
		}
		if err := e.declare(v); err != nil {
			return nil, fmt.Errorf("%s: %w", p.Pos, err)
		}
		e.params[p.Name] = val
	}

	// ANSI port list; direction and range inherit from the previous
	// entry. Wire vs reg does not matter to usage analysis.
	var dir string
	var rng *RangeSpec
	for _, p := range m.Ports {
		if p.Dir != "" {
			dir, rng = p.Dir, p.Range
		}
		if p.Range != nil {
			rng = p.Range
		}
		if dir == "" {
			return nil, fmt.Errorf("%s: port %s has no direction", p.Pos, p.Name)
		}
		v, err := e.makeVar(p.Name, rng, p.Attrs, p.Pos.Filename, p.Pos.Line)
		if err != nil {
			return nil, err
		}
		switch dir {
		case "input":
			v.IsInput = true
		case "output":
			v.IsOutput = true
		case "inout":
			v.IsInput = true
			v.IsOutput = true
		}
	}

	for _, item := range m.Items {
		switch {
		case item.Net != nil:
			n := item.Net
			for _, d := range n.Decls {
				if _, err := e.makeVar(d.Name, n.Range, n.Attrs, d.Pos.Filename, d.Pos.Line); err != nil {
					return nil, err
				}
				if d.Array != nil {
					e.arrays[d.Name] = true
				}
			}
		case item.Genvar != nil:
			g := item.Genvar
			for _, name := range g.Names {
				v := &ast.Var{
					Name: name, Width: 32, IsGenVar: true,
					File: g.Pos.Filename, Line: g.Pos.Line,
				}
				if err := e.declare(v); err != nil {
					return nil, fmt.Errorf("%s: %w", g.Pos, err)
				}
			}
		}
	}

	for _, item := range m.Items {
		var node ast.Node
		var err error
		switch {
		case item.Cont != nil:
			node, err = e.elabContAssign(item.Cont)
		case item.Always != nil:
			node, err = e.elabAlways(item.Always)
		case item.Initial != nil:
			node, err = e.elabStatement(item.Initial.Body)
		default:
			continue
		}
		if err != nil {
			return nil, err
		}
		e.behav = append(e.behav, node)
	}

	return &ast.Module{
		Name:  m.Name,
		File:  m.Pos.Filename,
		Line:  m.Pos.Line,
		Items: append(e.decls, e.behav...),
	}, nil
}

func (e *elaborator) declare(v *ast.Var) error {
	if _, exists := e.vars[v.Name]; exists {
		return fmt.Errorf("duplicate declaration of %s", v.Name)
	}
	e.vars[v.Name] = v
	e.decls = append(e.decls, v)
	return nil
}

// makeVar creates a signal with its width, base lsb and bit order taken
// from the declared range, plus any public visibility attributes.
func (e *elaborator) makeVar(name string, rng *RangeSpec, attrs []string, file string, line int) (*ast.Var, error) {
	v := &ast.Var{Name: name, Width: 1, File: file, Line: line}
	if rng != nil {
		msb, lsb, err := e.evalRange(rng)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: range of %s: %w", file, line, name, err)
		}
		if msb >= lsb {
			v.Width = msb - lsb + 1
			v.Lsb = lsb
		} else {
			v.Width = lsb - msb + 1
			v.Lsb = msb
			v.Ascending = true
		}
	}
	for _, attr := range attrs {
		switch attr {
		case "public":
			v.Public = true
		case "public_rd":
			v.PublicRead = true
		case "public_w":
			v.PublicWrite = true
		case "public_rw":
			v.PublicRW = true
		}
	}
	if err := e.declare(v); err != nil {
		return nil, fmt.Errorf("%s:%d: %w", file, line, err)
	}
	return v, nil
}

func (e *elaborator) evalRange(rng *RangeSpec) (msb, lsb int, err error) {
	m, ok := e.constEval(rng.Msb)
	if !ok || m.FourState() {
		return 0, 0, fmt.Errorf("msb is not a two-state constant")
	}
	l, ok := e.constEval(rng.Lsb)
	if !ok || l.FourState() {
		return 0, 0, fmt.Errorf("lsb is not a two-state constant")
	}
	return m.Int(), l.Int(), nil
}

func (e *elaborator) elabContAssign(c *ContAssign) (ast.Node, error) {
	lhs, err := e.elabLValue(c.Lhs)
	if err != nil {
		return nil, err
	}
	rhs, err := e.elabExpr(c.Rhs)
	if err != nil {
		return nil, err
	}
	return &ast.Assign{Lhs: lhs, Rhs: rhs}, nil
}

func (e *elaborator) elabAlways(a *AlwaysBlock) (ast.Node, error) {
	node := &ast.Always{}
	for _, s := range a.Sens {
		ref, err := e.elabRef(s.Ref, false)
		if err != nil {
			return nil, err
		}
		node.Sens = append(node.Sens, &ast.SensItem{Edge: s.Edge, Expr: ref})
	}
	body, err := e.elabStatement(a.Body)
	if err != nil {
		return nil, err
	}
	node.Body = body
	return node, nil
}

func (e *elaborator) elabStatement(s *Statement) (ast.Node, error) {
	switch {
	case s.Block != nil:
		block := &ast.Block{}
		for _, stmt := range s.Block.Stmts {
			node, err := e.elabStatement(stmt)
			if err != nil {
				return nil, err
			}
			block.Stmts = append(block.Stmts, node)
		}
		return block, nil
	case s.If != nil:
		cond, err := e.elabExpr(s.If.Cond)
		if err != nil {
			return nil, err
		}
		then, err := e.elabStatement(s.If.Then)
		if err != nil {
			return nil, err
		}
		node := &ast.If{Cond: cond, Then: then}
		if s.If.Else != nil {
			if node.Else, err = e.elabStatement(s.If.Else); err != nil {
				return nil, err
			}
		}
		return node, nil
	case s.Task != nil:
		call := &ast.TaskCall{Name: s.Task.Name}
		for _, arg := range s.Task.Args {
			node, err := e.elabExpr(arg)
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, node)
		}
		return call, nil
	case s.Assign != nil:
		lhs, err := e.elabLValue(s.Assign.Lhs)
		if err != nil {
			return nil, err
		}
		rhs, err := e.elabExpr(s.Assign.Rhs)
		if err != nil {
			return nil, err
		}
		return &ast.Assign{Lhs: lhs, Rhs: rhs, NonBlocking: s.Assign.Op == "<="}, nil
	}
	return nil, fmt.Errorf("empty statement")
}

func (e *elaborator) elabLValue(lv *LValue) (ast.Node, error) {
	if lv.Ref != nil {
		return e.elabRef(lv.Ref, true)
	}
	concat := &ast.Concat{}
	for _, elem := range lv.Concat {
		node, err := e.elabLValue(elem)
		if err != nil {
			return nil, err
		}
		concat.Elems = append(concat.Elems, node)
	}
	return concat, nil
}

// elabRef resolves a reference and normalizes any select. Constant
// two-state offsets become precise Sel nodes; four-state or dynamic
// offsets keep their expression so the usage pass falls back to
// whole-signal marking.
func (e *elaborator) elabRef(r *RefExpr, lvalue bool) (ast.Node, error) {
	v, ok := e.vars[r.Name]
	if !ok {
		return nil, fmt.Errorf("%s: unknown identifier %q", r.Pos, r.Name)
	}
	ref := &ast.VarRef{Target: v, LValue: lvalue}
	if r.Sel == nil {
		return ref, nil
	}

	if e.arrays[r.Name] {
		if r.Sel.Second != nil {
			return nil, fmt.Errorf("%s: part select on array %q", r.Pos, r.Name)
		}
		idx, err := e.elabExpr(r.Sel.First)
		if err != nil {
			return nil, err
		}
		return &ast.ArraySel{From: ref, Index: idx}, nil
	}

	if r.Sel.Second != nil {
		a, okA := e.constEval(r.Sel.First)
		b, okB := e.constEval(r.Sel.Second)
		if !okA || !okB || a.FourState() || b.FourState() {
			return nil, fmt.Errorf("%s: part-select bounds of %q must be two-state constants", r.Pos, r.Name)
		}
		offset, width, err := normalizeRange(v, a.Int(), b.Int())
		if err != nil {
			return nil, fmt.Errorf("%s: %q%s", r.Pos, r.Name, err)
		}
		return &ast.Sel{From: ref, Lsb: constOffset(offset), Width: width}, nil
	}

	if idx, ok := e.constEval(r.Sel.First); ok {
		if idx.FourState() {
			return &ast.Sel{From: ref, Lsb: &ast.Const{Num: idx}, Width: 1}, nil
		}
		offset, _, err := normalizeRange(v, idx.Int(), idx.Int())
		if err != nil {
			return nil, fmt.Errorf("%s: %q%s", r.Pos, r.Name, err)
		}
		return &ast.Sel{From: ref, Lsb: constOffset(offset), Width: 1}, nil
	}

	idx, err := e.elabExpr(r.Sel.First)
	if err != nil {
		return nil, err
	}
	return &ast.Sel{From: ref, Lsb: idx, Width: 1}, nil
}

// normalizeRange maps declared bit numbers [a:b] onto significance
// offsets. Descending ranges count up from the declared lsb; ascending
// ranges count down from the declared high end.
func normalizeRange(v *ast.Var, a, b int) (offset, width int, err error) {
	if v.Ascending {
		if a > b {
			return 0, 0, fmt.Errorf("[%d:%d] is reversed for an ascending range", a, b)
		}
		offset = v.Lsb + v.Width - 1 - b
		width = b - a + 1
	} else {
		if a < b {
			return 0, 0, fmt.Errorf("[%d:%d] is reversed for a descending range", a, b)
		}
		offset = b - v.Lsb
		width = a - b + 1
	}
	if offset < 0 || offset+width > v.Width {
		return 0, 0, fmt.Errorf("[%d:%d] lies outside the declared range", a, b)
	}
	return offset, width, nil
}

func constOffset(offset int) *ast.Const {
	return &ast.Const{Num: ast.Number{Bits: 32, Value: uint64(offset)}}
}

func (e *elaborator) elabExpr(x *Expr) (ast.Node, error) {
	return e.elabCond(x.Cond)
}

func (e *elaborator) elabCond(c *CondExpr) (ast.Node, error) {
	lhs, err := e.elabBin(c.Lhs)
	if err != nil {
		return nil, err
	}
	if c.Then == nil {
		return lhs, nil
	}
	then, err := e.elabExpr(c.Then)
	if err != nil {
		return nil, err
	}
	els, err := e.elabExpr(c.Else)
	if err != nil {
		return nil, err
	}
	return &ast.Cond{Cond: lhs, Then: then, Else: els}, nil
}

func (e *elaborator) elabBin(b *BinExpr) (ast.Node, error) {
	cur, err := e.elabUnary(b.Head)
	if err != nil {
		return nil, err
	}
	for _, op := range b.Tail {
		rhs, err := e.elabUnary(op.Rhs)
		if err != nil {
			return nil, err
		}
		cur = &ast.BinaryOp{Op: op.Op, L: cur, R: rhs}
	}
	return cur, nil
}

func (e *elaborator) elabUnary(u *UnaryExpr) (ast.Node, error) {
	prim, err := e.elabPrimary(u.Primary)
	if err != nil {
		return nil, err
	}
	if u.Op == "" {
		return prim, nil
	}
	return &ast.UnaryOp{Op: u.Op, X: prim}, nil
}

func (e *elaborator) elabPrimary(p *Primary) (ast.Node, error) {
	switch {
	case p.Sized != nil:
		n, err := parseNumber(*p.Sized)
		if err != nil {
			return nil, err
		}
		return &ast.Const{Num: n}, nil
	case p.Number != nil:
		n, err := parseNumber(*p.Number)
		if err != nil {
			return nil, err
		}
		return &ast.Const{Num: n}, nil
	case p.Concat != nil:
		concat := &ast.Concat{}
		for _, elem := range p.Concat {
			node, err := e.elabExpr(elem)
			if err != nil {
				return nil, err
			}
			concat.Elems = append(concat.Elems, node)
		}
		return concat, nil
	case p.Paren != nil:
		return e.elabExpr(p.Paren)
	case p.Ref != nil:
		return e.elabRef(p.Ref, false)
	}
	return nil, fmt.Errorf("empty primary expression")
}

// constEval folds an expression to a value when it is built from
// literals and parameters. Four-state literals fold only when they stand
// alone; arithmetic on x/z is never constant here.
func (e *elaborator) constEval(x *Expr) (ast.Number, bool) {
	if x == nil || x.Cond == nil || x.Cond.Then != nil {
		return ast.Number{}, false
	}
	b := x.Cond.Lhs
	cur, ok := e.constEvalUnary(b.Head)
	if !ok {
		return ast.Number{}, false
	}
	if len(b.Tail) > 0 && cur.FourState() {
		return ast.Number{}, false
	}
	for _, op := range b.Tail {
		rhs, ok := e.constEvalUnary(op.Rhs)
		if !ok || rhs.FourState() {
			return ast.Number{}, false
		}
		l, r := int64(cur.Value), int64(rhs.Value)
		var out int64
		switch op.Op {
		case "+":
			out = l + r
		case "-":
			out = l - r
		case "*":
			out = l * r
		case "/":
			if r == 0 {
				return ast.Number{}, false
			}
			out = l / r
		case "%":
			if r == 0 {
				return ast.Number{}, false
			}
			out = l % r
		case "<<":
			out = l << uint(r)
		case ">>":
			out = l >> uint(r)
		case "&":
			out = l & r
		case "|":
			out = l | r
		case "^":
			out = l ^ r
		default:
			return ast.Number{}, false
		}
		cur = ast.Number{Bits: 32, Value: uint64(out)}
	}
	return cur, true
}

func (e *elaborator) constEvalUnary(u *UnaryExpr) (ast.Number, bool) {
	n, ok := e.constEvalPrimary(u.Primary)
	if !ok {
		return ast.Number{}, false
	}
	switch u.Op {
	case "":
		return n, true
	case "-":
		if n.FourState() {
			return ast.Number{}, false
		}
		return ast.Number{Bits: n.Bits, Value: uint64(-int64(n.Value))}, true
	}
	return ast.Number{}, false
}

func (e *elaborator) constEvalPrimary(p *Primary) (ast.Number, bool) {
	switch {
	case p.Sized != nil:
		n, err := parseNumber(*p.Sized)
		return n, err == nil
	case p.Number != nil:
		n, err := parseNumber(*p.Number)
		return n, err == nil
	case p.Paren != nil:
		return e.constEval(p.Paren)
	case p.Ref != nil:
		if p.Ref.Sel != nil {
			return ast.Number{}, false
		}
		n, ok := e.params[p.Ref.Name]
		return n, ok
	}
	return ast.Number{}, false
}
