package ast

// The elaborated netlist tree. Node kinds form a closed set and passes
// dispatch on them with a type switch; anything a pass does not recognize
// is handled by recursing into Children. Widths, bit offsets and lvalue
// flags are resolved during elaboration (internal/frontend), so passes
// never re-derive them from syntax.

// Node is any vertex of the elaborated design tree.
type Node interface {
	Children() []Node
}

// Netlist is the root of one fully elaborated design.
type Netlist struct {
	Modules []*Module
}

func (n *Netlist) Children() []Node {
	kids := make([]Node, len(n.Modules))
	for i, m := range n.Modules {
		kids[i] = m
	}
	return kids
}

// Module is one module instance's body: declarations and behavior in
// source order.
type Module struct {
	Name  string
	File  string
	Line  int
	Items []Node
}

func (m *Module) Children() []Node { return m.Items }

// Var is a declared signal: net, register, parameter or genvar.
//
// Width is the declared bit count (>= 1). Lsb is the declared low bit
// number, so "wire [7:4] w" has Width 4 and Lsb 4. Ascending is true for
// ranges declared low-to-high ("wire [0:3] w"), which flips how partial
// bit ranges are printed in diagnostics.
type Var struct {
	Name      string
	Width     int
	Lsb       int
	Ascending bool

	IsInput  bool
	IsOutput bool
	// Public signals are visible to code outside the design. Public means
	// readable and writable from outside; PublicRead and PublicWrite
	// restrict the direction; PublicRW is the user-requested read-write
	// variant.
	Public      bool
	PublicRead  bool
	PublicWrite bool
	PublicRW    bool
	// Parameters and genvars are elaboration-time values, not storage.
	IsParam  bool
	IsGenVar bool

	File string
	Line int
}

func (v *Var) Children() []Node { return nil }

// VarRef is a resolved reference to a Var. LValue is true when the
// reference is an assignment target.
type VarRef struct {
	Target *Var
	LValue bool
}

func (r *VarRef) Children() []Node { return nil }

// Sel selects Width contiguous bits of From, starting at the bit given
// by the Lsb expression. The offset is already normalized against the
// base signal's declared range: offset 0 is the least significant bit.
// Lsb may or may not be a constant; non-constant offsets defeat precise
// bit tracking.
type Sel struct {
	From  Node
	Lsb   Node
	Width int
}

func (s *Sel) Children() []Node { return []Node{s.From, s.Lsb} }

// ArraySel indexes one element of an array-typed signal.
type ArraySel struct {
	From  Node
	Index Node
}

func (s *ArraySel) Children() []Node { return []Node{s.From, s.Index} }

// Const is a literal. Its Number carries a four-state mask: bits that are
// x or z rather than 0/1.
type Const struct {
	Num Number
}

func (c *Const) Children() []Node { return nil }

// Assign covers continuous assigns and procedural blocking/nonblocking
// assignments; the distinction does not matter to usage analysis.
type Assign struct {
	Lhs         Node
	Rhs         Node
	NonBlocking bool
}

func (a *Assign) Children() []Node { return []Node{a.Lhs, a.Rhs} }

// Always is a procedural block with its sensitivity list.
type Always struct {
	Sens []Node
	Body Node
}

func (a *Always) Children() []Node {
	kids := make([]Node, 0, len(a.Sens)+1)
	kids = append(kids, a.Sens...)
	if a.Body != nil {
		kids = append(kids, a.Body)
	}
	return kids
}

// SensItem is one sensitivity list entry (optionally edge-qualified).
type SensItem struct {
	Edge string // "", "posedge" or "negedge"
	Expr Node
}

func (s *SensItem) Children() []Node { return []Node{s.Expr} }

// Block is a begin/end statement sequence.
type Block struct {
	Stmts []Node
}

func (b *Block) Children() []Node { return b.Stmts }

// If is a procedural if/else.
type If struct {
	Cond Node
	Then Node
	Else Node
}

func (i *If) Children() []Node {
	kids := []Node{i.Cond}
	if i.Then != nil {
		kids = append(kids, i.Then)
	}
	if i.Else != nil {
		kids = append(kids, i.Else)
	}
	return kids
}

// UnaryOp is a unary operator application, including reduction operators.
type UnaryOp struct {
	Op string
	X  Node
}

func (u *UnaryOp) Children() []Node { return []Node{u.X} }

// BinaryOp is a binary operator application. Operator precedence is
// irrelevant to reference extraction, so chains elaborate left
// associative.
type BinaryOp struct {
	Op string
	L  Node
	R  Node
}

func (b *BinaryOp) Children() []Node { return []Node{b.L, b.R} }

// Cond is the ternary operator.
type Cond struct {
	Cond Node
	Then Node
	Else Node
}

func (c *Cond) Children() []Node { return []Node{c.Cond, c.Then, c.Else} }

// Concat is a {a, b, ...} concatenation, usable on either side of an
// assignment.
type Concat struct {
	Elems []Node
}

func (c *Concat) Children() []Node { return c.Elems }

// TaskCall is a system task invocation such as $display(x).
type TaskCall struct {
	Name string
	Args []Node
}

func (t *TaskCall) Children() []Node { return t.Args }
