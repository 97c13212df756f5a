package frontend

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Parse tree for the supported Verilog subset: ANSI module headers,
// wire/reg/parameter/genvar declarations, continuous assigns, always and
// initial blocks, system task calls, and plain expressions. The tree is
// purely syntactic; internal/frontend/elaborate.go resolves names and
// widths into the typed netlist.

// SourceFile is one parsed .v file.
type SourceFile struct {
	Modules []*ModuleDecl `@@*`
}

// ModuleDecl is a module with an optional ANSI port list.
type ModuleDecl struct {
	Pos   lexer.Position
	Name  string        `"module" @Ident`
	Ports []*PortDecl   `( "(" ( @@ ( "," @@ )* )? ")" )? ";"`
	Items []*ModuleItem `@@* "endmodule"`
}

// PortDecl is one entry in an ANSI port list. Direction, kind and range
// are optional and inherit from the previous entry, so
// "input a, b, output c" declares two inputs and one output.
type PortDecl struct {
	Pos   lexer.Position
	Attrs []string   `( "(*" @Ident "*)" )*`
	Dir   string     `@( "input" | "output" | "inout" )?`
	Kind  string     `@( "wire" | "reg" )?`
	Range *RangeSpec `@@?`
	Name  string     `@Ident`
}

// RangeSpec is a declared bit range "[msb:lsb]". Bounds are constant
// expressions; parameters are allowed.
type RangeSpec struct {
	Msb *Expr `"[" @@`
	Lsb *Expr `":" @@ "]"`
}

// ModuleItem is any body item.
type ModuleItem struct {
	Net     *NetDecl      `  @@`
	Param   *ParamDecl    `| @@`
	Genvar  *GenvarDecl   `| @@`
	Cont    *ContAssign   `| @@`
	Always  *AlwaysBlock  `| @@`
	Initial *InitialBlock `| @@`
}

// NetDecl declares wires or regs; a per-name trailing range makes the
// signal a memory.
type NetDecl struct {
	Pos   lexer.Position
	Attrs []string     `( "(*" @Ident "*)" )*`
	Kind  string       `@( "wire" | "reg" )`
	Range *RangeSpec   `@@?`
	Decls []*NamedDecl `@@ ( "," @@ )* ";"`
}

// NamedDecl is one declared name, optionally array-typed.
type NamedDecl struct {
	Pos   lexer.Position
	Name  string     `@Ident`
	Array *RangeSpec `@@?`
}

// ParamDecl declares a parameter or localparam.
type ParamDecl struct {
	Pos  lexer.Position
	Kind string `@( "parameter" | "localparam" )`
	Name string `@Ident`
	Val  *Expr  `"=" @@ ";"`
}

// GenvarDecl declares generate loop variables.
type GenvarDecl struct {
	Pos   lexer.Position
	Names []string `"genvar" @Ident ( "," @Ident )* ";"`
}

// ContAssign is a continuous assignment.
type ContAssign struct {
	Pos lexer.Position
	Lhs *LValue `"assign" @@`
	Rhs *Expr   `"=" @@ ";"`
}

// AlwaysBlock is a procedural block with its sensitivity list.
type AlwaysBlock struct {
	Pos  lexer.Position
	Star bool        `"always" "@" ( @"*"`
	Sens []*SensDecl `| "(" @@ ( ( "," | "or" ) @@ )* ")" )`
	Body *Statement  `@@`
}

// SensDecl is one sensitivity list entry.
type SensDecl struct {
	Edge string   `@( "posedge" | "negedge" )?`
	Ref  *RefExpr `@@`
}

// InitialBlock is an initial block.
type InitialBlock struct {
	Body *Statement `"initial" @@`
}

// Statement is a procedural statement.
type Statement struct {
	Block  *BlockStmt  `  @@`
	If     *IfStmt     `| @@`
	Task   *TaskStmt   `| @@`
	Assign *AssignStmt `| @@`
}

// BlockStmt is a begin/end sequence.
type BlockStmt struct {
	Stmts []*Statement `"begin" @@* "end"`
}

// IfStmt is if/else.
type IfStmt struct {
	Cond *Expr      `"if" "(" @@ ")"`
	Then *Statement `@@`
	Else *Statement `( "else" @@ )?`
}

// TaskStmt is a system task call such as $display(x);.
type TaskStmt struct {
	Name string  `@SysIdent`
	Args []*Expr `( "(" ( @@ ( "," @@ )* )? ")" )? ";"`
}

// AssignStmt is a blocking or nonblocking procedural assignment.
type AssignStmt struct {
	Lhs *LValue `@@`
	Op  string  `@( "<=" | "=" )`
	Rhs *Expr   `@@ ";"`
}

// LValue is an assignment target: a reference or a concatenation of
// targets.
type LValue struct {
	Concat []*LValue `  "{" @@ ( "," @@ )* "}"`
	Ref    *RefExpr  `| @@`
}

// RefExpr is a name with an optional bit, part or array select.
type RefExpr struct {
	Pos  lexer.Position
	Name string  `@Ident`
	Sel  *Select `@@?`
}

// Select is "[first]" or "[first:second]".
type Select struct {
	First  *Expr `"[" @@`
	Second *Expr `( ":" @@ )? "]"`
}

// Expr is a full expression. Operator precedence is irrelevant to
// reference extraction, so binary chains parse flat and elaborate left
// associative.
type Expr struct {
	Cond *CondExpr `@@`
}

// CondExpr is the ternary operator layer.
type CondExpr struct {
	Lhs  *BinExpr `@@`
	Then *Expr    `( "?" @@`
	Else *Expr    `":" @@ )?`
}

// BinExpr is a flat binary operator chain.
type BinExpr struct {
	Head *UnaryExpr `@@`
	Tail []*BinOp   `@@*`
}

// BinOp is one operator and its right operand.
type BinOp struct {
	Op  string     `@( "&&" | "||" | "==" | "!=" | "<=" | ">=" | "<<" | ">>" | "+" | "-" | "*" | "/" | "%" | "&" | "|" | "^" | "<" | ">" )`
	Rhs *UnaryExpr `@@`
}

// UnaryExpr is an optional unary or reduction operator and a primary.
type UnaryExpr struct {
	Op      string   `@( "~" | "!" | "-" | "+" | "&" | "|" | "^" | "~&" | "~|" | "~^" )?`
	Primary *Primary `@@`
}

// Primary is a literal, concatenation, parenthesized expression or
// reference.
type Primary struct {
	Sized  *string  `  @SizedLit`
	Number *string  `| @Number`
	Concat []*Expr  `| "{" @@ ( "," @@ )* "}"`
	Paren  *Expr    `| "(" @@ ")"`
	Ref    *RefExpr `| @@`
}
