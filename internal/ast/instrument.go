package ast

// Instrumentation artifacts: coverage and trace nodes inserted around the
// user's design. They embed references to the signals they observe, but
// those references are bookkeeping, not genuine reads; the usage pass
// deliberately refuses to look inside them so that a signal observed only
// by instrumentation still reports as dead.

// CoverDecl declares a coverage point over a signal.
type CoverDecl struct {
	Name string
	Ref  Node
}

func (c *CoverDecl) Children() []Node { return []Node{c.Ref} }

// CoverInc increments a coverage point.
type CoverInc struct {
	Decl *CoverDecl
}

func (c *CoverInc) Children() []Node { return []Node{c.Decl} }

// CoverToggle observes a signal for toggle coverage.
type CoverToggle struct {
	Ref Node
}

func (c *CoverToggle) Children() []Node { return []Node{c.Ref} }

// TraceDecl declares a waveform trace entry for a signal.
type TraceDecl struct {
	Name string
	Ref  Node
}

func (t *TraceDecl) Children() []Node { return []Node{t.Ref} }

// TraceInc samples a trace entry.
type TraceInc struct {
	Decl *TraceDecl
}

func (t *TraceInc) Children() []Node { return []Node{t.Decl} }
