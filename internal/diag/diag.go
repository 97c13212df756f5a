package diag

import "github.com/robert-at-pretension-io/vlog-lint/internal/ast"

// Category classifies a lint finding.
type Category string

const (
	Unused   Category = "UNUSED"
	Undriven Category = "UNDRIVEN"
)

// Sink receives findings as passes emit them. Passes never decide
// severity or abort on a finding; escalation is the consumer's business.
type Sink interface {
	Emit(sig *ast.Var, cat Category, msg string)
}

// Finding is one reported problem, located at the signal's declaration.
type Finding struct {
	Code     string `json:"code"`
	Severity string `json:"severity,omitempty"`
	Signal   string `json:"signal"`
	File     string `json:"file"`
	Line     int    `json:"line"`
	Message  string `json:"message"`
}

// Collector is a Sink that accumulates findings in emission order.
type Collector struct {
	Findings []Finding
}

func (c *Collector) Emit(sig *ast.Var, cat Category, msg string) {
	c.Findings = append(c.Findings, Finding{
		Code:    string(cat),
		Signal:  sig.Name,
		File:    sig.File,
		Line:    sig.Line,
		Message: msg,
	})
}
