package frontend

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/participle/v2"
)

// Parser parses Verilog source files into the syntactic tree.
type Parser struct {
	parser *participle.Parser[SourceFile]
}

// NewParser builds the participle parser for the Verilog subset.
func NewParser() (*Parser, error) {
	parser, err := participle.Build[SourceFile](
		participle.Lexer(verilogLexer),
		participle.Elide("Comment", "BlockComment", "Whitespace"),
		participle.UseLookahead(2),
	)
	if err != nil {
		return nil, fmt.Errorf("building parser: %w", err)
	}
	return &Parser{parser: parser}, nil
}

// Parse parses Verilog source from a reader.
func (p *Parser) Parse(filename string, r io.Reader) (*SourceFile, error) {
	src, err := p.parser.Parse(filename, r)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return src, nil
}

// ParseString parses Verilog source from a string.
func (p *Parser) ParseString(filename, input string) (*SourceFile, error) {
	src, err := p.parser.ParseString(filename, input)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return src, nil
}

// ParseFile parses a Verilog file from disk.
func (p *Parser) ParseFile(filename string) (*SourceFile, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return p.Parse(filename, f)
}
