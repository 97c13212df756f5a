package frontend

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/robert-at-pretension-io/vlog-lint/internal/ast"
)

// parseNumber converts a Verilog literal token into a four-state Number.
// Plain decimals become unsized 32-bit values; sized literals honor
// their base and record x/z digits in the XZ mask ('?' is a z alias).
func parseNumber(lit string) (ast.Number, error) {
	tick := strings.IndexByte(lit, '\'')
	if tick < 0 {
		v, err := strconv.ParseUint(strings.ReplaceAll(lit, "_", ""), 10, 64)
		if err != nil {
			return ast.Number{}, fmt.Errorf("decimal literal %q: %w", lit, err)
		}
		return ast.Number{Bits: 32, Value: v}, nil
	}

	bits, err := strconv.Atoi(lit[:tick])
	if err != nil || bits <= 0 {
		return ast.Number{}, fmt.Errorf("bad size in literal %q", lit)
	}
	if bits > 64 {
		return ast.Number{}, fmt.Errorf("literal %q wider than 64 bits", lit)
	}

	rest := lit[tick+1:]
	if len(rest) > 0 && (rest[0] == 's' || rest[0] == 'S') {
		rest = rest[1:] // signedness does not matter to usage analysis
	}
	if len(rest) < 2 {
		return ast.Number{}, fmt.Errorf("truncated literal %q", lit)
	}
	base := rest[0]
	digits := strings.ReplaceAll(rest[1:], "_", "")

	var digitBits int
	switch base {
	case 'b', 'B':
		digitBits = 1
	case 'o', 'O':
		digitBits = 3
	case 'h', 'H':
		digitBits = 4
	case 'd', 'D':
		if strings.ContainsAny(digits, "xXzZ?") {
			return ast.Number{}, fmt.Errorf("x/z digits not valid in decimal literal %q", lit)
		}
		v, err := strconv.ParseUint(digits, 10, 64)
		if err != nil {
			return ast.Number{}, fmt.Errorf("decimal literal %q: %w", lit, err)
		}
		return ast.Number{Bits: bits, Value: v & widthMask(bits)}, nil
	default:
		return ast.Number{}, fmt.Errorf("unknown base in literal %q", lit)
	}

	n := ast.Number{Bits: bits}
	for i := 0; i < len(digits); i++ {
		n.Value <<= uint(digitBits)
		n.XZ <<= uint(digitBits)
		c := digits[i]
		switch {
		case c == 'x' || c == 'X' || c == 'z' || c == 'Z' || c == '?':
			n.XZ |= 1<<uint(digitBits) - 1
		default:
			d, err := strconv.ParseUint(string(c), 16, 8)
			if err != nil || d >= 1<<uint(digitBits) {
				return ast.Number{}, fmt.Errorf("digit %q not valid in literal %q", c, lit)
			}
			n.Value |= d
		}
	}
	n.Value &= widthMask(bits)
	n.XZ &= widthMask(bits)
	return n, nil
}

func widthMask(bits int) uint64 {
	if bits >= 64 {
		return ^uint64(0)
	}
	return 1<<uint(bits) - 1
}
