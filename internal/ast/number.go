package ast

import (
	"fmt"
	"strings"
)

// Number is a sized Verilog literal with four-state support. Value holds
// the 0/1 bits; XZ flags every bit position whose digit was x or z. A bit
// set in XZ makes the number four-state, which disqualifies it as a
// select offset for precise bit tracking.
//
// Numbers wider than 64 bits are not representable; the frontend rejects
// them before elaboration.
type Number struct {
	Bits  int
	Value uint64
	XZ    uint64
}

// FourState reports whether any bit is x or z.
func (n Number) FourState() bool { return n.XZ != 0 }

// Uint returns the two-state value bits.
func (n Number) Uint() uint64 { return n.Value }

// Int returns the two-state value as an int, for use as a bit offset.
func (n Number) Int() int { return int(n.Value) }

func (n Number) String() string {
	if !n.FourState() {
		return fmt.Sprintf("%d'h%x", n.Bits, n.Value)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d'b", n.Bits)
	for i := n.Bits - 1; i >= 0; i-- {
		switch {
		case n.XZ>>uint(i)&1 == 1:
			sb.WriteByte('x')
		case n.Value>>uint(i)&1 == 1:
			sb.WriteByte('1')
		default:
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
