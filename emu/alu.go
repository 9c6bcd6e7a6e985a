// Package emu provides functional RV32I execution units.
package emu

import "github.com/sarchlab/rv32core/insts"

// ALU implements RV32I arithmetic and logic operations.
// It is purely combinational and holds no state.
type ALU struct{}

// NewALU creates a new ALU.
func NewALU() *ALU {
	return &ALU{}
}

// Execute applies the operation selected by ctrl to a and b.
// Arithmetic wraps modulo 2^32. Shifts use only the low 5 bits of b.
// Selectors outside the RV32I set yield 0.
func (a *ALU) Execute(ctrl insts.ALUCtrl, srcA, srcB uint32) uint32 {
	shamt := srcB & 0x1F

	switch ctrl {
	case insts.ALUAdd:
		return srcA + srcB
	case insts.ALUSub:
		return srcA - srcB
	case insts.ALUAnd:
		return srcA & srcB
	case insts.ALUOr:
		return srcA | srcB
	case insts.ALUXor:
		return srcA ^ srcB
	case insts.ALUSlt:
		return boolToWord(int32(srcA) < int32(srcB))
	case insts.ALUSltu:
		return boolToWord(srcA < srcB)
	case insts.ALUSrl:
		return srcA >> shamt
	case insts.ALUSll:
		return srcA << shamt
	case insts.ALUSra:
		return uint32(int32(srcA) >> shamt)
	default:
		return 0
	}
}

// Zero reports whether an ALU result is zero. The external branch logic
// derives its Zero flag this way.
func Zero(result uint32) bool {
	return result == 0
}

func boolToWord(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
