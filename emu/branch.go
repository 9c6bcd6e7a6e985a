package emu

import "github.com/sarchlab/rv32core/insts"

// BranchUnit resolves RV32I branch conditions.
// The decoder forwards funct3 as the condition; this unit compares the two
// register operands and reports whether the branch is taken.
type BranchUnit struct{}

// NewBranchUnit creates a new BranchUnit.
func NewBranchUnit() *BranchUnit {
	return &BranchUnit{}
}

// Taken evaluates cond against rs1 and rs2 values.
// The reserved codes 010 and 011 are never taken.
func (b *BranchUnit) Taken(cond insts.BranchCond, rs1, rs2 uint32) bool {
	switch cond {
	case insts.BranchEQ:
		return rs1 == rs2
	case insts.BranchNE:
		return rs1 != rs2
	case insts.BranchLT:
		return int32(rs1) < int32(rs2)
	case insts.BranchGE:
		return int32(rs1) >= int32(rs2)
	case insts.BranchLTU:
		return rs1 < rs2
	case insts.BranchGEU:
		return rs1 >= rs2
	default:
		return false
	}
}
