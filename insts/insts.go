// Package insts provides RV32I instruction field extraction and decoding.
//
// This package turns a 32-bit RV32I machine word into the vector of
// datapath control signals consumed by the register file, the ALU and the
// data memory. It supports:
//   - R-type and I-type arithmetic/logic: ADD, SUB, SLL, SLT, SLTU, XOR,
//     SRL, SRA, OR, AND and their immediate forms
//   - Loads and stores: LB, LH, LW, LBU, LHU, SB, SH, SW
//   - Branches: BEQ, BNE, BLT, BGE, BLTU, BGEU
//   - Jumps and upper immediates: JAL, JALR, LUI, AUIPC
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	ctrl := decoder.Decode(0xFFF10093) // ADDI X1, X2, -1
//	fmt.Printf("ALUCtrl: %v, RegWrite: %v\n", ctrl.ALUCtrl, ctrl.RegWrite)
package insts

import "fmt"

// Opcode represents the 7-bit RV32I major opcode.
type Opcode uint8

// RV32I major opcodes.
const (
	OpcodeLoad   Opcode = 0b0000011
	OpcodeIType  Opcode = 0b0010011
	OpcodeAUIPC  Opcode = 0b0010111
	OpcodeStore  Opcode = 0b0100011
	OpcodeRType  Opcode = 0b0110011
	OpcodeLUI    Opcode = 0b0110111
	OpcodeBranch Opcode = 0b1100011
	OpcodeJALR   Opcode = 0b1100111
	OpcodeJAL    Opcode = 0b1101111
)

// ALUCtrl represents the 4-bit ALU operation selector.
type ALUCtrl uint8

// ALU operations.
const (
	ALUAdd  ALUCtrl = 0b0000
	ALUSub  ALUCtrl = 0b0001
	ALUAnd  ALUCtrl = 0b0010
	ALUOr   ALUCtrl = 0b0011
	ALUXor  ALUCtrl = 0b0100
	ALUSlt  ALUCtrl = 0b0101 // Set less than, signed
	ALUSltu ALUCtrl = 0b0110 // Set less than, unsigned
	ALUSrl  ALUCtrl = 0b0111 // Shift right logical
	ALUSll  ALUCtrl = 0b1000 // Shift left logical
	ALUSra  ALUCtrl = 0b1001 // Shift right arithmetic
)

var aluCtrlNames = [...]string{
	"add", "sub", "and", "or", "xor", "slt", "sltu", "srl", "sll", "sra",
}

func (c ALUCtrl) String() string {
	if int(c) < len(aluCtrlNames) {
		return aluCtrlNames[c]
	}
	return fmt.Sprintf("alu(%d)", uint8(c))
}

// ImmSrc selects which immediate encoding format to extend.
type ImmSrc uint8

// Immediate formats.
const (
	ImmI ImmSrc = iota
	ImmS
	ImmB
	ImmU
	ImmJ
)

func (s ImmSrc) String() string {
	switch s {
	case ImmI:
		return "I"
	case ImmS:
		return "S"
	case ImmB:
		return "B"
	case ImmU:
		return "U"
	case ImmJ:
		return "J"
	default:
		return fmt.Sprintf("imm(%d)", uint8(s))
	}
}

// ResultSrc selects the value written back to the register file.
type ResultSrc uint8

// Writeback sources.
const (
	ResultALU     ResultSrc = iota // ALU result
	ResultMem                      // Data memory read value
	ResultPCPlus4                  // Return address
)

func (s ResultSrc) String() string {
	switch s {
	case ResultALU:
		return "alu"
	case ResultMem:
		return "mem"
	case ResultPCPlus4:
		return "pc+4"
	default:
		return fmt.Sprintf("result(%d)", uint8(s))
	}
}

// Op1Src selects the ALU's first operand.
type Op1Src uint8

// First-operand sources.
const (
	Op1Reg  Op1Src = iota // rs1
	Op1PC                 // Program counter
	Op1Zero               // Constant zero (LUI)
)

func (s Op1Src) String() string {
	switch s {
	case Op1Reg:
		return "reg"
	case Op1PC:
		return "pc"
	case Op1Zero:
		return "zero"
	default:
		return fmt.Sprintf("op1(%d)", uint8(s))
	}
}

// MemType represents the width of a memory access.
type MemType uint8

// Memory access widths.
const (
	MemWord MemType = 0b00
	MemByte MemType = 0b01
	MemHalf MemType = 0b10
)

func (t MemType) String() string {
	switch t {
	case MemWord:
		return "word"
	case MemByte:
		return "byte"
	case MemHalf:
		return "half"
	default:
		return fmt.Sprintf("mem(%d)", uint8(t))
	}
}

// BranchCond is the 3-bit branch condition code, taken verbatim from funct3.
type BranchCond uint8

// RV32I branch conditions.
const (
	BranchEQ  BranchCond = 0b000 // Equal
	BranchNE  BranchCond = 0b001 // Not equal
	BranchLT  BranchCond = 0b100 // Signed less than
	BranchGE  BranchCond = 0b101 // Signed greater than or equal
	BranchLTU BranchCond = 0b110 // Unsigned less than
	BranchGEU BranchCond = 0b111 // Unsigned greater than or equal
)

// PCSrc selects where the next program counter comes from.
type PCSrc uint8

// Next-PC sources.
const (
	PCPlus4     PCSrc = iota // Sequential
	PCTarget                 // PC + immediate (taken branch, JAL)
	PCRegTarget              // rs1 + immediate (JALR)
)

func (s PCSrc) String() string {
	switch s {
	case PCPlus4:
		return "pc+4"
	case PCTarget:
		return "pc+imm"
	case PCRegTarget:
		return "rs1+imm"
	default:
		return fmt.Sprintf("pcsrc(%d)", uint8(s))
	}
}

// ControlSignals is the datapath control vector produced by the decoder.
type ControlSignals struct {
	// Legal is false when the opcode is not part of RV32I. All other
	// fields are then zero.
	Legal bool

	RegWrite  bool      // Write the result back to rd
	Op1Src    Op1Src    // ALU operand A source
	ALUSrc    bool      // ALU operand B is the immediate (false: rs2)
	ALUCtrl   ALUCtrl   // ALU operation
	ImmSrc    ImmSrc    // Immediate format
	ResultSrc ResultSrc // Writeback source

	MemWrite bool    // Commit a store
	MemType  MemType // Access width
	MemSign  bool    // false: sign-extend loads, true: zero-extend

	BranchInstr bool       // Conditional branch
	Branch      BranchCond // Condition code for the external branch unit

	Jump    bool // JAL or JALR
	JumpSrc bool // false: PC-relative (JAL), true: register-relative (JALR)
}

// NextPC returns the PC source given the external branch decision.
// branchTaken is ignored for anything but conditional branches.
func (c ControlSignals) NextPC(branchTaken bool) PCSrc {
	switch {
	case c.Jump && c.JumpSrc:
		return PCRegTarget
	case c.Jump:
		return PCTarget
	case c.BranchInstr && branchTaken:
		return PCTarget
	default:
		return PCPlus4
	}
}

func (c ControlSignals) String() string {
	return fmt.Sprintf(
		"legal=%t regwrite=%t op1=%v alusrc=%t aluctrl=%v imm=%v result=%v "+
			"memwrite=%t memtype=%v memsign=%t branch=%t cond=%03b jump=%t jumpsrc=%t",
		c.Legal, c.RegWrite, c.Op1Src, c.ALUSrc, c.ALUCtrl, c.ImmSrc, c.ResultSrc,
		c.MemWrite, c.MemType, c.MemSign, c.BranchInstr, uint8(c.Branch),
		c.Jump, c.JumpSrc)
}
