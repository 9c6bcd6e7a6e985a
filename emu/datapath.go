package emu

import (
	"github.com/sirupsen/logrus"

	"github.com/sarchlab/rv32core/insts"
)

// StepResult describes the effects of executing a single instruction.
type StepResult struct {
	// Control is the decoded control vector.
	Control insts.ControlSignals

	// ALUResult is the ALU output (also the memory address for loads and
	// stores).
	ALUResult uint32

	// RegWritten is true if Rd was written with WriteBack. Writes to x0
	// are reported but have no effect.
	RegWritten bool
	Rd         uint8
	WriteBack  uint32

	// BranchTaken is the branch unit's decision for conditional branches.
	BranchTaken bool

	// PCSrc and NextPC give the selected successor of the executed PC.
	PCSrc  insts.PCSrc
	NextPC uint32
}

// Datapath wires the decoder, ALU, data memory, register file and branch
// unit together for one instruction at a time. It does not fetch: the
// caller supplies each instruction word and decides which PC comes next.
type Datapath struct {
	regFile    *RegFile
	memory     *DataMemory
	decoder    *insts.Decoder
	alu        *ALU
	branchUnit *BranchUnit
	logger     logrus.FieldLogger

	instructionCount uint64
}

// DatapathOption is a functional option for configuring the Datapath.
type DatapathOption func(*Datapath)

// WithDataMemory sets the data memory instead of a fresh default one.
func WithDataMemory(memory *DataMemory) DatapathOption {
	return func(d *Datapath) {
		d.memory = memory
	}
}

// WithRegFile sets the register file instead of a fresh zeroed one.
func WithRegFile(regFile *RegFile) DatapathOption {
	return func(d *Datapath) {
		d.regFile = regFile
	}
}

// WithLogger sets the logger used for execution traces.
func WithLogger(logger logrus.FieldLogger) DatapathOption {
	return func(d *Datapath) {
		d.logger = logger
	}
}

// NewDatapath creates a new single-instruction datapath.
func NewDatapath(opts ...DatapathOption) *Datapath {
	d := &Datapath{
		decoder:    insts.NewDecoder(),
		alu:        NewALU(),
		branchUnit: NewBranchUnit(),
	}

	for _, opt := range opts {
		opt(d)
	}

	if d.regFile == nil {
		d.regFile = &RegFile{}
	}
	if d.memory == nil {
		d.memory = NewDataMemory()
	}
	if d.logger == nil {
		d.logger = logrus.StandardLogger()
	}

	return d
}

// RegFile returns the datapath's register file.
func (d *Datapath) RegFile() *RegFile {
	return d.regFile
}

// DataMemory returns the datapath's data memory.
func (d *Datapath) DataMemory() *DataMemory {
	return d.memory
}

// InstructionCount returns the number of instructions executed.
func (d *Datapath) InstructionCount() uint64 {
	return d.instructionCount
}

// Reset clears registers, memory and the instruction count.
func (d *Datapath) Reset() {
	d.regFile = &RegFile{}
	d.memory.Reset()
	d.instructionCount = 0
}

// Execute runs the instruction word located at pc through one full cycle:
// decode, operand selection, ALU, memory setup and commit, branch
// resolution and writeback.
func (d *Datapath) Execute(pc, word uint32) StepResult {
	inst := insts.Instruction(word)
	ctrl := d.decoder.Decode(word)

	d.instructionCount++

	if !ctrl.Legal {
		d.logger.WithFields(logrus.Fields{
			"pc":     pc,
			"word":   word,
			"opcode": uint8(inst.Opcode()),
		}).Debug("unknown opcode executed as no-op")
	}

	imm := inst.Imm(ctrl.ImmSrc)
	rs1 := d.regFile.ReadReg(inst.Rs1())
	rs2 := d.regFile.ReadReg(inst.Rs2())

	srcA := d.selectOp1(ctrl.Op1Src, pc, rs1)
	srcB := rs2
	if ctrl.ALUSrc {
		srcB = imm
	}

	aluResult := d.alu.Execute(ctrl.ALUCtrl, srcA, srcB)

	d.memory.Setup(aluResult, rs2, ctrl.MemWrite, ctrl.MemType, ctrl.MemSign)
	readData := d.memory.ReadData()
	d.memory.Commit()

	taken := ctrl.BranchInstr && d.branchUnit.Taken(ctrl.Branch, rs1, rs2)
	pcSrc := ctrl.NextPC(taken)

	result := StepResult{
		Control:     ctrl,
		ALUResult:   aluResult,
		BranchTaken: taken,
		PCSrc:       pcSrc,
		NextPC:      d.nextPC(pcSrc, pc, imm, aluResult),
	}

	if ctrl.RegWrite {
		result.RegWritten = true
		result.Rd = inst.Rd()
		result.WriteBack = d.selectResult(ctrl.ResultSrc, aluResult, readData, pc)
		d.regFile.WriteReg(result.Rd, result.WriteBack)
	}

	d.logger.WithFields(logrus.Fields{
		"pc":     pc,
		"word":   word,
		"alu":    aluResult,
		"nextpc": result.NextPC,
	}).Trace("executed")

	return result
}

func (d *Datapath) selectOp1(src insts.Op1Src, pc, rs1 uint32) uint32 {
	switch src {
	case insts.Op1PC:
		return pc
	case insts.Op1Zero:
		return 0
	default:
		return rs1
	}
}

func (d *Datapath) selectResult(src insts.ResultSrc, aluResult, readData, pc uint32) uint32 {
	switch src {
	case insts.ResultMem:
		return readData
	case insts.ResultPCPlus4:
		return pc + 4
	default:
		return aluResult
	}
}

// nextPC computes the successor for the chosen source. JALR clears bit 0
// of its target.
func (d *Datapath) nextPC(src insts.PCSrc, pc, imm, aluResult uint32) uint32 {
	switch src {
	case insts.PCTarget:
		return pc + imm
	case insts.PCRegTarget:
		return aluResult &^ 1
	default:
		return pc + 4
	}
}
