// Package latency provides instruction timing for the RV32I core model.
//
// Latencies are looked up by the decoded control vector, so every
// instruction class the decoder recognizes has a defined cost.
package latency

import (
	"github.com/sarchlab/rv32core/insts"
)

// Table provides instruction latency lookups.
type Table struct {
	config *TimingConfig
}

// NewTable creates a new latency table with default timing values.
func NewTable() *Table {
	return &Table{
		config: DefaultTimingConfig(),
	}
}

// NewTableWithConfig creates a new latency table with custom timing configuration.
func NewTableWithConfig(config *TimingConfig) *Table {
	return &Table{
		config: config,
	}
}

// Latency returns the execution latency in cycles for the given control
// vector. branchTaken adds the taken penalty to conditional branches.
// Unknown instructions cost one cycle.
func (t *Table) Latency(ctrl insts.ControlSignals, branchTaken bool) uint64 {
	switch {
	case !ctrl.Legal:
		return 1
	case t.IsLoad(ctrl):
		return t.config.LoadLatency
	case t.IsStore(ctrl):
		return t.config.StoreLatency
	case t.IsJump(ctrl):
		return t.config.JumpLatency
	case t.IsBranch(ctrl):
		if branchTaken {
			return t.config.BranchLatency + t.config.BranchTakenPenalty
		}
		return t.config.BranchLatency
	default:
		return t.config.ALULatency
	}
}

// IsMemoryOp returns true if the instruction accesses data memory.
func (t *Table) IsMemoryOp(ctrl insts.ControlSignals) bool {
	return t.IsLoad(ctrl) || t.IsStore(ctrl)
}

// IsLoad returns true if the instruction is a load.
func (t *Table) IsLoad(ctrl insts.ControlSignals) bool {
	return ctrl.RegWrite && ctrl.ResultSrc == insts.ResultMem
}

// IsStore returns true if the instruction is a store.
func (t *Table) IsStore(ctrl insts.ControlSignals) bool {
	return ctrl.MemWrite
}

// IsBranch returns true if the instruction is a conditional branch.
func (t *Table) IsBranch(ctrl insts.ControlSignals) bool {
	return ctrl.BranchInstr
}

// IsJump returns true if the instruction is JAL or JALR.
func (t *Table) IsJump(ctrl insts.ControlSignals) bool {
	return ctrl.Jump
}

// Config returns the current timing configuration.
func (t *Table) Config() *TimingConfig {
	return t.config
}
