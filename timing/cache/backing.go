package cache

import (
	"github.com/sarchlab/rv32core/emu"
	"github.com/sarchlab/rv32core/insts"
)

// MemoryBacking serves line fills and writebacks from an emu.DataMemory
// through its word load and store cycles, so address aliasing applies.
type MemoryBacking struct {
	memory *emu.DataMemory
}

// NewMemoryBacking creates a new MemoryBacking adapter.
func NewMemoryBacking(memory *emu.DataMemory) *MemoryBacking {
	return &MemoryBacking{memory: memory}
}

// ReadWord loads the word at addr.
func (m *MemoryBacking) ReadWord(addr uint32) uint32 {
	return m.memory.Load(addr, insts.MemWord, false)
}

// WriteWord stores word at addr.
func (m *MemoryBacking) WriteWord(addr, word uint32) {
	m.memory.Store(addr, word, insts.MemWord)
}
