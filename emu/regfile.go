package emu

// RegFile represents the RV32I integer register file.
// It contains 32 registers (x0-x31); x0 always reads as zero.
type RegFile struct {
	// X holds registers x0-x31. X[0] is never written.
	X [32]uint32
}

// ReadReg reads a register value. Register 0 and indices >= 32 return 0.
func (r *RegFile) ReadReg(reg uint8) uint32 {
	if reg == 0 || reg >= 32 {
		return 0
	}
	return r.X[reg]
}

// WriteReg writes a value to a register. Writes to x0 are ignored.
func (r *RegFile) WriteReg(reg uint8, value uint32) {
	if reg == 0 || reg >= 32 {
		return
	}
	r.X[reg] = value
}
