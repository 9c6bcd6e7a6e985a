package emu

import (
	"encoding/binary"

	"github.com/sarchlab/rv32core/insts"
)

// DefaultAddressBits is the number of address bits that select a byte in
// the reference data memory (128 KiB).
const DefaultAddressBits = 17

// BuildWriteWord overlays the low 8, 16 or 32 bits of writeData onto
// existing at byte lane offset and returns the word to commit.
// Lanes not covered by the access keep their existing value.
//
// offset is the low two address bits. Word accesses ignore it; half
// accesses use only bit 1.
func BuildWriteWord(existing, writeData uint32, offset uint8, width insts.MemType) uint32 {
	switch width {
	case insts.MemByte:
		shift := uint32(offset&0x3) * 8
		mask := uint32(0xFF) << shift
		return existing&^mask | (writeData<<shift)&mask
	case insts.MemHalf:
		shift := uint32(offset&0x2) * 8
		mask := uint32(0xFFFF) << shift
		return existing&^mask | (writeData<<shift)&mask
	default:
		return writeData
	}
}

// ExtractReadWord selects the byte or half lane at offset from a stored
// word and extends it to 32 bits. unsigned requests zero extension;
// otherwise the value is sign-extended. Word accesses pass stored through.
func ExtractReadWord(stored uint32, offset uint8, width insts.MemType, unsigned bool) uint32 {
	switch width {
	case insts.MemByte:
		b := uint8(stored >> (uint32(offset&0x3) * 8))
		if unsigned {
			return uint32(b)
		}
		return uint32(int32(int8(b)))
	case insts.MemHalf:
		h := uint16(stored >> (uint32(offset&0x2) * 8))
		if unsigned {
			return uint32(h)
		}
		return uint32(int32(int16(h)))
	default:
		return stored
	}
}

// memPort holds the inputs latched on the rising half of a cycle.
type memPort struct {
	addr      uint32
	writeData uint32
	writeEn   bool
	memType   insts.MemType
	unsigned  bool
}

// DataMemory is a byte-addressable little-endian data memory.
//
// Only the low address bits select a byte; higher bits alias. Inputs are
// latched with Setup and a pending store becomes visible after Commit,
// which models the falling clock edge. ReadData is combinational over the
// latched address.
type DataMemory struct {
	data []byte
	mask uint32
	port memPort
}

// DataMemoryOption is a functional option for configuring DataMemory.
type DataMemoryOption func(*DataMemory)

// WithAddressBits sets the number of significant address bits. The
// capacity is 2^bits bytes. Values below 2 or above 32 are clamped.
func WithAddressBits(bits uint) DataMemoryOption {
	return func(m *DataMemory) {
		if bits < 2 {
			bits = 2
		}
		if bits > 32 {
			bits = 32
		}
		m.mask = uint32((uint64(1) << bits) - 1)
	}
}

// NewDataMemory creates a zero-filled data memory.
func NewDataMemory(opts ...DataMemoryOption) *DataMemory {
	m := &DataMemory{
		mask: (1 << DefaultAddressBits) - 1,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.data = make([]byte, uint64(m.mask)+1)

	return m
}

// Size returns the capacity in bytes.
func (m *DataMemory) Size() int {
	return len(m.data)
}

// Setup latches the port inputs for the current cycle.
func (m *DataMemory) Setup(
	addr, writeData uint32,
	writeEn bool,
	memType insts.MemType,
	unsigned bool,
) {
	m.port = memPort{
		addr:      addr,
		writeData: writeData,
		writeEn:   writeEn,
		memType:   memType,
		unsigned:  unsigned,
	}
}

// Commit performs the falling-edge write. It does nothing when write
// enable was not latched. At most one store is committed per call.
func (m *DataMemory) Commit() {
	if !m.port.writeEn {
		return
	}

	base, offset := m.split(m.port.addr)
	existing := m.readWord(base)
	word := BuildWriteWord(existing, m.port.writeData, offset, m.port.memType)
	m.writeWord(base, word)
}

// ReadData returns the width- and sign-adjusted value at the latched
// address, reflecting every commit so far.
func (m *DataMemory) ReadData() uint32 {
	base, offset := m.split(m.port.addr)
	return ExtractReadWord(m.readWord(base), offset, m.port.memType, m.port.unsigned)
}

// Load performs a complete read cycle and returns the loaded value.
func (m *DataMemory) Load(addr uint32, memType insts.MemType, unsigned bool) uint32 {
	m.Setup(addr, 0, false, memType, unsigned)
	return m.ReadData()
}

// Store performs a complete write cycle.
func (m *DataMemory) Store(addr, data uint32, memType insts.MemType) {
	m.Setup(addr, data, true, memType, false)
	m.Commit()
}

// Reset clears every byte and the latched port.
func (m *DataMemory) Reset() {
	clear(m.data)
	m.port = memPort{}
}

// split returns the masked word-aligned base index and the byte offset.
func (m *DataMemory) split(addr uint32) (uint32, uint8) {
	addr &= m.mask
	return addr &^ 0x3, uint8(addr & 0x3)
}

// readWord and writeWord slice to the end of the array: base+4 would wrap
// for the top word of a 32-bit memory.
func (m *DataMemory) readWord(base uint32) uint32 {
	return binary.LittleEndian.Uint32(m.data[base:])
}

func (m *DataMemory) writeWord(base, word uint32) {
	binary.LittleEndian.PutUint32(m.data[base:], word)
}
