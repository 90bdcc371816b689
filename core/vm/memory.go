package vm

import (
	"github.com/holiman/uint256"
)

// Memory is the EVM's linear, byte-addressable, zero-extending working
// memory. Reads and writes beyond the current length are only valid
// once the interpreter has resized the buffer (via a dynamic-gas charge
// computed ahead of the opcode's execute call) -- Set/Set32 panic on an
// out-of-bounds write on the assumption that invariant always holds.
type Memory struct {
	store       []byte
	lastGasCost uint64
}

// NewMemory returns an empty Memory.
func NewMemory() *Memory {
	return &Memory{}
}

// Set writes val into store[offset:offset+size]. The destination range
// must already be within the buffer.
func (m *Memory) Set(offset, size uint64, val []byte) {
	if size == 0 {
		return
	}
	if offset+size > uint64(len(m.store)) {
		panic("memory: write out of bounds")
	}
	copy(m.store[offset:offset+size], val)
}

// Set32 writes val, a 256-bit word, big-endian, left-padded with
// zeroes, to store[offset:offset+32].
func (m *Memory) Set32(offset uint64, val *uint256.Int) {
	if offset+32 > uint64(len(m.store)) {
		panic("memory: write out of bounds")
	}
	b32 := val.Bytes32()
	copy(m.store[offset:offset+32], b32[:])
}

// Resize grows the buffer to size bytes if it is currently smaller.
// Memory only ever grows; it is never shrunk within a frame's lifetime.
func (m *Memory) Resize(size uint64) {
	if uint64(len(m.store)) < size {
		m.store = append(m.store, make([]byte, size-uint64(len(m.store)))...)
	}
}

// Get returns a fresh copy of size bytes starting at offset.
func (m *Memory) Get(offset, size int64) []byte {
	if size == 0 {
		return nil
	}
	if len(m.store) > int(offset) {
		cpy := make([]byte, size)
		copy(cpy, m.store[offset:offset+size])
		return cpy
	}
	return nil
}

// GetPtr returns a direct slice into the buffer, valid until the next
// resize. Used where the caller is known not to retain it across a
// mutation.
func (m *Memory) GetPtr(offset, size int64) []byte {
	if size == 0 {
		return nil
	}
	return m.store[offset : offset+size]
}

// Len returns the current size of the memory buffer in bytes.
func (m *Memory) Len() int {
	return len(m.store)
}

// Data returns the underlying buffer.
func (m *Memory) Data() []byte {
	return m.store
}

// toWordSize rounds size up to the nearest multiple of 32, expressed in
// words, guarding against overflow by saturating at a value whose
// square already exceeds any realistic block gas limit.
func toWordSize(size uint64) uint64 {
	if size > 0xffffffffe0 {
		return 0xffffffffe0/32 + 1
	}
	return (size + 31) / 32
}

// MemoryGasCost computes the total quadratic-growth memory cost for a
// buffer of newMemSize bytes: memoryGas*w + floor(w^2/quadCoeffDiv).
func MemoryGasCost(fee *FeeSchedule, newMemSize uint64) (uint64, error) {
	if newMemSize == 0 {
		return 0, nil
	}
	if newMemSize > 0x1FFFFFFFE0 {
		return 0, ErrGasUintOverflow
	}
	words := toWordSize(newMemSize)
	// words is at most 2^32-1 at this point, so the square does not
	// overflow.
	linear := words * fee.MemoryGas
	quad := (words * words) / fee.QuadCoeffDiv
	total := linear + quad
	if total < linear {
		return 0, ErrGasUintOverflow
	}
	return total, nil
}

// MemoryExpansionGas returns the incremental gas cost of growing memory
// from its current size to newMemSize, i.e. the marginal cost charged
// for this opcode, not the whole-buffer cost.
func MemoryExpansionGas(fee *FeeSchedule, mem *Memory, newMemSize uint64) (uint64, error) {
	if newMemSize <= uint64(mem.Len()) {
		return 0, nil
	}
	cost, err := MemoryGasCost(fee, newMemSize)
	if err != nil {
		return 0, err
	}
	if cost <= mem.lastGasCost {
		return 0, nil
	}
	delta := cost - mem.lastGasCost
	mem.lastGasCost = cost
	return delta, nil
}

// calcMemSize64 returns the byte offset one past the end of the region
// [off, off+size), and whether that computation overflowed. A zero size
// region never requires memory expansion, regardless of offset.
func calcMemSize64(off, size *uint256.Int) (uint64, bool) {
	if size.IsZero() {
		return 0, false
	}
	if !size.IsUint64() || size.Uint64() > 0x1FFFFFFFE0 {
		return 0, true
	}
	if !off.IsUint64() {
		return 0, true
	}
	end, overflow := new(uint256.Int).AddOverflow(off, size)
	if overflow || !end.IsUint64() {
		return 0, true
	}
	return end.Uint64(), false
}
