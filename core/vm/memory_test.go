package vm

import (
	"bytes"
	"testing"

	"github.com/holiman/uint256"
)

func TestMemoryResize(t *testing.T) {
	mem := NewMemory()
	if mem.Len() != 0 {
		t.Fatalf("initial Len() = %d, want 0", mem.Len())
	}
	mem.Resize(64)
	if mem.Len() != 64 {
		t.Fatalf("after Resize(64), Len() = %d, want 64", mem.Len())
	}
	mem.Resize(32)
	if mem.Len() != 64 {
		t.Errorf("Resize should never shrink, Len() = %d, want 64", mem.Len())
	}
}

func TestMemorySetGet(t *testing.T) {
	mem := NewMemory()
	mem.Resize(64)

	data := []byte{0xde, 0xad, 0xbe, 0xef}
	mem.Set(10, uint64(len(data)), data)

	got := mem.Get(10, int64(len(data)))
	if !bytes.Equal(got, data) {
		t.Errorf("Get() = %x, want %x", got, data)
	}

	// A read past the written bytes but within the resized,
	// zero-extended buffer returns zeros.
	tail := mem.Get(14, 4)
	if !bytes.Equal(tail, make([]byte, 4)) {
		t.Errorf("Get() past write = %x, want zeros", tail)
	}
}

func TestMemorySet32(t *testing.T) {
	mem := NewMemory()
	mem.Resize(32)

	val := uint256.NewInt(0xff)
	mem.Set32(0, val)

	got := mem.Get(0, 32)
	expected := make([]byte, 32)
	expected[31] = 0xff
	if !bytes.Equal(got, expected) {
		t.Errorf("Set32 result = %x, want %x", got, expected)
	}
}

func TestMemoryGetZeroLength(t *testing.T) {
	mem := NewMemory()
	mem.Resize(32)
	if got := mem.Get(0, 0); got != nil {
		t.Errorf("Get(_, 0) = %v, want nil", got)
	}
}

// TestMemoryExpansionCost walks the quadratic schedule step by step: an
// MSTORE at offset 0 charges memoryGas*1 + floor(1/quadCoeffDiv), and a
// following MSTORE at offset 32 charges only the marginal growth from
// one word to two.
func TestMemoryExpansionCost(t *testing.T) {
	fee := DefaultFeeSchedule()
	mem := NewMemory()

	first, err := MemoryExpansionGas(fee, mem, 32)
	if err != nil {
		t.Fatalf("MemoryExpansionGas(32): %v", err)
	}
	want := fee.MemoryGas*1 + (1*1)/fee.QuadCoeffDiv
	if first != want {
		t.Errorf("first expansion cost = %d, want %d", first, want)
	}
	mem.Resize(32)

	second, err := MemoryExpansionGas(fee, mem, 64)
	if err != nil {
		t.Fatalf("MemoryExpansionGas(64): %v", err)
	}
	total2, _ := MemoryGasCost(fee, 64)
	total1, _ := MemoryGasCost(fee, 32)
	if second != total2-total1 {
		t.Errorf("second expansion cost = %d, want %d", second, total2-total1)
	}

	// Re-requesting a size already paid for costs nothing further.
	mem.Resize(64)
	again, err := MemoryExpansionGas(fee, mem, 64)
	if err != nil {
		t.Fatalf("MemoryExpansionGas(64) again: %v", err)
	}
	if again != 0 {
		t.Errorf("re-expanding to an already-paid size cost %d, want 0", again)
	}
}

func TestMemoryExpansionGasMonotonic(t *testing.T) {
	fee := DefaultFeeSchedule()
	mem := NewMemory()
	var total uint64
	for _, size := range []uint64{32, 96, 96, 160, 32} {
		cost, err := MemoryExpansionGas(fee, mem, size)
		if err != nil {
			t.Fatalf("MemoryExpansionGas(%d): %v", size, err)
		}
		if size > uint64(mem.Len()) {
			mem.Resize(size)
		}
		total += cost
	}
	if total == 0 {
		t.Fatalf("expected some nonzero expansion cost across growing sizes")
	}
}

func TestToWordSize(t *testing.T) {
	cases := []struct{ size, words uint64 }{
		{0, 0},
		{1, 1},
		{32, 1},
		{33, 2},
		{64, 2},
	}
	for _, c := range cases {
		if got := toWordSize(c.size); got != c.words {
			t.Errorf("toWordSize(%d) = %d, want %d", c.size, got, c.words)
		}
	}
}

func TestCalcMemSize64ZeroLength(t *testing.T) {
	end, overflow := calcMemSize64(uint256.NewInt(1<<62), new(uint256.Int))
	if overflow || end != 0 {
		t.Errorf("zero-length range should never overflow or require expansion, got end=%d overflow=%v", end, overflow)
	}
}

func TestCalcMemSize64Overflow(t *testing.T) {
	huge := new(uint256.Int).Lsh(uint256.NewInt(1), 200)
	_, overflow := calcMemSize64(huge, uint256.NewInt(1))
	if !overflow {
		t.Errorf("expected overflow for an offset far beyond the platform-safe bound")
	}
}
