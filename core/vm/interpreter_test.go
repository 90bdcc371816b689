package vm

import (
	"errors"
	"testing"

	"github.com/holiman/uint256"
)

func TestRunSimpleArithmeticProgram(t *testing.T) {
	state := newMemStateDB()
	evm := newTestEVM(state)
	// PUSH1 3, PUSH1 4, ADD, PUSH1 0, MSTORE, PUSH1 32, PUSH1 0, RETURN
	code := []byte{
		byte(PUSH1), 3, byte(PUSH1), 4, byte(ADD),
		byte(PUSH1), 0, byte(MSTORE),
		byte(PUSH1), 32, byte(PUSH1), 0, byte(RETURN),
	}
	contract := NewContract(addr(1), addr(2), new(uint256.Int), 100000)
	contract.Code = code

	ret, refund, logs, err := evm.Run(contract, nil, false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if refund != 0 || len(logs) != 0 {
		t.Errorf("a program with no SSTORE/LOG should leave refund/logs empty, got refund=%d logs=%d", refund, len(logs))
	}
	got := new(uint256.Int).SetBytes(ret)
	if got.Uint64() != 7 {
		t.Errorf("3 + 4 = %d, want 7", got.Uint64())
	}
}

func TestRunStopHaltsCleanly(t *testing.T) {
	state := newMemStateDB()
	evm := newTestEVM(state)
	contract := NewContract(addr(1), addr(2), new(uint256.Int), 100000)
	contract.Code = []byte{byte(PUSH1), 1, byte(POP), byte(STOP)}

	ret, _, _, err := evm.Run(contract, nil, false)
	if err != nil || ret != nil {
		t.Errorf("Run with STOP = ret=%v err=%v, want nil, nil", ret, err)
	}
}

func TestRunInvalidOpcodeTraps(t *testing.T) {
	state := newMemStateDB()
	evm := newTestEVM(state)
	contract := NewContract(addr(1), addr(2), new(uint256.Int), 100000)
	contract.Code = []byte{byte(INVALID)}

	_, _, _, err := evm.Run(contract, nil, false)
	if !errors.Is(err, ErrInvalidOpcode) {
		t.Errorf("Run over INVALID = %v, want a trap wrapping ErrInvalidOpcode", err)
	}
}

func TestRunStackUnderflowTraps(t *testing.T) {
	state := newMemStateDB()
	evm := newTestEVM(state)
	contract := NewContract(addr(1), addr(2), new(uint256.Int), 100000)
	contract.Code = []byte{byte(ADD)} // nothing on the stack

	_, _, _, err := evm.Run(contract, nil, false)
	if !errors.Is(err, ErrStackUnderflow) {
		t.Errorf("Run ADD with an empty stack = %v, want a trap wrapping ErrStackUnderflow", err)
	}
}

func TestRunOutOfGasTraps(t *testing.T) {
	state := newMemStateDB()
	evm := newTestEVM(state)
	contract := NewContract(addr(1), addr(2), new(uint256.Int), 2) // not enough for a single PUSH1
	contract.Code = []byte{byte(PUSH1), 1}

	_, _, _, err := evm.Run(contract, nil, false)
	if !errors.Is(err, ErrOutOfGas) {
		t.Errorf("Run with insufficient gas = %v, want a trap wrapping ErrOutOfGas", err)
	}
}

// TestRunCodeConceptuallyPaddedWithStop checks that execution falling
// off the end of code (no explicit STOP) halts cleanly rather than
// trapping, per Contract.GetOp's "pad with STOP" rule.
func TestRunCodeConceptuallyPaddedWithStop(t *testing.T) {
	state := newMemStateDB()
	evm := newTestEVM(state)
	contract := NewContract(addr(1), addr(2), new(uint256.Int), 100000)
	contract.Code = []byte{byte(PUSH1), 1, byte(POP)} // no trailing STOP

	_, _, _, err := evm.Run(contract, nil, false)
	if err != nil {
		t.Errorf("Run falling off the end of code = %v, want nil (implicit STOP)", err)
	}
}

// TestRunMemoryGrowsInWholeWords checks that a one-byte MSTORE8 still
// expands memory to a full 32-byte word, as MSIZE observes it.
func TestRunMemoryGrowsInWholeWords(t *testing.T) {
	state := newMemStateDB()
	evm := newTestEVM(state)
	// MSTORE8(0, 1), then return MSIZE.
	code := []byte{
		byte(PUSH1), 1, byte(PUSH1), 0, byte(MSTORE8),
		byte(MSIZE), byte(PUSH1), 0, byte(MSTORE),
		byte(PUSH1), 32, byte(PUSH1), 0, byte(RETURN),
	}
	contract := NewContract(addr(1), addr(2), new(uint256.Int), 100000)
	contract.Code = code

	ret, _, _, err := evm.Run(contract, nil, false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := new(uint256.Int).SetBytes(ret); got.Uint64() != 32 {
		t.Errorf("MSIZE after a one-byte write = %d, want 32", got.Uint64())
	}
}

// TestRunWriteUnderReadOnlyTraps covers the STATICCALL write-protection
// rule at the interpreter level: an opcode marked writes in the jump
// table must trap under a read-only frame.
func TestRunWriteUnderReadOnlyTraps(t *testing.T) {
	state := newMemStateDB()
	evm := newTestEVM(state)
	contract := NewContract(addr(1), addr(2), new(uint256.Int), 100000)
	contract.Code = []byte{byte(PUSH1), 1, byte(PUSH1), 2, byte(SSTORE)}

	_, _, _, err := evm.Run(contract, nil, true)
	if !errors.Is(err, ErrWriteProtection) {
		t.Errorf("SSTORE under a read-only Run = %v, want a trap wrapping ErrWriteProtection", err)
	}
}
