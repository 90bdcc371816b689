package vm

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Log is a single LOGn event emitted during execution.
type Log struct {
	Address common.Address
	Topics  []common.Hash
	Data    []byte
}

// SelfdestructSet tracks, for a single top-level transaction, which
// addresses have been marked for destruction and whether each has
// already earned its refund. It is shared by pointer across every
// Frame belonging to the same transaction, since a child Frame's
// SELFDESTRUCT must be visible to -- and only refunded once across --
// the whole call tree.
type SelfdestructSet struct {
	marked map[common.Address]bool
}

// NewSelfdestructSet returns an empty set.
func NewSelfdestructSet() *SelfdestructSet {
	return &SelfdestructSet{marked: make(map[common.Address]bool)}
}

// Mark records addr for destruction, returning true the first time
// addr is marked (the only time a refund is granted).
func (s *SelfdestructSet) Mark(addr common.Address) bool {
	if s.marked[addr] {
		return false
	}
	s.marked[addr] = true
	return true
}

// Addresses returns every address marked for destruction.
func (s *SelfdestructSet) Addresses() []common.Address {
	out := make([]common.Address, 0, len(s.marked))
	for a := range s.marked {
		out = append(out, a)
	}
	return out
}

// Frame is a single call-depth's complete execution record: the
// program counter and operand stack and memory for the code currently
// running, the gas meter, the environment values visible to the
// EVM opcodes, and the handles to the two external collaborators
// (StateManager and FrameRunner) this execution may suspend to.
//
// A Frame is owned by value at each call depth -- a child call gets
// its own Frame, never a mutated view of the parent's.
type Frame struct {
	Contract *Contract
	PC       uint64
	Stack    *Stack
	Memory   *Memory
	Gas      *GasMeter

	Origin   common.Address
	GasPrice *uint256.Int
	CallData []byte

	Block *BlockContext

	Logs            []*Log
	Selfdestructs   *SelfdestructSet
	ReturnData      []byte
	Stopped         bool
	ReadOnly        bool
	Depth           int

	State  StateManager
	Runner FrameRunner
}

// NewFrame builds the Frame for a single call/create invocation.
func NewFrame(contract *Contract, input []byte, depth int, readOnly bool, sds *SelfdestructSet) *Frame {
	if sds == nil {
		sds = NewSelfdestructSet()
	}
	contract.Input = input
	return &Frame{
		Contract:      contract,
		Stack:         NewStack(),
		Memory:        NewMemory(),
		Gas:           NewGasMeter(contract.Gas),
		CallData:      input,
		Selfdestructs: sds,
		Depth:         depth,
		ReadOnly:      readOnly,
	}
}

// validJumpdest reports whether dest is a reachable JUMPDEST in this frame's
// code.
func (f *Frame) validJumpdest(dest *uint256.Int) bool {
	return f.Contract.validJumpdest(dest)
}
