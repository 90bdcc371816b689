package vm

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Sentinel errors for the execution-core error kinds. An opcode handler
// or the interpreter loop returns one of these (wrapped with
// fmt.Errorf("...: %w", ...) where extra context helps) whenever
// execution traps; the caller never panics across a Frame boundary.
var (
	ErrOutOfGas            = errors.New("out of gas")
	ErrStackUnderflow      = errors.New("stack underflow")
	ErrStackOverflow       = errors.New("stack overflow")
	ErrInvalidJump         = errors.New("invalid jump destination")
	ErrInvalidOpcode       = errors.New("invalid opcode")
	ErrStackLimitExceeded  = errors.New("stack limit exceeded")
	ErrWriteProtection     = errors.New("write protection")
	ErrDepthLimit          = errors.New("max call depth exceeded")
	ErrInsufficientBalance = errors.New("insufficient balance for transfer")
	ErrContractAddrCollision = errors.New("contract address collision")
	ErrExecutionReverted   = errors.New("execution reverted")
	ErrMaxCodeSizeExceeded = errors.New("max code size exceeded")
	ErrMaxInitCodeSizeExceeded = errors.New("max init code size exceeded")
	ErrReturnDataOutOfBounds   = errors.New("return data out of bounds")
	ErrGasUintOverflow     = errors.New("gas uint64 overflow")
	ErrInternal            = errors.New("internal interpreter error")
)

// Location formats a diagnostic location for a trapped error: the
// keccak256 hash of the executing code, the executing contract's
// address, and the program counter at the point of the trap.
func Location(code []byte, addr common.Address, pc uint64) string {
	h := crypto.Keccak256Hash(code)
	return fmt.Sprintf("%s/%s:%d", h.Hex(), addr.Hex(), pc)
}

// TrapError wraps an underlying sentinel error with the diagnostic
// location at which it occurred.
type TrapError struct {
	Err error
	Loc string
}

func (e *TrapError) Error() string {
	return fmt.Sprintf("%s at %s", e.Err, e.Loc)
}

func (e *TrapError) Unwrap() error { return e.Err }

// NewTrap builds a TrapError for the given code/address/pc context.
func NewTrap(err error, code []byte, addr common.Address, pc uint64) *TrapError {
	return &TrapError{Err: err, Loc: Location(code, addr, pc)}
}
