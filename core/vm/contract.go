package vm

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Contract identifies the code, caller, and remaining gas of a single
// call target. It is the static identity a Frame executes against; the
// dynamic execution state (stack, memory, pc) lives in the Frame.
type Contract struct {
	CallerAddress common.Address
	Address       common.Address
	Code          []byte
	CodeHash      common.Hash
	Input         []byte
	Gas           uint64
	Value         *uint256.Int

	jumpdests map[uint64]bool
}

// NewContract creates a Contract for a single call/create invocation.
func NewContract(caller, addr common.Address, value *uint256.Int, gas uint64) *Contract {
	if value == nil {
		value = new(uint256.Int)
	}
	return &Contract{
		CallerAddress: caller,
		Address:       addr,
		Value:         value,
		Gas:           gas,
	}
}

// GetOp returns the opcode at position n, or STOP past the end of code
// -- code is conceptually padded with an infinite run of STOP.
func (c *Contract) GetOp(n uint64) OpCode {
	if n < uint64(len(c.Code)) {
		return OpCode(c.Code[n])
	}
	return STOP
}

// UseGas attempts to deduct gas from the contract's remaining gas,
// reporting false (and leaving Gas unchanged) if there isn't enough.
func (c *Contract) UseGas(gas uint64) bool {
	if c.Gas < gas {
		return false
	}
	c.Gas -= gas
	return true
}

// SetCallCode installs code (and its hash) as the code this contract
// executes, optionally under a different logical address -- used by
// CALLCODE/DELEGATECALL, which execute foreign code in the caller's
// own storage context.
func (c *Contract) SetCallCode(addr *common.Address, hash common.Hash, code []byte) {
	c.Code = code
	c.CodeHash = hash
	if addr != nil {
		c.Address = *addr
	}
}

// validJumpdest reports whether dest is a JUMPDEST opcode that is not
// itself the immediate-data byte of a preceding PUSH.
func (c *Contract) validJumpdest(dest *uint256.Int) bool {
	if !dest.IsUint64() {
		return false
	}
	udest := dest.Uint64()
	if udest >= uint64(len(c.Code)) {
		return false
	}
	if OpCode(c.Code[udest]) != JUMPDEST {
		return false
	}
	return c.isCode(udest)
}

// isCode reports whether pos holds a JUMPDEST opcode byte rather than
// PUSH immediate data, consulting (and lazily building) the cached
// analysis.
func (c *Contract) isCode(pos uint64) bool {
	if c.jumpdests == nil {
		c.jumpdests = make(map[uint64]bool)
		c.analyzeJumpdests()
	}
	return c.jumpdests[pos]
}

// analyzeJumpdests scans the full code once, recording every JUMPDEST
// position that is not inside a PUSH's immediate-data run.
func (c *Contract) analyzeJumpdests() {
	for i := uint64(0); i < uint64(len(c.Code)); i++ {
		op := OpCode(c.Code[i])
		if op == JUMPDEST {
			c.jumpdests[i] = true
		}
		if op.IsPush() {
			i += op.PushSize()
		}
	}
}
