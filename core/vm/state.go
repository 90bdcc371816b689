package vm

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// StateManager is the external account/storage backend this module
// calls out to. It owns all persistence, snapshot/revert bookkeeping,
// and trie or database access; the execution core never implements any
// of that itself, only the call pattern against this interface.
type StateManager interface {
	// GetAccountBalance returns addr's current wei balance.
	GetAccountBalance(addr common.Address) *uint256.Int
	// PutAccountBalance sets addr's wei balance.
	PutAccountBalance(addr common.Address, balance *uint256.Int)

	// GetContractCode returns the deployed bytecode at addr.
	GetContractCode(addr common.Address) []byte
	// GetCodeHash returns the keccak256 hash of the code at addr.
	GetCodeHash(addr common.Address) common.Hash
	// SetContractCode installs code as addr's deployed bytecode.
	SetContractCode(addr common.Address, code []byte)

	// GetContractStorage reads a single storage slot.
	GetContractStorage(addr common.Address, key common.Hash) common.Hash
	// PutContractStorage writes a single storage slot.
	PutContractStorage(addr common.Address, key common.Hash, value common.Hash)

	// GetTransientStorage and PutTransientStorage implement EIP-1153:
	// storage scoped to the lifetime of the enclosing transaction only,
	// never persisted and never part of any snapshot/revert.
	GetTransientStorage(addr common.Address, key common.Hash) common.Hash
	PutTransientStorage(addr common.Address, key common.Hash, value common.Hash)

	// GetAccountNonce returns addr's nonce; SetAccountNonce sets it.
	GetAccountNonce(addr common.Address) uint64
	SetAccountNonce(addr common.Address, nonce uint64)

	// AccountIsEmpty reports whether addr has zero nonce, zero balance,
	// and no code -- the EIP-161 emptiness test used to decide whether
	// a value-receiving account needs to be created.
	AccountIsEmpty(addr common.Address) bool
	// Exists reports whether addr has any recorded state (including a
	// prior SELFDESTRUCT that has not yet been purged).
	Exists(addr common.Address) bool
	// CreateAccount materializes a new, empty account at addr.
	CreateAccount(addr common.Address)

	// GetBlockHash returns the hash of the block at the given number,
	// or the zero hash if number is outside the last 256 blocks.
	GetBlockHash(number uint64) common.Hash

	// Snapshot records a revertable checkpoint of all state mutated
	// through this interface and returns an opaque identifier for it.
	Snapshot() int
	// RevertToSnapshot undoes every mutation made since id was taken.
	RevertToSnapshot(id int)

	// MarkSelfdestruct records addr for end-of-transaction removal and
	// reports whether this is the first time addr was marked within the
	// current transaction. The EVM ignores this result: refund
	// eligibility comes from its own SelfdestructSet.
	MarkSelfdestruct(addr common.Address) (first bool)
}

// FrameRunner executes a child Frame and reports its outcome. The
// child-call boundary is a suspension point the parent Frame hands off
// to an external collaborator; the EVM's unexported runFrame method,
// reached through EVM.Run, is the module's own implementation of this
// interface (direct recursive descent). The EVM keeps its runner in an
// unexported field with no setter, so code outside this package cannot
// substitute another one.
type FrameRunner interface {
	RunFrame(f *Frame) (returnData []byte, err error)
}

// frameRunnerFunc adapts a plain function to the FrameRunner interface.
type frameRunnerFunc func(f *Frame) ([]byte, error)

func (fn frameRunnerFunc) RunFrame(f *Frame) ([]byte, error) { return fn(f) }
