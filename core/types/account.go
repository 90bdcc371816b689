// Package types holds the account and log value types shared between
// the execution core and anything driving it (a StateManager backend,
// a debugging harness, a future consensus layer). None of it is
// exercised by core/vm directly -- vm.StateManager speaks in raw
// common.Address/common.Hash/*uint256.Int -- but a real backend needs
// a concrete account record to keep in its trie or map, and that
// record is what this file defines.
package types

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// EmptyCodeHash is the keccak256 hash of the empty byte string, the
// CodeHash every externally-owned account (and every contract before
// it receives code) carries.
var EmptyCodeHash = common.HexToHash("c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470")

// Account is a single account record: balance, nonce, and a pointer to
// its code by hash. It carries no storage trie root -- this module's
// StateManager contract reads and writes storage slots directly
// (GetContractStorage/PutContractStorage) rather than through a root
// hash, so a backend built around this Account type keeps storage
// elsewhere (a map, a trie keyed separately) and is free to recompute
// any root it needs from that for its own purposes.
type Account struct {
	Nonce    uint64
	Balance  *uint256.Int
	CodeHash common.Hash
}

// NewAccount returns a zero-balance, nonceless account with an empty
// CodeHash, the state of a freshly created externally-owned account.
func NewAccount() Account {
	return Account{
		Balance:  new(uint256.Int),
		CodeHash: EmptyCodeHash,
	}
}

// IsEmpty reports whether the account has the EIP-161 empty account
// shape: zero nonce, zero balance, and no code. StateManager
// implementations backed by this type can use it directly for
// AccountIsEmpty.
func (a Account) IsEmpty() bool {
	return a.Nonce == 0 && (a.Balance == nil || a.Balance.IsZero()) && a.CodeHash == EmptyCodeHash
}
