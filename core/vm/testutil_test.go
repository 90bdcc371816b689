package vm

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// memStateDB is a minimal in-memory StateManager used across this
// package's tests. Snapshot/RevertToSnapshot work by deep-copying the
// handful of maps involved -- simple and correct at the sizes these
// tests use, unlike a production journal-based implementation.
type memStateDB struct {
	balances   map[common.Address]*uint256.Int
	nonces     map[common.Address]uint64
	code       map[common.Address][]byte
	codeHash   map[common.Address]common.Hash
	storage    map[common.Address]map[common.Hash]common.Hash
	transient  map[common.Address]map[common.Hash]common.Hash
	exists     map[common.Address]bool
	blockHash  map[uint64]common.Hash
	destructed map[common.Address]bool

	snapshots []memStateDBSnap
}

type memStateDBSnap struct {
	balances   map[common.Address]*uint256.Int
	nonces     map[common.Address]uint64
	code       map[common.Address][]byte
	codeHash   map[common.Address]common.Hash
	storage    map[common.Address]map[common.Hash]common.Hash
	exists     map[common.Address]bool
	destructed map[common.Address]bool
}

func newMemStateDB() *memStateDB {
	return &memStateDB{
		balances:   make(map[common.Address]*uint256.Int),
		nonces:     make(map[common.Address]uint64),
		code:       make(map[common.Address][]byte),
		codeHash:   make(map[common.Address]common.Hash),
		storage:    make(map[common.Address]map[common.Hash]common.Hash),
		transient:  make(map[common.Address]map[common.Hash]common.Hash),
		exists:     make(map[common.Address]bool),
		blockHash:  make(map[uint64]common.Hash),
		destructed: make(map[common.Address]bool),
	}
}

func (m *memStateDB) GetAccountBalance(addr common.Address) *uint256.Int {
	if b, ok := m.balances[addr]; ok {
		return new(uint256.Int).Set(b)
	}
	return new(uint256.Int)
}

func (m *memStateDB) PutAccountBalance(addr common.Address, balance *uint256.Int) {
	m.balances[addr] = new(uint256.Int).Set(balance)
	m.exists[addr] = true
}

func (m *memStateDB) GetContractCode(addr common.Address) []byte { return m.code[addr] }

func (m *memStateDB) GetCodeHash(addr common.Address) common.Hash { return m.codeHash[addr] }

func (m *memStateDB) SetContractCode(addr common.Address, code []byte) {
	m.code[addr] = code
	m.exists[addr] = true
}

func (m *memStateDB) GetContractStorage(addr common.Address, key common.Hash) common.Hash {
	if s, ok := m.storage[addr]; ok {
		return s[key]
	}
	return common.Hash{}
}

func (m *memStateDB) PutContractStorage(addr common.Address, key common.Hash, value common.Hash) {
	if m.storage[addr] == nil {
		m.storage[addr] = make(map[common.Hash]common.Hash)
	}
	m.storage[addr][key] = value
	m.exists[addr] = true
}

func (m *memStateDB) GetTransientStorage(addr common.Address, key common.Hash) common.Hash {
	if s, ok := m.transient[addr]; ok {
		return s[key]
	}
	return common.Hash{}
}

func (m *memStateDB) PutTransientStorage(addr common.Address, key common.Hash, value common.Hash) {
	if m.transient[addr] == nil {
		m.transient[addr] = make(map[common.Hash]common.Hash)
	}
	m.transient[addr][key] = value
}

func (m *memStateDB) GetAccountNonce(addr common.Address) uint64 { return m.nonces[addr] }

func (m *memStateDB) SetAccountNonce(addr common.Address, nonce uint64) {
	m.nonces[addr] = nonce
	m.exists[addr] = true
}

func (m *memStateDB) AccountIsEmpty(addr common.Address) bool {
	bal := m.GetAccountBalance(addr)
	return bal.IsZero() && m.nonces[addr] == 0 && len(m.code[addr]) == 0
}

func (m *memStateDB) Exists(addr common.Address) bool { return m.exists[addr] }

func (m *memStateDB) CreateAccount(addr common.Address) { m.exists[addr] = true }

func (m *memStateDB) GetBlockHash(number uint64) common.Hash { return m.blockHash[number] }

func (m *memStateDB) Snapshot() int {
	snap := memStateDBSnap{
		balances:   make(map[common.Address]*uint256.Int, len(m.balances)),
		nonces:     make(map[common.Address]uint64, len(m.nonces)),
		code:       make(map[common.Address][]byte, len(m.code)),
		codeHash:   make(map[common.Address]common.Hash, len(m.codeHash)),
		storage:    make(map[common.Address]map[common.Hash]common.Hash, len(m.storage)),
		exists:     make(map[common.Address]bool, len(m.exists)),
		destructed: make(map[common.Address]bool, len(m.destructed)),
	}
	for k, v := range m.balances {
		snap.balances[k] = new(uint256.Int).Set(v)
	}
	for k, v := range m.nonces {
		snap.nonces[k] = v
	}
	for k, v := range m.code {
		cp := make([]byte, len(v))
		copy(cp, v)
		snap.code[k] = cp
	}
	for k, v := range m.codeHash {
		snap.codeHash[k] = v
	}
	for k, v := range m.storage {
		inner := make(map[common.Hash]common.Hash, len(v))
		for ik, iv := range v {
			inner[ik] = iv
		}
		snap.storage[k] = inner
	}
	for k, v := range m.exists {
		snap.exists[k] = v
	}
	for k, v := range m.destructed {
		snap.destructed[k] = v
	}
	m.snapshots = append(m.snapshots, snap)
	return len(m.snapshots) - 1
}

func (m *memStateDB) RevertToSnapshot(id int) {
	snap := m.snapshots[id]
	m.balances = snap.balances
	m.nonces = snap.nonces
	m.code = snap.code
	m.codeHash = snap.codeHash
	m.storage = snap.storage
	m.exists = snap.exists
	m.destructed = snap.destructed
	m.snapshots = m.snapshots[:id]
}

func (m *memStateDB) MarkSelfdestruct(addr common.Address) bool {
	if m.destructed[addr] {
		return false
	}
	m.destructed[addr] = true
	return true
}

// newTestEVM builds an EVM wired to a fresh memStateDB and the default
// fee schedule, suitable for driving small bytecode snippets end to end.
func newTestEVM(state *memStateDB) *EVM {
	block := BlockContext{
		BlockNumber: uint256.NewInt(1),
		GasLimit:    30_000_000,
		BaseFee:     new(uint256.Int),
		BlobBaseFee: new(uint256.Int),
		ChainID:     uint256.NewInt(1),
	}
	tx := TxContext{
		GasPrice: new(uint256.Int),
	}
	return NewEVM(block, tx, state, DefaultFeeSchedule(), Config{})
}

func addr(b byte) common.Address {
	var a common.Address
	a[19] = b
	return a
}
