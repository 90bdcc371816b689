package types

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rlp"
)

// MaxTopicsPerLog is the most topics a single log event can carry --
// LOG0..LOG4 push between zero and four onto the stack before the
// opcode itself.
const MaxTopicsPerLog = 4

// Log is a single LOGn event, carrying both its consensus fields
// (Address/Topics/Data, the only ones core/vm.Log fills in at
// execution time) and the receipt-context fields a block/transaction
// layer attaches once the log's position in the chain is known.
type Log struct {
	Address common.Address
	Topics  []common.Hash
	Data    []byte

	// BlockNumber, TxHash, TxIndex, BlockHash, Index, and Removed are
	// unset (zero-valued) for a log fresh out of core/vm -- they are
	// filled in by whatever assembles a receipt out of a frame's log
	// list, which is outside this module's scope. Removed marks a log
	// from a block that a subsequent reorg has dropped.
	BlockNumber uint64
	TxHash      common.Hash
	TxIndex     uint
	BlockHash   common.Hash
	Index       uint
	Removed     bool
}

// LogFilter selects logs by address and positional topic, the same
// matching rule eth_getLogs uses: Addresses is an OR-set (empty means
// any address), and each entry of Topics is an OR-set for that topic
// position while positions AND together (a nil entry is a wildcard for
// that position).
type LogFilter struct {
	Addresses []common.Address
	Topics    [][]common.Hash
	FromBlock uint64
	ToBlock   uint64
}

// Matches reports whether l satisfies f.
func (f LogFilter) Matches(l *Log) bool {
	if l.BlockNumber < f.FromBlock || (f.ToBlock != 0 && l.BlockNumber > f.ToBlock) {
		return false
	}
	if len(f.Addresses) > 0 {
		found := false
		for _, a := range f.Addresses {
			if a == l.Address {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(f.Topics) > len(l.Topics) {
		return false
	}
	for i, wanted := range f.Topics {
		if len(wanted) == 0 {
			continue
		}
		found := false
		for _, w := range wanted {
			if w == l.Topics[i] {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// logRLP is the consensus encoding of a log: [address, topics, data].
// The receipt-context fields are derived from a log's position in its
// block and are never part of this encoding, mirroring go-ethereum's
// own rlpLog shape.
type logRLP struct {
	Address common.Address
	Topics  []common.Hash
	Data    []byte
}

// EncodeLogRLP returns the consensus RLP encoding of l's Address,
// Topics, and Data.
func EncodeLogRLP(l *Log) ([]byte, error) {
	if l == nil {
		return nil, errors.New("types: cannot encode nil log")
	}
	if len(l.Topics) > MaxTopicsPerLog {
		return nil, fmt.Errorf("types: too many topics: %d > %d", len(l.Topics), MaxTopicsPerLog)
	}
	return rlp.EncodeToBytes(logRLP{Address: l.Address, Topics: l.Topics, Data: l.Data})
}

// DecodeLogRLP decodes a log previously produced by EncodeLogRLP.
func DecodeLogRLP(data []byte) (*Log, error) {
	var dec logRLP
	if err := rlp.DecodeBytes(data, &dec); err != nil {
		return nil, fmt.Errorf("types: decode log: %w", err)
	}
	if len(dec.Topics) > MaxTopicsPerLog {
		return nil, fmt.Errorf("types: too many topics: %d", len(dec.Topics))
	}
	return &Log{Address: dec.Address, Topics: dec.Topics, Data: dec.Data}, nil
}

// EncodeLogsRLP RLP-encodes a slice of logs as a single top-level list.
func EncodeLogsRLP(logs []*Log) ([]byte, error) {
	raw := make([]logRLP, len(logs))
	for i, l := range logs {
		if l == nil {
			return nil, errors.New("types: cannot encode nil log")
		}
		if len(l.Topics) > MaxTopicsPerLog {
			return nil, fmt.Errorf("types: too many topics: %d > %d", len(l.Topics), MaxTopicsPerLog)
		}
		raw[i] = logRLP{Address: l.Address, Topics: l.Topics, Data: l.Data}
	}
	return rlp.EncodeToBytes(raw)
}

// jsonLog mirrors the eth_getLogs JSON shape: hex-string fields with
// Ethereum's 0x-prefixed, leading-zero-stripped quantity encoding.
type jsonLog struct {
	Address     common.Address `json:"address"`
	Topics      []common.Hash  `json:"topics"`
	Data        hexutil.Bytes  `json:"data"`
	BlockNumber hexutil.Uint64 `json:"blockNumber"`
	TxHash      common.Hash    `json:"transactionHash"`
	TxIndex     hexutil.Uint   `json:"transactionIndex"`
	BlockHash   common.Hash    `json:"blockHash"`
	LogIndex    hexutil.Uint   `json:"logIndex"`
	Removed     bool           `json:"removed"`
}

// MarshalLogJSON serializes l using the eth_getLogs JSON conventions.
func MarshalLogJSON(l *Log) ([]byte, error) {
	if l == nil {
		return nil, errors.New("types: cannot marshal nil log")
	}
	return json.Marshal(jsonLog{
		Address:     l.Address,
		Topics:      l.Topics,
		Data:        l.Data,
		BlockNumber: hexutil.Uint64(l.BlockNumber),
		TxHash:      l.TxHash,
		TxIndex:     hexutil.Uint(l.TxIndex),
		BlockHash:   l.BlockHash,
		LogIndex:    hexutil.Uint(l.Index),
		Removed:     l.Removed,
	})
}

// UnmarshalLogJSON parses JSON previously produced by MarshalLogJSON.
func UnmarshalLogJSON(data []byte) (*Log, error) {
	var jl jsonLog
	if err := json.Unmarshal(data, &jl); err != nil {
		return nil, fmt.Errorf("types: unmarshal log: %w", err)
	}
	return &Log{
		Address:     jl.Address,
		Topics:      jl.Topics,
		Data:        []byte(jl.Data),
		BlockNumber: uint64(jl.BlockNumber),
		TxHash:      jl.TxHash,
		TxIndex:     uint(jl.TxIndex),
		BlockHash:   jl.BlockHash,
		Index:       uint(jl.LogIndex),
		Removed:     jl.Removed,
	}, nil
}

// FromVMLog converts a core/vm.Log (the bare Address/Topics/Data
// triple produced mid-execution) into a full Log record with its
// receipt-context fields unset, ready for a block/transaction layer to
// fill in once the log's position in the chain is known.
func FromVMLog(address common.Address, topics []common.Hash, data []byte) *Log {
	return &Log{Address: address, Topics: topics, Data: data}
}
