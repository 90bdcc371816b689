package types

import (
	"bytes"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func sampleLog() *Log {
	return &Log{
		Address:     common.HexToAddress("0x01"),
		Topics:      []common.Hash{common.HexToHash("0xaa"), common.HexToHash("0xbb")},
		Data:        []byte{1, 2, 3},
		BlockNumber: 7,
		TxHash:      common.HexToHash("0xcc"),
		TxIndex:     2,
		BlockHash:   common.HexToHash("0xdd"),
		Index:       3,
	}
}

func TestEncodeDecodeLogRLPRoundTrips(t *testing.T) {
	l := sampleLog()
	enc, err := EncodeLogRLP(l)
	if err != nil {
		t.Fatalf("EncodeLogRLP: %v", err)
	}
	got, err := DecodeLogRLP(enc)
	if err != nil {
		t.Fatalf("DecodeLogRLP: %v", err)
	}
	if got.Address != l.Address || !bytes.Equal(got.Data, l.Data) || len(got.Topics) != len(l.Topics) {
		t.Errorf("round-tripped log consensus fields = %+v, want to match %+v", got, l)
	}
	// Receipt-context fields are not part of the consensus encoding.
	if got.BlockNumber != 0 || got.TxIndex != 0 {
		t.Errorf("decoded log must not carry receipt-context fields, got %+v", got)
	}
}

func TestEncodeLogRLPRejectsTooManyTopics(t *testing.T) {
	l := sampleLog()
	l.Topics = make([]common.Hash, MaxTopicsPerLog+1)
	if _, err := EncodeLogRLP(l); err == nil {
		t.Errorf("EncodeLogRLP with %d topics should fail", len(l.Topics))
	}
}

func TestEncodeLogsRLPMultiple(t *testing.T) {
	logs := []*Log{sampleLog(), sampleLog()}
	enc, err := EncodeLogsRLP(logs)
	if err != nil {
		t.Fatalf("EncodeLogsRLP: %v", err)
	}
	if len(enc) == 0 {
		t.Errorf("EncodeLogsRLP returned empty output")
	}
}

func TestMarshalUnmarshalLogJSONRoundTrips(t *testing.T) {
	l := sampleLog()
	enc, err := MarshalLogJSON(l)
	if err != nil {
		t.Fatalf("MarshalLogJSON: %v", err)
	}
	got, err := UnmarshalLogJSON(enc)
	if err != nil {
		t.Fatalf("UnmarshalLogJSON: %v", err)
	}
	if got.Address != l.Address || got.BlockNumber != l.BlockNumber || got.TxIndex != l.TxIndex || got.Index != l.Index {
		t.Errorf("round-tripped JSON log = %+v, want to match %+v", got, l)
	}
	if len(got.Topics) != len(l.Topics) || !bytes.Equal(got.Data, l.Data) {
		t.Errorf("round-tripped JSON log topics/data mismatch: got %+v", got)
	}
}

func TestLogFilterMatchesAddressAndTopics(t *testing.T) {
	l := sampleLog()
	f := LogFilter{
		Addresses: []common.Address{l.Address},
		Topics:    [][]common.Hash{{l.Topics[0]}, nil},
	}
	if !f.Matches(l) {
		t.Errorf("filter should match log on address and first topic")
	}
}

func TestLogFilterRejectsWrongAddress(t *testing.T) {
	l := sampleLog()
	f := LogFilter{Addresses: []common.Address{common.HexToAddress("0xdeadbeef")}}
	if f.Matches(l) {
		t.Errorf("filter with an unrelated address must not match")
	}
}

func TestLogFilterRejectsOutOfRangeBlock(t *testing.T) {
	l := sampleLog()
	f := LogFilter{FromBlock: 100}
	if f.Matches(l) {
		t.Errorf("a log before FromBlock must not match")
	}
}

func TestLogFilterEmptyMatchesAnything(t *testing.T) {
	l := sampleLog()
	f := LogFilter{}
	if !f.Matches(l) {
		t.Errorf("a zero-value filter should match any log")
	}
}

func TestFromVMLogLeavesReceiptFieldsZero(t *testing.T) {
	addr := common.HexToAddress("0x01")
	topics := []common.Hash{common.HexToHash("0xaa")}
	l := FromVMLog(addr, topics, []byte{9})
	if l.BlockNumber != 0 || l.TxIndex != 0 || l.BlockHash != (common.Hash{}) {
		t.Errorf("FromVMLog must leave receipt-context fields zero, got %+v", l)
	}
	if l.Address != addr || len(l.Topics) != 1 || l.Data[0] != 9 {
		t.Errorf("FromVMLog must carry through the consensus fields, got %+v", l)
	}
}
