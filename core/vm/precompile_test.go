package vm

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// echoPrecompile is a trivial Precompile used only by these tests: it
// returns its input unchanged and charges a fixed gas cost.
type echoPrecompile struct{ cost uint64 }

func (p echoPrecompile) RequiredGas(input []byte) uint64 { return p.cost }

func (p echoPrecompile) Run(input []byte) ([]byte, error) {
	out := make([]byte, len(input))
	copy(out, input)
	return out, nil
}

func TestCallRoutesToConfiguredPrecompile(t *testing.T) {
	state := newMemStateDB()
	precompileAddr := addr(9)
	caller := addr(1)
	evm := newTestEVM(state)
	evm.Config.Precompiles = map[common.Address]Precompile{
		precompileAddr: echoPrecompile{cost: 100},
	}

	ret, gasLeft, refund, logs, err := evm.Call(caller, precompileAddr, []byte{1, 2, 3}, 1000, new(uint256.Int))
	if err != nil {
		t.Fatalf("Call into a precompile: %v", err)
	}
	if string(ret) != string([]byte{1, 2, 3}) {
		t.Errorf("precompile output = %v, want echoed input", ret)
	}
	if gasLeft != 900 {
		t.Errorf("gasLeft = %d, want 900 (1000 - RequiredGas)", gasLeft)
	}
	if refund != 0 || len(logs) != 0 {
		t.Errorf("a precompile call must not produce refund/logs, got refund=%d logs=%d", refund, len(logs))
	}
	// A precompile address with no deployed code must still resolve,
	// unlike an ordinary address that short-circuits as a no-op.
	if code := state.GetContractCode(precompileAddr); len(code) != 0 {
		t.Fatalf("test setup error: precompile address unexpectedly has code")
	}
}

func TestCallPrecompileInsufficientGasFails(t *testing.T) {
	state := newMemStateDB()
	precompileAddr := addr(9)
	caller := addr(1)
	evm := newTestEVM(state)
	evm.Config.Precompiles = map[common.Address]Precompile{
		precompileAddr: echoPrecompile{cost: 5000},
	}

	_, _, _, _, err := evm.Call(caller, precompileAddr, nil, 100, new(uint256.Int))
	if err != ErrOutOfGas {
		t.Errorf("Call into a precompile with insufficient gas = %v, want ErrOutOfGas", err)
	}
}

func TestCallUnconfiguredAddressIgnoresPrecompileHook(t *testing.T) {
	state := newMemStateDB()
	caller := addr(1)
	target := addr(2)
	evm := newTestEVM(state)
	// No code installed at target and no precompile configured: a
	// plain CALL to an empty address is a no-op, not an error.
	ret, gasLeft, _, _, err := evm.Call(caller, target, nil, 1000, new(uint256.Int))
	if err != nil || ret != nil || gasLeft != 1000 {
		t.Errorf("Call to an empty, non-precompile address = ret=%v gasLeft=%d err=%v, want nil,1000,nil", ret, gasLeft, err)
	}
}
