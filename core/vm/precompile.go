package vm

import "github.com/ethereum/go-ethereum/common"

// Precompile is a contract implemented natively instead of as EVM
// bytecode, addressed like any other contract but resolved through
// Config.Precompiles rather than a StateManager code lookup. The shape
// mirrors go-ethereum's own PrecompiledContract interface so that an
// embedder wiring in go-ethereum's precompile implementations (ECRECOVER,
// the BN254 pairing checks, and so on) can use them here unmodified.
type Precompile interface {
	// RequiredGas reports the gas input costs to run, charged before Run
	// is invoked.
	RequiredGas(input []byte) uint64
	// Run executes the precompile against input and returns its output.
	Run(input []byte) ([]byte, error)
}

// lookupPrecompile resolves addr against evm.Config.Precompiles. This
// module ships the hook but no entries -- precompile implementations
// belong to the embedder, so the map is nil unless one is supplied via
// Config.
func (evm *EVM) lookupPrecompile(addr common.Address) (Precompile, bool) {
	if evm.Config.Precompiles == nil {
		return nil, false
	}
	p, ok := evm.Config.Precompiles[addr]
	return p, ok
}

// runPrecompile charges p's required gas out of gas and runs it,
// reporting the gas remaining after the charge. It never produces a
// refund or logs -- no precompile in the canonical set does.
func runPrecompile(p Precompile, input []byte, gas uint64) ([]byte, uint64, error) {
	cost := p.RequiredGas(input)
	if cost > gas {
		return nil, 0, ErrOutOfGas
	}
	ret, err := p.Run(input)
	return ret, gas - cost, err
}
