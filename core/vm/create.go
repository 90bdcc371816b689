package vm

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// Create runs initCode as a new contract's constructor and, on success,
// installs the code it returns at the CREATE-derived address (the
// caller's address and current nonce, keccak256-hashed and RLP-encoded
// per the standard derivation).
func (evm *EVM) Create(caller common.Address, initCode []byte, gas uint64, value *uint256.Int) ([]byte, common.Address, uint64, uint64, []*Log, error) {
	nonce := evm.StateDB.GetAccountNonce(caller)
	addr := crypto.CreateAddress(caller, nonce)
	return evm.create(caller, initCode, gas, value, addr)
}

// Create2 is Create but with an address derived from a caller-chosen
// salt and the init code's hash, making the deployment address
// predictable before the transaction that creates it is even sent.
func (evm *EVM) Create2(caller common.Address, initCode []byte, gas uint64, value *uint256.Int, salt *uint256.Int) ([]byte, common.Address, uint64, uint64, []*Log, error) {
	codeHash := crypto.Keccak256Hash(initCode)
	saltBytes := salt.Bytes32()
	addr := crypto.CreateAddress2(caller, saltBytes, codeHash.Bytes())
	return evm.create(caller, initCode, gas, value, addr)
}

// create is the shared CREATE/CREATE2 body: collision check, nonce
// bump, value transfer, running the init code as a fresh top-level
// frame, and -- on success -- billing and persisting the deployed code.
func (evm *EVM) create(caller common.Address, initCode []byte, gas uint64, value *uint256.Int, addr common.Address) ([]byte, common.Address, uint64, uint64, []*Log, error) {
	if evm.depth >= evm.Config.MaxCallDepth {
		return nil, common.Address{}, gas, 0, nil, ErrDepthLimit
	}
	if evm.readOnly {
		return nil, common.Address{}, gas, 0, nil, ErrWriteProtection
	}
	if uint64(len(initCode)) > evm.Fee.MaxInitCodeSize {
		return nil, common.Address{}, gas, 0, nil, ErrMaxInitCodeSizeExceeded
	}
	callerBal := evm.StateDB.GetAccountBalance(caller)
	if value != nil && value.Sign() > 0 && callerBal.Cmp(value) < 0 {
		return nil, common.Address{}, gas, 0, nil, ErrInsufficientBalance
	}

	snapshot := evm.StateDB.Snapshot()

	if evm.StateDB.Exists(addr) &&
		(evm.StateDB.GetAccountNonce(addr) != 0 || len(evm.StateDB.GetContractCode(addr)) != 0) {
		evm.StateDB.RevertToSnapshot(snapshot)
		return nil, common.Address{}, gas, 0, nil, ErrContractAddrCollision
	}

	evm.StateDB.CreateAccount(addr)
	evm.StateDB.SetAccountNonce(addr, 1)
	evm.StateDB.SetAccountNonce(caller, evm.StateDB.GetAccountNonce(caller)+1)

	if value != nil && value.Sign() > 0 {
		evm.StateDB.PutAccountBalance(caller, new(uint256.Int).Sub(callerBal, value))
		targetBal := evm.StateDB.GetAccountBalance(addr)
		evm.StateDB.PutAccountBalance(addr, new(uint256.Int).Add(targetBal, value))
	}

	contract := NewContract(caller, addr, value, gas)
	contract.Code = initCode

	evm.depth++
	ret, refund, logs, err := evm.Run(contract, nil, false)
	evm.depth--

	if err == nil {
		if uint64(len(ret)) > evm.Fee.MaxCodeSize {
			err = ErrMaxCodeSizeExceeded
		} else if depositGas := evm.GasCalc.CalcCodeDepositGas(uint64(len(ret))); !contract.UseGas(depositGas) {
			err = ErrOutOfGas
		} else {
			evm.StateDB.SetContractCode(addr, ret)
		}
	}

	// A reverted constructor leaves its revert payload readable via
	// RETURNDATACOPY; every other outcome clears the buffer so stale
	// data from an earlier call can't leak through.
	if err == ErrExecutionReverted {
		evm.returnData = ret
	} else {
		evm.returnData = nil
	}

	if err != nil && err != ErrExecutionReverted {
		evm.StateDB.RevertToSnapshot(snapshot)
		evm.log.Debug("contract creation failed", "caller", caller, "address", addr, "err", err)
		return nil, addr, 0, refund, logs, err
	}
	if err == ErrExecutionReverted {
		evm.StateDB.RevertToSnapshot(snapshot)
		evm.log.Debug("contract creation reverted", "caller", caller, "address", addr)
		return ret, addr, contract.Gas, refund, logs, err
	}
	evm.log.Info("contract created", "caller", caller, "address", addr, "codeSize", len(ret))
	return nil, addr, contract.Gas, refund, logs, nil
}
