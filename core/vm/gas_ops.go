package vm

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// This file wires per-opcode dynamic gas functions referenced from the
// jump table. Each reads its operands via Stack.Back (a peek, never a
// pop) since the interpreter charges gas before the opcode's execute
// function runs and mutates the stack.

func gasExp(evm *EVM, frame *Frame, memSize uint64) (uint64, error) {
	exponent := frame.Stack.Back(1)
	return evm.GasCalc.CalcExpGas(exponent), nil
}

func gasKeccak256(evm *EVM, frame *Frame, memSize uint64) (uint64, error) {
	size := frame.Stack.Back(1)
	if !size.IsUint64() {
		return 0, ErrGasUintOverflow
	}
	return evm.GasCalc.CalcKeccak256Gas(size.Uint64()), nil
}

func makeCopySizeGas(sizeIdx int) gasFunc {
	return func(evm *EVM, frame *Frame, memSize uint64) (uint64, error) {
		size := frame.Stack.Back(sizeIdx)
		if !size.IsUint64() {
			return 0, ErrGasUintOverflow
		}
		return evm.GasCalc.CalcCopyGas(size.Uint64()), nil
	}
}

func gasBalance(evm *EVM, frame *Frame, memSize uint64) (uint64, error) {
	return evm.Fee.BalanceGas, nil
}

func gasExtCodeSize(evm *EVM, frame *Frame, memSize uint64) (uint64, error) {
	return evm.Fee.ExtcodesizeGas, nil
}

func gasExtCodeHash(evm *EVM, frame *Frame, memSize uint64) (uint64, error) {
	return evm.Fee.ExtcodehashGas, nil
}

func gasExtCodeCopy(evm *EVM, frame *Frame, memSize uint64) (uint64, error) {
	size := frame.Stack.Back(3)
	if !size.IsUint64() {
		return 0, ErrGasUintOverflow
	}
	return evm.Fee.ExtcodecopyGas + evm.GasCalc.CalcCopyGas(size.Uint64()), nil
}

func gasSload(evm *EVM, frame *Frame, memSize uint64) (uint64, error) {
	return evm.Fee.SloadGas, nil
}

func gasSstore(evm *EVM, frame *Frame, memSize uint64) (uint64, error) {
	key := frame.Stack.Back(0)
	newVal := frame.Stack.Back(1)
	khash := uint256ToHash(key)
	cur := frame.State.GetContractStorage(frame.Contract.Address, khash)
	wasSet := cur != (common.Hash{})
	isSet := !newVal.IsZero()
	res := evm.GasCalc.CalcSstoreGas(wasSet, isSet)
	if res.Refund > 0 {
		frame.Gas.AddRefund(uint64(res.Refund))
	}
	return res.Gas, nil
}

func gasBlockhash(evm *EVM, frame *Frame, memSize uint64) (uint64, error) {
	return evm.Fee.BlockhashGas, nil
}

func makeLogGas(n int) gasFunc {
	return func(evm *EVM, frame *Frame, memSize uint64) (uint64, error) {
		size := frame.Stack.Back(1)
		if !size.IsUint64() {
			return 0, ErrGasUintOverflow
		}
		return evm.GasCalc.CalcLogGas(n, size.Uint64()), nil
	}
}

func gasCreate(evm *EVM, frame *Frame, memSize uint64) (uint64, error) {
	size := frame.Stack.Back(2)
	if !size.IsUint64() {
		return 0, ErrGasUintOverflow
	}
	if size.Uint64() > evm.Fee.MaxInitCodeSize {
		return 0, ErrMaxInitCodeSizeExceeded
	}
	return evm.GasCalc.CalcCreateGas(size.Uint64(), false), nil
}

func gasCreate2(evm *EVM, frame *Frame, memSize uint64) (uint64, error) {
	size := frame.Stack.Back(2)
	if !size.IsUint64() {
		return 0, ErrGasUintOverflow
	}
	if size.Uint64() > evm.Fee.MaxInitCodeSize {
		return 0, ErrMaxInitCodeSizeExceeded
	}
	return evm.GasCalc.CalcCreateGas(size.Uint64(), true), nil
}

func gasSelfdestruct(evm *EVM, frame *Frame, memSize uint64) (uint64, error) {
	beneficiary := uint256ToAddress(frame.Stack.Back(0))
	dead := !frame.State.Exists(beneficiary) || frame.State.AccountIsEmpty(beneficiary)
	return evm.GasCalc.CalcSelfdestructGas(dead), nil
}

// gasCallFamily builds the dynamic gas hook for a CALL-family opcode.
// valueIdx is the stack position of the value argument (ignored unless
// hasValue is set, since DELEGATECALL/STATICCALL carry no value operand
// of their own). isCall additionally gates the new-account surcharge in
// CalcCallValueGas to CALL alone -- CALLCODE transfers no value out of
// the caller's balance and so never pays it.
func gasCallFamily(valueIdx int, hasValue, isCall bool) gasFunc {
	return func(evm *EVM, frame *Frame, memSize uint64) (uint64, error) {
		gas := evm.Fee.CallGas
		if hasValue {
			val := frame.Stack.Back(valueIdx)
			target := uint256ToAddress(frame.Stack.Back(1))
			transfers := !val.IsZero()
			exists := frame.State.Exists(target)
			empty := frame.State.AccountIsEmpty(target)
			gas = safeAdd(gas, evm.GasCalc.CalcCallValueGas(transfers, isCall, exists, empty))
		}
		return gas, nil
	}
}

// uint256ToAddress interprets the low 20 bytes of v as an address.
func uint256ToAddress(v *uint256.Int) common.Address {
	b := v.Bytes32()
	var a common.Address
	copy(a[:], b[12:])
	return a
}

// uint256ToHash interprets v as a 32-byte big-endian hash/slot key.
func uint256ToHash(v *uint256.Int) common.Hash {
	return common.Hash(v.Bytes32())
}

// addressToUint256 widens an address into its 256-bit representation.
func addressToUint256(a common.Address) *uint256.Int {
	return new(uint256.Int).SetBytes(a[:])
}

// hashToUint256 widens a hash into its 256-bit representation.
func hashToUint256(h common.Hash) *uint256.Int {
	return new(uint256.Int).SetBytes(h[:])
}
