package vm

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// callKind distinguishes the four CALL-family opcodes, which share
// almost all of their lifecycle but differ in code source, execution
// address, and value-transfer semantics.
type callKind int

const (
	callKindCall callKind = iota
	callKindCallCode
	callKindDelegateCall
	callKindStaticCall
)

// dispatchCall is the common body of CALL/CALLCODE/DELEGATECALL/
// STATICCALL: depth check, static-context value rejection, snapshot,
// value transfer (CALL only), code lookup, child Frame construction and
// execution, and snapshot revert/commit on return.
//
// callerForChild is what the child's CALLER opcode reports: the
// executing contract's own address for CALL/CALLCODE/STATICCALL, or the
// grandparent frame's inherited caller for DELEGATECALL. selfAddr is
// the executing contract's own address, used as the child's ADDRESS for
// CALLCODE/DELEGATECALL (which run foreign code against the caller's
// own identity and storage). addr is where code is read from.
// transferValue is the amount actually moved out of the caller's
// balance (non-nil only for CALL). callValue is the value the child
// frame observes from CALLVALUE -- for DELEGATECALL this is the
// grandparent frame's own call value, passed in by the caller of this
// method, not re-derived here.
func (evm *EVM) dispatchCall(kind callKind, callerForChild, selfAddr, addr common.Address, transferValue, callValue *uint256.Int, input []byte, gas uint64) ([]byte, uint64, uint64, []*Log, error) {
	if evm.depth >= evm.Config.MaxCallDepth {
		return nil, gas, 0, nil, ErrDepthLimit
	}
	isStatic := evm.readOnly || kind == callKindStaticCall
	if isStatic && transferValue != nil && transferValue.Sign() > 0 {
		return nil, gas, 0, nil, ErrWriteProtection
	}
	if evm.StateDB == nil {
		return nil, gas, 0, nil, ErrInternal
	}

	snapshot := evm.StateDB.Snapshot()

	if kind == callKindCall && transferValue != nil && transferValue.Sign() > 0 {
		if !evm.StateDB.Exists(addr) {
			evm.StateDB.CreateAccount(addr)
		}
		callerBal := evm.StateDB.GetAccountBalance(selfAddr)
		if callerBal.Cmp(transferValue) < 0 {
			evm.StateDB.RevertToSnapshot(snapshot)
			return nil, gas, 0, nil, ErrInsufficientBalance
		}
		evm.StateDB.PutAccountBalance(selfAddr, new(uint256.Int).Sub(callerBal, transferValue))
		targetBal := evm.StateDB.GetAccountBalance(addr)
		evm.StateDB.PutAccountBalance(addr, new(uint256.Int).Add(targetBal, transferValue))
	}

	if p, ok := evm.lookupPrecompile(addr); ok {
		ret, gasLeft, err := runPrecompile(p, input, gas)
		if err != nil {
			evm.StateDB.RevertToSnapshot(snapshot)
			return nil, 0, 0, nil, err
		}
		evm.returnData = ret
		return ret, gasLeft, 0, nil, nil
	}

	execAddr := addr
	if kind == callKindCallCode || kind == callKindDelegateCall {
		execAddr = selfAddr
	}

	code := evm.StateDB.GetContractCode(addr)
	if len(code) == 0 {
		evm.returnData = nil
		return nil, gas, 0, nil, nil
	}

	contract := NewContract(callerForChild, execAddr, callValue, gas)
	contract.SetCallCode(&execAddr, evm.StateDB.GetCodeHash(addr), code)

	prevReadOnly := evm.readOnly
	if kind == callKindStaticCall {
		evm.readOnly = true
	}

	evm.depth++
	ret, refund, logs, err := evm.Run(contract, input, evm.readOnly)
	evm.depth--
	evm.readOnly = prevReadOnly
	evm.returnData = ret

	gasLeft := contract.Gas
	if err != nil && err != ErrExecutionReverted {
		evm.StateDB.RevertToSnapshot(snapshot)
		gasLeft = 0
	} else if err == ErrExecutionReverted {
		evm.StateDB.RevertToSnapshot(snapshot)
	}
	return ret, gasLeft, refund, logs, err
}

// Call executes addr's code in its own context, optionally transferring
// value from caller.
func (evm *EVM) Call(caller, addr common.Address, input []byte, gas uint64, value *uint256.Int) ([]byte, uint64, uint64, []*Log, error) {
	return evm.dispatchCall(callKindCall, caller, caller, addr, value, value, input, gas)
}

// CallCode executes addr's code against the caller's own storage and
// balance. value is visible to the child as CALLVALUE but is never
// actually transferred -- a long-standing CALLCODE quirk this module
// reproduces deliberately.
func (evm *EVM) CallCode(caller, addr common.Address, input []byte, gas uint64, value *uint256.Int) ([]byte, uint64, uint64, []*Log, error) {
	return evm.dispatchCall(callKindCallCode, caller, caller, addr, nil, value, input, gas)
}

// DelegateCall executes addr's code against the caller's own storage
// and address (self), inheriting the grandparent frame's own caller and
// call value (parentCaller, parentCallValue) unchanged -- the defining
// DELEGATECALL property that msg.sender and msg.value pass through
// untouched.
func (evm *EVM) DelegateCall(parentCaller, self, addr common.Address, input []byte, gas uint64, parentCallValue *uint256.Int) ([]byte, uint64, uint64, []*Log, error) {
	return evm.dispatchCall(callKindDelegateCall, parentCaller, self, addr, nil, parentCallValue, input, gas)
}

// StaticCall executes addr's code with writes disallowed for the
// entire subtree beneath it.
func (evm *EVM) StaticCall(caller, addr common.Address, input []byte, gas uint64) ([]byte, uint64, uint64, []*Log, error) {
	return evm.dispatchCall(callKindStaticCall, caller, caller, addr, nil, new(uint256.Int), input, gas)
}
