package vm

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Selfdestruct implements the classic, pre-"only if created this
// transaction" SELFDESTRUCT: the executing contract's entire balance
// moves to beneficiary unconditionally, and the contract's address is
// recorded for removal once the enclosing transaction completes. A
// later fork narrowed removal to same-transaction creations only; this
// module keeps the original, simpler, unconditional removal rule.
//
// The refund is granted once per address per transaction, tracked by
// the SelfdestructSet shared across every Frame in the call tree;
// StateManager.MarkSelfdestruct additionally lets the state backend
// itself know which addresses need purging at the end of the
// transaction, independent of this module's own bookkeeping.
func (evm *EVM) Selfdestruct(frame *Frame, beneficiary common.Address) {
	addr := frame.Contract.Address
	bal := evm.StateDB.GetAccountBalance(addr)
	if bal.Sign() > 0 {
		beneficiaryBal := evm.StateDB.GetAccountBalance(beneficiary)
		evm.StateDB.PutAccountBalance(beneficiary, new(uint256.Int).Add(beneficiaryBal, bal))
		evm.StateDB.PutAccountBalance(addr, new(uint256.Int))
	}
	evm.StateDB.MarkSelfdestruct(addr)
	if frame.Selfdestructs.Mark(addr) {
		frame.Gas.AddRefund(evm.Fee.SelfdestructRefundGas)
	}
	evm.log.Info("contract selfdestructed", "address", addr, "beneficiary", beneficiary, "balance", bal)
}
