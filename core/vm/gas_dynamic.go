package vm

import "github.com/holiman/uint256"

// GasCalculator derives dynamic (argument-dependent) gas costs from a
// bound FeeSchedule. Keeping this as a small struct of pure methods,
// rather than free functions closing over a package-level schedule,
// is what lets an embedder run several EVMs against different
// schedules concurrently.
type GasCalculator struct {
	Fee *FeeSchedule
}

// NewGasCalculator binds a calculator to fee.
func NewGasCalculator(fee *FeeSchedule) *GasCalculator {
	return &GasCalculator{Fee: fee}
}

// CalcExpGas returns the gas for EXP given the exponent: a fixed base
// cost plus a per-byte surcharge over the exponent's minimal byte
// length (zero bytes for an exponent of zero).
func (c *GasCalculator) CalcExpGas(exponent *uint256.Int) uint64 {
	nbytes := uint64(expByteLen(exponent))
	return safeAdd(c.Fee.ExpGas, safeMul(nbytes, c.Fee.ExpByteGas))
}

// CalcKeccak256Gas returns the gas for KECCAK256 over size bytes.
func (c *GasCalculator) CalcKeccak256Gas(size uint64) uint64 {
	words := toWordSize(size)
	return safeAdd(c.Fee.Keccak256Gas, safeMul(words, c.Fee.Keccak256WordGas))
}

// CalcCopyGas returns the per-word surcharge for a copy-family opcode
// (CALLDATACOPY, CODECOPY, EXTCODECOPY, RETURNDATACOPY, MCOPY) moving
// size bytes, on top of memory expansion gas.
func (c *GasCalculator) CalcCopyGas(size uint64) uint64 {
	words := toWordSize(size)
	return safeMul(words, c.Fee.CopyWordGas)
}

// CalcLogGas returns the gas for a LOGn opcode emitting dataSize bytes
// across n topics.
func (c *GasCalculator) CalcLogGas(n int, dataSize uint64) uint64 {
	cost := c.Fee.LogGas
	cost = safeAdd(cost, safeMul(uint64(n), c.Fee.LogTopicGas))
	cost = safeAdd(cost, safeMul(dataSize, c.Fee.LogDataGas))
	return cost
}

// SstoreResult is the gas charge and refund delta for one SSTORE.
type SstoreResult struct {
	Gas    uint64
	Refund int64 // positive: refund granted; negative: refund clawed back
}

// CalcSstoreGas prices SSTORE using the two-flag was_set/is_set table:
// wasSet is whether the slot held a non-zero value before this store,
// isSet is whether the value being stored is non-zero.
//
//	wasSet  isSet   gas            refund
//	false   false   SstoreResetGas 0        (zero -> zero; canonical schedule bills the reset price, not a discount)
//	false   true    SstoreSetGas   0        (zero -> non-zero)
//	true    false   SstoreResetGas +clear   (non-zero -> zero)
//	true    true    SstoreResetGas 0        (non-zero -> non-zero)
func (c *GasCalculator) CalcSstoreGas(wasSet, isSet bool) SstoreResult {
	switch {
	case !wasSet && isSet:
		return SstoreResult{Gas: c.Fee.SstoreSetGas}
	case wasSet && !isSet:
		return SstoreResult{Gas: c.Fee.SstoreResetGas, Refund: int64(c.Fee.SstoreClearRefund)}
	default:
		return SstoreResult{Gas: c.Fee.SstoreResetGas}
	}
}

// CalcCallGas computes the 63/64-rule child gas allotment and the
// amount actually deducted from the caller, per EIP-150. When
// transfersValue is true the callee additionally receives a fixed
// stipend that is never deducted from the caller.
func (c *GasCalculator) CalcCallGas(available, requested uint64, transfersValue bool) (childGas, callerDeduction uint64) {
	maxGas := available - available/c.Fee.CallGasFraction
	if requested > maxGas {
		requested = maxGas
	}
	callerDeduction = requested
	if transfersValue {
		childGas = safeAdd(requested, c.Fee.CallStipend)
	} else {
		childGas = requested
	}
	return childGas, callerDeduction
}

// ReturnCallGas computes how much gas to credit back to the caller once
// a child call returns. CalcCallGas already withheld the stipend from
// what it deducted from the caller (only the non-stipend `requested`
// amount is ever spent), so the stipend is not subtracted a second time
// here -- doing so would make it impossible for a value-transferring
// call with a small gas_limit to ever credit the caller back more than
// it spent.
func (c *GasCalculator) ReturnCallGas(returnGas uint64, transfersValue bool) uint64 {
	return returnGas
}

// CalcCallValueGas returns the surcharge for a value-transferring call:
// CallValueTransferGas always, plus CallNewAccountGas if the recipient
// is dead (does not exist, or exists but is empty per EIP-161). The
// new-account surcharge applies to CALL only; CALLCODE never transfers
// value out of the caller's own balance and so pays just
// CallValueTransferGas.
func (c *GasCalculator) CalcCallValueGas(transfersValue, isCall bool, recipientExists, recipientEmpty bool) uint64 {
	if !transfersValue {
		return 0
	}
	gas := c.Fee.CallValueTransferGas
	if isCall && (!recipientExists || recipientEmpty) {
		gas = safeAdd(gas, c.Fee.CallNewAccountGas)
	}
	return gas
}

// CalcCreateGas returns the base CREATE/CREATE2 cost plus, for
// CREATE2, the per-word cost of hashing the init code.
func (c *GasCalculator) CalcCreateGas(initCodeSize uint64, isCreate2 bool) uint64 {
	gas := c.Fee.CreateGas
	words := toWordSize(initCodeSize)
	gas = safeAdd(gas, safeMul(words, c.Fee.InitCodeWordGas))
	if isCreate2 {
		gas = safeAdd(gas, safeMul(words, c.Fee.Create2HashWordGas))
	}
	return gas
}

// CalcCodeDepositGas returns the per-byte cost of persisting the
// returned deployment code.
func (c *GasCalculator) CalcCodeDepositGas(codeSize uint64) uint64 {
	return safeMul(codeSize, c.Fee.CreateDataGas)
}

// CalcSelfdestructGas returns the base SELFDESTRUCT cost plus, if the
// beneficiary account is dead, the new-account surcharge -- billed
// whenever the recipient is dead, independent of the transferred
// balance being non-zero, per the canonical rule.
func (c *GasCalculator) CalcSelfdestructGas(beneficiaryDead bool) uint64 {
	gas := c.Fee.SelfdestructGas
	if beneficiaryDead {
		gas = safeAdd(gas, c.Fee.SelfdestructNewAccountGas)
	}
	return gas
}
