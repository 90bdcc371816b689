package vm

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// This file implements every opcode's executionFunc, one per handler
// named in jump_table.go's newJumpTable. Handlers read their operands
// via Stack.Pop/Peek and, for terminal opcodes, return the bytes the
// frame halts with. Gas has already been charged and memory already
// resized by the interpreter loop by the time a handler runs.

// getData returns size bytes from data starting at start, zero-padded
// on the right if the requested range runs past the end of data.
func getData(data []byte, start, size uint64) []byte {
	length := uint64(len(data))
	if start > length {
		start = length
	}
	end := start + size
	if end > length {
		end = length
	}
	return common.RightPadBytes(data[start:end], int(size))
}

// --- Arithmetic ---

func opAdd(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	x := frame.Stack.Pop()
	y := frame.Stack.Peek()
	y.Add(&x, y)
	return nil, nil
}

func opMul(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	x := frame.Stack.Pop()
	y := frame.Stack.Peek()
	y.Mul(&x, y)
	return nil, nil
}

func opSub(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	x := frame.Stack.Pop()
	y := frame.Stack.Peek()
	y.Sub(&x, y)
	return nil, nil
}

func opDiv(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	x := frame.Stack.Pop()
	y := frame.Stack.Peek()
	y.Div(&x, y)
	return nil, nil
}

func opSdiv(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	x := frame.Stack.Pop()
	y := frame.Stack.Peek()
	y.SDiv(&x, y)
	return nil, nil
}

func opMod(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	x := frame.Stack.Pop()
	y := frame.Stack.Peek()
	y.Mod(&x, y)
	return nil, nil
}

func opSmod(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	x := frame.Stack.Pop()
	y := frame.Stack.Peek()
	y.SMod(&x, y)
	return nil, nil
}

func opAddmod(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	x := frame.Stack.Pop()
	y := frame.Stack.Pop()
	z := frame.Stack.Peek()
	z.AddMod(&x, &y, z)
	return nil, nil
}

func opMulmod(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	x := frame.Stack.Pop()
	y := frame.Stack.Pop()
	z := frame.Stack.Peek()
	z.MulMod(&x, &y, z)
	return nil, nil
}

func opExp(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	base := frame.Stack.Pop()
	exponent := frame.Stack.Peek()
	exponent.Exp(&base, exponent)
	return nil, nil
}

func opSignExtend(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	back := frame.Stack.Pop()
	num := frame.Stack.Peek()
	num.ExtendSign(num, &back)
	return nil, nil
}

// --- Comparison ---

func opLt(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	x := frame.Stack.Pop()
	y := frame.Stack.Peek()
	if x.Lt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opGt(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	x := frame.Stack.Pop()
	y := frame.Stack.Peek()
	if x.Gt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opSlt(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	x := frame.Stack.Pop()
	y := frame.Stack.Peek()
	if x.Slt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opSgt(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	x := frame.Stack.Pop()
	y := frame.Stack.Peek()
	if x.Sgt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opEq(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	x := frame.Stack.Pop()
	y := frame.Stack.Peek()
	if x.Eq(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opIsZero(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	x := frame.Stack.Peek()
	if x.IsZero() {
		x.SetOne()
	} else {
		x.Clear()
	}
	return nil, nil
}

// --- Bitwise ---

func opAnd(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	x := frame.Stack.Pop()
	y := frame.Stack.Peek()
	y.And(&x, y)
	return nil, nil
}

func opOr(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	x := frame.Stack.Pop()
	y := frame.Stack.Peek()
	y.Or(&x, y)
	return nil, nil
}

func opXor(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	x := frame.Stack.Pop()
	y := frame.Stack.Peek()
	y.Xor(&x, y)
	return nil, nil
}

func opNot(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	x := frame.Stack.Peek()
	x.Not(x)
	return nil, nil
}

func opByte(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	th := frame.Stack.Pop()
	val := frame.Stack.Peek()
	val.Byte(&th)
	return nil, nil
}

func opSHL(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	shift := frame.Stack.Pop()
	value := frame.Stack.Peek()
	if shift.LtUint64(256) {
		value.Lsh(value, uint(shift.Uint64()))
	} else {
		value.Clear()
	}
	return nil, nil
}

func opSHR(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	shift := frame.Stack.Pop()
	value := frame.Stack.Peek()
	if shift.LtUint64(256) {
		value.Rsh(value, uint(shift.Uint64()))
	} else {
		value.Clear()
	}
	return nil, nil
}

func opSAR(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	shift := frame.Stack.Pop()
	value := frame.Stack.Peek()
	if shift.GtUint64(256) {
		if value.Sign() >= 0 {
			value.Clear()
		} else {
			value.SetAllOne()
		}
		return nil, nil
	}
	value.SRsh(value, uint(shift.Uint64()))
	return nil, nil
}

// --- KECCAK256 ---

func opKeccak256(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	offset := frame.Stack.Pop()
	size := frame.Stack.Peek()
	data := frame.Memory.GetPtr(int64(offset.Uint64()), int64(size.Uint64()))
	size.SetBytes(crypto.Keccak256(data))
	return nil, nil
}

// --- Environment ---

func opAddress(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	frame.Stack.Push(addressToUint256(frame.Contract.Address))
	return nil, nil
}

func opBalance(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	slot := frame.Stack.Peek()
	addr := uint256ToAddress(slot)
	slot.Set(evm.StateDB.GetAccountBalance(addr))
	return nil, nil
}

func opOrigin(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	frame.Stack.Push(addressToUint256(frame.Origin))
	return nil, nil
}

func opCaller(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	frame.Stack.Push(addressToUint256(frame.Contract.CallerAddress))
	return nil, nil
}

func opCallValue(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	frame.Stack.Push(frame.Contract.Value)
	return nil, nil
}

func opCallDataLoad(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	x := frame.Stack.Peek()
	if offset, overflow := x.Uint64WithOverflow(); !overflow {
		x.SetBytes(getData(frame.CallData, offset, 32))
	} else {
		x.Clear()
	}
	return nil, nil
}

func opCallDataSize(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	frame.Stack.Push(new(uint256.Int).SetUint64(uint64(len(frame.CallData))))
	return nil, nil
}

func opCallDataCopy(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	memOffset := frame.Stack.Pop()
	dataOffset := frame.Stack.Pop()
	length := frame.Stack.Pop()
	offset64, overflow := dataOffset.Uint64WithOverflow()
	if overflow {
		offset64 = uint64(len(frame.CallData))
	}
	data := getData(frame.CallData, offset64, length.Uint64())
	frame.Memory.Set(memOffset.Uint64(), length.Uint64(), data)
	return nil, nil
}

func opCodeSize(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	frame.Stack.Push(new(uint256.Int).SetUint64(uint64(len(frame.Contract.Code))))
	return nil, nil
}

func opCodeCopy(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	memOffset := frame.Stack.Pop()
	codeOffset := frame.Stack.Pop()
	length := frame.Stack.Pop()
	offset64, overflow := codeOffset.Uint64WithOverflow()
	if overflow {
		offset64 = uint64(len(frame.Contract.Code))
	}
	data := getData(frame.Contract.Code, offset64, length.Uint64())
	frame.Memory.Set(memOffset.Uint64(), length.Uint64(), data)
	return nil, nil
}

func opGasPrice(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	frame.Stack.Push(frame.GasPrice)
	return nil, nil
}

func opExtCodeSize(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	slot := frame.Stack.Peek()
	addr := uint256ToAddress(slot)
	code := evm.StateDB.GetContractCode(addr)
	slot.SetUint64(uint64(len(code)))
	return nil, nil
}

func opExtCodeCopy(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	addrVal := frame.Stack.Pop()
	memOffset := frame.Stack.Pop()
	codeOffset := frame.Stack.Pop()
	length := frame.Stack.Pop()
	addr := uint256ToAddress(&addrVal)
	code := evm.StateDB.GetContractCode(addr)
	offset64, overflow := codeOffset.Uint64WithOverflow()
	if overflow {
		offset64 = uint64(len(code))
	}
	data := getData(code, offset64, length.Uint64())
	frame.Memory.Set(memOffset.Uint64(), length.Uint64(), data)
	return nil, nil
}

func opReturnDataSize(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	frame.Stack.Push(new(uint256.Int).SetUint64(uint64(len(evm.ReturnData()))))
	return nil, nil
}

func opReturnDataCopy(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	memOffset := frame.Stack.Pop()
	dataOffset := frame.Stack.Pop()
	length := frame.Stack.Pop()
	returnData := evm.ReturnData()
	offset64, overflow := dataOffset.Uint64WithOverflow()
	if overflow {
		return nil, ErrReturnDataOutOfBounds
	}
	end := offset64 + length.Uint64()
	if end < offset64 || end > uint64(len(returnData)) {
		return nil, ErrReturnDataOutOfBounds
	}
	frame.Memory.Set(memOffset.Uint64(), length.Uint64(), returnData[offset64:end])
	return nil, nil
}

func opExtCodeHash(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	slot := frame.Stack.Peek()
	addr := uint256ToAddress(slot)
	if !evm.StateDB.Exists(addr) || evm.StateDB.AccountIsEmpty(addr) {
		slot.Clear()
		return nil, nil
	}
	hash := evm.StateDB.GetCodeHash(addr)
	slot.SetBytes(hash[:])
	return nil, nil
}

// --- Block ---

func opBlockhash(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	num := frame.Stack.Peek()
	if !num.IsUint64() {
		num.Clear()
		return nil, nil
	}
	// Only the 256 most recent ancestors are addressable; anything else,
	// including the current block itself, reads as zero.
	requested := num.Uint64()
	current := frame.Block.BlockNumber.Uint64()
	if requested >= current || current-requested > 256 {
		num.Clear()
		return nil, nil
	}
	hash := evm.StateDB.GetBlockHash(requested)
	num.SetBytes(hash[:])
	return nil, nil
}

func opCoinbase(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	frame.Stack.Push(addressToUint256(frame.Block.Coinbase))
	return nil, nil
}

func opTimestamp(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	frame.Stack.Push(new(uint256.Int).SetUint64(frame.Block.Time))
	return nil, nil
}

func opNumber(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	frame.Stack.Push(frame.Block.BlockNumber)
	return nil, nil
}

func opPrevRandao(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	frame.Stack.Push(hashToUint256(frame.Block.PrevRandao))
	return nil, nil
}

func opGasLimit(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	frame.Stack.Push(new(uint256.Int).SetUint64(frame.Block.GasLimit))
	return nil, nil
}

func opChainID(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	frame.Stack.Push(frame.Block.ChainID)
	return nil, nil
}

func opSelfBalance(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	frame.Stack.Push(evm.StateDB.GetAccountBalance(frame.Contract.Address))
	return nil, nil
}

func opBaseFee(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	frame.Stack.Push(frame.Block.BaseFee)
	return nil, nil
}

func opBlobHash(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	idx := frame.Stack.Peek()
	if idx.IsUint64() && idx.Uint64() < uint64(len(evm.TxContext.BlobHashes)) {
		h := evm.TxContext.BlobHashes[idx.Uint64()]
		idx.SetBytes(h[:])
	} else {
		idx.Clear()
	}
	return nil, nil
}

func opBlobBaseFee(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	frame.Stack.Push(frame.Block.BlobBaseFee)
	return nil, nil
}

// --- Stack/memory/storage/pc ---

func opPop(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	frame.Stack.Pop()
	return nil, nil
}

func opMload(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	v := frame.Stack.Peek()
	offset := v.Uint64()
	v.SetBytes(frame.Memory.GetPtr(int64(offset), 32))
	return nil, nil
}

func opMstore(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	offset := frame.Stack.Pop()
	val := frame.Stack.Pop()
	frame.Memory.Set32(offset.Uint64(), &val)
	return nil, nil
}

func opMstore8(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	offset := frame.Stack.Pop()
	val := frame.Stack.Pop()
	frame.Memory.Set(offset.Uint64(), 1, []byte{byte(val.Uint64())})
	return nil, nil
}

func opSload(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	slot := frame.Stack.Peek()
	key := uint256ToHash(slot)
	val := evm.StateDB.GetContractStorage(frame.Contract.Address, key)
	slot.SetBytes(val[:])
	return nil, nil
}

func opSstore(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	key := frame.Stack.Pop()
	val := frame.Stack.Pop()
	evm.StateDB.PutContractStorage(frame.Contract.Address, uint256ToHash(&key), uint256ToHash(&val))
	return nil, nil
}

func opJump(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	dest := frame.Stack.Pop()
	if !frame.validJumpdest(&dest) {
		return nil, ErrInvalidJump
	}
	*pc = dest.Uint64()
	return nil, nil
}

func opJumpi(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	dest := frame.Stack.Pop()
	cond := frame.Stack.Pop()
	if cond.IsZero() {
		*pc++
		return nil, nil
	}
	if !frame.validJumpdest(&dest) {
		return nil, ErrInvalidJump
	}
	*pc = dest.Uint64()
	return nil, nil
}

func opPc(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	frame.Stack.Push(new(uint256.Int).SetUint64(*pc))
	return nil, nil
}

func opMsize(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	frame.Stack.Push(new(uint256.Int).SetUint64(uint64(frame.Memory.Len())))
	return nil, nil
}

func opGas(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	frame.Stack.Push(new(uint256.Int).SetUint64(frame.Gas.Remaining()))
	return nil, nil
}

func opJumpdest(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	return nil, nil
}

func opTload(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	slot := frame.Stack.Peek()
	key := uint256ToHash(slot)
	val := evm.StateDB.GetTransientStorage(frame.Contract.Address, key)
	slot.SetBytes(val[:])
	return nil, nil
}

func opTstore(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	key := frame.Stack.Pop()
	val := frame.Stack.Pop()
	evm.StateDB.PutTransientStorage(frame.Contract.Address, uint256ToHash(&key), uint256ToHash(&val))
	return nil, nil
}

func opMcopy(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	dst := frame.Stack.Pop()
	src := frame.Stack.Pop()
	length := frame.Stack.Pop()
	if length.IsZero() {
		return nil, nil
	}
	size := int64(length.Uint64())
	copy(frame.Memory.GetPtr(int64(dst.Uint64()), size), frame.Memory.GetPtr(int64(src.Uint64()), size))
	return nil, nil
}

// --- PUSH/DUP/SWAP/LOG ---

func opPush0(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	frame.Stack.Push(new(uint256.Int))
	return nil, nil
}

// makePush returns the PUSHn handler for size bytes of immediate data.
// The interpreter advances pc by one after every non-jumping opcode, so
// the handler only needs to move pc the rest of the way, past the
// immediate-data run.
func makePush(size uint64) executionFunc {
	return func(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
		code := frame.Contract.Code
		codeLen := uint64(len(code))
		start := *pc + 1
		if start > codeLen {
			start = codeLen
		}
		end := start + size
		if end > codeLen {
			end = codeLen
		}
		val := new(uint256.Int).SetBytes(common.RightPadBytes(code[start:end], int(size)))
		frame.Stack.Push(val)
		*pc += size
		return nil, nil
	}
}

func makeDup(n int) executionFunc {
	return func(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
		frame.Stack.Dup(n)
		return nil, nil
	}
}

func makeSwap(n int) executionFunc {
	return func(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
		frame.Stack.Swap(n)
		return nil, nil
	}
}

func makeLog(n int) executionFunc {
	return func(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
		offset := frame.Stack.Pop()
		size := frame.Stack.Pop()
		topics := make([]common.Hash, n)
		for i := 0; i < n; i++ {
			t := frame.Stack.Pop()
			topics[i] = uint256ToHash(&t)
		}
		data := frame.Memory.GetPtr(int64(offset.Uint64()), int64(size.Uint64()))
		logData := make([]byte, len(data))
		copy(logData, data)
		frame.Logs = append(frame.Logs, &Log{
			Address: frame.Contract.Address,
			Topics:  topics,
			Data:    logData,
		})
		return nil, nil
	}
}

// --- Terminal / call-family ---

func opStop(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	return nil, nil
}

func opReturn(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	offset := frame.Stack.Pop()
	size := frame.Stack.Pop()
	ret := frame.Memory.GetPtr(int64(offset.Uint64()), int64(size.Uint64()))
	out := make([]byte, len(ret))
	copy(out, ret)
	return out, nil
}

func opRevert(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	offset := frame.Stack.Pop()
	size := frame.Stack.Pop()
	ret := frame.Memory.GetPtr(int64(offset.Uint64()), int64(size.Uint64()))
	out := make([]byte, len(ret))
	copy(out, ret)
	return out, ErrExecutionReverted
}

func opInvalid(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	return nil, ErrInvalidOpcode
}

func opCreate(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	value := frame.Stack.Pop()
	offset := frame.Stack.Pop()
	size := frame.Stack.Pop()

	code := frame.Memory.GetPtr(int64(offset.Uint64()), int64(size.Uint64()))
	initCode := make([]byte, len(code))
	copy(initCode, code)

	gas := frame.Gas.Remaining()
	gas -= gas / evm.Fee.CallGasFraction
	if err := frame.Gas.Spend(gas); err != nil {
		return nil, err
	}

	_, addr, returnGas, refund, logs, err := evm.Create(frame.Contract.Address, initCode, gas, &value)
	frame.Gas.AddGas(returnGas)
	frame.Gas.AddRefund(refund)
	frame.Logs = append(frame.Logs, logs...)

	// A reverted or trapped creation pushes zero; only a completed
	// deployment exposes its address.
	if err != nil {
		frame.Stack.Push(new(uint256.Int))
	} else {
		frame.Stack.Push(addressToUint256(addr))
	}
	return nil, nil
}

func opCreate2(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	value := frame.Stack.Pop()
	offset := frame.Stack.Pop()
	size := frame.Stack.Pop()
	salt := frame.Stack.Pop()

	code := frame.Memory.GetPtr(int64(offset.Uint64()), int64(size.Uint64()))
	initCode := make([]byte, len(code))
	copy(initCode, code)

	gas := frame.Gas.Remaining()
	gas -= gas / evm.Fee.CallGasFraction
	if err := frame.Gas.Spend(gas); err != nil {
		return nil, err
	}

	_, addr, returnGas, refund, logs, err := evm.Create2(frame.Contract.Address, initCode, gas, &value, &salt)
	frame.Gas.AddGas(returnGas)
	frame.Gas.AddRefund(refund)
	frame.Logs = append(frame.Logs, logs...)

	if err != nil {
		frame.Stack.Push(new(uint256.Int))
	} else {
		frame.Stack.Push(addressToUint256(addr))
	}
	return nil, nil
}

// pushBool pushes 1 for true, 0 for false -- the CALL-family success flag.
func pushBool(stack *Stack, ok bool) {
	if ok {
		stack.Push(new(uint256.Int).SetOne())
	} else {
		stack.Push(new(uint256.Int))
	}
}

// writeCallResult copies up to retSize bytes of ret into memory at
// retOffset, the common tail of every CALL-family opcode.
func writeCallResult(frame *Frame, retOffset, retSize uint64, ret []byte) {
	if retSize == 0 {
		return
	}
	n := uint64(len(ret))
	if n > retSize {
		n = retSize
	}
	if n > 0 {
		frame.Memory.Set(retOffset, n, ret[:n])
	}
}

func opCall(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	gasArg := frame.Stack.Pop()
	addrVal := frame.Stack.Pop()
	value := frame.Stack.Pop()
	argsOffset := frame.Stack.Pop()
	argsSize := frame.Stack.Pop()
	retOffset := frame.Stack.Pop()
	retSize := frame.Stack.Pop()

	addr := uint256ToAddress(&addrVal)
	args := frame.Memory.GetPtr(int64(argsOffset.Uint64()), int64(argsSize.Uint64()))

	transfersValue := !value.IsZero()
	childGas, deduction := evm.GasCalc.CalcCallGas(frame.Gas.Remaining(), gasArg.Uint64(), transfersValue)
	if err := frame.Gas.Spend(deduction); err != nil {
		return nil, err
	}

	ret, returnGas, refund, logs, err := evm.Call(frame.Contract.Address, addr, args, childGas, &value)
	frame.Gas.AddGas(evm.GasCalc.ReturnCallGas(returnGas, transfersValue))
	frame.Gas.AddRefund(refund)
	frame.Logs = append(frame.Logs, logs...)

	writeCallResult(frame, retOffset.Uint64(), retSize.Uint64(), ret)
	pushBool(frame.Stack, err == nil)
	return nil, nil
}

func opCallCode(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	gasArg := frame.Stack.Pop()
	addrVal := frame.Stack.Pop()
	value := frame.Stack.Pop()
	argsOffset := frame.Stack.Pop()
	argsSize := frame.Stack.Pop()
	retOffset := frame.Stack.Pop()
	retSize := frame.Stack.Pop()

	addr := uint256ToAddress(&addrVal)
	args := frame.Memory.GetPtr(int64(argsOffset.Uint64()), int64(argsSize.Uint64()))

	transfersValue := !value.IsZero()
	childGas, deduction := evm.GasCalc.CalcCallGas(frame.Gas.Remaining(), gasArg.Uint64(), transfersValue)
	if err := frame.Gas.Spend(deduction); err != nil {
		return nil, err
	}

	ret, returnGas, refund, logs, err := evm.CallCode(frame.Contract.Address, addr, args, childGas, &value)
	frame.Gas.AddGas(evm.GasCalc.ReturnCallGas(returnGas, transfersValue))
	frame.Gas.AddRefund(refund)
	frame.Logs = append(frame.Logs, logs...)

	writeCallResult(frame, retOffset.Uint64(), retSize.Uint64(), ret)
	pushBool(frame.Stack, err == nil)
	return nil, nil
}

func opDelegateCall(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	gasArg := frame.Stack.Pop()
	addrVal := frame.Stack.Pop()
	argsOffset := frame.Stack.Pop()
	argsSize := frame.Stack.Pop()
	retOffset := frame.Stack.Pop()
	retSize := frame.Stack.Pop()

	addr := uint256ToAddress(&addrVal)
	args := frame.Memory.GetPtr(int64(argsOffset.Uint64()), int64(argsSize.Uint64()))

	childGas, deduction := evm.GasCalc.CalcCallGas(frame.Gas.Remaining(), gasArg.Uint64(), false)
	if err := frame.Gas.Spend(deduction); err != nil {
		return nil, err
	}

	ret, returnGas, refund, logs, err := evm.DelegateCall(frame.Contract.CallerAddress, frame.Contract.Address, addr, args, childGas, frame.Contract.Value)
	frame.Gas.AddGas(evm.GasCalc.ReturnCallGas(returnGas, false))
	frame.Gas.AddRefund(refund)
	frame.Logs = append(frame.Logs, logs...)

	writeCallResult(frame, retOffset.Uint64(), retSize.Uint64(), ret)
	pushBool(frame.Stack, err == nil)
	return nil, nil
}

func opStaticCall(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	gasArg := frame.Stack.Pop()
	addrVal := frame.Stack.Pop()
	argsOffset := frame.Stack.Pop()
	argsSize := frame.Stack.Pop()
	retOffset := frame.Stack.Pop()
	retSize := frame.Stack.Pop()

	addr := uint256ToAddress(&addrVal)
	args := frame.Memory.GetPtr(int64(argsOffset.Uint64()), int64(argsSize.Uint64()))

	childGas, deduction := evm.GasCalc.CalcCallGas(frame.Gas.Remaining(), gasArg.Uint64(), false)
	if err := frame.Gas.Spend(deduction); err != nil {
		return nil, err
	}

	ret, returnGas, refund, logs, err := evm.StaticCall(frame.Contract.Address, addr, args, childGas)
	frame.Gas.AddGas(evm.GasCalc.ReturnCallGas(returnGas, false))
	frame.Gas.AddRefund(refund)
	frame.Logs = append(frame.Logs, logs...)

	writeCallResult(frame, retOffset.Uint64(), retSize.Uint64(), ret)
	pushBool(frame.Stack, err == nil)
	return nil, nil
}

func opSelfdestruct(pc *uint64, evm *EVM, frame *Frame) ([]byte, error) {
	beneficiary := frame.Stack.Pop()
	evm.Selfdestruct(frame, uint256ToAddress(&beneficiary))
	return nil, nil
}
