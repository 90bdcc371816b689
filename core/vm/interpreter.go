package vm

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	applog "github.com/eth2030/evmcore/log"
)

// BlockContext carries the block-scoped environment values opcodes
// such as COINBASE, TIMESTAMP, NUMBER, GASLIMIT, BASEFEE, and
// BLOCKHASH read. It never changes within a single block's worth of
// execution and is supplied once at EVM construction.
type BlockContext struct {
	Coinbase    common.Address
	GasLimit    uint64
	BlockNumber *uint256.Int
	Time        uint64
	PrevRandao  common.Hash
	BaseFee     *uint256.Int
	BlobBaseFee *uint256.Int
	ChainID     *uint256.Int
}

// TxContext carries the transaction-scoped environment values ORIGIN,
// GASPRICE, and BLOBHASH read.
type TxContext struct {
	Origin     common.Address
	GasPrice   *uint256.Int
	BlobHashes []common.Hash
}

// Config holds execution-core-wide toggles supplied by the embedder.
type Config struct {
	// MaxCallDepth overrides the default 1024 call-depth limit when
	// non-zero; tests use this to exercise the depth guard cheaply.
	MaxCallDepth int

	// Precompiles maps addresses to natively-implemented contracts,
	// checked by the call orchestrator before any StateManager code
	// lookup. Nil (the default) means no address is a precompile.
	Precompiles map[common.Address]Precompile
}

// EVM is the execution core: one instance binds a FeeSchedule, a block
// and transaction context, a StateManager, and the single fixed
// JumpTable this module implements, and exposes the call orchestrator
// (Call/CallCode/DelegateCall/StaticCall/Create/Create2) plus Run, which
// executes a frame through the EVM's FrameRunner (by default its own
// runFrame method).
type EVM struct {
	Context   BlockContext
	TxContext TxContext
	StateDB   StateManager
	Config    Config
	Fee       *FeeSchedule
	GasCalc   *GasCalculator

	jumpTable *JumpTable
	runner    FrameRunner
	sdSet     *SelfdestructSet

	depth      int
	readOnly   bool
	returnData []byte

	log *applog.Logger
}

// NewEVM constructs an EVM bound to the given contexts, state manager,
// and fee schedule. The EVM's runFrame method is its FrameRunner,
// executing child frames by direct recursive descent into Run. The
// runner field is unexported, so only code inside this package can
// replace evm.runner after construction.
func NewEVM(blockCtx BlockContext, txCtx TxContext, state StateManager, fee *FeeSchedule, cfg Config) *EVM {
	if fee == nil {
		fee = DefaultFeeSchedule()
	}
	if cfg.MaxCallDepth == 0 {
		cfg.MaxCallDepth = fee.MaxCallDepth
	}
	evm := &EVM{
		Context:   blockCtx,
		TxContext: txCtx,
		StateDB:   state,
		Config:    cfg,
		Fee:       fee,
		GasCalc:   NewGasCalculator(fee),
		sdSet:     NewSelfdestructSet(),
		log:       applog.Default().Module("vm"),
	}
	evm.jumpTable = newJumpTable(fee)
	evm.runner = frameRunnerFunc(evm.runFrame)
	return evm
}

// Depth returns the current call-stack depth (0 at the top-level call).
func (evm *EVM) Depth() int { return evm.depth }

// ReturnData returns the return data of the most recently completed
// child call, as RETURNDATASIZE/RETURNDATACOPY observe it.
func (evm *EVM) ReturnData() []byte { return evm.returnData }

// Run executes contract's code against input as the top-level frame of
// a new call, identical to what Call/CallCode/etc. set up for a child
// frame, just without a parent surrounding it.
// Run additionally surfaces the frame's accumulated refund and emitted
// logs once it completes, so the call orchestrator can fold them into
// the parent frame regardless of whether the child ultimately trapped
// -- a child's logs and refund merge into the caller on every
// completion, not only a clean one.
func (evm *EVM) Run(contract *Contract, input []byte, readOnly bool) ([]byte, uint64, []*Log, error) {
	frame := NewFrame(contract, input, evm.depth, readOnly || evm.readOnly, evm.sdSet)
	frame.State = evm.StateDB
	frame.Runner = evm.runner
	frame.Origin = evm.TxContext.Origin
	frame.GasPrice = evm.TxContext.GasPrice
	frame.Block = &evm.Context
	ret, err := evm.runner.RunFrame(frame)
	return ret, frame.Gas.Refund(), frame.Logs, err
}

// runFrame is the EVM's default FrameRunner: the fetch-decode-charge-
// execute loop. Gas for an opcode (constant tier, then memory
// expansion, then any remaining argument-dependent surcharge) is always
// charged in full before the opcode's handler runs and before memory is
// physically resized, so a handler never observes a memory buffer wider
// than what was actually paid for.
func (evm *EVM) runFrame(frame *Frame) ([]byte, error) {
	var (
		pc  = frame.PC
		op  OpCode
		ret []byte
		err error
	)

	for !frame.Stopped {
		op = frame.Contract.GetOp(pc)
		opr := evm.jumpTable[op]

		if opr.execute == nil || (op == INVALID) {
			return nil, NewTrap(ErrInvalidOpcode, frame.Contract.Code, frame.Contract.Address, pc)
		}
		if frame.Stack.Len() < opr.minStack {
			return nil, NewTrap(ErrStackUnderflow, frame.Contract.Code, frame.Contract.Address, pc)
		}
		if frame.Stack.Len() > opr.maxStack {
			return nil, NewTrap(ErrStackOverflow, frame.Contract.Code, frame.Contract.Address, pc)
		}
		if frame.ReadOnly && opr.writes {
			return nil, NewTrap(ErrWriteProtection, frame.Contract.Code, frame.Contract.Address, pc)
		}

		if err = frame.Gas.Spend(opr.constantGas); err != nil {
			return nil, NewTrap(err, frame.Contract.Code, frame.Contract.Address, pc)
		}

		var memSize uint64
		if opr.memorySize != nil {
			size, overflow := opr.memorySize(frame.Stack)
			if overflow {
				return nil, NewTrap(ErrGasUintOverflow, frame.Contract.Code, frame.Contract.Address, pc)
			}
			// Memory grows in whole words; MSIZE and the quadratic cost
			// schedule both observe the word-aligned size.
			memSize = toWordSize(size) * 32
		}
		if memSize > 0 {
			expGas, merr := MemoryExpansionGas(evm.Fee, frame.Memory, memSize)
			if merr != nil {
				return nil, NewTrap(merr, frame.Contract.Code, frame.Contract.Address, pc)
			}
			if err = frame.Gas.Spend(expGas); err != nil {
				return nil, NewTrap(err, frame.Contract.Code, frame.Contract.Address, pc)
			}
		}
		if opr.dynamicGas != nil {
			dgas, derr := opr.dynamicGas(evm, frame, memSize)
			if derr != nil {
				return nil, NewTrap(derr, frame.Contract.Code, frame.Contract.Address, pc)
			}
			if err = frame.Gas.Spend(dgas); err != nil {
				return nil, NewTrap(err, frame.Contract.Code, frame.Contract.Address, pc)
			}
		}
		if memSize > 0 {
			frame.Memory.Resize(memSize)
		}

		frame.PC = pc
		ret, err = opr.execute(&pc, evm, frame)
		if err != nil {
			frame.Stopped = true
			frame.ReturnData = ret
			frame.Contract.Gas = frame.Gas.Remaining()
			evm.log.Debug("frame halted with an error", "op", op.String(), "pc", pc, "depth", evm.depth, "contract", frame.Contract.Address, "err", err)
			return ret, err
		}
		if opr.halts {
			frame.Stopped = true
			frame.ReturnData = ret
			frame.Contract.Gas = frame.Gas.Remaining()
			return ret, nil
		}
		if !opr.jumps {
			pc++
		}
	}
	frame.Contract.Gas = frame.Gas.Remaining()
	return frame.ReturnData, nil
}
