// Command evmdebug runs a single piece of EVM bytecode against a
// scripted in-memory StateManager and prints what happened: return
// data, gas consumed, the refund counter, and any logs emitted. It
// exists for manual inspection of core/vm's behavior on a hand-written
// snippet, not as a full node or test runner.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/eth2030/evmcore/core/types"
	"github.com/eth2030/evmcore/core/vm"
	applog "github.com/eth2030/evmcore/log"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

type storageEntry struct {
	addr  common.Address
	key   common.Hash
	value common.Hash
}

// storageFlag accumulates "addr:key=value" triples passed with
// repeated -storage flags into pre-populated storage slots.
type storageFlag struct{ entries *[]storageEntry }

func (f storageFlag) String() string { return "" }

func (f storageFlag) Set(s string) error {
	addrPart, rest, ok := strings.Cut(s, ":")
	if !ok {
		return fmt.Errorf("storage entry %q: want addr:key=value", s)
	}
	keyPart, valPart, ok := strings.Cut(rest, "=")
	if !ok {
		return fmt.Errorf("storage entry %q: want addr:key=value", s)
	}
	*f.entries = append(*f.entries, storageEntry{
		addr:  common.HexToAddress(addrPart),
		key:   common.HexToHash(keyPart),
		value: common.HexToHash(valPart),
	})
	return nil
}

func run(args []string) int {
	fs := flag.NewFlagSet("evmdebug", flag.ContinueOnError)

	codeHex := fs.String("code", "", "hex-encoded bytecode: runtime code for -mode=call, init code for -mode=create")
	inputHex := fs.String("input", "", "hex-encoded calldata")
	mode := fs.String("mode", "call", "execution mode: call or create")
	caller := fs.String("caller", "0x0000000000000000000000000000000000000001", "hex caller address")
	target := fs.String("address", "0x0000000000000000000000000000000000000002", "hex contract address (ignored in create mode)")
	value := fs.String("value", "0", "call/create value, in wei, as a decimal integer")
	callerBalance := fs.String("callerbalance", "1000000000000000000", "wei balance pre-funded to the caller")
	gas := fs.Uint64("gas", 1_000_000, "gas supplied to the call or create")
	verbose := fs.Bool("v", false, "enable debug-level logging")
	logFormat := fs.String("logfmt", "json", "log output format: json, text, or color")
	var storageEntries []storageEntry
	fs.Var(storageFlag{&storageEntries}, "storage", "pre-populate a storage slot as addr:key=value (hex); repeatable")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	switch *logFormat {
	case "json":
		applog.SetDefault(applog.New(level))
	case "text":
		applog.SetDefault(applog.NewWithFormatter(os.Stderr, &applog.TextFormatter{}, level))
	case "color":
		applog.SetDefault(applog.NewWithFormatter(os.Stderr, &applog.ColorFormatter{}, level))
	default:
		fmt.Fprintf(os.Stderr, "evmdebug: -logfmt: must be json, text, or color, got %q\n", *logFormat)
		return 2
	}

	code, err := decodeHex(*codeHex)
	if err != nil {
		fmt.Fprintf(os.Stderr, "evmdebug: -code: %v\n", err)
		return 2
	}
	input, err := decodeHex(*inputHex)
	if err != nil {
		fmt.Fprintf(os.Stderr, "evmdebug: -input: %v\n", err)
		return 2
	}
	val, ok := new(big.Int).SetString(*value, 10)
	if !ok {
		fmt.Fprintf(os.Stderr, "evmdebug: -value: not a decimal integer: %q\n", *value)
		return 2
	}
	bal, ok := new(big.Int).SetString(*callerBalance, 10)
	if !ok {
		fmt.Fprintf(os.Stderr, "evmdebug: -callerbalance: not a decimal integer: %q\n", *callerBalance)
		return 2
	}

	callerAddr := common.HexToAddress(*caller)
	targetAddr := common.HexToAddress(*target)

	state := newMemState()
	state.PutAccountBalance(callerAddr, uint256.MustFromBig(bal))
	for _, e := range storageEntries {
		state.PutContractStorage(e.addr, e.key, e.value)
	}

	evm := newDebugEVM(state)
	uval := uint256.MustFromBig(val)

	applog.Info("evmdebug starting run", "mode", *mode, "caller", callerAddr, "gas", *gas, "value", *value)

	switch *mode {
	case "call":
		state.SetContractCode(targetAddr, code)
		ret, gasLeft, refund, logs, err := evm.Call(callerAddr, targetAddr, input, *gas, uval)
		printResult(ret, *gas-gasLeft, refund, logs, err)
	case "create":
		ret, deployed, gasLeft, refund, logs, err := evm.Create(callerAddr, code, *gas, uval)
		printResult(ret, *gas-gasLeft, refund, logs, err)
		if err == nil {
			fmt.Printf("deployed at:   %s\n", deployed)
		}
	default:
		fmt.Fprintf(os.Stderr, "evmdebug: -mode: must be call or create, got %q\n", *mode)
		return 2
	}
	return 0
}

func printResult(ret []byte, gasUsed uint64, refund uint64, vmLogs []*vm.Log, err error) {
	fmt.Printf("return data:   0x%x\n", ret)
	fmt.Printf("gas used:      %d\n", gasUsed)
	fmt.Printf("refund:        %d\n", refund)
	fmt.Printf("logs:          %d\n", len(vmLogs))
	for i, l := range vmLogs {
		tl := types.FromVMLog(l.Address, l.Topics, l.Data)
		enc, encErr := types.MarshalLogJSON(tl)
		if encErr != nil {
			fmt.Printf("  [%d] <error encoding log: %v>\n", i, encErr)
			continue
		}
		fmt.Printf("  [%d] %s\n", i, enc)
	}
	if err != nil {
		fmt.Printf("error:         %v\n", err)
	}
}

func decodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(s, "0x")
	if s == "" {
		return nil, nil
	}
	return hex.DecodeString(s)
}

// newDebugEVM builds an EVM over a fixed, deterministic block/tx
// context -- there is no real chain behind this tool, so block number,
// base fee, and similar fields are fixed constants rather than
// something a user would plausibly want to tune per run.
func newDebugEVM(state vm.StateManager) *vm.EVM {
	block := vm.BlockContext{
		BlockNumber: uint256.NewInt(1),
		GasLimit:    30_000_000,
		BaseFee:     new(uint256.Int),
		BlobBaseFee: new(uint256.Int),
		ChainID:     uint256.NewInt(1),
	}
	tx := vm.TxContext{GasPrice: new(uint256.Int)}
	return vm.NewEVM(block, tx, state, vm.DefaultFeeSchedule(), vm.Config{})
}
