package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/goliatone/go-frontrun/core"
	"github.com/goliatone/go-frontrun/ledger"
	"gopkg.in/yaml.v3"
)

// batchFile is the YAML input for the mine command. Each entry in Blocks is
// mined as one block, in order.
//
//	blocks:
//	  - calls:
//	      - sender: ST1PQHQKV0RJXZFY1DGX8MNSNYVE3VGZJSRTPGZGM
//	        function: create-frontrun-search
//	        args:
//	          - {kind: ascii, text: STX123456}
//	          - {kind: uint, uint: 5000000}
type batchFile struct {
	Blocks []batchBlock `yaml:"blocks"`
}

type batchBlock struct {
	Calls []batchCall `yaml:"calls"`
}

type batchCall struct {
	Sender   string         `yaml:"sender"`
	Contract string         `yaml:"contract"`
	Function string         `yaml:"function"`
	Args     []ledger.Value `yaml:"args"`
}

func parseBatch(r io.Reader) ([][]ledger.Call, error) {
	var file batchFile
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("batch: file is empty")
		}
		return nil, fmt.Errorf("batch: %w", err)
	}
	if len(file.Blocks) == 0 {
		return nil, fmt.Errorf("batch: at least one block is required")
	}

	blocks := make([][]ledger.Call, 0, len(file.Blocks))
	for blockIndex, block := range file.Blocks {
		calls := make([]ledger.Call, 0, len(block.Calls))
		for callIndex, entry := range block.Calls {
			call, err := entry.toCall()
			if err != nil {
				return nil, fmt.Errorf("batch: blocks[%d].calls[%d]: %w", blockIndex, callIndex, err)
			}
			calls = append(calls, call)
		}
		blocks = append(blocks, calls)
	}
	return blocks, nil
}

func (c batchCall) toCall() (ledger.Call, error) {
	sender := core.Principal(strings.TrimSpace(c.Sender))
	if sender.IsZero() {
		return ledger.Call{}, fmt.Errorf("sender is required")
	}
	function := strings.TrimSpace(c.Function)
	if function == "" {
		return ledger.Call{}, fmt.Errorf("function is required")
	}
	args := make([]ledger.Value, 0, len(c.Args))
	for index, arg := range c.Args {
		value, err := normalizeArg(arg)
		if err != nil {
			return ledger.Call{}, fmt.Errorf("args[%d]: %w", index, err)
		}
		args = append(args, value)
	}
	return ledger.ContractCall(strings.TrimSpace(c.Contract), ledger.Function(function), args, sender), nil
}

func normalizeArg(value ledger.Value) (ledger.Value, error) {
	switch ledger.Kind(strings.ToLower(strings.TrimSpace(string(value.Kind)))) {
	case ledger.KindUint:
		return ledger.Uint(value.Uint), nil
	case ledger.KindBool:
		return ledger.Bool(value.Bool), nil
	case ledger.KindASCII:
		return ledger.ASCII(value.Text), nil
	case ledger.KindUTF8:
		return ledger.UTF8(value.Text), nil
	case ledger.KindNone, "":
		return ledger.None(), nil
	default:
		return ledger.Value{}, fmt.Errorf("unsupported argument kind %q", value.Kind)
	}
}
