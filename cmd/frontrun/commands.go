package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/goliatone/go-frontrun/core"
	"github.com/goliatone/go-frontrun/ledger"
	"github.com/spf13/cobra"
)

// withRuntime opens the runtime for the duration of fn.
func withRuntime(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, rt *runtime) error) (err error) {
	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	defer cancel()

	rt, err := openRuntime(ctx, opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := rt.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return fn(ctx, rt)
}

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the registry schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(cmd, opts, func(_ context.Context, rt *runtime) error {
				fmt.Fprintf(cmd.OutOrStdout(), "schema ready at height %d\n", rt.chain.Height())
				return nil
			})
		},
	}
}

func newMineCommand(opts *rootOptions) *cobra.Command {
	var batchPath string
	cmd := &cobra.Command{
		Use:   "mine",
		Short: "Mine blocks from a YAML batch file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			blocks, err := readBatch(cmd.InOrStdin(), batchPath)
			if err != nil {
				return err
			}
			return withRuntime(cmd, opts, func(ctx context.Context, rt *runtime) error {
				for _, calls := range blocks {
					block, err := rt.chain.MineBlock(ctx, calls)
					if err != nil {
						return err
					}
					printBlock(cmd.OutOrStdout(), block)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&batchPath, "batch", "-", "batch file path, - for stdin")
	return cmd
}

func newGetCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one search request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRequestID(args[0])
			if err != nil {
				return err
			}
			return withRuntime(cmd, opts, func(ctx context.Context, rt *runtime) error {
				result := rt.chain.CallReadOnly(ctx, "", ledger.FunctionGetSearch, ledger.Uint(uint64(id)))
				fmt.Fprintln(cmd.OutOrStdout(), result.String())
				return nil
			})
		},
	}
}

func newListCommand(opts *rootOptions) *cobra.Command {
	var owner string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List requests created by an owner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(cmd, opts, func(ctx context.Context, rt *runtime) error {
				requests, err := rt.reader.ListRequestsByOwner(ctx, core.Principal(strings.TrimSpace(owner)))
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, request := range requests {
					fmt.Fprintf(out, "u%d %s\n", request.ID, ledger.RequestValue(request))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "owner principal")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}

func newCountCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Show the request counter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(cmd, opts, func(ctx context.Context, rt *runtime) error {
				result := rt.chain.CallReadOnly(ctx, "", ledger.FunctionRequestCount)
				fmt.Fprintln(cmd.OutOrStdout(), result.String())
				return nil
			})
		},
	}
}

func newEventsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "events <id>",
		Short: "Show the lifecycle events of a request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRequestID(args[0])
			if err != nil {
				return err
			}
			return withRuntime(cmd, opts, func(ctx context.Context, rt *runtime) error {
				events, err := rt.reader.ListRequestEvents(ctx, id)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, event := range events {
					fmt.Fprintf(out, "%s actor=%s height=%d tx=%d\n", event.Type, event.Actor, event.BlockHeight, event.TxIndex)
				}
				return nil
			})
		},
	}
}

func newBlocksCommand(opts *rootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "blocks",
		Short: "List mined block headers, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(cmd, opts, func(ctx context.Context, rt *runtime) error {
				headers, err := rt.factory.BlockStore().ListBlocks(ctx, limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, header := range headers {
					fmt.Fprintf(out, "%d %s txs=%d mined_at=%s\n", header.Height, header.ID, header.TxCount, header.MinedAt.Format("2006-01-02T15:04:05Z07:00"))
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum headers to show, 0 for all")
	return cmd
}

func readBatch(stdin io.Reader, path string) ([][]ledger.Call, error) {
	path = strings.TrimSpace(path)
	if path == "" || path == "-" {
		return parseBatch(stdin)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("batch: %w", err)
	}
	defer func() { _ = file.Close() }()
	return parseBatch(file)
}

func parseRequestID(raw string) (core.RequestID, error) {
	value, err := strconv.ParseUint(strings.TrimPrefix(strings.TrimSpace(raw), "u"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid request id %q", raw)
	}
	return core.RequestID(value), nil
}

func printBlock(out io.Writer, block ledger.Block) {
	fmt.Fprintf(out, "block %d (%d txs)\n", block.Height, len(block.Receipts))
	for _, receipt := range block.Receipts {
		fmt.Fprintf(out, "  [%d] %s %s -> %s\n", receipt.TxIndex, receipt.Sender, receipt.Function, receipt.Result)
	}
}
