package core

import "context"

// CallInfo describes the ledger call a registry operation runs under.
type CallInfo struct {
	BlockHeight uint64
	TxIndex     int
	Sender      Principal
}

type callInfoKey struct{}

func ContextWithCallInfo(ctx context.Context, info CallInfo) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, callInfoKey{}, info)
}

// CallInfoFromContext returns the zero CallInfo outside a mined block.
func CallInfoFromContext(ctx context.Context) CallInfo {
	if ctx == nil {
		return CallInfo{}
	}
	info, _ := ctx.Value(callInfoKey{}).(CallInfo)
	return info
}
