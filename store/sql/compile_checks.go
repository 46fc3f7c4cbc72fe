package sqlstore

import (
	"github.com/goliatone/go-frontrun/core"
	"github.com/goliatone/go-frontrun/ledger"
)

var (
	_ core.RequestStore       = (*RequestStore)(nil)
	_ core.RequestEventReader = (*RequestStore)(nil)
	_ core.RequestStore       = (*CachedRequestStore)(nil)
	_ core.RequestEventReader = (*CachedRequestStore)(nil)
	_ ledger.BlockStore       = (*BlockStore)(nil)
)
