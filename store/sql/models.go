package sqlstore

import (
	"time"

	"github.com/uptrace/bun"
)

const requestCounterName = "requests"

type requestRecord struct {
	bun.BaseModel `bun:"table:frontrun_requests,alias:fr"`

	ID                int64     `bun:"id,pk"`
	Owner             string    `bun:"owner,notnull"`
	TargetRef         string    `bun:"target_ref,notnull"`
	TargetContract    string    `bun:"target_contract,notnull"`
	Description       string    `bun:"description,notnull"`
	Bounty            string    `bun:"bounty,notnull"`
	Status            string    `bun:"status,notnull"`
	CreatedAtHeight   int64     `bun:"created_at_height,notnull"`
	CancelledAtHeight int64     `bun:"cancelled_at_height,notnull"`
	CreatedAt         time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt         time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

type counterRecord struct {
	bun.BaseModel `bun:"table:frontrun_counters,alias:fc"`

	Name  string `bun:"name,pk"`
	Value int64  `bun:"value,notnull"`
}

type requestEventRecord struct {
	bun.BaseModel `bun:"table:frontrun_request_events,alias:fre"`

	ID          string    `bun:"id,pk"`
	RequestID   int64     `bun:"request_id,notnull"`
	Position    int       `bun:"position,notnull"`
	EventType   string    `bun:"event_type,notnull"`
	Actor       string    `bun:"actor,notnull"`
	BlockHeight int64     `bun:"block_height,notnull"`
	TxIndex     int       `bun:"tx_index,notnull"`
	OccurredAt  time.Time `bun:"occurred_at,nullzero,notnull,default:current_timestamp"`
}

type blockRecord struct {
	bun.BaseModel `bun:"table:frontrun_blocks,alias:fb"`

	ID      string    `bun:"id,pk"`
	Height  int64     `bun:"height,notnull"`
	TxCount int       `bun:"tx_count,notnull"`
	MinedAt time.Time `bun:"mined_at,nullzero,notnull,default:current_timestamp"`
}
