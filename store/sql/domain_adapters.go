package sqlstore

import (
	"fmt"
	"strconv"

	"github.com/goliatone/go-frontrun/core"
	"github.com/goliatone/go-frontrun/ledger"
)

// Bounty is stored as decimal text: SQLite integers are signed and cannot
// hold the full uint64 range.
func newRequestRecord(id uint64, in core.NewRequestRecord) *requestRecord {
	return &requestRecord{
		ID:              int64(id),
		Owner:           in.Owner.String(),
		TargetRef:       in.TargetRef,
		TargetContract:  in.TargetContract,
		Description:     in.Description,
		Bounty:          strconv.FormatUint(in.Bounty, 10),
		Status:          string(core.RequestStatusOpen),
		CreatedAtHeight: int64(in.Call.BlockHeight),
		CreatedAt:       in.CreatedAt,
		UpdatedAt:       in.CreatedAt,
	}
}

func (r *requestRecord) toDomain() (core.Request, error) {
	if r == nil {
		return core.Request{}, nil
	}
	bounty, err := strconv.ParseUint(r.Bounty, 10, 64)
	if err != nil {
		return core.Request{}, fmt.Errorf("sqlstore: request %d has malformed bounty %q: %w", r.ID, r.Bounty, err)
	}
	status, err := core.ParseRequestStatus(r.Status)
	if err != nil {
		return core.Request{}, fmt.Errorf("sqlstore: request %d: %w", r.ID, err)
	}
	return core.Request{
		ID:                core.RequestID(r.ID),
		Owner:             core.Principal(r.Owner),
		TargetRef:         r.TargetRef,
		TargetContract:    r.TargetContract,
		Description:       r.Description,
		Bounty:            bounty,
		Status:            status,
		CreatedAtHeight:   uint64(r.CreatedAtHeight),
		CancelledAtHeight: uint64(r.CancelledAtHeight),
		CreatedAt:         r.CreatedAt.UTC(),
		UpdatedAt:         r.UpdatedAt.UTC(),
	}, nil
}

func (r *requestEventRecord) toDomain() core.RequestEvent {
	if r == nil {
		return core.RequestEvent{}
	}
	return core.RequestEvent{
		ID:          r.ID,
		RequestID:   core.RequestID(r.RequestID),
		Type:        core.RequestEventType(r.EventType),
		Actor:       core.Principal(r.Actor),
		BlockHeight: uint64(r.BlockHeight),
		TxIndex:     r.TxIndex,
		OccurredAt:  r.OccurredAt.UTC(),
	}
}

func newBlockRecord(header ledger.BlockHeader) *blockRecord {
	return &blockRecord{
		ID:      header.ID,
		Height:  int64(header.Height),
		TxCount: header.TxCount,
		MinedAt: header.MinedAt,
	}
}

func (r *blockRecord) toDomain() ledger.BlockHeader {
	if r == nil {
		return ledger.BlockHeader{}
	}
	return ledger.BlockHeader{
		ID:      r.ID,
		Height:  uint64(r.Height),
		TxCount: r.TxCount,
		MinedAt: r.MinedAt.UTC(),
	}
}
