package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-frontrun/core"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RequestStore persists requests, the request counter and the audit trail.
// Create and Mutate each run in one transaction.
type RequestStore struct {
	db        *bun.DB
	eventRepo repository.Repository[*requestEventRecord]
}

func NewRequestStore(db *bun.DB) (*RequestStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	eventRepo := repository.NewRepository[*requestEventRecord](db, requestEventHandlers())
	if validator, ok := eventRepo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid request event repository wiring: %w", err)
		}
	}
	return &RequestStore{db: db, eventRepo: eventRepo}, nil
}

func (s *RequestStore) Create(ctx context.Context, in core.NewRequestRecord) (core.Request, error) {
	if s == nil || s.db == nil {
		return core.Request{}, fmt.Errorf("sqlstore: request store is not configured")
	}
	createdAt := in.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	in.CreatedAt = createdAt

	var created core.Request
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		next, err := s.nextIDTx(ctx, tx)
		if err != nil {
			return err
		}
		record := newRequestRecord(next, in)
		if _, err := tx.NewInsert().Model(record).Exec(ctx); err != nil {
			return err
		}
		if err := s.appendEventTx(ctx, tx, record.ID, core.RequestEventCreated, in.Owner, in.Call, createdAt); err != nil {
			return err
		}
		created, err = record.toDomain()
		return err
	})
	if err != nil {
		return core.Request{}, err
	}
	return created, nil
}

func (s *RequestStore) Get(ctx context.Context, id core.RequestID) (core.Request, error) {
	if s == nil || s.db == nil {
		return core.Request{}, fmt.Errorf("sqlstore: request store is not configured")
	}
	record, err := s.loadTx(ctx, s.db, id)
	if err != nil {
		return core.Request{}, err
	}
	return record.toDomain()
}

func (s *RequestStore) Mutate(
	ctx context.Context,
	id core.RequestID,
	call core.CallInfo,
	fn func(*core.Request) error,
) (core.Request, error) {
	if s == nil || s.db == nil {
		return core.Request{}, fmt.Errorf("sqlstore: request store is not configured")
	}

	var updated core.Request
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		record, err := s.loadTx(ctx, tx, id)
		if err != nil {
			return err
		}
		current, err := record.toDomain()
		if err != nil {
			return err
		}
		next := current
		if fn != nil {
			if err := fn(&next); err != nil {
				return err
			}
		}
		if err := core.CheckImmutableFields(current, next); err != nil {
			return err
		}

		_, err = tx.NewUpdate().
			Model((*requestRecord)(nil)).
			Set("status = ?", string(next.Status)).
			Set("cancelled_at_height = ?", int64(next.CancelledAtHeight)).
			Set("updated_at = ?", next.UpdatedAt).
			Where("id = ?", int64(id)).
			Exec(ctx)
		if err != nil {
			return err
		}
		if current.Status != next.Status && next.Status == core.RequestStatusCancelled {
			if err := s.appendEventTx(ctx, tx, int64(id), core.RequestEventCancelled, call.Sender, call, next.UpdatedAt); err != nil {
				return err
			}
		}
		updated = next
		return nil
	})
	if err != nil {
		return core.Request{}, err
	}
	return updated, nil
}

func (s *RequestStore) ListByOwner(ctx context.Context, owner core.Principal) ([]core.Request, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("sqlstore: request store is not configured")
	}
	var records []requestRecord
	err := s.db.NewSelect().
		Model(&records).
		Where("owner = ?", owner.String()).
		OrderExpr("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]core.Request, 0, len(records))
	for i := range records {
		request, err := records[i].toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, request)
	}
	return out, nil
}

func (s *RequestStore) Count(ctx context.Context) (uint64, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("sqlstore: request store is not configured")
	}
	var counter counterRecord
	err := s.db.NewSelect().
		Model(&counter).
		Where("name = ?", requestCounterName).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return uint64(counter.Value), nil
}

func (s *RequestStore) ListEvents(ctx context.Context, id core.RequestID) ([]core.RequestEvent, error) {
	if s == nil || s.eventRepo == nil {
		return nil, fmt.Errorf("sqlstore: request store is not configured")
	}
	records, _, err := s.eventRepo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("request_id = ?", int64(id))
		}),
		repository.OrderBy("position ASC"),
	)
	if err != nil {
		return nil, err
	}
	out := make([]core.RequestEvent, 0, len(records))
	for _, record := range records {
		out = append(out, record.toDomain())
	}
	return out, nil
}

// nextIDTx increments the request counter. The UPDATE takes the row lock
// before the read on databases that support row locking.
func (s *RequestStore) nextIDTx(ctx context.Context, tx bun.Tx) (uint64, error) {
	result, err := tx.NewUpdate().
		Model((*counterRecord)(nil)).
		Set("value = value + 1").
		Where("name = ?", requestCounterName).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		seed := &counterRecord{Name: requestCounterName, Value: 1}
		if _, err := tx.NewInsert().Model(seed).Exec(ctx); err != nil {
			return 0, err
		}
		return 1, nil
	}

	var counter counterRecord
	if err := tx.NewSelect().Model(&counter).Where("name = ?", requestCounterName).Limit(1).Scan(ctx); err != nil {
		return 0, err
	}
	return uint64(counter.Value), nil
}

func (s *RequestStore) loadTx(ctx context.Context, db bun.IDB, id core.RequestID) (*requestRecord, error) {
	record := &requestRecord{}
	err := db.NewSelect().
		Model(record).
		Where("id = ?", int64(id)).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: request %s", core.ErrRequestNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (s *RequestStore) appendEventTx(
	ctx context.Context,
	tx bun.Tx,
	requestID int64,
	eventType core.RequestEventType,
	actor core.Principal,
	call core.CallInfo,
	at time.Time,
) error {
	position, err := tx.NewSelect().
		Model((*requestEventRecord)(nil)).
		Where("request_id = ?", requestID).
		Count(ctx)
	if err != nil {
		return err
	}
	record := &requestEventRecord{
		ID:          uuid.NewString(),
		RequestID:   requestID,
		Position:    position,
		EventType:   string(eventType),
		Actor:       actor.String(),
		BlockHeight: int64(call.BlockHeight),
		TxIndex:     call.TxIndex,
		OccurredAt:  at,
	}
	_, err = s.eventRepo.CreateTx(ctx, tx, record)
	return err
}
