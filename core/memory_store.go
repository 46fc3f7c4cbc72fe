package core

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRequestStore keeps requests in process memory. Every method holds the
// store lock for its whole duration, so each write is atomic.
type MemoryRequestStore struct {
	mu       sync.Mutex
	counter  uint64
	requests map[RequestID]Request
	events   map[RequestID][]RequestEvent
}

func NewMemoryRequestStore() *MemoryRequestStore {
	return &MemoryRequestStore{
		requests: map[RequestID]Request{},
		events:   map[RequestID][]RequestEvent{},
	}
}

func (s *MemoryRequestStore) Create(_ context.Context, in NewRequestRecord) (Request, error) {
	if s == nil {
		return Request{}, fmt.Errorf("core: memory request store is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counter++
	request := Request{
		ID:              RequestID(s.counter),
		Owner:           in.Owner,
		TargetRef:       in.TargetRef,
		TargetContract:  in.TargetContract,
		Description:     in.Description,
		Bounty:          in.Bounty,
		Status:          RequestStatusOpen,
		CreatedAtHeight: in.Call.BlockHeight,
		CreatedAt:       in.CreatedAt,
		UpdatedAt:       in.CreatedAt,
	}
	s.requests[request.ID] = request
	s.appendEventLocked(request.ID, RequestEventCreated, in.Owner, in.Call, in.CreatedAt)
	return request, nil
}

func (s *MemoryRequestStore) Get(_ context.Context, id RequestID) (Request, error) {
	if s == nil {
		return Request{}, fmt.Errorf("core: memory request store is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	request, ok := s.requests[id]
	if !ok {
		return Request{}, fmt.Errorf("%w: request %s", ErrRequestNotFound, id)
	}
	return request, nil
}

func (s *MemoryRequestStore) Mutate(
	_ context.Context,
	id RequestID,
	call CallInfo,
	fn func(*Request) error,
) (Request, error) {
	if s == nil {
		return Request{}, fmt.Errorf("core: memory request store is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.requests[id]
	if !ok {
		return Request{}, fmt.Errorf("%w: request %s", ErrRequestNotFound, id)
	}
	next := current
	if fn != nil {
		if err := fn(&next); err != nil {
			return Request{}, err
		}
	}
	if err := CheckImmutableFields(current, next); err != nil {
		return Request{}, err
	}
	s.requests[id] = next
	if current.Status != next.Status && next.Status == RequestStatusCancelled {
		s.appendEventLocked(id, RequestEventCancelled, call.Sender, call, next.UpdatedAt)
	}
	return next, nil
}

func (s *MemoryRequestStore) ListByOwner(_ context.Context, owner Principal) ([]Request, error) {
	if s == nil {
		return nil, fmt.Errorf("core: memory request store is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Request, 0)
	for _, request := range s.requests {
		if request.Owner == owner {
			out = append(out, request)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryRequestStore) Count(context.Context) (uint64, error) {
	if s == nil {
		return 0, fmt.Errorf("core: memory request store is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counter, nil
}

func (s *MemoryRequestStore) ListEvents(_ context.Context, id RequestID) ([]RequestEvent, error) {
	if s == nil {
		return nil, fmt.Errorf("core: memory request store is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RequestEvent(nil), s.events[id]...), nil
}

func (s *MemoryRequestStore) appendEventLocked(
	id RequestID,
	eventType RequestEventType,
	actor Principal,
	call CallInfo,
	at time.Time,
) {
	event := RequestEvent{
		ID:          uuid.NewString(),
		RequestID:   id,
		Type:        eventType,
		Actor:       actor,
		BlockHeight: call.BlockHeight,
		TxIndex:     call.TxIndex,
		OccurredAt:  at,
	}
	s.events[id] = append(s.events[id], event)
}

// CheckImmutableFields rejects a mutation that touched anything besides the
// lifecycle fields.
func CheckImmutableFields(before, after Request) error {
	if before.ID != after.ID ||
		before.Owner != after.Owner ||
		before.TargetRef != after.TargetRef ||
		before.TargetContract != after.TargetContract ||
		before.Description != after.Description ||
		before.Bounty != after.Bounty ||
		before.CreatedAtHeight != after.CreatedAtHeight {
		return fmt.Errorf("core: request %s immutable fields changed", before.ID)
	}
	return nil
}

var (
	_ RequestStore       = (*MemoryRequestStore)(nil)
	_ RequestEventReader = (*MemoryRequestStore)(nil)
)
