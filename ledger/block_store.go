package ledger

import (
	"context"
	"sort"
	"sync"
)

// BlockStore persists mined block headers so a chain can resume from the
// last height.
type BlockStore interface {
	SaveBlock(ctx context.Context, header BlockHeader) error
	LatestBlock(ctx context.Context) (BlockHeader, bool, error)
	ListBlocks(ctx context.Context, limit int) ([]BlockHeader, error)
}

type MemoryBlockStore struct {
	mu     sync.Mutex
	blocks []BlockHeader
}

func NewMemoryBlockStore() *MemoryBlockStore {
	return &MemoryBlockStore{}
}

func (s *MemoryBlockStore) SaveBlock(_ context.Context, header BlockHeader) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blocks = append(s.blocks, header)
	return nil
}

func (s *MemoryBlockStore) LatestBlock(context.Context) (BlockHeader, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.blocks) == 0 {
		return BlockHeader{}, false, nil
	}
	latest := s.blocks[0]
	for _, header := range s.blocks[1:] {
		if header.Height > latest.Height {
			latest = header
		}
	}
	return latest, true, nil
}

// ListBlocks returns the most recent headers first. limit <= 0 returns all.
func (s *MemoryBlockStore) ListBlocks(_ context.Context, limit int) ([]BlockHeader, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]BlockHeader(nil), s.blocks...)
	sort.Slice(out, func(i, j int) bool { return out[i].Height > out[j].Height })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var _ BlockStore = (*MemoryBlockStore)(nil)
