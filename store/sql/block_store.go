package sqlstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-frontrun/ledger"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type BlockStore struct {
	repo repository.Repository[*blockRecord]
}

func NewBlockStore(db *bun.DB) (*BlockStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*blockRecord](db, blockHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid block repository wiring: %w", err)
		}
	}
	return &BlockStore{repo: repo}, nil
}

func (s *BlockStore) SaveBlock(ctx context.Context, header ledger.BlockHeader) error {
	if s == nil || s.repo == nil {
		return fmt.Errorf("sqlstore: block store is not configured")
	}
	if header.Height == 0 {
		return fmt.Errorf("sqlstore: block height is required")
	}
	if strings.TrimSpace(header.ID) == "" {
		header.ID = uuid.NewString()
	}
	_, err := s.repo.Create(ctx, newBlockRecord(header))
	return err
}

func (s *BlockStore) LatestBlock(ctx context.Context) (ledger.BlockHeader, bool, error) {
	headers, err := s.ListBlocks(ctx, 1)
	if err != nil {
		return ledger.BlockHeader{}, false, err
	}
	if len(headers) == 0 {
		return ledger.BlockHeader{}, false, nil
	}
	return headers[0], true, nil
}

// ListBlocks returns the most recent headers first. limit <= 0 returns all.
func (s *BlockStore) ListBlocks(ctx context.Context, limit int) ([]ledger.BlockHeader, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("sqlstore: block store is not configured")
	}
	criteria := []repository.SelectCriteria{repository.OrderBy("height DESC")}
	if limit > 0 {
		criteria = append(criteria, repository.SelectPaginate(limit, 0))
	}
	records, _, err := s.repo.List(ctx, criteria...)
	if err != nil {
		return nil, err
	}
	out := make([]ledger.BlockHeader, 0, len(records))
	for _, record := range records {
		out = append(out, record.toDomain())
	}
	return out, nil
}
