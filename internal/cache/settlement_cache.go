package cache

import (
	"context"

	"github.com/google/uuid"

	"github.com/mdmahmu/toolstun-server/internal/models"
	"github.com/mdmahmu/toolstun-server/internal/repository"
)

// Invalidator drops cached state for one product.
type Invalidator interface {
	Invalidate(ctx context.Context, id uuid.UUID)
}

// InvalidatingSettlementRepository evicts the settled product from the cache
// once the settlement has committed.
type InvalidatingSettlementRepository struct {
	realRepo repository.SettlementRepository
	cache    Invalidator
}

func NewInvalidatingSettlementRepository(realRepo repository.SettlementRepository, cache Invalidator) *InvalidatingSettlementRepository {
	return &InvalidatingSettlementRepository{realRepo: realRepo, cache: cache}
}

func (r *InvalidatingSettlementRepository) Settle(ctx context.Context, s models.Settlement) (*models.SettlementResult, error) {
	result, err := r.realRepo.Settle(ctx, s)
	if err != nil {
		return nil, err
	}

	r.cache.Invalidate(ctx, s.ProductID)
	return result, nil
}
