package events

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mdmahmu/toolstun-server/internal/models"
	"github.com/mdmahmu/toolstun-server/internal/repository"
)

// PublishingSettlementRepository announces every committed settlement.
// A failed publish is logged and never fails the settlement.
type PublishingSettlementRepository struct {
	realRepo  repository.SettlementRepository
	publisher Publisher
	now       func() time.Time
}

func NewPublishingSettlementRepository(realRepo repository.SettlementRepository, publisher Publisher) *PublishingSettlementRepository {
	return &PublishingSettlementRepository{
		realRepo:  realRepo,
		publisher: publisher,
		now:       time.Now,
	}
}

func (r *PublishingSettlementRepository) Settle(ctx context.Context, s models.Settlement) (*models.SettlementResult, error) {
	result, err := r.realRepo.Settle(ctx, s)
	if err != nil {
		return nil, err
	}

	ev := NewSettlementEvent(s, result, r.now())
	if err := r.publisher.PublishSettlement(ctx, ev); err != nil {
		zap.L().Warn("failed to publish settlement event",
			zap.String("orderId", s.OrderID.String()),
			zap.String("transactionId", s.TransactionID),
			zap.Error(err),
		)
	}

	return result, nil
}
