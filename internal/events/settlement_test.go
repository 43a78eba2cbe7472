package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdmahmu/toolstun-server/internal/models"
)

type recordingPublisher struct {
	events []SettlementEvent
	err    error
}

func (p *recordingPublisher) PublishSettlement(_ context.Context, ev SettlementEvent) error {
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

type stubSettlements struct {
	result *models.SettlementResult
	err    error
}

func (s stubSettlements) Settle(context.Context, models.Settlement) (*models.SettlementResult, error) {
	return s.result, s.err
}

func sampleSettlement() models.Settlement {
	return models.Settlement{
		ProductID:     uuid.New(),
		OrderID:       uuid.New(),
		Bought:        3,
		TransactionID: "pi_123",
	}
}

func TestPublishAfterSettle(t *testing.T) {
	pub := &recordingPublisher{}
	res := &models.SettlementResult{Product: models.Modified(1), Order: models.Modified(1), Quantity: 7, Sold: 5}
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	repo := NewPublishingSettlementRepository(stubSettlements{result: res}, pub)
	repo.now = func() time.Time { return at }

	s := sampleSettlement()
	got, err := repo.Settle(context.Background(), s)
	require.NoError(t, err)
	assert.Same(t, res, got)

	require.Len(t, pub.events, 1)
	ev := pub.events[0]
	assert.Equal(t, TypeOrderSettled, ev.Type)
	assert.Equal(t, s.OrderID, ev.OrderID)
	assert.Equal(t, models.Count(7), ev.Quantity)
	assert.Equal(t, models.Count(5), ev.Sold)
	assert.Equal(t, at, ev.SettledAt)
}

func TestPublishFailureDoesNotFailSettlement(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	repo := NewPublishingSettlementRepository(stubSettlements{result: &models.SettlementResult{}}, pub)

	_, err := repo.Settle(context.Background(), sampleSettlement())
	require.NoError(t, err)
	assert.Len(t, pub.events, 1)
}

func TestNoPublishWhenSettleFails(t *testing.T) {
	pub := &recordingPublisher{}
	repo := NewPublishingSettlementRepository(stubSettlements{err: errors.New("rolled back")}, pub)

	_, err := repo.Settle(context.Background(), sampleSettlement())
	require.Error(t, err)
	assert.Empty(t, pub.events)
}

func TestSettlementEventJSON(t *testing.T) {
	s := sampleSettlement()
	ev := NewSettlementEvent(s, &models.SettlementResult{Quantity: -2, Sold: 12}, time.Unix(0, 0))

	raw, err := json.Marshal(ev)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "order.settled", decoded["type"])
	assert.Equal(t, s.ProductID.String(), decoded["productId"])
	assert.Equal(t, "pi_123", decoded["transactionId"])
	assert.EqualValues(t, -2, decoded["quantity"])
	assert.EqualValues(t, 3, decoded["bought"])
}

func TestNoop(t *testing.T) {
	var p Publisher = Noop{}
	assert.NoError(t, p.PublishSettlement(context.Background(), SettlementEvent{}))
	assert.NoError(t, p.Close())
}
