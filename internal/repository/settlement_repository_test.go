package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdmahmu/toolstun-server/internal/models"
)

func lockRows(quantity, sold models.Count) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"quantity", "sold"}).AddRow(quantity, sold)
}

func TestSettleCommitsStockAndOrder(t *testing.T) {
	mock := newMock(t)
	repo := NewSettlementRepository(mock)

	productID, orderID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WithArgs(productID).WillReturnRows(lockRows(10, 2))
	mock.ExpectExec("UPDATE products").
		WithArgs(models.Count(7), models.Count(5), pgxmock.AnyArg(), productID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE orders").
		WithArgs("pi_123", pgxmock.AnyArg(), orderID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("INSERT INTO stock_operations").
		WithArgs(productID, orderID, operationOutgoing, models.Count(-3), "pi_123", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	res, err := repo.Settle(context.Background(), models.Settlement{
		ProductID:     productID,
		OrderID:       orderID,
		Bought:        3,
		TransactionID: "pi_123",
	})
	require.NoError(t, err)

	assert.Equal(t, models.Count(7), res.Quantity)
	assert.Equal(t, models.Count(5), res.Sold)
	assert.Equal(t, models.Modified(1), res.Product)
	assert.Equal(t, models.Modified(1), res.Order)
}

func TestSettleOversellLeavesNegativeStock(t *testing.T) {
	mock := newMock(t)
	repo := NewSettlementRepository(mock)

	productID, orderID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WithArgs(productID).WillReturnRows(lockRows(2, 0))
	mock.ExpectExec("UPDATE products").
		WithArgs(models.Count(-3), models.Count(5), pgxmock.AnyArg(), productID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE orders").
		WithArgs("pi_over", pgxmock.AnyArg(), orderID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("INSERT INTO stock_operations").
		WithArgs(anyArgs(6)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	res, err := repo.Settle(context.Background(), models.Settlement{
		ProductID:     productID,
		OrderID:       orderID,
		Bought:        5,
		TransactionID: "pi_over",
	})
	require.NoError(t, err)
	assert.Equal(t, models.Count(-3), res.Quantity)
}

func TestSettleMissingOrderRollsBackProductUpdate(t *testing.T) {
	mock := newMock(t)
	repo := NewSettlementRepository(mock)

	productID, orderID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WithArgs(productID).WillReturnRows(lockRows(10, 2))
	mock.ExpectExec("UPDATE products").
		WithArgs(models.Count(7), models.Count(5), pgxmock.AnyArg(), productID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE orders").
		WithArgs("pi_123", pgxmock.AnyArg(), orderID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	_, err := repo.Settle(context.Background(), models.Settlement{
		ProductID:     productID,
		OrderID:       orderID,
		Bought:        3,
		TransactionID: "pi_123",
	})
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestSettleMissingProduct(t *testing.T) {
	mock := newMock(t)
	repo := NewSettlementRepository(mock)

	productID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WithArgs(productID).WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.Settle(context.Background(), models.Settlement{
		ProductID:     productID,
		OrderID:       uuid.New(),
		Bought:        1,
		TransactionID: "pi_1",
	})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestSettleOrderUpdateFailureRollsBack(t *testing.T) {
	mock := newMock(t)
	repo := NewSettlementRepository(mock)

	productID, orderID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WithArgs(productID).WillReturnRows(lockRows(10, 2))
	mock.ExpectExec("UPDATE products").
		WithArgs(anyArgs(4)...).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE orders").
		WithArgs(anyArgs(3)...).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := repo.Settle(context.Background(), models.Settlement{
		ProductID:     productID,
		OrderID:       orderID,
		Bought:        3,
		TransactionID: "pi_123",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestSettleValidatesInput(t *testing.T) {
	repo := NewSettlementRepository(newMock(t))

	tests := []struct {
		name string
		in   models.Settlement
	}{
		{name: "no product", in: models.Settlement{OrderID: uuid.New(), Bought: 1, TransactionID: "pi"}},
		{name: "no order", in: models.Settlement{ProductID: uuid.New(), Bought: 1, TransactionID: "pi"}},
		{name: "zero bought", in: models.Settlement{ProductID: uuid.New(), OrderID: uuid.New(), TransactionID: "pi"}},
		{name: "no transaction", in: models.Settlement{ProductID: uuid.New(), OrderID: uuid.New(), Bought: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.Settle(context.Background(), tt.in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
