package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mdmahmu/toolstun-server/internal/models"
)

const operationOutgoing = "outgoing"

type settlementRepo struct {
	db DB
}

func NewSettlementRepository(db DB) SettlementRepository {
	return &settlementRepo{db: db}
}

func (r *settlementRepo) Settle(ctx context.Context, s models.Settlement) (*models.SettlementResult, error) {
	if s.ProductID == uuid.Nil || s.OrderID == uuid.Nil {
		return nil, fmt.Errorf("%w: product and order IDs are required", ErrInvalidInput)
	}
	if s.Bought <= 0 {
		return nil, fmt.Errorf("%w: bought must be positive", ErrInvalidInput)
	}
	if strings.TrimSpace(s.TransactionID) == "" {
		return nil, fmt.Errorf("%w: transaction ID cannot be empty", ErrInvalidInput)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	result, err := settle(ctx, tx, s)
	if err != nil {
		_ = tx.Rollback(ctx)
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit settlement: %w", err)
	}

	return result, nil
}

func settle(ctx context.Context, tx pgx.Tx, s models.Settlement) (*models.SettlementResult, error) {
	lock := `SELECT quantity, sold FROM products WHERE product_id = $1 FOR UPDATE`

	var quantity, sold models.Count
	if err := tx.QueryRow(ctx, lock, s.ProductID).Scan(&quantity, &sold); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to lock product %s: %w", s.ProductID, err)
	}

	newQuantity, newSold := models.ApplySale(quantity, sold, s.Bought)
	now := time.Now().UTC()

	updateProduct := `UPDATE products SET quantity = $1, sold = $2, updated_at = $3 WHERE product_id = $4`
	productTag, err := tx.Exec(ctx, updateProduct, newQuantity, newSold, now, s.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to update product %s: %w", s.ProductID, err)
	}

	updateOrder := `UPDATE orders SET transaction_id = $1, paid = TRUE, updated_at = $2 WHERE order_id = $3`
	orderTag, err := tx.Exec(ctx, updateOrder, s.TransactionID, now, s.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to update order %s: %w", s.OrderID, err)
	}
	if orderTag.RowsAffected() == 0 {
		return nil, ErrOrderNotFound
	}

	insertOperation := `INSERT INTO stock_operations (product_id, order_id, operation_type, change_quant, transaction_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err = tx.Exec(ctx, insertOperation, s.ProductID, s.OrderID, operationOutgoing, -s.Bought, s.TransactionID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to record stock operation: %w", err)
	}

	return &models.SettlementResult{
		Product:  models.Modified(productTag.RowsAffected()),
		Order:    models.Modified(orderTag.RowsAffected()),
		Quantity: newQuantity,
		Sold:     newSold,
	}, nil
}
