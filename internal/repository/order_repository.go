package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mdmahmu/toolstun-server/internal/models"
)

const foreignKeyViolation = "23503"

type orderRepo struct {
	db DB
}

func NewOrderRepository(db DB) OrderRepository {
	return &orderRepo{db: db}
}

const orderColumns = `
	order_id,
	email_or_uid,
	product_id,
	product_name,
	quantity,
	price,
	name,
	address,
	phone,
	paid,
	transaction_id,
	created_at,
	updated_at`

func scanOrder(row pgx.Row, o *models.Order) error {
	return row.Scan(
		&o.ID,
		&o.EmailOrUID,
		&o.ProductID,
		&o.ProductName,
		&o.Quantity,
		&o.Price,
		&o.Name,
		&o.Address,
		&o.Phone,
		&o.Paid,
		&o.TransactionID,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
}

func (r *orderRepo) Create(ctx context.Context, o *models.Order) error {
	if o == nil {
		return fmt.Errorf("%w: order cannot be nil", ErrInvalidInput)
	}
	if strings.TrimSpace(o.EmailOrUID) == "" {
		return fmt.Errorf("%w: order owner cannot be empty", ErrInvalidInput)
	}
	if o.ProductID == uuid.Nil {
		return fmt.Errorf("%w: product ID cannot be empty", ErrInvalidInput)
	}

	sql := `
		INSERT INTO orders (` + orderColumns + `
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	now := time.Now().UTC()
	o.ID = uuid.New()
	o.Paid = false
	o.TransactionID = ""
	o.CreatedAt = now
	o.UpdatedAt = now

	_, err := r.db.Exec(ctx, sql,
		o.ID,
		o.EmailOrUID,
		o.ProductID,
		o.ProductName,
		o.Quantity,
		o.Price,
		o.Name,
		o.Address,
		o.Phone,
		o.Paid,
		o.TransactionID,
		o.CreatedAt,
		o.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return fmt.Errorf("%w: %s", ErrProductNotFound, o.ProductID)
		}
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("%w: order ID cannot be empty", ErrInvalidInput)
	}

	sql := `SELECT` + orderColumns + `
		FROM orders WHERE order_id = $1`

	var order models.Order
	if err := scanOrder(r.db.QueryRow(ctx, sql, id), &order); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order %s: %w", id, err)
	}

	return &order, nil
}

func (r *orderRepo) GetByOwner(ctx context.Context, emailOrUID string) ([]models.Order, error) {
	if strings.TrimSpace(emailOrUID) == "" {
		return nil, fmt.Errorf("%w: owner cannot be empty", ErrInvalidInput)
	}

	sql := `SELECT` + orderColumns + `
		FROM orders
		WHERE email_or_uid = $1`

	rows, err := r.db.Query(ctx, sql, emailOrUID)
	if err != nil {
		return nil, fmt.Errorf("failed to get orders by owner: %w", err)
	}
	defer rows.Close()

	orders := make([]models.Order, 0)
	for rows.Next() {
		var o models.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, fmt.Errorf("failed to scan orders by owner: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to complete row iteration: %w", err)
	}

	return orders, nil
}

func (r *orderRepo) Delete(ctx context.Context, id uuid.UUID) (models.DeleteResult, error) {
	if id == uuid.Nil {
		return models.DeleteResult{}, fmt.Errorf("%w: order ID cannot be empty", ErrInvalidInput)
	}

	sql := `DELETE FROM orders WHERE order_id = $1`

	result, err := r.db.Exec(ctx, sql, id)
	if err != nil {
		return models.DeleteResult{}, fmt.Errorf("failed to delete order %s: %w", id, err)
	}

	return models.DeleteResult{Acknowledged: true, DeletedCount: result.RowsAffected()}, nil
}
