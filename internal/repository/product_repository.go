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

type productRepo struct {
	db DB
}

func NewProductRepository(db DB) ProductRepository {
	return &productRepo{db: db}
}

const productColumns = `
	product_id,
	name,
	description,
	image,
	price,
	minimum_order,
	quantity,
	sold,
	created_at,
	updated_at`

func scanProduct(row pgx.Row, p *models.Product) error {
	return row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Image,
		&p.Price,
		&p.MinimumOrder,
		&p.Quantity,
		&p.Sold,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

func (r *productRepo) Create(ctx context.Context, p *models.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: product name required", ErrInvalidInput)
	}
	if p.Price < 0 {
		return fmt.Errorf("%w: product price cannot be negative", ErrInvalidInput)
	}

	sql := `
		INSERT INTO products (` + productColumns + `
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	now := time.Now().UTC()
	p.ID = uuid.New()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := r.db.Exec(ctx, sql,
		p.ID,
		p.Name,
		p.Description,
		p.Image,
		p.Price,
		p.MinimumOrder,
		p.Quantity,
		p.Sold,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

func (r *productRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("%w: product ID cannot be empty", ErrInvalidInput)
	}

	sql := `SELECT` + productColumns + `
		FROM products WHERE product_id = $1`

	var product models.Product
	if err := scanProduct(r.db.QueryRow(ctx, sql, id), &product); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product by id %s: %w", id, err)
	}

	return &product, nil
}

func (r *productRepo) GetAll(ctx context.Context) ([]models.Product, error) {
	sql := `SELECT` + productColumns + `
		FROM products`

	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	defer rows.Close()

	products := make([]models.Product, 0)
	for rows.Next() {
		var p models.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan products: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to complete row iteration: %w", err)
	}

	return products, nil
}
