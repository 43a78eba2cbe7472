package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mdmahmu/toolstun-server/internal/models"
)

// DB is the part of *pgxpool.Pool the repositories use.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetAll(ctx context.Context) ([]models.Review, error)
}

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetAll(ctx context.Context) ([]models.Product, error)
}

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetByOwner(ctx context.Context, emailOrUID string) ([]models.Order, error)
	Delete(ctx context.Context, id uuid.UUID) (models.DeleteResult, error)
}

type UserRepository interface {
	Upsert(ctx context.Context, user *models.User) (models.UpdateResult, error)
	GetByEmailOrUID(ctx context.Context, emailOrUID string) (*models.User, error)
	GetAll(ctx context.Context) ([]models.User, error)
	SetRole(ctx context.Context, emailOrUID, role string) (models.UpdateResult, error)
}

// SettlementRepository applies a paid order to stock and to the order record
// as one unit: either both change or neither does.
type SettlementRepository interface {
	Settle(ctx context.Context, settlement models.Settlement) (*models.SettlementResult, error)
}
