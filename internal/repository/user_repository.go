package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mdmahmu/toolstun-server/internal/models"
)

type userRepo struct {
	db DB
}

func NewUserRepository(db DB) UserRepository {
	return &userRepo{db: db}
}

// Upsert inserts the user or, when the emailOrUid already exists, refreshes
// its name and timestamp. The role column is never written here.
func (r *userRepo) Upsert(ctx context.Context, u *models.User) (models.UpdateResult, error) {
	u.EmailOrUID = strings.TrimSpace(u.EmailOrUID)
	if u.EmailOrUID == "" {
		return models.UpdateResult{}, fmt.Errorf("%w: emailOrUid cannot be empty", ErrInvalidInput)
	}

	sql := `
		INSERT INTO users (
			email_or_uid,
			name,
			created_at,
			updated_at
		) VALUES ($1, $2, $3, $3)
		ON CONFLICT (email_or_uid) DO UPDATE SET
			name = CASE WHEN EXCLUDED.name = '' THEN users.name ELSE EXCLUDED.name END,
			updated_at = EXCLUDED.updated_at
		RETURNING name, role, created_at, updated_at, (xmax = 0) AS inserted
	`

	var inserted bool
	err := r.db.QueryRow(ctx, sql, u.EmailOrUID, u.Name, time.Now().UTC()).Scan(
		&u.Name,
		&u.Role,
		&u.CreatedAt,
		&u.UpdatedAt,
		&inserted,
	)
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("upsert user: %w", err)
	}

	if inserted {
		return models.UpdateResult{
			Acknowledged:  true,
			UpsertedCount: 1,
			UpsertedID:    u.EmailOrUID,
		}, nil
	}
	return models.Modified(1), nil
}

func (r *userRepo) GetByEmailOrUID(ctx context.Context, emailOrUID string) (*models.User, error) {
	if strings.TrimSpace(emailOrUID) == "" {
		return nil, fmt.Errorf("%w: emailOrUid cannot be empty", ErrInvalidInput)
	}

	sql := `
		SELECT
			email_or_uid,
			name,
			role,
			created_at,
			updated_at
		FROM users WHERE email_or_uid = $1
	`

	var user models.User
	err := r.db.QueryRow(ctx, sql, emailOrUID).Scan(
		&user.EmailOrUID,
		&user.Name,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %q: %w", emailOrUID, err)
	}

	return &user, nil
}

func (r *userRepo) GetAll(ctx context.Context) ([]models.User, error) {
	sql := `
		SELECT
			email_or_uid,
			name,
			role,
			created_at,
			updated_at
		FROM users`

	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to get all users: %w", err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		var u models.User
		err := rows.Scan(
			&u.EmailOrUID,
			&u.Name,
			&u.Role,
			&u.CreatedAt,
			&u.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan users: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to complete row iteration: %w", err)
	}

	return users, nil
}

func (r *userRepo) SetRole(ctx context.Context, emailOrUID, role string) (models.UpdateResult, error) {
	if strings.TrimSpace(emailOrUID) == "" {
		return models.UpdateResult{}, fmt.Errorf("%w: emailOrUid cannot be empty", ErrInvalidInput)
	}

	sql := `UPDATE users
		SET role = $1,
			updated_at = $2
		WHERE email_or_uid = $3`

	result, err := r.db.Exec(ctx, sql, role, time.Now().UTC(), emailOrUID)
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("update role for %q: %w", emailOrUID, err)
	}

	if result.RowsAffected() == 0 {
		return models.UpdateResult{}, ErrUserNotFound
	}

	return models.Modified(result.RowsAffected()), nil
}
