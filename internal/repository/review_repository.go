package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mdmahmu/toolstun-server/internal/models"
)

type reviewRepo struct {
	db DB
}

func NewReviewRepository(db DB) ReviewRepository {
	return &reviewRepo{db: db}
}

func (r *reviewRepo) Create(ctx context.Context, review *models.Review) error {
	if review.Rating < 0 || review.Rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5 when set", ErrInvalidInput)
	}

	sql := `
		INSERT INTO reviews (
			review_id,
			name,
			email_or_uid,
			rating,
			comment,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	review.ID = uuid.New()
	review.CreatedAt = time.Now().UTC()

	_, err := r.db.Exec(ctx, sql,
		review.ID,
		review.Name,
		review.EmailOrUID,
		review.Rating,
		review.Comment,
		review.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

func (r *reviewRepo) GetAll(ctx context.Context) ([]models.Review, error) {
	sql := `
		SELECT
			review_id,
			name,
			email_or_uid,
			rating,
			comment,
			created_at
		FROM reviews`

	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to get all reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]models.Review, 0)
	for rows.Next() {
		var rv models.Review
		err := rows.Scan(
			&rv.ID,
			&rv.Name,
			&rv.EmailOrUID,
			&rv.Rating,
			&rv.Comment,
			&rv.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reviews: %w", err)
		}
		reviews = append(reviews, rv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to complete row iteration: %w", err)
	}

	return reviews, nil
}
