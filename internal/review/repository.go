package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"stadiumbook/internal/db"

	"github.com/jmoiron/sqlx"
)

var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrAlreadyReviewed = errors.New("user has already reviewed this stadium")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, rv *Review) error {
	query := `
		INSERT INTO reviews (stadium_id, user_id, rating, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowxContext(ctx, query, rv.StadiumID, rv.UserID, rv.Rating, rv.Content).
		Scan(&rv.ID, &rv.CreatedAt)
	if db.IsPgError(err, db.CodeUniqueViolation) {
		return ErrAlreadyReviewed
	}
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Review, error) {
	query := `
		SELECT id, stadium_id, user_id, rating, content, created_at
		FROM reviews
		WHERE id = $1`

	var rv Review
	err := r.db.GetContext(ctx, &rv, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReviewNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get review: %w", err)
	}
	return &rv, nil
}

func (r *repository) ListForStadium(ctx context.Context, stadiumID int) ([]ReviewWithAuthor, error) {
	query := `
		SELECT r.id, r.stadium_id, r.user_id, r.rating, r.content, r.created_at,
			u.name AS user_name
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.stadium_id = $1
		ORDER BY r.created_at DESC`

	reviews := []ReviewWithAuthor{}
	if err := r.db.SelectContext(ctx, &reviews, query, stadiumID); err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

func (r *repository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrReviewNotFound
	}
	return nil
}
