package review

import "context"

type Repository interface {
	Create(ctx context.Context, r *Review) error
	GetByID(ctx context.Context, id int) (*Review, error)
	ListForStadium(ctx context.Context, stadiumID int) ([]ReviewWithAuthor, error)
	Delete(ctx context.Context, id int) error
}
