package stadium

import "context"

type Repository interface {
	Create(ctx context.Context, s *Stadium) error
	GetByID(ctx context.Context, id int) (*Stadium, error)
	GetListing(ctx context.Context, id int) (*Listing, error)
	List(ctx context.Context, f ListFilter) ([]Listing, int, error)
	Update(ctx context.Context, s *Stadium) error
	Delete(ctx context.Context, id int) error
}
