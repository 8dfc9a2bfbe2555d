package review

import (
	"context"
	"errors"
	"strings"

	"stadiumbook/internal/auth"
	"stadiumbook/internal/stadium"
)

var ErrForbidden = errors.New("forbidden")

// StadiumFinder is the part of the stadium store reviews need.
type StadiumFinder interface {
	GetByID(ctx context.Context, id int) (*stadium.Stadium, error)
}

type Service interface {
	Create(ctx context.Context, id auth.Identity, stadiumID int, req CreateReviewRequest) (*Review, error)
	List(ctx context.Context, stadiumID int) ([]ReviewWithAuthor, error)
	Delete(ctx context.Context, id auth.Identity, reviewID int) error
}

type service struct {
	repo     Repository
	stadiums StadiumFinder
}

func NewService(repo Repository, stadiums StadiumFinder) Service {
	return &service{repo: repo, stadiums: stadiums}
}

func (s *service) Create(ctx context.Context, id auth.Identity, stadiumID int, req CreateReviewRequest) (*Review, error) {
	if _, err := s.stadiums.GetByID(ctx, stadiumID); err != nil {
		return nil, err
	}

	rv := &Review{
		StadiumID: stadiumID,
		UserID:    id.UserID,
		Rating:    req.Rating,
		Content:   strings.TrimSpace(req.Content),
	}
	if err := s.repo.Create(ctx, rv); err != nil {
		return nil, err
	}
	return rv, nil
}

func (s *service) List(ctx context.Context, stadiumID int) ([]ReviewWithAuthor, error) {
	if _, err := s.stadiums.GetByID(ctx, stadiumID); err != nil {
		return nil, err
	}
	return s.repo.ListForStadium(ctx, stadiumID)
}

// Delete removes a review. Only its author or an admin may do so.
func (s *service) Delete(ctx context.Context, id auth.Identity, reviewID int) error {
	rv, err := s.repo.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if rv.UserID != id.UserID && !id.IsAdmin() {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, reviewID)
}
