package stadium

import (
	"context"
	"errors"
	"strings"

	"stadiumbook/internal/api"
	"stadiumbook/internal/auth"
)

var ErrForbidden = errors.New("forbidden")

type Service interface {
	Create(ctx context.Context, id auth.Identity, req CreateStadiumRequest) (*Stadium, error)
	List(ctx context.Context, f ListFilter) (*ListResponse, error)
	Get(ctx context.Context, stadiumID int) (*Listing, error)
	Update(ctx context.Context, id auth.Identity, stadiumID int, req UpdateStadiumRequest) (*Stadium, error)
	Delete(ctx context.Context, id auth.Identity, stadiumID int) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// normalizeSet trims entries and drops blanks and duplicates, keeping first-seen order.
func normalizeSet(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}

func (s *service) Create(ctx context.Context, id auth.Identity, req CreateStadiumRequest) (*Stadium, error) {
	if id.Role != auth.RoleStadiumOwner {
		return nil, ErrForbidden
	}

	st := &Stadium{
		OwnerID:           id.UserID,
		Name:              strings.TrimSpace(req.Name),
		Description:       req.Description,
		Address:           req.Address,
		City:              strings.TrimSpace(req.City),
		State:             req.State,
		PostalCode:        req.PostalCode,
		Country:           req.Country,
		Latitude:          req.Latitude,
		Longitude:         req.Longitude,
		PricePerHourCents: req.PricePerHourCents,
		SportTypes:        normalizeSet(req.SportTypes),
		Facilities:        normalizeSet(req.Facilities),
		Rules:             req.Rules,
		Capacity:          req.Capacity,
		ContactPhone:      req.ContactPhone,
		ContactEmail:      req.ContactEmail,
	}

	if err := s.repo.Create(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *service) List(ctx context.Context, f ListFilter) (*ListResponse, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Page > MaxPage {
		f.Page = MaxPage
	}
	if f.PageSize < 1 {
		f.PageSize = 10
	}

	listings, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}

	return &ListResponse{
		Stadiums:   listings,
		Pagination: api.NewPagination(f.Page, f.PageSize, total),
	}, nil
}

func (s *service) Get(ctx context.Context, stadiumID int) (*Listing, error) {
	return s.repo.GetListing(ctx, stadiumID)
}

func (s *service) Update(ctx context.Context, id auth.Identity, stadiumID int, req UpdateStadiumRequest) (*Stadium, error) {
	st, err := s.repo.GetByID(ctx, stadiumID)
	if err != nil {
		return nil, err
	}
	if !id.CanManage(st.OwnerID) {
		return nil, ErrForbidden
	}

	applyUpdate(st, req)

	if err := s.repo.Update(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func applyUpdate(st *Stadium, req UpdateStadiumRequest) {
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	setString(&st.Name, req.Name)
	setString(&st.Description, req.Description)
	setString(&st.Address, req.Address)
	setString(&st.City, req.City)
	setString(&st.State, req.State)
	setString(&st.PostalCode, req.PostalCode)
	setString(&st.Country, req.Country)
	setString(&st.Rules, req.Rules)
	setString(&st.ContactPhone, req.ContactPhone)
	setString(&st.ContactEmail, req.ContactEmail)

	if req.Latitude != nil {
		st.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		st.Longitude = req.Longitude
	}
	if req.PricePerHourCents != nil {
		st.PricePerHourCents = *req.PricePerHourCents
	}
	if req.Capacity != nil {
		st.Capacity = *req.Capacity
	}
	if req.SportTypes != nil {
		st.SportTypes = normalizeSet(req.SportTypes)
	}
	if req.Facilities != nil {
		st.Facilities = normalizeSet(req.Facilities)
	}
}

func (s *service) Delete(ctx context.Context, id auth.Identity, stadiumID int) error {
	st, err := s.repo.GetByID(ctx, stadiumID)
	if err != nil {
		return err
	}
	if !id.CanManage(st.OwnerID) {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, stadiumID)
}
