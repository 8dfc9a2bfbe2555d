package stadium

import (
	"time"

	"stadiumbook/internal/api"

	"github.com/lib/pq"
)

type Stadium struct {
	ID                int            `db:"id" json:"id"`
	OwnerID           int            `db:"owner_id" json:"owner_id"`
	Name              string         `db:"name" json:"name"`
	Description       string         `db:"description" json:"description"`
	Address           string         `db:"address" json:"address"`
	City              string         `db:"city" json:"city"`
	State             string         `db:"state" json:"state"`
	PostalCode        string         `db:"postal_code" json:"postal_code"`
	Country           string         `db:"country" json:"country"`
	Latitude          *float64       `db:"latitude" json:"latitude,omitempty"`
	Longitude         *float64       `db:"longitude" json:"longitude,omitempty"`
	PricePerHourCents int64          `db:"price_per_hour_cents" json:"price_per_hour_cents"`
	SportTypes        pq.StringArray `db:"sport_types" json:"sport_types" swaggertype:"array,string"`
	Facilities        pq.StringArray `db:"facilities" json:"facilities" swaggertype:"array,string"`
	Rules             string         `db:"rules" json:"rules"`
	Capacity          int            `db:"capacity" json:"capacity"`
	ContactPhone      string         `db:"contact_phone" json:"contact_phone"`
	ContactEmail      string         `db:"contact_email" json:"contact_email"`
	IsVerified        bool           `db:"is_verified" json:"is_verified"`
	CreatedAt         time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at" json:"updated_at"`
}

// Listing is a stadium with its owner and review aggregates.
type Listing struct {
	Stadium
	OwnerName     string  `db:"owner_name" json:"owner_name"`
	ReviewCount   int     `db:"review_count" json:"review_count"`
	AverageRating float64 `db:"average_rating" json:"average_rating"`
}

type CreateStadiumRequest struct {
	Name              string   `json:"name" binding:"required,max=255" example:"Riverside Arena"`
	Description       string   `json:"description" binding:"required"`
	Address           string   `json:"address" binding:"required,max=255"`
	City              string   `json:"city" binding:"required,max=128" example:"Leeds"`
	State             string   `json:"state" binding:"max=128"`
	PostalCode        string   `json:"postal_code" binding:"required,max=32"`
	Country           string   `json:"country" binding:"required,max=128"`
	Latitude          *float64 `json:"latitude" binding:"omitempty,latitude"`
	Longitude         *float64 `json:"longitude" binding:"omitempty,longitude"`
	PricePerHourCents int64    `json:"price_per_hour_cents" binding:"required,gt=0" example:"4500"`
	SportTypes        []string `json:"sport_types" binding:"required,min=1,dive,required" example:"football,rugby"`
	Facilities        []string `json:"facilities" binding:"required,dive,required"`
	Rules             string   `json:"rules"`
	Capacity          int      `json:"capacity" binding:"min=0"`
	ContactPhone      string   `json:"contact_phone" binding:"max=64"`
	ContactEmail      string   `json:"contact_email" binding:"omitempty,email"`
}

// UpdateStadiumRequest is a partial update; nil fields are left unchanged.
type UpdateStadiumRequest struct {
	Name              *string  `json:"name" binding:"omitempty,min=1,max=255"`
	Description       *string  `json:"description" binding:"omitempty,min=1"`
	Address           *string  `json:"address" binding:"omitempty,min=1,max=255"`
	City              *string  `json:"city" binding:"omitempty,min=1,max=128"`
	State             *string  `json:"state" binding:"omitempty,max=128"`
	PostalCode        *string  `json:"postal_code" binding:"omitempty,min=1,max=32"`
	Country           *string  `json:"country" binding:"omitempty,min=1,max=128"`
	Latitude          *float64 `json:"latitude" binding:"omitempty,latitude"`
	Longitude         *float64 `json:"longitude" binding:"omitempty,longitude"`
	PricePerHourCents *int64   `json:"price_per_hour_cents" binding:"omitempty,gt=0"`
	SportTypes        []string `json:"sport_types" binding:"omitempty,min=1,dive,required"`
	Facilities        []string `json:"facilities" binding:"omitempty,dive,required"`
	Rules             *string  `json:"rules"`
	Capacity          *int     `json:"capacity" binding:"omitempty,min=0"`
	ContactPhone      *string  `json:"contact_phone" binding:"omitempty,max=64"`
	ContactEmail      *string  `json:"contact_email" binding:"omitempty,email"`
}

// Sort keys accepted by the stadium listing.
const (
	SortNewest    = "newest"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
	SortRating    = "rating"
)

// MaxPage bounds the page number so the offset cannot overflow.
const MaxPage = 100000

// ListFilter narrows the public stadium listing. Prices are in cents.
// Q matches name or city by substring, or a sport type exactly.
type ListFilter struct {
	Q        string `form:"q" binding:"max=255"`
	City     string `form:"city"`
	Sport    string `form:"sport"`
	PriceMin *int64 `form:"priceMin" binding:"omitempty,min=0"`
	PriceMax *int64 `form:"priceMax" binding:"omitempty,min=0"`
	OwnerID  *int   `form:"ownerId" binding:"omitempty,min=1"`
	Sort     string `form:"sort" binding:"omitempty,oneof=newest price-asc price-desc rating"`
	Page     int    `form:"page,default=1" binding:"min=1,max=100000"`
	PageSize int    `form:"pageSize,default=10" binding:"min=1,max=100"`
}

type ListResponse struct {
	Stadiums   []Listing      `json:"stadiums"`
	Pagination api.Pagination `json:"pagination"`
}
