package stadium

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

var ErrStadiumNotFound = errors.New("stadium not found")

const stadiumColumns = `s.id, s.owner_id, s.name, s.description, s.address, s.city, s.state,
	s.postal_code, s.country, s.latitude, s.longitude, s.price_per_hour_cents,
	s.sport_types, s.facilities, s.rules, s.capacity, s.contact_phone,
	s.contact_email, s.is_verified, s.created_at, s.updated_at`

const listingSelect = `SELECT ` + stadiumColumns + `,
	u.name AS owner_name,
	COUNT(r.id) AS review_count,
	COALESCE(AVG(r.rating), 0)::float8 AS average_rating
FROM stadiums s
JOIN users u ON u.id = s.owner_id
LEFT JOIN reviews r ON r.stadium_id = s.id`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, s *Stadium) error {
	query := `
		INSERT INTO stadiums (owner_id, name, description, address, city, state, postal_code,
			country, latitude, longitude, price_per_hour_cents, sport_types, facilities,
			rules, capacity, contact_phone, contact_email)
		VALUES (:owner_id, :name, :description, :address, :city, :state, :postal_code,
			:country, :latitude, :longitude, :price_per_hour_cents, :sport_types, :facilities,
			:rules, :capacity, :contact_phone, :contact_email)
		RETURNING id, is_verified, created_at, updated_at`

	rows, err := r.db.NamedQueryContext(ctx, query, s)
	if err != nil {
		return fmt.Errorf("insert stadium: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&s.ID, &s.IsVerified, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return fmt.Errorf("scan stadium: %w", err)
		}
	}
	return rows.Err()
}

func (r *repository) GetByID(ctx context.Context, id int) (*Stadium, error) {
	query := `SELECT ` + stadiumColumns + ` FROM stadiums s WHERE s.id = $1`

	var s Stadium
	err := r.db.GetContext(ctx, &s, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStadiumNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get stadium: %w", err)
	}
	return &s, nil
}

func (r *repository) GetListing(ctx context.Context, id int) (*Listing, error) {
	query := listingSelect + ` WHERE s.id = $1 GROUP BY s.id, u.name`

	var l Listing
	err := r.db.GetContext(ctx, &l, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStadiumNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get stadium listing: %w", err)
	}
	return &l, nil
}

// orderings maps the public sort keys to ORDER BY clauses. Rating ranks by
// number of reviews.
var orderings = map[string]string{
	SortNewest:    "s.created_at DESC, s.id DESC",
	SortPriceAsc:  "s.price_per_hour_cents ASC, s.id DESC",
	SortPriceDesc: "s.price_per_hour_cents DESC, s.id DESC",
	SortRating:    "review_count DESC, s.created_at DESC, s.id DESC",
}

func orderBy(sort string) string {
	if clause, ok := orderings[sort]; ok {
		return clause
	}
	return orderings[SortNewest]
}

// buildWhere turns a filter into a WHERE clause and its positional args.
// Text matches use strpos so % and _ in user input stay literal.
func buildWhere(f ListFilter) (string, []interface{}) {
	var conds []string
	var args []interface{}

	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if q := strings.TrimSpace(f.Q); q != "" {
		add("(strpos(lower(s.name), lower($%[1]d)) > 0 OR strpos(lower(s.city), lower($%[1]d)) > 0 OR $%[1]d = ANY(s.sport_types))", q)
	}
	if city := strings.TrimSpace(f.City); city != "" {
		add("strpos(lower(s.city), lower($%d)) > 0", city)
	}
	if sport := strings.TrimSpace(f.Sport); sport != "" {
		add("$%d = ANY(s.sport_types)", sport)
	}
	if f.PriceMin != nil {
		add("s.price_per_hour_cents >= $%d", *f.PriceMin)
	}
	if f.PriceMax != nil {
		add("s.price_per_hour_cents <= $%d", *f.PriceMax)
	}
	if f.OwnerID != nil {
		add("s.owner_id = $%d", *f.OwnerID)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]Listing, int, error) {
	where, args := buildWhere(f)

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM stadiums s`+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count stadiums: %w", err)
	}

	query := listingSelect + where + fmt.Sprintf(
		` GROUP BY s.id, u.name ORDER BY %s LIMIT $%d OFFSET $%d`,
		orderBy(f.Sort), len(args)+1, len(args)+2,
	)
	args = append(args, f.PageSize, (f.Page-1)*f.PageSize)

	listings := []Listing{}
	if err := r.db.SelectContext(ctx, &listings, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list stadiums: %w", err)
	}

	return listings, total, nil
}

func (r *repository) Update(ctx context.Context, s *Stadium) error {
	query := `
		UPDATE stadiums SET
			name = :name, description = :description, address = :address, city = :city,
			state = :state, postal_code = :postal_code, country = :country,
			latitude = :latitude, longitude = :longitude,
			price_per_hour_cents = :price_per_hour_cents, sport_types = :sport_types,
			facilities = :facilities, rules = :rules, capacity = :capacity,
			contact_phone = :contact_phone, contact_email = :contact_email,
			updated_at = NOW()
		WHERE id = :id`

	res, err := r.db.NamedExecContext(ctx, query, s)
	if err != nil {
		return fmt.Errorf("update stadium: %w", err)
	}
	return expectOne(res)
}

// Delete removes a stadium; bookings, slots and reviews go with it via cascade.
func (r *repository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM stadiums WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete stadium: %w", err)
	}
	return expectOne(res)
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrStadiumNotFound
	}
	return nil
}
