package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"stadiumbook/internal/db"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrBookingConflict = errors.New("time slot is already booked")
	// ErrStatusChanged means another request moved the booking first.
	ErrStatusChanged = errors.New("booking status changed concurrently")
)

const bookingColumns = `b.id, b.stadium_id, b.user_id, b.start_time, b.end_time, b.status,
	b.total_price_cents, b.special_requests, b.created_at, b.updated_at`

const detailsSelect = `SELECT ` + bookingColumns + `,
	s.name AS stadium_name,
	s.address AS stadium_address,
	s.city AS stadium_city,
	s.postal_code AS stadium_postal_code,
	s.owner_id AS stadium_owner_id,
	u.name AS user_name,
	u.email AS user_email
FROM bookings b
JOIN stadiums s ON s.id = b.stadium_id
JOIN users u ON u.id = b.user_id`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func statusArray(statuses []Status) pq.StringArray {
	out := make(pq.StringArray, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

// lockStadium serialises overlap checks for one stadium until the transaction ends.
func lockStadium(ctx context.Context, tx *sqlx.Tx, stadiumID int) error {
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, stadiumID); err != nil {
		return fmt.Errorf("lock stadium %d: %w", stadiumID, err)
	}
	return nil
}

func hasOverlap(ctx context.Context, tx *sqlx.Tx, stadiumID int, start, end time.Time, blocking []Status, excludeID int) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM bookings
			WHERE stadium_id = $1
			  AND status = ANY($2)
			  AND start_time < $3
			  AND end_time > $4
			  AND id <> $5
		)`

	overlap, err := db.Exists(ctx, tx, query, stadiumID, statusArray(blocking), end, start, excludeID)
	if err != nil {
		return false, fmt.Errorf("check overlap: %w", err)
	}
	return overlap, nil
}

func mapWriteError(err error) error {
	if db.IsPgError(err, db.CodeExclusionViolation) {
		return ErrBookingConflict
	}
	return err
}

func (r *repository) Create(ctx context.Context, b *Booking, blocking []Status) error {
	target := b.Status
	if target == "" {
		target = StatusPending
	}

	return db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := lockStadium(ctx, tx, b.StadiumID); err != nil {
			return err
		}

		overlap, err := hasOverlap(ctx, tx, b.StadiumID, b.StartTime, b.EndTime, blocking, 0)
		if err != nil {
			return err
		}
		if overlap {
			return ErrBookingConflict
		}

		insert := `
			INSERT INTO bookings (stadium_id, user_id, start_time, end_time, status,
				total_price_cents, special_requests)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at, updated_at`

		err = tx.QueryRowxContext(ctx, insert, b.StadiumID, b.UserID, b.StartTime, b.EndTime,
			string(StatusPending), b.TotalPriceCents, b.SpecialRequests).
			Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert booking: %w", mapWriteError(err))
		}
		b.Status = StatusPending

		if target == StatusPending {
			return nil
		}
		return promote(ctx, tx, b, target)
	})
}

func promote(ctx context.Context, tx *sqlx.Tx, b *Booking, to Status) error {
	if err := Transition(b.Status, to); err != nil {
		return err
	}

	query := `
		UPDATE bookings
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
		RETURNING updated_at`

	err := tx.GetContext(ctx, &b.UpdatedAt, query, string(to), b.ID, string(b.Status))
	if errors.Is(err, sql.ErrNoRows) {
		return ErrStatusChanged
	}
	if err != nil {
		return fmt.Errorf("update booking status: %w", mapWriteError(err))
	}

	b.Status = to
	return nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*BookingWithDetails, error) {
	query := detailsSelect + ` WHERE b.id = $1`

	var b BookingWithDetails
	err := r.db.GetContext(ctx, &b, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return &b, nil
}

func (r *repository) ListForUser(ctx context.Context, userID int, f ListFilter) ([]BookingWithDetails, error) {
	conds := []string{"b.user_id = $1"}
	args := []interface{}{userID}

	if f.Status != "" {
		args = append(args, string(f.Status))
		conds = append(conds, fmt.Sprintf("b.status = $%d", len(args)))
	}
	if f.StadiumID > 0 {
		args = append(args, f.StadiumID)
		conds = append(conds, fmt.Sprintf("b.stadium_id = $%d", len(args)))
	}

	query := detailsSelect + ` WHERE ` + strings.Join(conds, " AND ") + ` ORDER BY b.start_time DESC`

	bookings := []BookingWithDetails{}
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, fmt.Errorf("list user bookings: %w", err)
	}
	return bookings, nil
}

func (r *repository) ListForStadium(ctx context.Context, stadiumID int, status Status) ([]BookingWithDetails, error) {
	query := detailsSelect + ` WHERE b.stadium_id = $1`
	args := []interface{}{stadiumID}
	if status != "" {
		query += ` AND b.status = $2`
		args = append(args, string(status))
	}
	query += ` ORDER BY b.start_time DESC`

	bookings := []BookingWithDetails{}
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, fmt.Errorf("list stadium bookings: %w", err)
	}
	return bookings, nil
}

func (r *repository) TransitionStatus(ctx context.Context, b *Booking, to Status, blocking []Status) error {
	if err := Transition(b.Status, to); err != nil {
		return err
	}

	return db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if to == StatusConfirmed {
			if err := lockStadium(ctx, tx, b.StadiumID); err != nil {
				return err
			}
			overlap, err := hasOverlap(ctx, tx, b.StadiumID, b.StartTime, b.EndTime, blocking, b.ID)
			if err != nil {
				return err
			}
			if overlap {
				return ErrBookingConflict
			}
		}
		return promote(ctx, tx, b, to)
	})
}

func (r *repository) CompleteEnded(ctx context.Context, now time.Time) ([]Booking, error) {
	query := `
		UPDATE bookings
		SET status = $1, updated_at = NOW()
		WHERE status = $2 AND end_time <= $3
		RETURNING id, stadium_id, user_id, start_time, end_time, status,
			total_price_cents, special_requests, created_at, updated_at`

	completed := []Booking{}
	err := r.db.SelectContext(ctx, &completed, query, string(StatusCompleted), string(StatusConfirmed), now)
	if err != nil {
		return nil, fmt.Errorf("complete ended bookings: %w", err)
	}
	return completed, nil
}
