package availability

import (
	"context"
	"fmt"
	"time"

	"stadiumbook/internal/db"

	"github.com/jmoiron/sqlx"
)

const slotColumns = `id, stadium_id, is_recurring, day_of_week,
	to_char(specific_date, 'YYYY-MM-DD') AS specific_date, start_time, end_time, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListSlots(ctx context.Context, stadiumID int) ([]Slot, error) {
	query := `SELECT ` + slotColumns + `
		FROM availability_slots
		WHERE stadium_id = $1
		ORDER BY is_recurring DESC, day_of_week, specific_date, start_time`

	slots := []Slot{}
	if err := r.db.SelectContext(ctx, &slots, query, stadiumID); err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	return slots, nil
}

// ReplaceSlots swaps the whole slot configuration of a stadium atomically.
func (r *repository) ReplaceSlots(ctx context.Context, stadiumID int, slots []Slot) ([]Slot, error) {
	insert := `
		INSERT INTO availability_slots (stadium_id, is_recurring, day_of_week, specific_date, start_time, end_time)
		VALUES ($1, $2, $3, $4::date, $5, $6)
		RETURNING ` + slotColumns

	saved := make([]Slot, 0, len(slots))
	err := db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM availability_slots WHERE stadium_id = $1`, stadiumID); err != nil {
			return fmt.Errorf("clear slots: %w", err)
		}

		for _, s := range slots {
			var out Slot
			if err := tx.GetContext(ctx, &out, insert,
				stadiumID, s.IsRecurring, s.DayOfWeek, s.SpecificDate, s.StartTime, s.EndTime,
			); err != nil {
				return fmt.Errorf("insert slot: %w", err)
			}
			saved = append(saved, out)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// ListBookedRanges returns CONFIRMED and PENDING bookings lying entirely within [from, to].
func (r *repository) ListBookedRanges(ctx context.Context, stadiumID int, from, to time.Time) ([]BookedRange, error) {
	query := `
		SELECT start_time, end_time
		FROM bookings
		WHERE stadium_id = $1
		  AND status IN ('CONFIRMED', 'PENDING')
		  AND start_time >= $2
		  AND end_time <= $3
		ORDER BY start_time`

	ranges := []BookedRange{}
	if err := r.db.SelectContext(ctx, &ranges, query, stadiumID, from, to); err != nil {
		return nil, fmt.Errorf("list booked ranges: %w", err)
	}
	return ranges, nil
}
