package slots

import (
	"context"
	"errors"

	"slotbook/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
)

type Store interface {
	ListByGroundAndDate(ctx context.Context, groundID int64, date string) ([]TimeSlot, error)
	ListAvailable(ctx context.Context, sportType, date string, venueID *int64) ([]AvailableSlot, error)
	GetByID(ctx context.Context, id int64) (*TimeSlot, error)
	UpdatePrice(ctx context.Context, id int64, price float64) (*TimeSlot, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*TimeSlot, error)
	MarkBooked(ctx context.Context, id int64) error
	RefreshHotSelling(ctx context.Context) error
}

type Repository struct {
	db dbx.Querier
}

func NewRepository(q dbx.Querier) Store {
	return &Repository{db: q}
}

const slotColumns = `id, ground_id, date, start_time, end_time, price, status, is_hot_selling, created_at`

func (r *Repository) ListByGroundAndDate(ctx context.Context, groundID int64, date string) ([]TimeSlot, error) {
	query := `
	SELECT ` + slotColumns + `
	FROM time_slots
	WHERE ground_id = $1 AND date = $2
	ORDER BY start_time ASC`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, query, groundID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []TimeSlot
	for rows.Next() {
		var s TimeSlot
		if err := scanSlot(rows, &s); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// ListAvailable returns free slots for a sport on a date across venues,
// or within one venue when venueID is set.
func (r *Repository) ListAvailable(ctx context.Context, sportType, date string, venueID *int64) ([]AvailableSlot, error) {
	query := `
	SELECT ts.id, ts.ground_id, ts.date, ts.start_time, ts.end_time, ts.price,
	       ts.status, ts.is_hot_selling, ts.created_at,
	       g.name, g.sport_type, v.id, v.name
	FROM time_slots ts
	JOIN grounds g ON g.id = ts.ground_id
	JOIN venues v ON v.id = g.venue_id
	WHERE ts.date = $1 AND ts.status = 'available' AND g.sport_type = $2`

	args := []any{date, sportType}
	if venueID != nil {
		args = append(args, *venueID)
		query += ` AND v.id = $3`
	}
	query += ` ORDER BY ts.start_time ASC`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []AvailableSlot
	for rows.Next() {
		var s AvailableSlot
		if err := rows.Scan(&s.ID, &s.GroundID, &s.Date, &s.StartTime, &s.EndTime,
			&s.Price, &s.Status, &s.IsHotSelling, &s.CreatedAt,
			&s.GroundName, &s.SportType, &s.VenueID, &s.VenueName); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*TimeSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM time_slots WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var s TimeSlot
	if err := scanSlot(r.db.QueryRow(ctx, query, id), &s); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *Repository) UpdatePrice(ctx context.Context, id int64, price float64) (*TimeSlot, error) {
	query := `
	UPDATE time_slots SET price = $2
	WHERE id = $1
	RETURNING ` + slotColumns

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var s TimeSlot
	if err := scanSlot(r.db.QueryRow(ctx, query, id, price), &s); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id int64, status string) (*TimeSlot, error) {
	query := `
	UPDATE time_slots SET status = $2
	WHERE id = $1
	RETURNING ` + slotColumns

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var s TimeSlot
	if err := scanSlot(r.db.QueryRow(ctx, query, id, status), &s); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// MarkBooked flips the slot to booked only if it is still available.
// The precondition makes the available -> booked transition happen at
// most once even under concurrent submissions.
func (r *Repository) MarkBooked(ctx context.Context, id int64) error {
	query := `
	UPDATE time_slots SET status = 'booked'
	WHERE id = $1 AND status = 'available'`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotAvailable
	}
	return nil
}

// RefreshHotSelling recomputes the hot-selling flag for upcoming slots:
// a free slot is hot when most of its ground's slots for that date are
// already taken.
func (r *Repository) RefreshHotSelling(ctx context.Context) error {
	query := `
	UPDATE time_slots ts SET is_hot_selling = sub.hot
	FROM (
		SELECT id,
		       (COUNT(*) FILTER (WHERE status <> 'available') OVER w)::float
		       / GREATEST(COUNT(*) OVER w, 1) >= 0.7 AS hot
		FROM time_slots
		WHERE date >= CURRENT_DATE
		WINDOW w AS (PARTITION BY ground_id, date)
	) sub
	WHERE ts.id = sub.id AND ts.status = 'available' AND ts.is_hot_selling <> sub.hot`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := r.db.Exec(ctx, query)
	return err
}

func scanSlot(row pgx.Row, s *TimeSlot) error {
	return row.Scan(&s.ID, &s.GroundID, &s.Date, &s.StartTime, &s.EndTime,
		&s.Price, &s.Status, &s.IsHotSelling, &s.CreatedAt)
}
