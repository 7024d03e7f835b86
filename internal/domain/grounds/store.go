package grounds

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"slotbook/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
)

type Store interface {
	List(ctx context.Context, filter Filter) ([]Ground, error)
	GetByID(ctx context.Context, id int64) (*Ground, error)
	Create(ctx context.Context, ground *Ground) error
	Update(ctx context.Context, id int64, updates map[string]any) (*Ground, error)
}

type Repository struct {
	db dbx.Querier
}

func NewRepository(q dbx.Querier) Store {
	return &Repository{db: q}
}

// List returns grounds ordered by ground number, optionally narrowed to
// one venue and/or one sport.
func (r *Repository) List(ctx context.Context, filter Filter) ([]Ground, error) {
	query := `
	SELECT id, venue_id, name, sport_type, ground_number, created_at
	FROM grounds`

	var where []string
	var args []any
	if filter.VenueID != nil {
		args = append(args, *filter.VenueID)
		where = append(where, fmt.Sprintf("venue_id = $%d", len(args)))
	}
	if filter.SportType != nil {
		args = append(args, *filter.SportType)
		where = append(where, fmt.Sprintf("sport_type = $%d", len(args)))
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY ground_number ASC"

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Ground
	for rows.Next() {
		var g Ground
		if err := rows.Scan(&g.ID, &g.VenueID, &g.Name, &g.SportType, &g.GroundNumber, &g.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, g)
	}
	return list, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Ground, error) {
	query := `
	SELECT id, venue_id, name, sport_type, ground_number, created_at
	FROM grounds
	WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var g Ground
	err := r.db.QueryRow(ctx, query, id).Scan(
		&g.ID, &g.VenueID, &g.Name, &g.SportType, &g.GroundNumber, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (r *Repository) Create(ctx context.Context, ground *Ground) error {
	query := `
	INSERT INTO grounds (venue_id, name, sport_type, ground_number)
	VALUES ($1, $2, $3, $4)
	RETURNING id, created_at`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return r.db.QueryRow(ctx, query,
		ground.VenueID, ground.Name, ground.SportType, ground.GroundNumber,
	).Scan(&ground.ID, &ground.CreatedAt)
}

func (r *Repository) Update(ctx context.Context, id int64, updates map[string]any) (*Ground, error) {
	allowed := map[string]bool{"name": true, "ground_number": true}

	var setClauses []string
	args := []any{id}
	for col, val := range updates {
		if !allowed[col] {
			continue
		}
		args = append(args, val)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if len(setClauses) == 0 {
		return r.GetByID(ctx, id)
	}

	query := `UPDATE grounds SET ` + strings.Join(setClauses, ", ") +
		` WHERE id = $1 RETURNING id, venue_id, name, sport_type, ground_number, created_at`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var g Ground
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&g.ID, &g.VenueID, &g.Name, &g.SportType, &g.GroundNumber, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}
