package venues

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"slotbook/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
)

type Store interface {
	List(ctx context.Context) ([]Venue, error)
	GetByID(ctx context.Context, id int64) (*Venue, error)
	Create(ctx context.Context, venue *Venue) error
	Update(ctx context.Context, id int64, updates map[string]any) (*Venue, error)
	AddPhotoURL(ctx context.Context, id int64, url string) error
	RemovePhotoURL(ctx context.Context, id int64, url string) error
}

type Repository struct {
	db dbx.Querier
}

func NewRepository(q dbx.Querier) Store {
	return &Repository{db: q}
}

// List returns venues in creation order, oldest first.
func (r *Repository) List(ctx context.Context) ([]Venue, error) {
	query := `
	SELECT id, name, address, description, photo_urls, created_at
	FROM venues
	ORDER BY created_at ASC`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Venue
	for rows.Next() {
		var v Venue
		if err := rows.Scan(&v.ID, &v.Name, &v.Address, &v.Description, &v.PhotoURLs, &v.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Venue, error) {
	query := `
	SELECT id, name, address, description, photo_urls, created_at
	FROM venues
	WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var v Venue
	err := r.db.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.Name, &v.Address, &v.Description, &v.PhotoURLs, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *Repository) Create(ctx context.Context, venue *Venue) error {
	query := `
	INSERT INTO venues (name, address, description, photo_urls)
	VALUES ($1, $2, $3, COALESCE($4, '{}'))
	RETURNING id, created_at`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return r.db.QueryRow(ctx, query,
		venue.Name, venue.Address, venue.Description, venue.PhotoURLs,
	).Scan(&venue.ID, &venue.CreatedAt)
}

func (r *Repository) Update(ctx context.Context, id int64, updates map[string]any) (*Venue, error) {
	allowed := map[string]bool{"name": true, "address": true, "description": true}

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

	query := `UPDATE venues SET ` + strings.Join(setClauses, ", ") +
		` WHERE id = $1 RETURNING id, name, address, description, photo_urls, created_at`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var v Venue
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&v.ID, &v.Name, &v.Address, &v.Description, &v.PhotoURLs, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *Repository) AddPhotoURL(ctx context.Context, id int64, url string) error {
	query := `UPDATE venues SET photo_urls = array_append(photo_urls, $2) WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := r.db.Exec(ctx, query, id, url)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) RemovePhotoURL(ctx context.Context, id int64, url string) error {
	query := `UPDATE venues SET photo_urls = array_remove(photo_urls, $2) WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := r.db.Exec(ctx, query, id, url)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
