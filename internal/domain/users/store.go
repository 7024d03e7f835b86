package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"slotbook/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
)

type Store interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, id int64, updates map[string]any) (*User, error)
	List(ctx context.Context) ([]User, error)
	SaveRefreshToken(ctx context.Context, userID int64, token string) error
	GetRefreshToken(ctx context.Context, userID int64) (string, error)
	DeleteRefreshToken(ctx context.Context, userID int64) error
}

type Repository struct {
	db dbx.Querier
}

func NewRepository(q dbx.Querier) Store {
	return &Repository{db: q}
}

const userColumns = `id, email, full_name, phone, role, password, created_at, updated_at`

// Create inserts the profile and assigns its role in the same statement:
// the very first profile in the table becomes the admin account, every
// later one is a regular user.
func (r *Repository) Create(ctx context.Context, user *User) error {
	query := `
	INSERT INTO profiles (email, full_name, phone, role, password)
	VALUES ($1, $2, $3,
		CASE WHEN (SELECT count(*) FROM profiles) = 0 THEN 'admin' ELSE 'user' END,
		$4)
	RETURNING id, role, created_at, updated_at`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	err := r.db.QueryRow(ctx, query,
		user.Email,
		user.FullName,
		user.Phone,
		user.Password.hash,
	).Scan(&user.ID, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "profiles_email_key") {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM profiles WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM profiles WHERE email = $1`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return r.scanOne(r.db.QueryRow(ctx, query, email))
}

// Update applies a partial field set and returns the updated profile.
// Only full_name and phone are writable through this path.
func (r *Repository) Update(ctx context.Context, id int64, updates map[string]any) (*User, error) {
	allowed := map[string]bool{"full_name": true, "phone": true}

	setClauses := []string{"updated_at = now()"}
	args := []any{id}
	for col, val := range updates {
		if !allowed[col] {
			continue
		}
		args = append(args, val)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	query := `UPDATE profiles SET ` + strings.Join(setClauses, ", ") +
		` WHERE id = $1 RETURNING ` + userColumns

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return r.scanOne(r.db.QueryRow(ctx, query, args...))
}

func (r *Repository) List(ctx context.Context) ([]User, error) {
	query := `SELECT ` + userColumns + ` FROM profiles ORDER BY created_at DESC`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.FullName, &u.Phone, &u.Role,
			&u.Password.hash, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

func (r *Repository) SaveRefreshToken(ctx context.Context, userID int64, token string) error {
	query := `UPDATE profiles SET refresh_token = $2, updated_at = now() WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := r.db.Exec(ctx, query, userID, token)
	return err
}

func (r *Repository) GetRefreshToken(ctx context.Context, userID int64) (string, error) {
	query := `SELECT COALESCE(refresh_token, '') FROM profiles WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var token string
	if err := r.db.QueryRow(ctx, query, userID).Scan(&token); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return token, nil
}

func (r *Repository) DeleteRefreshToken(ctx context.Context, userID int64) error {
	query := `UPDATE profiles SET refresh_token = NULL, updated_at = now() WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := r.db.Exec(ctx, query, userID)
	return err
}

func (r *Repository) scanOne(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.Phone, &u.Role,
		&u.Password.hash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
