package pushtokens

import (
	"context"
	"encoding/json"

	"slotbook/internal/infra/dbx"
)

type Store interface {
	AddOrUpdate(ctx context.Context, userID int64, token string, deviceInfo json.RawMessage) error
	Remove(ctx context.Context, userID int64, token string) error
	GetByUserID(ctx context.Context, userID int64) ([]string, error)
}

type Repository struct {
	db dbx.Querier
}

func NewRepository(q dbx.Querier) Store {
	return &Repository{db: q}
}

// AddOrUpdate upserts a device token; re-registering refreshes the
// device info and the last_updated stamp.
func (r *Repository) AddOrUpdate(ctx context.Context, userID int64, token string, deviceInfo json.RawMessage) error {
	query := `
	INSERT INTO user_push_tokens (user_id, expo_push_token, device_info, last_updated)
	VALUES ($1, $2, $3, now())
	ON CONFLICT (user_id, expo_push_token)
	DO UPDATE SET device_info = EXCLUDED.device_info, last_updated = now()`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := r.db.Exec(ctx, query, userID, token, deviceInfo)
	return err
}

func (r *Repository) Remove(ctx context.Context, userID int64, token string) error {
	query := `DELETE FROM user_push_tokens WHERE user_id = $1 AND expo_push_token = $2`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := r.db.Exec(ctx, query, userID, token)
	return err
}

func (r *Repository) GetByUserID(ctx context.Context, userID int64) ([]string, error) {
	query := `SELECT expo_push_token FROM user_push_tokens WHERE user_id = $1`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}
