package users

import (
	"context"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFirstProfileBecomesAdmin(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now()

	// the role is decided inside the INSERT, so the store just reports
	// back whatever the CASE subselect picked
	mock.ExpectQuery(`INSERT INTO profiles`).
		WithArgs("first@example.com", "First User", "9841000000", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "role", "created_at", "updated_at"}).
			AddRow(int64(1), RoleAdmin, now, now))

	mock.ExpectQuery(`INSERT INTO profiles`).
		WithArgs("second@example.com", "Second User", "9841000001", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "role", "created_at", "updated_at"}).
			AddRow(int64(2), RoleUser, now, now))

	repo := NewRepository(mock)

	first := &User{Email: "first@example.com", FullName: "First User", Phone: "9841000000"}
	require.NoError(t, first.Password.Set("secret"))
	require.NoError(t, repo.Create(context.Background(), first))
	assert.Equal(t, RoleAdmin, first.Role)
	assert.True(t, first.IsAdmin())

	second := &User{Email: "second@example.com", FullName: "Second User", Phone: "9841000001"}
	require.NoError(t, second.Password.Set("secret"))
	require.NoError(t, repo.Create(context.Background(), second))
	assert.Equal(t, RoleUser, second.Role)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRoleDecisionIsPartOfTheInsert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	// no separate count query may precede the insert
	mock.ExpectQuery(`(?s)INSERT INTO profiles.+CASE WHEN \(SELECT count\(\*\) FROM profiles\) = 0`).
		WithArgs("a@b.c", "A", "9841000000", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "role", "created_at", "updated_at"}).
			AddRow(int64(1), RoleAdmin, time.Now(), time.Now()))

	repo := NewRepository(mock)

	u := &User{Email: "a@b.c", FullName: "A", Phone: "9841000000"}
	require.NoError(t, u.Password.Set("secret"))
	require.NoError(t, repo.Create(context.Background(), u))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPasswordSetAndCompare(t *testing.T) {
	var u User
	require.NoError(t, u.Password.Set("correct horse"))

	assert.NoError(t, u.Password.Compare("correct horse"))
	assert.Error(t, u.Password.Compare("battery staple"))
}
