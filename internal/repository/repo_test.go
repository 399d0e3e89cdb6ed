package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"serenity-backend/internal/database"
	"serenity-backend/internal/models"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func createTestUser(t *testing.T, users *UserRepo, email string) *models.User {
	t.Helper()

	user := &models.User{Name: "Test User", Email: email, PasswordHash: "x"}
	require.NoError(t, users.Create(context.Background(), user))
	require.NotZero(t, user.ID)

	return user
}
