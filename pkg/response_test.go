package pkg

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func constraintDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	for _, stmt := range []string{
		`PRAGMA foreign_keys = ON`,
		`CREATE TABLE users (id INTEGER PRIMARY KEY, email TEXT NOT NULL UNIQUE)`,
		`CREATE TABLE tokens (id INTEGER PRIMARY KEY, user_id INTEGER NOT NULL REFERENCES users(id))`,
		`INSERT INTO users (id, email) VALUES (1, 'a@b.co')`,
	} {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	return db
}

func TestConstraintViolations(t *testing.T) {
	db := constraintDB(t)

	_, uniqueErr := db.Exec(`INSERT INTO users (email) VALUES ('a@b.co')`)
	require.Error(t, uniqueErr)
	assert.True(t, IsUniqueViolation(uniqueErr))
	assert.True(t, IsUniqueViolation(fmt.Errorf("failed to create user: %w", uniqueErr)))
	assert.False(t, IsForeignKeyViolation(uniqueErr))

	_, fkErr := db.Exec(`INSERT INTO tokens (user_id) VALUES (99)`)
	require.Error(t, fkErr)
	assert.True(t, IsForeignKeyViolation(fkErr))
	assert.False(t, IsUniqueViolation(fkErr))

	// Aynı metni taşıyan ama driver'dan gelmeyen hata eşleşmez.
	assert.False(t, IsUniqueViolation(errors.New("UNIQUE constraint failed: users.email")))
	assert.False(t, IsUniqueViolation(nil))
}

func TestError_MapsStatus(t *testing.T) {
	db := constraintDB(t)
	_, uniqueErr := db.Exec(`INSERT INTO users (email) VALUES ('a@b.co')`)
	require.Error(t, uniqueErr)

	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"wrapped sentinel", fmt.Errorf("%w: Course not found", ErrNotFound), http.StatusNotFound, "Course not found"},
		{"bare sentinel", ErrForbidden, http.StatusForbidden, "forbidden"},
		{"unique violation", uniqueErr, http.StatusConflict, "A record with this information already exists"},
		{"unknown error", errors.New("disk I/O error"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Error(rec, httptest.NewRequest(http.MethodGet, "/api/v1/courses/1", nil), tt.err)

			assert.Equal(t, tt.status, rec.Code)
			var body ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.status, body.StatusCode)
			assert.Equal(t, tt.message, body.Message)
			assert.Equal(t, "/api/v1/courses/1", body.Path)
		})
	}
}
