package helper

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}

	assert.True(t, IsUniqueViolation(unique))
	assert.True(t, IsUniqueViolation(unique, "users_email_key"))
	assert.True(t, IsUniqueViolation(unique, "other_key", "users_email_key"))
	assert.False(t, IsUniqueViolation(unique, "other_key"))

	// wrapped errors still match
	assert.True(t, IsUniqueViolation(fmt.Errorf("create user: %w", unique)))

	fk := &pgconn.PgError{Code: "23503"}
	assert.False(t, IsUniqueViolation(fk))

	// drivers without structured errors only give us text
	assert.True(t, IsUniqueViolation(errors.New("UNIQUE constraint failed: users.email")))
	assert.True(t, IsUniqueViolation(errors.New(`duplicate key value violates unique constraint "users_email_key"`)))
	assert.False(t, IsUniqueViolation(errors.New("connection refused")))
}

func TestIsForeignKeyViolation(t *testing.T) {
	assert.True(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, IsForeignKeyViolation(errors.New("FOREIGN KEY constraint failed")))
	assert.False(t, IsForeignKeyViolation(errors.New("timeout")))
}
