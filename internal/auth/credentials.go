package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"eduportal/internal/store"
)

// ErrBadCredentials hides whether the e-mail or the password was wrong.
var ErrBadCredentials = errors.New("invalid email or password")

// UsersTable holds the externally managed accounts.
const UsersTable = "users"

// Authenticator checks e-mail/password pairs against the users table.
type Authenticator struct {
	backend store.Backend
}

// NewAuthenticator creates an authenticator reading from backend.
func NewAuthenticator(backend store.Backend) *Authenticator {
	return &Authenticator{backend: backend}
}

// Authenticate returns the identity for a matching account.
func (a *Authenticator) Authenticate(ctx context.Context, email, password string) (Identity, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return Identity{}, ErrBadCredentials
	}
	rows, err := a.backend.Read(ctx, store.Query{
		Table:   UsersTable,
		Columns: []string{"id", "email", "password_hash"},
		Filters: []store.Filter{store.Eq("email", email)},
	})
	if err != nil {
		return Identity{}, fmt.Errorf("lookup account: %w", err)
	}
	if len(rows) == 0 {
		// Unknown e-mails take as long as wrong passwords.
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return Identity{}, ErrBadCredentials
	}
	row := rows[0]
	if err := bcrypt.CompareHashAndPassword([]byte(row.String("password_hash")), []byte(password)); err != nil {
		return Identity{}, ErrBadCredentials
	}
	return Identity{ID: row.String("id"), Email: row.String("email")}, nil
}

// HashPassword hashes a password for storage in the users table.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// NormalizeEmail lower-cases and trims an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
