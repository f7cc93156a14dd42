package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eduportal/internal/store"
)

func TestAuthenticator(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)
	db := store.NewMemory()
	db.Seed(UsersTable, store.Row{"id": "u1", "email": "asha@uni.test", "password_hash": hash})
	a := NewAuthenticator(db)

	id, err := a.Authenticate(context.Background(), "  Asha@Uni.TEST ", "s3cret!")
	require.NoError(t, err)
	assert.Equal(t, Identity{ID: "u1", Email: "asha@uni.test"}, id)

	_, err = a.Authenticate(context.Background(), "asha@uni.test", "wrong")
	assert.ErrorIs(t, err, ErrBadCredentials)

	_, err = a.Authenticate(context.Background(), "nobody@uni.test", "s3cret!")
	assert.ErrorIs(t, err, ErrBadCredentials)

	_, err = a.Authenticate(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestAuthenticator_StoreFailure(t *testing.T) {
	a := NewAuthenticator(store.NewMemory())

	_, err := a.Authenticate(context.Background(), "asha@uni.test", "x")
	assert.ErrorIs(t, err, store.ErrUnknownTable)
	assert.NotErrorIs(t, err, ErrBadCredentials)
}
