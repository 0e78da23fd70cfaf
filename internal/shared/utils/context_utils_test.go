package utils

import (
	"context"
	"testing"

	"cardvault/internal/shared/contextkeys"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserIDRoundTrip(t *testing.T) {
	ctx := WithUserID(context.Background(), "user-1")

	got, err := GetUserIDFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "user-1", got)
	assert.True(t, HasUserID(ctx))
}

func TestUserIDMissing(t *testing.T) {
	_, err := GetUserIDFromContext(context.Background())
	assert.ErrorIs(t, err, ErrUserIDNotFound)
	assert.False(t, HasUserID(context.Background()))
}

func TestUserIDWrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), contextkeys.UserIDKey, 42)
	_, err := GetUserIDFromContext(ctx)
	assert.ErrorIs(t, err, ErrUserIDNotString)
}

func TestUserEmailRoundTrip(t *testing.T) {
	ctx := WithUserEmail(context.Background(), "user@example.com")

	got, err := GetUserEmailFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", got)

	_, err = GetUserEmailFromContext(context.Background())
	assert.ErrorIs(t, err, ErrUserEmailNotFound)
}

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-123")

	got, err := GetRequestIDFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "req-123", got)
}

func TestGetUserIDOrDefault(t *testing.T) {
	assert.Equal(t, "anonymous", GetUserIDOrDefault(context.Background(), "anonymous"))
	assert.Equal(t, "user-1", GetUserIDOrDefault(WithUserID(context.Background(), "user-1"), "anonymous"))
}
