package repository

import (
	"context"

	"cardvault/internal/auth/domain/model"
)

// AuthRepository defines the persistence contract for users.
type AuthRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}
