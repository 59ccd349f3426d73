package profile

import (
	"context"
	"errors"
)

var ErrUserNotFound = errors.New("user not found")

type DB interface {
	GetUser(ctx context.Context, userID string) (User, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	UpdateUser(ctx context.Context, user User) error
	CountUsers(ctx context.Context) (int64, error)
}
