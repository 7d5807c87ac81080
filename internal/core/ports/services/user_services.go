package services

import (
	"context"

	"github.com/ringlabs/ring_token_engine/internal/core/domain"
)

// UserSvcFacade covers the thin user surface this engine needs: creating the
// legacy-balance row and reading it back.
type UserSvcFacade interface {
	CreateUser(ctx context.Context, userID, name string, initialBalance int64, creatorUserID string) (*domain.User, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
}
