package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"unitra/internal/domain"
	"unitra/internal/pkg/token"
)

// UserRepositoryInterface — only the methods the auth service uses.
type UserRepositoryInterface interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	RecordLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type tokenCodec interface {
	Issue(userID, tier, tokenType string, minutesRemaining int64) (string, *token.Claims, error)
	Verify(raw, wantType string) (*token.Claims, error)
}
