package domain

import (
	"time"

	"github.com/google/uuid"

	"unitra/internal/pkg/limits"
)

// User is the identity record. The auth core reads it at issuance time only
// and treats the (id, tier) snapshot as immutable for the token's lifetime.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	Name         string

	Tier       string `gorm:"not null;default:free"`
	IsActive   bool   `gorm:"not null;default:true"`
	IsVerified bool   `gorm:"not null;default:false"`

	LastLoginAt *time.Time
	LoginCount  int `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (User) TableName() string { return "users" }

// TierLimits resolves this user's tier ceilings.
func (u *User) TierLimits() limits.TierLimits {
	return limits.ForTier(u.Tier)
}
