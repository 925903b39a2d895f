package domain

import (
	"time"

	"github.com/google/uuid"
)

// UsageLog is the durable record of a consumed translation request. The hot
// path counts usage in the shared store; this table backs reporting.
type UsageLog struct {
	ID             int64     `gorm:"primaryKey;autoIncrement"`
	UserID         uuid.UUID `gorm:"type:uuid;index;not null"`
	TokensUsed     int64     `gorm:"not null"`
	SourceLang     string    `gorm:"size:8;not null"`
	TargetLang     string    `gorm:"size:8;not null"`
	ProcessingMode string    `gorm:"size:16;not null;default:cloud"`
	CreatedAt      time.Time
}

func (UsageLog) TableName() string { return "usage_logs" }
