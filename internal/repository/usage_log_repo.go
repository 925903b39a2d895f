package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"unitra/internal/domain"
)

type UsageLogRepository struct {
	db *gorm.DB
}

func NewUsageLogRepository(db *gorm.DB) *UsageLogRepository {
	return &UsageLogRepository{db: db}
}

func (r *UsageLogRepository) Create(ctx context.Context, l *domain.UsageLog) error {
	return r.db.WithContext(ctx).Create(l).Error
}

// RecentByUserID returns the newest usage rows for a user, newest first.
func (r *UsageLogRepository) RecentByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]domain.UsageLog, error) {
	var logs []domain.UsageLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
