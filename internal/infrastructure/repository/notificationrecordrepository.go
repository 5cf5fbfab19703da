package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/loam-dev/loam/internal/domain/notification"
	"github.com/loam-dev/loam/internal/infrastructure/persistence/mappers"
	"github.com/loam-dev/loam/internal/infrastructure/persistence/models"
	sharedErrors "github.com/loam-dev/loam/internal/shared/errors"
	"github.com/loam-dev/loam/internal/shared/logger"
)

type NotificationRecordRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.NotificationRecordMapper
	logger logger.Interface
}

func NewNotificationRecordRepository(db *gorm.DB, logger logger.Interface) notification.RecordRepository {
	return &NotificationRecordRepositoryImpl{
		db:     db,
		mapper: mappers.NewNotificationRecordMapper(),
		logger: logger,
	}
}

func (r *NotificationRecordRepositoryImpl) WasSent(ctx context.Context, subscriptionID uint, kind notification.Kind, periodEnd time.Time) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&models.NotificationRecordModel{}).
		Where("subscription_id = ? AND kind = ? AND period_end = ?", subscriptionID, string(kind), periodEnd).
		Count(&count).Error
	if err != nil {
		r.logger.Errorw("failed to check notification record",
			"subscription_id", subscriptionID, "kind", string(kind), "error", err)
		return false, fmt.Errorf("failed to check notification record: %w", err)
	}

	return count > 0, nil
}

func (r *NotificationRecordRepositoryImpl) Create(ctx context.Context, record *notification.Record) error {
	model := r.mapper.ToModel(record)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		// A concurrent run already recorded this send; the unique index
		// absorbs the race.
		if sharedErrors.IsDuplicateError(err) {
			return nil
		}
		r.logger.Errorw("failed to create notification record", "error", err)
		return fmt.Errorf("failed to create notification record: %w", err)
	}

	return nil
}
