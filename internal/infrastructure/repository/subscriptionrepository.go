package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/loam-dev/loam/internal/domain/subscription"
	"github.com/loam-dev/loam/internal/infrastructure/persistence/mappers"
	"github.com/loam-dev/loam/internal/infrastructure/persistence/models"
	sharedErrors "github.com/loam-dev/loam/internal/shared/errors"
	"github.com/loam-dev/loam/internal/shared/logger"
	vo "github.com/loam-dev/loam/internal/domain/subscription/valueobjects"
)

// allowedSubscriptionSortByFields defines the whitelist of allowed ORDER BY fields
// to prevent SQL injection attacks.
var allowedSubscriptionSortByFields = map[string]bool{
	"id":         true,
	"sid":        true,
	"user_id":    true,
	"site_id":    true,
	"status":     true,
	"start_date": true,
	"end_date":   true,
	"created_at": true,
	"updated_at": true,
}

type SubscriptionRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.SubscriptionMapper
	logger logger.Interface
}

func NewSubscriptionRepository(
	db *gorm.DB,
	logger logger.Interface,
) subscription.SubscriptionRepository {
	return &SubscriptionRepositoryImpl{
		db:     db,
		mapper: mappers.NewSubscriptionMapper(),
		logger: logger,
	}
}

func (r *SubscriptionRepositoryImpl) Create(ctx context.Context, subscriptionEntity *subscription.Subscription) error {
	model, err := r.mapper.ToModel(subscriptionEntity)
	if err != nil {
		r.logger.Errorw("failed to map subscription entity to model", "error", err)
		return fmt.Errorf("failed to map subscription entity: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if sharedErrors.IsDuplicateError(err) {
			return subscription.ErrSubscriptionExists
		}
		r.logger.Errorw("failed to create subscription in database", "error", err)
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	if err := subscriptionEntity.SetID(model.ID); err != nil {
		r.logger.Errorw("failed to set subscription ID", "error", err)
		return fmt.Errorf("failed to set subscription ID: %w", err)
	}

	r.logger.Infow("subscription created", "id", model.ID, "site_id", model.SiteID)
	return nil
}

func (r *SubscriptionRepositoryImpl) GetByID(ctx context.Context, id uint) (*subscription.Subscription, error) {
	var model models.SubscriptionModel

	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, subscription.ErrSubscriptionNotFound
		}
		r.logger.Errorw("failed to get subscription by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *SubscriptionRepositoryImpl) GetBySID(ctx context.Context, sid string) (*subscription.Subscription, error) {
	var model models.SubscriptionModel

	if err := r.db.WithContext(ctx).Where("sid = ?", sid).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, subscription.ErrSubscriptionNotFound
		}
		r.logger.Errorw("failed to get subscription by SID", "sid", sid, "error", err)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *SubscriptionRepositoryImpl) GetBySiteID(ctx context.Context, siteID uint) (*subscription.Subscription, error) {
	var model models.SubscriptionModel

	if err := r.db.WithContext(ctx).Where("site_id = ?", siteID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get subscription by site ID", "site_id", siteID, "error", err)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *SubscriptionRepositoryImpl) ExtendTerm(ctx context.Context, id uint, plan vo.Plan, amountPaid int64, now time.Time) (*subscription.Subscription, error) {
	// Single conditional update so a concurrent sweep or a second
	// renewal can never produce a shortened term. GREATEST picks the
	// later of the stored end date and now as the extension base.
	result := r.db.WithContext(ctx).
		Model(&models.SubscriptionModel{}).
		Where("id = ? AND status <> ?", id, vo.StatusCancelled.String()).
		Updates(map[string]interface{}{
			"end_date":    gorm.Expr("DATE_ADD(GREATEST(end_date, ?), INTERVAL ? DAY)", now, plan.DurationDays()),
			"plan":        plan.String(),
			"amount_paid": amountPaid,
			"status":      vo.StatusActive.String(),
			"version":     gorm.Expr("version + 1"),
			"updated_at":  now,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to extend subscription term", "id", id, "error", result.Error)
		return nil, fmt.Errorf("failed to extend subscription term: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		existing, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if existing.Status() == vo.StatusCancelled {
			return nil, subscription.ErrSubscriptionCancelled
		}
		return nil, subscription.ErrSubscriptionNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *SubscriptionRepositoryImpl) MarkExpiredBefore(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.SubscriptionModel{}).
		Where("status IN ? AND end_date < ?", []string{vo.StatusTrial.String(), vo.StatusActive.String()}, now).
		Updates(map[string]interface{}{
			"status":     vo.StatusExpired.String(),
			"version":    gorm.Expr("version + 1"),
			"updated_at": now,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to mark expired subscriptions", "error", result.Error)
		return 0, fmt.Errorf("failed to mark expired subscriptions: %w", result.Error)
	}

	return result.RowsAffected, nil
}

func (r *SubscriptionRepositoryImpl) FindExpiringWithin(ctx context.Context, now time.Time, window time.Duration) ([]*subscription.Subscription, error) {
	var subscriptionModels []*models.SubscriptionModel

	err := r.db.WithContext(ctx).
		Where("status IN ? AND end_date > ? AND end_date <= ?",
			[]string{vo.StatusTrial.String(), vo.StatusActive.String()}, now, now.Add(window)).
		Find(&subscriptionModels).Error
	if err != nil {
		r.logger.Errorw("failed to find expiring subscriptions", "error", err)
		return nil, fmt.Errorf("failed to find expiring subscriptions: %w", err)
	}

	return r.mapper.ToEntities(subscriptionModels)
}

func (r *SubscriptionRepositoryImpl) FindNewlyLapsed(ctx context.Context, now time.Time) ([]*subscription.Subscription, error) {
	var subscriptionModels []*models.SubscriptionModel

	err := r.db.WithContext(ctx).
		Where("status IN ? AND end_date < ?",
			[]string{vo.StatusTrial.String(), vo.StatusActive.String()}, now).
		Find(&subscriptionModels).Error
	if err != nil {
		r.logger.Errorw("failed to find lapsed subscriptions", "error", err)
		return nil, fmt.Errorf("failed to find lapsed subscriptions: %w", err)
	}

	return r.mapper.ToEntities(subscriptionModels)
}

func (r *SubscriptionRepositoryImpl) Update(ctx context.Context, subscriptionEntity *subscription.Subscription) error {
	model, err := r.mapper.ToModel(subscriptionEntity)
	if err != nil {
		r.logger.Errorw("failed to map subscription entity to model", "error", err)
		return fmt.Errorf("failed to map subscription entity: %w", err)
	}

	result := r.db.WithContext(ctx).
		Model(&models.SubscriptionModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"plan":        model.Plan,
			"status":      model.Status,
			"start_date":  model.StartDate,
			"end_date":    model.EndDate,
			"amount_paid": model.AmountPaid,
			"version":     model.Version,
			"updated_at":  model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update subscription", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update subscription: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return subscription.ErrSubscriptionNotFound
	}

	return nil
}

func (r *SubscriptionRepositoryImpl) List(ctx context.Context, filter subscription.SubscriptionFilter) ([]*subscription.Subscription, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.SubscriptionModel{})

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.SiteID != nil {
		query = query.Where("site_id = ?", *filter.SiteID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.logger.Errorw("failed to count subscriptions", "error", err)
		return nil, 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	sortBy := "created_at"
	if filter.SortBy != "" && allowedSubscriptionSortByFields[filter.SortBy] {
		sortBy = filter.SortBy
	}
	order := sortBy + " ASC"
	if filter.SortDesc {
		order = sortBy + " DESC"
	}

	var subscriptionModels []*models.SubscriptionModel
	err := query.Order(order).
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&subscriptionModels).Error
	if err != nil {
		r.logger.Errorw("failed to list subscriptions", "error", err)
		return nil, 0, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	entities, err := r.mapper.ToEntities(subscriptionModels)
	if err != nil {
		return nil, 0, err
	}

	return entities, total, nil
}
