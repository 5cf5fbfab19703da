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
	"github.com/loam-dev/loam/internal/shared/biztime"
	"github.com/loam-dev/loam/internal/shared/logger"
	vo "github.com/loam-dev/loam/internal/domain/subscription/valueobjects"
)

var allowedRequestSortByFields = map[string]bool{
	"id":         true,
	"sid":        true,
	"user_id":    true,
	"site_id":    true,
	"status":     true,
	"created_at": true,
	"updated_at": true,
	"decided_at": true,
}

type RenewalRequestRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.RequestMapper
	logger logger.Interface
}

func NewRenewalRequestRepository(
	db *gorm.DB,
	logger logger.Interface,
) subscription.RenewalRequestRepository {
	return &RenewalRequestRepositoryImpl{
		db:     db,
		mapper: mappers.NewRequestMapper(),
		logger: logger,
	}
}

func (r *RenewalRequestRepositoryImpl) Create(ctx context.Context, requestEntity *subscription.RenewalRequest) error {
	model, err := r.mapper.ToModel(requestEntity)
	if err != nil {
		r.logger.Errorw("failed to map request entity to model", "error", err)
		return fmt.Errorf("failed to map request entity: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create renewal request", "error", err)
		return fmt.Errorf("failed to create renewal request: %w", err)
	}

	if err := requestEntity.SetID(model.ID); err != nil {
		r.logger.Errorw("failed to set request ID", "error", err)
		return fmt.Errorf("failed to set request ID: %w", err)
	}

	r.logger.Infow("renewal request created", "id", model.ID, "site_id", model.SiteID)
	return nil
}

func (r *RenewalRequestRepositoryImpl) GetByID(ctx context.Context, id uint) (*subscription.RenewalRequest, error) {
	var model models.SubscriptionRequestModel

	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, subscription.ErrRequestNotFound
		}
		r.logger.Errorw("failed to get request by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get request: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *RenewalRequestRepositoryImpl) GetBySID(ctx context.Context, sid string) (*subscription.RenewalRequest, error) {
	var model models.SubscriptionRequestModel

	if err := r.db.WithContext(ctx).Where("sid = ?", sid).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, subscription.ErrRequestNotFound
		}
		r.logger.Errorw("failed to get request by SID", "sid", sid, "error", err)
		return nil, fmt.Errorf("failed to get request: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *RenewalRequestRepositoryImpl) HasPendingBySiteID(ctx context.Context, siteID uint) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&models.SubscriptionRequestModel{}).
		Where("site_id = ? AND status = ?", siteID, vo.RequestPending.String()).
		Count(&count).Error
	if err != nil {
		r.logger.Errorw("failed to count pending requests", "site_id", siteID, "error", err)
		return false, fmt.Errorf("failed to count pending requests: %w", err)
	}

	return count > 0, nil
}

func (r *RenewalRequestRepositoryImpl) ApproveIfPending(ctx context.Context, id uint, approverID uint, decidedAt time.Time) (bool, error) {
	// Conditional update is the claim: of two concurrent adjudications
	// only one matches the pending row.
	result := r.db.WithContext(ctx).
		Model(&models.SubscriptionRequestModel{}).
		Where("id = ? AND status = ?", id, vo.RequestPending.String()).
		Updates(map[string]interface{}{
			"status":      vo.RequestApproved.String(),
			"approver_id": approverID,
			"decided_at":  decidedAt,
			"updated_at":  decidedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to approve request", "id", id, "error", result.Error)
		return false, fmt.Errorf("failed to approve request: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}

func (r *RenewalRequestRepositoryImpl) RejectIfPending(ctx context.Context, id uint, reason string, decidedAt time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.SubscriptionRequestModel{}).
		Where("id = ? AND status = ?", id, vo.RequestPending.String()).
		Updates(map[string]interface{}{
			"status":        vo.RequestRejected.String(),
			"reject_reason": reason,
			"decided_at":    decidedAt,
			"updated_at":    decidedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to reject request", "id", id, "error", result.Error)
		return false, fmt.Errorf("failed to reject request: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}

func (r *RenewalRequestRepositoryImpl) ReopenApproved(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Model(&models.SubscriptionRequestModel{}).
		Where("id = ? AND status = ?", id, vo.RequestApproved.String()).
		Updates(map[string]interface{}{
			"status":      vo.RequestPending.String(),
			"approver_id": nil,
			"decided_at":  nil,
			"updated_at":  biztime.NowUTC(),
		})
	if result.Error != nil {
		r.logger.Errorw("failed to reopen request", "id", id, "error", result.Error)
		return fmt.Errorf("failed to reopen request: %w", result.Error)
	}

	return nil
}

func (r *RenewalRequestRepositoryImpl) ListBySiteID(ctx context.Context, siteID uint) ([]*subscription.RenewalRequest, error) {
	var requestModels []*models.SubscriptionRequestModel

	err := r.db.WithContext(ctx).
		Where("site_id = ?", siteID).
		Order("created_at DESC").
		Find(&requestModels).Error
	if err != nil {
		r.logger.Errorw("failed to list requests by site ID", "site_id", siteID, "error", err)
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}

	return r.mapper.ToEntities(requestModels)
}

func (r *RenewalRequestRepositoryImpl) List(ctx context.Context, filter subscription.RequestFilter) ([]*subscription.RenewalRequest, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.SubscriptionRequestModel{})

	if filter.SiteID != nil {
		query = query.Where("site_id = ?", *filter.SiteID)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.logger.Errorw("failed to count requests", "error", err)
		return nil, 0, fmt.Errorf("failed to count requests: %w", err)
	}

	sortBy := "created_at"
	if filter.SortBy != "" && allowedRequestSortByFields[filter.SortBy] {
		sortBy = filter.SortBy
	}
	order := sortBy + " ASC"
	if filter.SortDesc {
		order = sortBy + " DESC"
	}

	var requestModels []*models.SubscriptionRequestModel
	err := query.Order(order).
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&requestModels).Error
	if err != nil {
		r.logger.Errorw("failed to list requests", "error", err)
		return nil, 0, fmt.Errorf("failed to list requests: %w", err)
	}

	entities, err := r.mapper.ToEntities(requestModels)
	if err != nil {
		return nil, 0, err
	}

	return entities, total, nil
}
