package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/loam-dev/loam/internal/domain/site"
	"github.com/loam-dev/loam/internal/infrastructure/persistence/mappers"
	"github.com/loam-dev/loam/internal/infrastructure/persistence/models"
	sharedDB "github.com/loam-dev/loam/internal/shared/db"
	sharedErrors "github.com/loam-dev/loam/internal/shared/errors"
	"github.com/loam-dev/loam/internal/shared/logger"
)

type SiteRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.SiteMapper
	logger logger.Interface
}

func NewSiteRepository(db *gorm.DB, logger logger.Interface) site.Repository {
	return &SiteRepositoryImpl{
		db:     db,
		mapper: mappers.NewSiteMapper(),
		logger: logger,
	}
}

func (r *SiteRepositoryImpl) Create(ctx context.Context, siteEntity *site.Site) error {
	model, err := r.mapper.ToModel(siteEntity)
	if err != nil {
		r.logger.Errorw("failed to map site entity to model", "error", err)
		return fmt.Errorf("failed to map site entity: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if sharedErrors.IsDuplicateError(err) {
			return site.ErrSiteExists
		}
		r.logger.Errorw("failed to create site", "error", err)
		return fmt.Errorf("failed to create site: %w", err)
	}

	if err := siteEntity.SetID(model.ID); err != nil {
		r.logger.Errorw("failed to set site ID", "error", err)
		return fmt.Errorf("failed to set site ID: %w", err)
	}

	r.logger.Infow("site created", "id", model.ID, "slug", model.Slug)
	return nil
}

func (r *SiteRepositoryImpl) GetByID(ctx context.Context, id uint) (*site.Site, error) {
	var model models.SiteModel

	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, site.ErrSiteNotFound
		}
		r.logger.Errorw("failed to get site by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get site: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *SiteRepositoryImpl) GetBySID(ctx context.Context, sid string) (*site.Site, error) {
	var model models.SiteModel

	if err := r.db.WithContext(ctx).Where("sid = ?", sid).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, site.ErrSiteNotFound
		}
		r.logger.Errorw("failed to get site by SID", "sid", sid, "error", err)
		return nil, fmt.Errorf("failed to get site: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *SiteRepositoryImpl) GetByUserID(ctx context.Context, userID uint) (*site.Site, error) {
	var model models.SiteModel

	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get site by user ID", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get site: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *SiteRepositoryImpl) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&models.SiteModel{}).
		Scopes(sharedDB.NotDeleted()).
		Where("slug = ?", slug).
		Count(&count).Error
	if err != nil {
		r.logger.Errorw("failed to check slug existence", "slug", slug, "error", err)
		return false, fmt.Errorf("failed to check slug: %w", err)
	}

	return count > 0, nil
}
