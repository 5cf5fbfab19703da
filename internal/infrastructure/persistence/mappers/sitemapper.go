package mappers

import (
	"fmt"

	"github.com/loam-dev/loam/internal/domain/site"
	"github.com/loam-dev/loam/internal/infrastructure/persistence/models"
)

type SiteMapper interface {
	ToEntity(model *models.SiteModel) (*site.Site, error)
	ToModel(entity *site.Site) (*models.SiteModel, error)
}

type SiteMapperImpl struct{}

func NewSiteMapper() SiteMapper {
	return &SiteMapperImpl{}
}

func (m *SiteMapperImpl) ToEntity(model *models.SiteModel) (*site.Site, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := site.ReconstructSite(
		model.ID,
		model.SID,
		model.UserID,
		model.Name,
		model.Slug,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct site entity: %w", err)
	}

	return entity, nil
}

func (m *SiteMapperImpl) ToModel(entity *site.Site) (*models.SiteModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.SiteModel{
		ID:        entity.ID(),
		SID:       entity.SID(),
		UserID:    entity.UserID(),
		Name:      entity.Name(),
		Slug:      entity.Slug(),
		CreatedAt: entity.CreatedAt(),
		UpdatedAt: entity.UpdatedAt(),
	}, nil
}
