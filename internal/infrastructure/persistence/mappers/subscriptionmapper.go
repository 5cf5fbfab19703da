package mappers

import (
	"fmt"

	"github.com/loam-dev/loam/internal/domain/subscription"
	"github.com/loam-dev/loam/internal/infrastructure/persistence/models"
	vo "github.com/loam-dev/loam/internal/domain/subscription/valueobjects"
)

type SubscriptionMapper interface {
	ToEntity(model *models.SubscriptionModel) (*subscription.Subscription, error)
	ToModel(entity *subscription.Subscription) (*models.SubscriptionModel, error)
	ToEntities(models []*models.SubscriptionModel) ([]*subscription.Subscription, error)
}

type SubscriptionMapperImpl struct{}

func NewSubscriptionMapper() SubscriptionMapper {
	return &SubscriptionMapperImpl{}
}

func (m *SubscriptionMapperImpl) ToEntity(model *models.SubscriptionModel) (*subscription.Subscription, error) {
	if model == nil {
		return nil, nil
	}

	status := vo.SubscriptionStatus(model.Status)
	if !vo.ValidStatuses[status] {
		return nil, fmt.Errorf("invalid subscription status: %s", model.Status)
	}

	var plan *vo.Plan
	if model.Plan != nil && *model.Plan != "" {
		p, err := vo.NewPlan(*model.Plan)
		if err != nil {
			return nil, fmt.Errorf("failed to parse plan: %w", err)
		}
		plan = &p
	}

	entity, err := subscription.ReconstructSubscription(subscription.SubscriptionReconstructParams{
		ID:         model.ID,
		SID:        model.SID,
		UserID:     model.UserID,
		SiteID:     model.SiteID,
		Plan:       plan,
		Status:     status,
		StartDate:  model.StartDate,
		EndDate:    model.EndDate,
		AmountPaid: model.AmountPaid,
		Version:    model.Version,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct subscription entity: %w", err)
	}

	return entity, nil
}

func (m *SubscriptionMapperImpl) ToModel(entity *subscription.Subscription) (*models.SubscriptionModel, error) {
	if entity == nil {
		return nil, nil
	}

	var plan *string
	if p := entity.Plan(); p != nil {
		s := p.String()
		plan = &s
	}

	return &models.SubscriptionModel{
		ID:         entity.ID(),
		SID:        entity.SID(),
		UserID:     entity.UserID(),
		SiteID:     entity.SiteID(),
		Plan:       plan,
		Status:     entity.Status().String(),
		StartDate:  entity.StartDate(),
		EndDate:    entity.EndDate(),
		AmountPaid: entity.AmountPaid(),
		Version:    entity.Version(),
		CreatedAt:  entity.CreatedAt(),
		UpdatedAt:  entity.UpdatedAt(),
	}, nil
}

func (m *SubscriptionMapperImpl) ToEntities(subscriptionModels []*models.SubscriptionModel) ([]*subscription.Subscription, error) {
	entities := make([]*subscription.Subscription, 0, len(subscriptionModels))
	for _, model := range subscriptionModels {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
