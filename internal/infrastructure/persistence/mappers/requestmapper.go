package mappers

import (
	"encoding/json"
	"fmt"

	"github.com/loam-dev/loam/internal/domain/subscription"
	"github.com/loam-dev/loam/internal/infrastructure/persistence/models"
	vo "github.com/loam-dev/loam/internal/domain/subscription/valueobjects"
)

type RequestMapper interface {
	ToEntity(model *models.SubscriptionRequestModel) (*subscription.RenewalRequest, error)
	ToModel(entity *subscription.RenewalRequest) (*models.SubscriptionRequestModel, error)
	ToEntities(models []*models.SubscriptionRequestModel) ([]*subscription.RenewalRequest, error)
}

type RequestMapperImpl struct{}

func NewRequestMapper() RequestMapper {
	return &RequestMapperImpl{}
}

func (m *RequestMapperImpl) ToEntity(model *models.SubscriptionRequestModel) (*subscription.RenewalRequest, error) {
	if model == nil {
		return nil, nil
	}

	status := vo.RequestStatus(model.Status)
	if !vo.ValidRequestStatuses[status] {
		return nil, fmt.Errorf("invalid request status: %s", model.Status)
	}

	var metadata map[string]string
	if model.Metadata != nil {
		if err := json.Unmarshal(model.Metadata, &metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}

	entity, err := subscription.ReconstructRenewalRequest(subscription.RequestReconstructParams{
		ID:            model.ID,
		SID:           model.SID,
		UserID:        model.UserID,
		SiteID:        model.SiteID,
		Plan:          vo.Plan(model.Plan),
		Amount:        model.Amount,
		PaymentMethod: model.PaymentMethod,
		Phone:         model.Phone,
		Status:        status,
		ApproverID:    model.ApproverID,
		DecidedAt:     model.DecidedAt,
		RejectReason:  model.RejectReason,
		Metadata:      metadata,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct request entity: %w", err)
	}

	return entity, nil
}

func (m *RequestMapperImpl) ToModel(entity *subscription.RenewalRequest) (*models.SubscriptionRequestModel, error) {
	if entity == nil {
		return nil, nil
	}

	metadata, err := json.Marshal(entity.Metadata())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}

	return &models.SubscriptionRequestModel{
		ID:            entity.ID(),
		SID:           entity.SID(),
		UserID:        entity.UserID(),
		SiteID:        entity.SiteID(),
		Plan:          entity.Plan().String(),
		Amount:        entity.Amount(),
		PaymentMethod: entity.PaymentMethod(),
		Phone:         entity.Phone(),
		Status:        entity.Status().String(),
		ApproverID:    entity.ApproverID(),
		DecidedAt:     entity.DecidedAt(),
		RejectReason:  entity.RejectReason(),
		Metadata:      metadata,
		CreatedAt:     entity.CreatedAt(),
		UpdatedAt:     entity.UpdatedAt(),
	}, nil
}

func (m *RequestMapperImpl) ToEntities(requestModels []*models.SubscriptionRequestModel) ([]*subscription.RenewalRequest, error) {
	entities := make([]*subscription.RenewalRequest, 0, len(requestModels))
	for _, model := range requestModels {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
