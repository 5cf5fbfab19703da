package mappers

import (
	"github.com/loam-dev/loam/internal/domain/notification"
	"github.com/loam-dev/loam/internal/infrastructure/persistence/models"
)

type NotificationRecordMapper interface {
	ToEntity(model *models.NotificationRecordModel) *notification.Record
	ToModel(entity *notification.Record) *models.NotificationRecordModel
}

type NotificationRecordMapperImpl struct{}

func NewNotificationRecordMapper() NotificationRecordMapper {
	return &NotificationRecordMapperImpl{}
}

func (m *NotificationRecordMapperImpl) ToEntity(model *models.NotificationRecordModel) *notification.Record {
	if model == nil {
		return nil
	}

	return notification.ReconstructRecord(
		model.ID,
		model.SubscriptionID,
		model.UserID,
		notification.Kind(model.Kind),
		model.PeriodEnd,
		model.SentAt,
	)
}

func (m *NotificationRecordMapperImpl) ToModel(entity *notification.Record) *models.NotificationRecordModel {
	if entity == nil {
		return nil
	}

	return &models.NotificationRecordModel{
		ID:             entity.ID(),
		SubscriptionID: entity.SubscriptionID(),
		UserID:         entity.UserID(),
		Kind:           string(entity.Kind()),
		PeriodEnd:      entity.PeriodEnd(),
		SentAt:         entity.SentAt(),
	}
}
