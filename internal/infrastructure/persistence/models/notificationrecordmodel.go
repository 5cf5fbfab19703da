package models

import (
	"time"

	"github.com/loam-dev/loam/internal/shared/constants"
)

// NotificationRecordModel marks one sent notification. The composite
// unique index is the dedup key: one notification per subscription,
// kind and term end.
type NotificationRecordModel struct {
	ID             uint      `gorm:"primarykey"`
	SubscriptionID uint      `gorm:"not null;uniqueIndex:idx_notification_dedup,priority:1"`
	UserID         uint      `gorm:"not null;index:idx_user_notification"`
	Kind           string    `gorm:"not null;size:30;uniqueIndex:idx_notification_dedup,priority:2"`
	PeriodEnd      time.Time `gorm:"not null;uniqueIndex:idx_notification_dedup,priority:3"`
	SentAt         time.Time `gorm:"not null"`
	CreatedAt      time.Time
}

// TableName specifies the table name for GORM
func (NotificationRecordModel) TableName() string {
	return constants.TableNotificationRecords
}
