package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/loam-dev/loam/internal/shared/constants"
)

// SubscriptionModel represents the database persistence model for subscriptions
// This is the anti-corruption layer between domain and database
type SubscriptionModel struct {
	ID         uint    `gorm:"primarykey"`
	SID        string  `gorm:"uniqueIndex;not null;size:50;comment:Stripe-style ID: sub_xxx"`
	UserID     uint    `gorm:"not null;index:idx_user_subscription"`
	SiteID     uint    `gorm:"uniqueIndex;not null;comment:one subscription per site"`
	Plan       *string `gorm:"size:20;comment:null during trial"`
	Status     string  `gorm:"not null;size:20;index:idx_status"`
	StartDate  time.Time `gorm:"not null"`
	EndDate    time.Time `gorm:"not null;index:idx_end_date"`
	AmountPaid *int64  `gorm:"comment:cents, null during trial"`
	Version    int     `gorm:"not null;default:1"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for GORM
func (SubscriptionModel) TableName() string {
	return constants.TableSubscriptions
}

// BeforeCreate hook for GORM
func (s *SubscriptionModel) BeforeCreate(tx *gorm.DB) error {
	if s.Version == 0 {
		s.Version = 1
	}
	return nil
}
