package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/loam-dev/loam/internal/shared/constants"
)

// SubscriptionRequestModel represents the database persistence model for
// renewal requests. This is the anti-corruption layer between domain and database
type SubscriptionRequestModel struct {
	ID            uint   `gorm:"primarykey"`
	SID           string `gorm:"uniqueIndex;not null;size:50;comment:Stripe-style ID: sreq_xxx"`
	UserID        uint   `gorm:"not null;index:idx_user_request"`
	SiteID        uint   `gorm:"not null;index:idx_site_request"`
	Plan          string `gorm:"not null;size:20"`
	Amount        int64  `gorm:"not null;comment:cents"`
	PaymentMethod string `gorm:"not null;size:50"`
	Phone         string `gorm:"not null;size:30"`
	Status        string `gorm:"not null;size:20;index:idx_request_status"`
	ApproverID    *uint
	DecidedAt     *time.Time
	RejectReason  *string `gorm:"size:500"`
	Metadata      datatypes.JSON
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for GORM
func (SubscriptionRequestModel) TableName() string {
	return constants.TableSubscriptionReqs
}
