package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/loam-dev/loam/internal/shared/constants"
)

// SiteModel represents the database persistence model for sites
// This is the anti-corruption layer between domain and database
type SiteModel struct {
	ID        uint   `gorm:"primarykey"`
	SID       string `gorm:"uniqueIndex;not null;size:50;comment:Stripe-style ID: site_xxx"`
	UserID    uint   `gorm:"uniqueIndex;not null;comment:one site per user"`
	Name      string `gorm:"not null;size:100"`
	Slug      string `gorm:"uniqueIndex;not null;size:100"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for GORM
func (SiteModel) TableName() string {
	return constants.TableSites
}
