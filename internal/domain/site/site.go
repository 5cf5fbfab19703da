// Package site holds the minimal site aggregate the subscription engine
// depends on. Site content management lives elsewhere; the engine only
// needs the user -> site resolution and an opaque site identity.
package site

import (
	"fmt"
	"strings"
	"time"
)

// Site represents a tenant's site. Each user owns at most one.
type Site struct {
	id        uint
	sid       string
	userID    uint
	name      string
	slug      string
	createdAt time.Time
	updatedAt time.Time
}

// NewSite creates a site owned by the given user.
func NewSite(userID uint, sid, name, slug string, now time.Time) (*Site, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if sid == "" {
		return nil, fmt.Errorf("site SID is required")
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("site name is required")
	}
	if strings.TrimSpace(slug) == "" {
		return nil, fmt.Errorf("site slug is required")
	}

	return &Site{
		sid:       sid,
		userID:    userID,
		name:      name,
		slug:      slug,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructSite reconstructs a site from persistence.
func ReconstructSite(id uint, sid string, userID uint, name, slug string, createdAt, updatedAt time.Time) (*Site, error) {
	if id == 0 {
		return nil, fmt.Errorf("site ID cannot be zero")
	}
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}

	return &Site{
		id:        id,
		sid:       sid,
		userID:    userID,
		name:      name,
		slug:      slug,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}, nil
}

func (s *Site) ID() uint             { return s.id }
func (s *Site) SID() string          { return s.sid }
func (s *Site) UserID() uint         { return s.userID }
func (s *Site) Name() string         { return s.name }
func (s *Site) Slug() string         { return s.slug }
func (s *Site) CreatedAt() time.Time { return s.createdAt }
func (s *Site) UpdatedAt() time.Time { return s.updatedAt }

// SetID sets the site ID (only for persistence layer use)
func (s *Site) SetID(id uint) error {
	if s.id != 0 {
		return fmt.Errorf("site ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("site ID cannot be zero")
	}
	s.id = id
	return nil
}
