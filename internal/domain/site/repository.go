package site

import (
	"context"
	"errors"
)

var (
	ErrSiteNotFound = errors.New("site not found")
	ErrSiteExists   = errors.New("user already owns a site")
)

// Repository persists site aggregates.
type Repository interface {
	Create(ctx context.Context, site *Site) error
	GetByID(ctx context.Context, id uint) (*Site, error)
	GetBySID(ctx context.Context, sid string) (*Site, error)
	// GetByUserID returns (nil, nil) when the user owns no site.
	GetByUserID(ctx context.Context, userID uint) (*Site, error)
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
}
