package service

import (
	"context"
	"database/sql"

	"github.com/noah-isme/sma-meet-api/internal/models"
	appErrors "github.com/noah-isme/sma-meet-api/pkg/errors"
)

type adminReader interface {
	FindByID(ctx context.Context, id string) (*models.Admin, error)
	FindFirstEnabled(ctx context.Context) (*models.Admin, error)
}

// AdminResolver maps a possibly-empty admin id onto the admin record whose
// calendar will be consulted. It is an injectable strategy so tests can
// substitute deterministic resolution.
type AdminResolver interface {
	Resolve(ctx context.Context, adminID string) (*models.Admin, error)
}

// RepositoryAdminResolver resolves admins from the database. An empty id
// falls back to the earliest-created meetings-enabled admin.
type RepositoryAdminResolver struct {
	admins adminReader
}

// NewRepositoryAdminResolver builds the default resolver.
func NewRepositoryAdminResolver(admins adminReader) *RepositoryAdminResolver {
	return &RepositoryAdminResolver{admins: admins}
}

// Resolve implements AdminResolver.
func (r *RepositoryAdminResolver) Resolve(ctx context.Context, adminID string) (*models.Admin, error) {
	if adminID == "" {
		admin, err := r.admins.FindFirstEnabled(ctx)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, appErrors.Clone(appErrors.ErrAdminNotFound, "no bookable admin available")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve fallback admin")
		}
		return admin, nil
	}

	admin, err := r.admins.FindByID(ctx, adminID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.ErrAdminNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load admin")
	}
	return admin, nil
}
