package services

import (
	"context"

	"carpool/internal/models"
)

// IdentityService resolves the current user for an operation. The session
// collaborator (auth middleware) stores the identity in the request
// context; absence surfaces as ErrIdentityMissing, never a crash.
type IdentityService interface {
	CurrentUser(ctx context.Context) (*models.User, error)
}

type identityContextKey struct{}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, identityContextKey{}, user)
}

type contextIdentityService struct{}

func NewIdentityService() IdentityService {
	return &contextIdentityService{}
}

func (s *contextIdentityService) CurrentUser(ctx context.Context) (*models.User, error) {
	user, ok := ctx.Value(identityContextKey{}).(*models.User)
	if !ok || user == nil || user.Email == "" {
		return nil, ErrIdentityMissing
	}
	return user, nil
}
