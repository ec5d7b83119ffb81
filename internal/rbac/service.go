package rbac

import (
	"context"
	"errors"
	"fmt"

	"github.com/gatehouse-io/gatehouse/internal/shared"
)

// Repository defines the ledger operations the service needs.
type Repository interface {
	ResourceIDByName(ctx context.Context, name string) (int64, error)
	EnsureResource(ctx context.Context, name string) (int64, error)
	AssignmentPermissions(ctx context.Context, userID, resourceID int64) (string, error)
	UpsertAssignment(ctx context.Context, userID, resourceID int64, permissions string) error
	UserEmail(ctx context.Context, userID int64) (string, error)
}

// Service decides allow/deny and maintains the permission ledger.
type Service struct {
	repo  Repository
	cache *Cache
}

// NewService constructs a Service. cache may be nil.
func NewService(repo Repository, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// Check decides whether the user may perform action on the named resource.
// It is a pure read, safe under arbitrary concurrent invocation. The returned
// error reports infrastructure failure only; policy outcomes are carried by
// the Decision.
func (s *Service) Check(ctx context.Context, userID int64, resourceName string, action Action) (Decision, error) {
	resourceID, err := s.resolveResourceID(ctx, resourceName)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return Deny(DenyResourceNotFound, action), nil
		}
		return Decision{}, err
	}
	permissions, err := s.repo.AssignmentPermissions(ctx, userID, resourceID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return Deny(DenyMissingPermission, action), nil
		}
		return Decision{}, err
	}
	set, err := ParseActions(permissions)
	if err != nil {
		return Decision{}, fmt.Errorf("rbac: stored permission string: %w", err)
	}
	if !set.Has(action) {
		return Deny(DenyMissingPermission, action), nil
	}
	return Allow(), nil
}

// Assign grants a permission string to a user on a resource, creating the
// resource on first use. The grant replaces any earlier assignment for the
// same pair; it never merges.
func (s *Service) Assign(ctx context.Context, userID int64, resourceName, permissions string) (AssignmentRecord, error) {
	if _, err := ParseActions(permissions); err != nil {
		return AssignmentRecord{}, err
	}
	email, err := s.repo.UserEmail(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return AssignmentRecord{}, fmt.Errorf("%w: user %d", shared.ErrNotFound, userID)
		}
		return AssignmentRecord{}, err
	}
	resourceID, err := s.repo.EnsureResource(ctx, resourceName)
	if err != nil {
		return AssignmentRecord{}, err
	}
	s.cache.SetResourceID(ctx, resourceName, resourceID)
	if err := s.repo.UpsertAssignment(ctx, userID, resourceID, permissions); err != nil {
		return AssignmentRecord{}, err
	}
	return AssignmentRecord{UserEmail: email, Resource: resourceName, Permissions: permissions}, nil
}

func (s *Service) resolveResourceID(ctx context.Context, name string) (int64, error) {
	if id, ok := s.cache.GetResourceID(ctx, name); ok {
		return id, nil
	}
	id, err := s.repo.ResourceIDByName(ctx, name)
	if err != nil {
		return 0, err
	}
	s.cache.SetResourceID(ctx, name, id)
	return id, nil
}
