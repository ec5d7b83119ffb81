package onboarding

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gatehouse-io/gatehouse/internal/platform/db"
	"github.com/gatehouse-io/gatehouse/internal/rbac"
	"github.com/gatehouse-io/gatehouse/internal/users"

	"github.com/jackc/pgx/v5"
)

// Store abstracts the persistence used by the approve-and-assign workflow.
type Store interface {
	FindUser(ctx context.Context, id int64) (*users.User, error)
	// ApproveAndAssign activates the user, sets the role, and upserts every
	// grant in one atomic unit. Either all mutations become visible together
	// or, on any failure, none do.
	ApproveAndAssign(ctx context.Context, userID int64, role string, grants []Grant) error
}

// PGStore implements Store on PostgreSQL, composing the users and rbac
// repositories inside a single transaction.
type PGStore struct {
	pool  *pgxpool.Pool
	users *users.Repository
	rbac  *rbac.PGRepository
}

// NewStore constructs a PGStore.
func NewStore(pool *pgxpool.Pool, usersRepo *users.Repository, rbacRepo *rbac.PGRepository) *PGStore {
	return &PGStore{pool: pool, users: usersRepo, rbac: rbacRepo}
}

// FindUser fetches the onboarding target.
func (s *PGStore) FindUser(ctx context.Context, id int64) (*users.User, error) {
	return s.users.FindByID(ctx, id)
}

// ApproveAndAssign runs activation and all assignment upserts in one
// transaction. Rollback on any failure leaves no intermediate state: no
// active user without grants, no grant against a still-pending user.
func (s *PGStore) ApproveAndAssign(ctx context.Context, userID int64, role string, grants []Grant) error {
	return db.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		if err := s.users.ActivateAndSetRole(ctx, tx, userID, role); err != nil {
			return err
		}
		for _, grant := range grants {
			resourceID, err := s.rbac.EnsureResourceTx(ctx, tx, grant.ResourceName)
			if err != nil {
				return err
			}
			if err := s.rbac.UpsertAssignmentTx(ctx, tx, userID, resourceID, grant.Permissions); err != nil {
				return err
			}
		}
		return nil
	})
}
