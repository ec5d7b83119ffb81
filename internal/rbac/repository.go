package rbac

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gatehouse-io/gatehouse/internal/shared"
)

// PGRepository implements the ledger against PostgreSQL. Methods that take a
// pgx.Tx participate in the caller's transaction; the rest run on the pool.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// rowQuerier is satisfied by both *pgxpool.Pool and pgx.Tx.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// ResourceIDByName resolves a resource id, shared.ErrNotFound when absent.
func (r *PGRepository) ResourceIDByName(ctx context.Context, name string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `SELECT id FROM resources WHERE name = $1`, name).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, shared.ErrNotFound
		}
		return 0, err
	}
	return id, nil
}

// EnsureResource resolves or creates a resource by name on the pool.
func (r *PGRepository) EnsureResource(ctx context.Context, name string) (int64, error) {
	return ensureResource(ctx, r.pool, name)
}

// EnsureResourceTx is EnsureResource inside the caller's transaction.
func (r *PGRepository) EnsureResourceTx(ctx context.Context, tx pgx.Tx, name string) (int64, error) {
	return ensureResource(ctx, tx, name)
}

// ensureResource is a single-statement upsert: the no-op DO UPDATE makes the
// insert return the existing row instead of failing under the concurrent
// create race, so callers never observe a duplicate-name conflict.
func ensureResource(ctx context.Context, q rowQuerier, name string) (int64, error) {
	var id int64
	err := q.QueryRow(ctx, `INSERT INTO resources (name) VALUES ($1)
ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
RETURNING id`, name).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// AssignmentPermissions returns the permission string granted to the user on
// the resource, shared.ErrNotFound when no assignment row exists.
func (r *PGRepository) AssignmentPermissions(ctx context.Context, userID, resourceID int64) (string, error) {
	var permissions string
	err := r.pool.QueryRow(ctx, `SELECT permissions FROM user_resources WHERE user_id = $1 AND resource_id = $2`,
		userID, resourceID).Scan(&permissions)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", shared.ErrNotFound
		}
		return "", err
	}
	return permissions, nil
}

// UpsertAssignment writes the grant, replacing any earlier permission string
// for the same (user, resource) pair.
func (r *PGRepository) UpsertAssignment(ctx context.Context, userID, resourceID int64, permissions string) error {
	return upsertAssignment(ctx, r.pool, userID, resourceID, permissions)
}

// UpsertAssignmentTx is UpsertAssignment inside the caller's transaction.
func (r *PGRepository) UpsertAssignmentTx(ctx context.Context, tx pgx.Tx, userID, resourceID int64, permissions string) error {
	return upsertAssignment(ctx, tx, userID, resourceID, permissions)
}

func upsertAssignment(ctx context.Context, q execer, userID, resourceID int64, permissions string) error {
	_, err := q.Exec(ctx, `INSERT INTO user_resources (user_id, resource_id, permissions)
VALUES ($1, $2, $3)
ON CONFLICT (user_id, resource_id) DO UPDATE SET permissions = EXCLUDED.permissions, updated_at = NOW()`,
		userID, resourceID, permissions)
	return err
}

// UserEmail resolves the email for an assignment record, shared.ErrNotFound
// when the user id is unknown.
func (r *PGRepository) UserEmail(ctx context.Context, userID int64) (string, error) {
	var email string
	err := r.pool.QueryRow(ctx, `SELECT email FROM users WHERE id = $1`, userID).Scan(&email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", shared.ErrNotFound
		}
		return "", err
	}
	return email, nil
}
