// Package bootstrap seeds the store on every process start. All operations
// are idempotent: existing rows are never duplicated or modified.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gatehouse-io/gatehouse/internal/app"
	"github.com/gatehouse-io/gatehouse/internal/auth"
	"github.com/gatehouse-io/gatehouse/internal/content"
	"github.com/gatehouse-io/gatehouse/internal/users"
)

// Execer is the write surface seeding needs. Satisfied by *pgxpool.Pool.
type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// Run ensures the pre-activated superadmin account and the fixed default
// resource set exist.
func Run(ctx context.Context, db Execer, hasher *auth.Hasher, cfg *app.Config, logger *slog.Logger) error {
	if err := ensureSuperadmin(ctx, db, hasher, cfg); err != nil {
		return fmt.Errorf("bootstrap: superadmin: %w", err)
	}
	if err := ensureDefaultResources(ctx, db); err != nil {
		return fmt.Errorf("bootstrap: default resources: %w", err)
	}
	logger.Info("bootstrap complete", slog.String("superadmin", cfg.SuperadminEmail))
	return nil
}

// ensureSuperadmin creates the superadmin active, bypassing onboarding. The
// insert is a no-op when the email already exists.
func ensureSuperadmin(ctx context.Context, db Execer, hasher *auth.Hasher, cfg *app.Config) error {
	hash, err := hasher.Hash(cfg.SuperadminPassword)
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, `INSERT INTO users (name, email, password_hash, role, is_active)
VALUES ($1, $2, $3, $4, TRUE)
ON CONFLICT (email) DO NOTHING`,
		"Super Admin", cfg.SuperadminEmail, hash, users.RoleSuperadmin)
	return err
}

func ensureDefaultResources(ctx context.Context, db Execer) error {
	for _, name := range content.ResourceNames() {
		if _, err := db.Exec(ctx, `INSERT INTO resources (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name); err != nil {
			return err
		}
	}
	return nil
}
