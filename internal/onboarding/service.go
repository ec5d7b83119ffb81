package onboarding

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/gatehouse-io/gatehouse/internal/rbac"
	"github.com/gatehouse-io/gatehouse/internal/shared"
	"github.com/gatehouse-io/gatehouse/internal/users"
)

// AuditRecorder persists an audit trail entry. Satisfied by shared.AuditLogger.
type AuditRecorder interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service runs the approve-and-assign workflow: the single transition from a
// pending account to an active one with a role and a batch of grants.
type Service struct {
	store          Store
	approvalSecret string
	audit          AuditRecorder
	logger         *slog.Logger
}

// NewService constructs a Service. audit may be nil.
func NewService(store Store, approvalSecret string, audit AuditRecorder, logger *slog.Logger) *Service {
	return &Service{store: store, approvalSecret: approvalSecret, audit: audit, logger: logger}
}

// ApproveAndAssign activates the target user, sets its role, and upserts the
// grant batch atomically. The caller must hold the elevated role and present
// the process-wide approval secret; the secret acts as a second factor on top
// of the role check. Nothing is mutated unless every precondition holds and
// every mutation succeeds.
func (s *Service) ApproveAndAssign(ctx context.Context, caller *shared.Identity, targetID int64, newRole, approvalSecret string, grants []Grant) (*users.User, error) {
	if caller == nil || !strings.EqualFold(caller.Role, users.RoleSuperadmin) {
		return nil, fmt.Errorf("%w: only superadmin can approve users", shared.ErrForbidden)
	}
	if subtle.ConstantTimeCompare([]byte(approvalSecret), []byte(s.approvalSecret)) != 1 {
		return nil, fmt.Errorf("%w: invalid approval secret", shared.ErrForbidden)
	}
	for _, grant := range grants {
		if _, err := rbac.ParseActions(grant.Permissions); err != nil {
			return nil, err
		}
	}
	target, err := s.store.FindUser(ctx, targetID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %d", shared.ErrNotFound, targetID)
		}
		return nil, err
	}
	if err := s.store.ApproveAndAssign(ctx, target.ID, newRole, grants); err != nil {
		return nil, err
	}
	target.IsActive = true
	target.Role = newRole
	s.recordApproval(ctx, caller, target, grants)
	return target, nil
}

func (s *Service) recordApproval(ctx context.Context, caller *shared.Identity, target *users.User, grants []Grant) {
	if s.audit == nil {
		return
	}
	meta := map[string]any{
		"target_id": target.ID,
		"role":      target.Role,
		"grants":    len(grants),
	}
	err := s.audit.Record(ctx, shared.AuditLog{
		ActorID: caller.UserID,
		Action:  "APPROVE_AND_ASSIGN",
		Entity:  "user",
		RefID:   uuid.New(),
		Meta:    meta,
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("record approval audit", slog.Any("error", err))
	}
}
