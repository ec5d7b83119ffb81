package onboarding

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatehouse-io/gatehouse/internal/shared"
	"github.com/gatehouse-io/gatehouse/internal/users"
)

type approveCall struct {
	userID int64
	role   string
	grants []Grant
}

type mockStore struct {
	usersByID  map[int64]*users.User
	approveErr error
	calls      []approveCall
}

func newMockStore() *mockStore {
	return &mockStore{usersByID: make(map[int64]*users.User)}
}

func (m *mockStore) FindUser(ctx context.Context, id int64) (*users.User, error) {
	user, ok := m.usersByID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *mockStore) ApproveAndAssign(ctx context.Context, userID int64, role string, grants []Grant) error {
	if m.approveErr != nil {
		return m.approveErr
	}
	m.calls = append(m.calls, approveCall{userID: userID, role: role, grants: grants})
	return nil
}

type recordedAudit struct {
	logs []shared.AuditLog
}

func (r *recordedAudit) Record(ctx context.Context, log shared.AuditLog) error {
	r.logs = append(r.logs, log)
	return nil
}

func superadminCaller() *shared.Identity {
	return &shared.Identity{UserID: 1, Email: "root@x.com", Role: users.RoleSuperadmin}
}

func TestApproveAndAssignHappyPath(t *testing.T) {
	store := newMockStore()
	store.usersByID[7] = &users.User{ID: 7, Email: "pending@x.com", Role: "editor", IsActive: false}
	audit := &recordedAudit{}
	service := NewService(store, "approval-secret", audit, nil)

	grants := []Grant{
		{ResourceName: "create_post", Permissions: "CRUD"},
		{ResourceName: "comment_post", Permissions: "CR"},
	}
	user, err := service.ApproveAndAssign(context.Background(), superadminCaller(), 7, "moderator", "approval-secret", grants)
	require.NoError(t, err)

	assert.True(t, user.IsActive)
	assert.Equal(t, "moderator", user.Role)

	require.Len(t, store.calls, 1)
	assert.Equal(t, int64(7), store.calls[0].userID)
	assert.Equal(t, "moderator", store.calls[0].role)
	assert.Equal(t, grants, store.calls[0].grants)

	require.Len(t, audit.logs, 1)
	assert.Equal(t, "APPROVE_AND_ASSIGN", audit.logs[0].Action)
	assert.Equal(t, int64(1), audit.logs[0].ActorID)
}

func TestApproveAndAssignWrongSecretTouchesNothing(t *testing.T) {
	store := newMockStore()
	store.usersByID[7] = &users.User{ID: 7, Email: "pending@x.com", IsActive: false}
	service := NewService(store, "approval-secret", nil, nil)

	_, err := service.ApproveAndAssign(context.Background(), superadminCaller(), 7, "moderator", "wrong-secret", nil)
	assert.True(t, errors.Is(err, shared.ErrForbidden))
	assert.Empty(t, store.calls)
	assert.False(t, store.usersByID[7].IsActive)
}

func TestApproveAndAssignRequiresSuperadmin(t *testing.T) {
	store := newMockStore()
	store.usersByID[7] = &users.User{ID: 7, Email: "pending@x.com"}
	service := NewService(store, "approval-secret", nil, nil)

	caller := &shared.Identity{UserID: 2, Email: "mod@x.com", Role: "moderator"}
	_, err := service.ApproveAndAssign(context.Background(), caller, 7, "editor", "approval-secret", nil)
	assert.True(t, errors.Is(err, shared.ErrForbidden))
	assert.Empty(t, store.calls)

	_, err = service.ApproveAndAssign(context.Background(), nil, 7, "editor", "approval-secret", nil)
	assert.True(t, errors.Is(err, shared.ErrForbidden))
}

func TestApproveAndAssignRoleCheckIsCaseInsensitive(t *testing.T) {
	store := newMockStore()
	store.usersByID[7] = &users.User{ID: 7, Email: "pending@x.com"}
	service := NewService(store, "approval-secret", nil, nil)

	caller := &shared.Identity{UserID: 1, Email: "root@x.com", Role: "SuperAdmin"}
	_, err := service.ApproveAndAssign(context.Background(), caller, 7, "editor", "approval-secret", nil)
	require.NoError(t, err)
	assert.Len(t, store.calls, 1)
}

func TestApproveAndAssignUnknownTarget(t *testing.T) {
	store := newMockStore()
	service := NewService(store, "approval-secret", nil, nil)

	_, err := service.ApproveAndAssign(context.Background(), superadminCaller(), 42, "editor", "approval-secret", nil)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestApproveAndAssignRejectsInvalidGrant(t *testing.T) {
	store := newMockStore()
	store.usersByID[7] = &users.User{ID: 7, Email: "pending@x.com"}
	service := NewService(store, "approval-secret", nil, nil)

	grants := []Grant{{ResourceName: "create_post", Permissions: "CRX"}}
	_, err := service.ApproveAndAssign(context.Background(), superadminCaller(), 7, "editor", "approval-secret", grants)
	assert.Error(t, err)
	assert.Empty(t, store.calls)
}

func TestApproveAndAssignPropagatesStoreError(t *testing.T) {
	store := newMockStore()
	store.usersByID[7] = &users.User{ID: 7, Email: "pending@x.com"}
	store.approveErr = errors.New("tx failed")
	audit := &recordedAudit{}
	service := NewService(store, "approval-secret", audit, nil)

	_, err := service.ApproveAndAssign(context.Background(), superadminCaller(), 7, "editor", "approval-secret", nil)
	assert.EqualError(t, err, "tx failed")
	assert.Empty(t, audit.logs, "no audit entry for a failed approval")
}
