package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatehouse-io/gatehouse/internal/shared"
	"github.com/gatehouse-io/gatehouse/internal/users"
)

type stubUserStore struct {
	byEmail        map[string]*users.User
	nextID         int64
	updatedHashes  map[int64]string
	updateHashErr  error
	createdPending []users.NewUser
}

func newStubUserStore() *stubUserStore {
	return &stubUserStore{
		byEmail:       make(map[string]*users.User),
		nextID:        1,
		updatedHashes: make(map[int64]string),
	}
}

func (s *stubUserStore) add(user *users.User) *users.User {
	user.ID = s.nextID
	s.nextID++
	s.byEmail[user.Email] = user
	return user
}

func (s *stubUserStore) FindByEmail(ctx context.Context, email string) (*users.User, error) {
	user, ok := s.byEmail[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *stubUserStore) Create(ctx context.Context, in users.NewUser) (*users.User, error) {
	if _, ok := s.byEmail[in.Email]; ok {
		return nil, shared.ErrDuplicateEmail
	}
	s.createdPending = append(s.createdPending, in)
	return s.add(&users.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: in.PasswordHash,
		Role:         in.Role,
		IsActive:     in.IsActive,
	}), nil
}

func (s *stubUserStore) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	if s.updateHashErr != nil {
		return s.updateHashErr
	}
	s.updatedHashes[id] = hash
	for _, user := range s.byEmail {
		if user.ID == id {
			user.PasswordHash = hash
		}
	}
	return nil
}

func newTestService(store UserStore) *Service {
	return NewService(store, NewHasher(), NewTokenManager("test-secret", time.Hour), nil)
}

func TestRegisterCreatesPendingAccount(t *testing.T) {
	store := newStubUserStore()
	service := newTestService(store)

	user, err := service.Register(context.Background(), "Alice", "a@x.com", "password123", "editor")
	require.NoError(t, err)
	assert.False(t, user.IsActive)
	assert.Equal(t, "editor", user.Role)
	require.Len(t, store.createdPending, 1)
	assert.False(t, store.createdPending[0].IsActive)
	assert.NotEqual(t, "password123", store.createdPending[0].PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := newStubUserStore()
	service := newTestService(store)

	_, err := service.Register(context.Background(), "Alice", "a@x.com", "password123", "editor")
	require.NoError(t, err)
	_, err = service.Register(context.Background(), "Alice Again", "a@x.com", "password456", "editor")
	assert.True(t, errors.Is(err, shared.ErrDuplicateEmail))
}

func TestAuthenticateUnknownAndWrongPasswordIndistinguishable(t *testing.T) {
	store := newStubUserStore()
	service := newTestService(store)

	hash, err := NewHasher().Hash("correct-password")
	require.NoError(t, err)
	store.add(&users.User{Email: "known@x.com", PasswordHash: hash, Role: "editor", IsActive: true})

	_, _, errUnknown := service.Authenticate(context.Background(), "unknown@x.com", "whatever")
	_, _, errWrong := service.Authenticate(context.Background(), "known@x.com", "wrong-password")

	assert.True(t, errors.Is(errUnknown, shared.ErrInvalidCredentials))
	assert.True(t, errors.Is(errWrong, shared.ErrInvalidCredentials))
	assert.Equal(t, errUnknown, errWrong)
}

func TestAuthenticatePendingAccount(t *testing.T) {
	store := newStubUserStore()
	service := newTestService(store)

	hash, err := NewHasher().Hash("correct-password")
	require.NoError(t, err)
	store.add(&users.User{Email: "pending@x.com", PasswordHash: hash, Role: "editor", IsActive: false})

	_, _, err = service.Authenticate(context.Background(), "pending@x.com", "correct-password")
	assert.True(t, errors.Is(err, shared.ErrAccountNotApproved))
}

func TestAuthenticateIssuesVerifiableToken(t *testing.T) {
	store := newStubUserStore()
	tokens := NewTokenManager("test-secret", time.Hour)
	service := NewService(store, NewHasher(), tokens, nil)

	hash, err := NewHasher().Hash("correct-password")
	require.NoError(t, err)
	store.add(&users.User{Email: "active@x.com", PasswordHash: hash, Role: "editor", IsActive: true})

	token, user, err := service.Authenticate(context.Background(), "active@x.com", "correct-password")
	require.NoError(t, err)
	assert.Equal(t, "active@x.com", user.Email)

	claims, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "active@x.com", claims.Subject)
	assert.Equal(t, "editor", claims.Role)
}

func TestAuthenticateUpgradesLegacyDigest(t *testing.T) {
	store := newStubUserStore()
	service := newTestService(store)

	digest := legacyDigest(t, "old-password", 10000)
	user := store.add(&users.User{Email: "legacy@x.com", PasswordHash: digest, Role: "editor", IsActive: true})

	_, _, err := service.Authenticate(context.Background(), "legacy@x.com", "old-password")
	require.NoError(t, err)

	upgraded, ok := store.updatedHashes[user.ID]
	require.True(t, ok, "legacy digest should be re-hashed on login")
	assert.False(t, NewHasher().NeedsUpgrade(upgraded))
	assert.True(t, NewHasher().Verify("old-password", upgraded))
}

func TestAuthenticateUpgradeFailureDoesNotFailLogin(t *testing.T) {
	store := newStubUserStore()
	store.updateHashErr = errors.New("write failed")
	service := newTestService(store)

	digest := legacyDigest(t, "old-password", 10000)
	store.add(&users.User{Email: "legacy@x.com", PasswordHash: digest, Role: "editor", IsActive: true})

	token, _, err := service.Authenticate(context.Background(), "legacy@x.com", "old-password")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestResolveUnknownSubject(t *testing.T) {
	store := newStubUserStore()
	tokens := NewTokenManager("test-secret", time.Hour)
	service := NewService(store, NewHasher(), tokens, nil)

	token, err := tokens.Issue("gone@x.com", "editor", time.Hour)
	require.NoError(t, err)

	_, err = service.Resolve(context.Background(), token)
	assert.True(t, errors.Is(err, shared.ErrIdentityNotFound))
}

func TestResolveInvalidToken(t *testing.T) {
	store := newStubUserStore()
	service := newTestService(store)

	_, err := service.Resolve(context.Background(), "not-a-token")
	assert.True(t, errors.Is(err, shared.ErrInvalidToken))
}
