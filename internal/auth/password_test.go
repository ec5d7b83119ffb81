package auth

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/pbkdf2"
)

func legacyDigest(t *testing.T, password string, iterations int) string {
	t.Helper()
	salt := []byte("0123456789abcdef")
	key := pbkdf2.Key([]byte(password), salt, iterations, legacyKeyLen, sha256.New)
	return fmt.Sprintf("pbkdf2_sha256$%d$%s$%s",
		iterations,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key))
}

func TestHashAndVerify(t *testing.T) {
	hasher := NewHasher()

	digest, err := hasher.Hash("s3cret-password")
	require.NoError(t, err)
	assert.True(t, hasher.Verify("s3cret-password", digest))
	assert.False(t, hasher.Verify("wrong-password", digest))
}

func TestHashProducesCurrentScheme(t *testing.T) {
	hasher := NewHasher()

	digest, err := hasher.Hash("s3cret-password")
	require.NoError(t, err)
	assert.False(t, hasher.NeedsUpgrade(digest))
}

func TestVerifyAcceptsLegacyScheme(t *testing.T) {
	hasher := NewHasher()
	digest := legacyDigest(t, "old-password", 10000)

	assert.True(t, hasher.Verify("old-password", digest))
	assert.False(t, hasher.Verify("wrong-password", digest))
	assert.True(t, hasher.NeedsUpgrade(digest))
}

func TestVerifyRejectsMalformedLegacyDigest(t *testing.T) {
	hasher := NewHasher()

	cases := []string{
		"pbkdf2_sha256$",
		"pbkdf2_sha256$abc$salt$key",
		"pbkdf2_sha256$0$c2FsdA$a2V5",
		"pbkdf2_sha256$10000$!!!$a2V5",
		"pbkdf2_sha256$10000$c2FsdA$dG9vc2hvcnQ",
	}
	for _, digest := range cases {
		assert.False(t, hasher.Verify("password", digest), "digest %q", digest)
	}
}
