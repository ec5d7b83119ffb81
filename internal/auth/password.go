package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

// legacyPrefix marks digests produced by the retired PBKDF2 scheme. They are
// still accepted on verify; new digests are always bcrypt.
const legacyPrefix = "pbkdf2_sha256$"

const legacyKeyLen = 32

// Hasher hashes and verifies passwords. The current scheme is bcrypt; digests
// from the deprecated PBKDF2-SHA256 scheme verify but are flagged for upgrade.
type Hasher struct {
	cost int
}

// NewHasher constructs a Hasher with the default bcrypt cost.
func NewHasher() *Hasher {
	return &Hasher{cost: bcrypt.DefaultCost}
}

// Hash produces a salted digest of plaintext using the current scheme.
func (h *Hasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest under any accepted scheme.
func (h *Hasher) Verify(plaintext, digest string) bool {
	if strings.HasPrefix(digest, legacyPrefix) {
		return verifyLegacy(plaintext, digest)
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

// NeedsUpgrade reports whether digest was produced by a deprecated scheme and
// should be replaced with a current-scheme digest on next successful login.
func (h *Hasher) NeedsUpgrade(digest string) bool {
	return !strings.HasPrefix(digest, "$2")
}

// verifyLegacy checks a pbkdf2_sha256$<iterations>$<salt>$<key> digest.
func verifyLegacy(plaintext, digest string) bool {
	parts := strings.Split(digest, "$")
	if len(parts) != 4 {
		return false
	}
	iterations, err := strconv.Atoi(parts[1])
	if err != nil || iterations <= 0 {
		return false
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[2])
	if err != nil {
		return false
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil || len(want) != legacyKeyLen {
		return false
	}
	got := pbkdf2.Key([]byte(plaintext), salt, iterations, legacyKeyLen, sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1
}
