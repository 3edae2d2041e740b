// Package password derives salted argon2id password hashes.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/argon2"

	"github.com/dtroode/accountd/internal/model"
)

var _ model.PasswordHasher = (*Hasher)(nil)

// Params are the argon2id cost parameters.
type Params struct {
	Time      uint32
	MemKiB    uint32
	Par       uint8
	SaltBytes int
	KeyLen    uint32
}

// DefaultParams follow the argon2id recommendation for interactive logins.
var DefaultParams = Params{
	Time:      1,
	MemKiB:    64 * 1024,
	Par:       2,
	SaltBytes: 16,
	KeyLen:    32,
}

type Hasher struct {
	params Params
}

// NewHasher creates a Hasher. Zero fields fall back to DefaultParams.
func NewHasher(p Params) *Hasher {
	if p.Time == 0 {
		p.Time = DefaultParams.Time
	}
	if p.MemKiB == 0 {
		p.MemKiB = DefaultParams.MemKiB
	}
	if p.Par == 0 {
		p.Par = DefaultParams.Par
	}
	if p.SaltBytes <= 0 {
		p.SaltBytes = DefaultParams.SaltBytes
	}
	if p.KeyLen == 0 {
		p.KeyLen = DefaultParams.KeyLen
	}
	return &Hasher{params: p}
}

// Salt returns a fresh random salt, hex encoded.
func (h *Hasher) Salt() (string, error) {
	b := make([]byte, h.params.SaltBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Hash derives the hex-encoded argon2id key of password under salt.
func (h *Hasher) Hash(password, salt string) string {
	key := argon2.IDKey([]byte(password), []byte(salt), h.params.Time, h.params.MemKiB, h.params.Par, h.params.KeyLen)
	return hex.EncodeToString(key)
}

// Verify reports whether password hashes to hash under salt.
func (h *Hasher) Verify(password, salt, hash string) bool {
	got := h.Hash(password, salt)
	return subtle.ConstantTimeCompare([]byte(got), []byte(hash)) == 1
}
