// Package security hashes and verifies account passwords.
package security

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/pbkdf2"
)

const (
	SchemePBKDF2   = "pbkdf2"
	SchemeArgon2id = "argon2id"

	// DefaultPBKDF2Iterations applies to "pbkdf2:sha256" hashes that omit a count.
	DefaultPBKDF2Iterations = 260000

	saltChars  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	saltLength = 16
)

var (
	ErrUnknownScheme = errors.New("unknown password scheme")
	ErrMalformedHash = errors.New("malformed password hash")
)

// Hasher turns plaintext passwords into encoded hashes and checks them.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
}

// PasswordHasher hashes with its configured scheme and verifies any supported scheme.
type PasswordHasher struct {
	scheme     string
	iterations int
}

// NewHasher returns a hasher for scheme. iterations only applies to pbkdf2.
func NewHasher(scheme string, iterations int) (*PasswordHasher, error) {
	switch scheme {
	case SchemePBKDF2, SchemeArgon2id:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
	}
	if iterations <= 0 {
		iterations = DefaultPBKDF2Iterations
	}
	return &PasswordHasher{scheme: scheme, iterations: iterations}, nil
}

func (h *PasswordHasher) Hash(password string) (string, error) {
	if h.scheme == SchemeArgon2id {
		return argon2id.CreateHash(password, argon2id.DefaultParams)
	}
	salt, err := randomSalt(saltLength)
	if err != nil {
		return "", err
	}
	return encodePBKDF2(password, salt, h.iterations), nil
}

func (h *PasswordHasher) Verify(password, encoded string) (bool, error) {
	switch {
	case strings.HasPrefix(encoded, "$argon2id$"):
		match, err := argon2id.ComparePasswordAndHash(password, encoded)
		if err != nil {
			return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
		}
		return match, nil
	case strings.HasPrefix(encoded, "pbkdf2:"):
		return verifyPBKDF2(password, encoded)
	default:
		return false, ErrMalformedHash
	}
}

// encodePBKDF2 produces "pbkdf2:sha256:<iterations>$<salt>$<hex digest>".
func encodePBKDF2(password, salt string, iterations int) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), iterations, sha256.Size, sha256.New)
	return fmt.Sprintf("pbkdf2:sha256:%d$%s$%s", iterations, salt, hex.EncodeToString(key))
}

func verifyPBKDF2(password, encoded string) (bool, error) {
	parts := strings.SplitN(encoded, "$", 3)
	if len(parts) != 3 {
		return false, ErrMalformedHash
	}
	method, salt, digest := parts[0], parts[1], parts[2]

	fields := strings.Split(method, ":")
	if len(fields) < 2 || len(fields) > 3 || fields[0] != "pbkdf2" || fields[1] != "sha256" {
		return false, fmt.Errorf("%w: unsupported method %q", ErrMalformedHash, method)
	}
	iterations := DefaultPBKDF2Iterations
	if len(fields) == 3 {
		n, err := strconv.Atoi(fields[2])
		if err != nil || n <= 0 {
			return false, fmt.Errorf("%w: bad iteration count", ErrMalformedHash)
		}
		iterations = n
	}

	want, err := hex.DecodeString(digest)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
	if len(want) != sha256.Size {
		return false, fmt.Errorf("%w: digest is %d bytes", ErrMalformedHash, len(want))
	}
	got := pbkdf2.Key([]byte(password), []byte(salt), iterations, len(want), sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

func randomSalt(n int) (string, error) {
	var b strings.Builder
	max := big.NewInt(int64(len(saltChars)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate salt: %w", err)
		}
		b.WriteByte(saltChars[idx.Int64()])
	}
	return b.String(), nil
}
