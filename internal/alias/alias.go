// Package alias turns random tokens into short, URL-safe identifiers.
//
// The codec is a two-step reduction: a 64-bit FNV-1a hash of the token is
// folded into a bounded decimal space (mod 10^12), then encoded in base62
// and left-padded to a fixed minimum width. The hash is not collision-free;
// callers must still verify uniqueness against the registry.
package alias

import (
	"strings"

	"github.com/google/uuid"
)

const (
	// base62Chars orders digits by value: 0-9, a-z, A-Z.
	base62Chars = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

	// MinLength is the minimum alias width produced by EncodeBase62.
	MinLength = 7

	fnvOffsetBasis uint64 = 2166136261
	fnvPrime       uint64 = 16777619
	hashModulus    uint64 = 1_000_000_000_000 // 10^12
)

// HashToken reduces an arbitrary token to a bounded non-negative integer
// using FNV-1a over its UTF-8 bytes, accumulated in 64-bit unsigned space
// and taken modulo 10^12.
func HashToken(token string) uint64 {
	hash := fnvOffsetBasis
	for _, b := range []byte(token) {
		hash ^= uint64(b)
		hash *= fnvPrime
	}
	return hash % hashModulus
}

// EncodeBase62 encodes n in base62, left-padded with the zero digit to
// MinLength characters. EncodeBase62(0) is "0000000".
func EncodeBase62(n uint64) string {
	encoded := ""
	for n != 0 {
		encoded = string(base62Chars[n%62]) + encoded
		n /= 62
	}

	if len(encoded) < MinLength {
		encoded = strings.Repeat("0", MinLength-len(encoded)) + encoded
	}
	return encoded
}

// Normalize canonicalizes an alias for storage and lookup: trimmed of
// surrounding whitespace and lowercased.
func Normalize(a string) string {
	return strings.ToLower(strings.TrimSpace(a))
}

// Generator produces alias candidates from random tokens.
type Generator interface {
	// Generate returns a new alias candidate of at least MinLength characters.
	Generate() string
}

// uuidGenerator hashes a random UUIDv4 per candidate.
type uuidGenerator struct{}

// NewGenerator returns the default UUID-backed candidate generator.
func NewGenerator() Generator {
	return uuidGenerator{}
}

func (uuidGenerator) Generate() string {
	return EncodeBase62(HashToken(uuid.NewString()))
}
