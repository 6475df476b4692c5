// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

const accessCodeAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

const (
	MinAccessCodeLength = 4
	MaxAccessCodeLength = 32
)

var (
	ErrInvalidAdminKey   = errors.New("invalid admin key")
	ErrInvalidCodeLength = errors.New("access code length out of range")
)

// GenerateAccessCode creates a random code of lowercase letters and digits.
// Each character is drawn uniformly from the alphabet.
func GenerateAccessCode(length int) (string, error) {
	if length < MinAccessCodeLength || length > MaxAccessCodeLength {
		return "", fmt.Errorf("%w: %d", ErrInvalidCodeLength, length)
	}

	max := big.NewInt(int64(len(accessCodeAlphabet)))
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate access code: %w", err)
		}
		code[i] = accessCodeAlphabet[n.Int64()]
	}
	return string(code), nil
}

// NormalizeAccessCode canonicalizes user input before lookup. Codes are
// issued in lowercase, so typing them in capitals still works.
func NormalizeAccessCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// ValidateAdminKey compares the provided key with the configured one in
// constant time. An empty configured key never validates.
func ValidateAdminKey(provided, expected string) error {
	if expected == "" {
		return ErrInvalidAdminKey
	}
	// Hash both sides so the comparison does not leak the key length
	p := sha256.Sum256([]byte(provided))
	e := sha256.Sum256([]byte(expected))
	if !hmac.Equal(p[:], e[:]) {
		return ErrInvalidAdminKey
	}
	return nil
}

// HashIP creates a one-way hash of an IP address for logs
func HashIP(ip, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	// First 16 hex chars are enough to correlate repeated attempts
	return hex.EncodeToString(sum[:8])
}
