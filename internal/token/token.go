// Package token produces the opaque bearer tokens and numeric one-time
// codes used by the auth flows. Everything here is stateless.
package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

// NewSessionToken returns 32 bytes of cryptographic randomness encoded
// as a 64-character hex string. Reset tokens use the same construction.
func NewSessionToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(raw), nil
}

// NewOTPCode returns a uniformly distributed 6-digit decimal code in
// [100000, 999999]. The lower bound keeps leading zeros out of the code
// space, matching what users see in the verification emails.
func NewOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate random code: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+100000), nil
}
