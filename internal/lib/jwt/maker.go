// Package jwt implements issuing and parsing of signed bearer tokens.
package jwt

import (
	"time"
)

// Maker issues and parses bearer tokens carrying the user identity claims.
type Maker interface {
	// GenerateToken signs a token for the given user identity.
	GenerateToken(userUID, email, role string) (string, error)
	// ParseToken verifies the signature and expiry and returns the claims.
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl implements Maker with an HMAC secret and a fixed token TTL.
type MakerImpl struct {
	secretKey string
	tokenTTL  time.Duration
}

// NewJWTMaker creates a MakerImpl from the signing secret and TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
