// Package models defines shared data types for the application.
package models

import (
	"crypto/rand"
	"math/big"
	"time"
)

// APIToken is a bearer credential issued after Telegram login verification.
type APIToken struct {
	ID        int64     `json:"id" db:"id"`
	Token     string    `json:"token" db:"token"`
	Name      string    `json:"name" db:"name"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// TokenLength is the length of generated API tokens.
const TokenLength = 32

// GenerateToken returns a random API token of TokenLength characters.
func GenerateToken() (string, error) {
	buf := make([]byte, TokenLength)
	max := big.NewInt(int64(len(tokenAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = tokenAlphabet[n.Int64()]
	}
	return string(buf), nil
}
