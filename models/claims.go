package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims mirrors the token the backend issues after a Google exchange.
// The portal only reads it; the signature is verified by the backend.
type Claims struct {
	Name       string `json:"name,omitempty"`
	PictureURL string `json:"pictureUrl,omitempty"`
	Role       string `json:"role,omitempty"` // tenant or admin
	jwt.RegisteredClaims
}
