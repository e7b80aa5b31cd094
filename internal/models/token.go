package models

import (
	"time"
)

type IssuedToken struct {
	Value     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Pair of tokens returned on registration and login
type TokenPair struct {
	Access  IssuedToken
	Refresh IssuedToken
}
