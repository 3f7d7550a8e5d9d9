package jwt

import (
	"time"
)

const (
	DefaultTokenExpiredTime = 24 * time.Hour
	DefaultSigningMethod    = "HS256"
)

// SaveMethodJWTEnum decides whether a token is self-contained (JWT) or must
// also match the session id kept in redis (REDIS), which allows logout.
type SaveMethodJWTEnum string

const (
	REDIS SaveMethodJWTEnum = "REDIS"
	JWT   SaveMethodJWTEnum = "JWT"
)

type Options struct {
	TokenExpiredTime time.Duration
	TokenSecretKey   string
	SigningMethod    string
	SaveMethod       SaveMethodJWTEnum
	KeyPrefix        string
}

func DefaultOptions(secretKey string) *Options {
	return &Options{
		TokenExpiredTime: DefaultTokenExpiredTime,
		TokenSecretKey:   secretKey,
		SigningMethod:    DefaultSigningMethod,
		SaveMethod:       JWT,
		KeyPrefix:        "lostfound:session",
	}
}
