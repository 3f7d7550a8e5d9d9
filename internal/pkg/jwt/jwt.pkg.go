package jwt

import (
	"errors"
	"fmt"
	"lostfound/internal/pkg/helper"
	"lostfound/internal/pkg/redis"
	"time"

	"github.com/dgrijalva/jwt-go"
)

const (
	UserDataKey = "user_data"

	ClaimUserID   = "id"
	ClaimCampusID = "campus_id"
	ClaimName     = "name"
	ClaimSession  = "session_id"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrRevoked      = errors.New("session revoked")
)

type Auth struct {
	TokenExpiredTime time.Duration
	TokenSecretKey   string
	SigningMethod    string
	SaveMethod       SaveMethodJWTEnum
	KeyPrefix        string
	Redis            redis.IRedis
}

type IJWTAuth interface {
	GenerateToken(data map[string]interface{}) (string, *time.Time, error)
	ValidateToken(jwtToken string) (map[string]interface{}, error)
	Revoke(claims map[string]interface{}) error
}

func New(rds redis.IRedis, opt *Options) IJWTAuth {
	if opt.SaveMethod == REDIS && rds == nil {
		opt.SaveMethod = JWT
	}
	return &Auth{
		TokenExpiredTime: opt.TokenExpiredTime,
		TokenSecretKey:   opt.TokenSecretKey,
		SigningMethod:    opt.SigningMethod,
		SaveMethod:       opt.SaveMethod,
		KeyPrefix:        opt.KeyPrefix,
		Redis:            rds,
	}
}

func (a *Auth) sessionKey(id interface{}) (string, error) {
	strID := fmt.Sprintf("%v", id)
	if id == nil || strID == "" {
		return "", fmt.Errorf("%s claim is required", ClaimUserID)
	}
	return a.KeyPrefix + ":" + strID, nil
}

// GenerateToken signs data as claims. Registered claim names in data are
// ignored; exp/iat/session_id are set here.
func (a *Auth) GenerateToken(data map[string]interface{}) (string, *time.Time, error) {
	now := time.Now()
	exp := now.Add(a.TokenExpiredTime)
	sessionID, err := helper.GenerateID()
	if err != nil {
		return "", nil, err
	}

	tokenContent := jwt.MapClaims{}
	for key, value := range data {
		switch key {
		case "aud", "exp", "iat", "iss", "nbf", ClaimSession:
			continue
		}
		tokenContent[key] = value
	}

	if a.TokenExpiredTime > 0 {
		tokenContent["exp"] = exp.Unix()
	}
	tokenContent["iat"] = now.Unix()
	tokenContent[ClaimSession] = sessionID

	token, err := jwt.NewWithClaims(jwt.GetSigningMethod(a.SigningMethod), tokenContent).
		SignedString([]byte(a.TokenSecretKey))
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}

	if a.SaveMethod == REDIS {
		key, err := a.sessionKey(data[ClaimUserID])
		if err != nil {
			return "", nil, err
		}
		if err := a.Redis.Set(key, sessionID, a.TokenExpiredTime); err != nil {
			return "", nil, fmt.Errorf("store session: %w", err)
		}
	}

	return token, &exp, nil
}

func (a *Auth) ValidateToken(jwtToken string) (map[string]interface{}, error) {
	tokenData := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(jwtToken, tokenData, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != a.SigningMethod {
			return nil, fmt.Errorf("unexpected signing method %s", token.Method.Alg())
		}
		return []byte(a.TokenSecretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if a.SaveMethod == REDIS {
		key, err := a.sessionKey(tokenData[ClaimUserID])
		if err != nil {
			return nil, err
		}
		var sessionID string
		found, err := a.Redis.GetInto(key, &sessionID)
		if err != nil {
			return nil, err
		}
		if !found || sessionID != fmt.Sprintf("%v", tokenData[ClaimSession]) {
			return nil, ErrRevoked
		}
	}

	return tokenData, nil
}

// Revoke ends the redis-backed session; self-contained tokens simply expire.
func (a *Auth) Revoke(claims map[string]interface{}) error {
	if a.SaveMethod != REDIS {
		return nil
	}
	key, err := a.sessionKey(claims[ClaimUserID])
	if err != nil {
		return err
	}
	return a.Redis.Del(key)
}

// UserID reads the user id claim, which decodes as float64 from a parsed
// token and as an integer when claims are built in-process.
func UserID(claims map[string]interface{}) (uint, bool) {
	switch v := claims[ClaimUserID].(type) {
	case float64:
		return uint(v), v > 0
	case uint:
		return v, v > 0
	case int:
		return uint(v), v > 0
	case int64:
		return uint(v), v > 0
	}
	return 0, false
}
