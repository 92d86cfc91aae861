package helpers

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTManager handles generation and validation of JWT tokens.
// Session tokens authenticate API requests; reset tokens prove control of the
// forgot-password flow. Both are HS256-signed with the server-held secret but
// carry different TTLs and audiences so one can never stand in for the other.
type JWTManager struct {
	Secret     []byte
	SessionTTL time.Duration
	ResetTTL   time.Duration
}

const (
	audSession = "session"
	audReset   = "password-reset"
)

var defaultManager atomic.Pointer[JWTManager]

func NewJWTManager(secret string, sessionTTL, resetTTL time.Duration) *JWTManager {
	m := &JWTManager{
		Secret:     []byte(secret),
		SessionTTL: sessionTTL,
		ResetTTL:   resetTTL,
	}
	defaultManager.Store(m)
	return m
}

// DefaultJWT returns the last constructed JWTManager (used for auto-wiring routes)
func DefaultJWT() *JWTManager { return defaultManager.Load() }

// Claims carries the user identifier as the only claim besides the standard
// expiry/issued-at/audience set.
type Claims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

func (m *JWTManager) GenerateSessionToken(userID string) (string, time.Time, error) {
	return m.generate(userID, audSession, m.SessionTTL)
}

func (m *JWTManager) GenerateResetToken(userID string) (string, time.Time, error) {
	return m.generate(userID, audReset, m.ResetTTL)
}

func (m *JWTManager) generate(userID, audience string, ttl time.Duration) (string, time.Time, error) {
	exp := time.Now().Add(ttl)
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Audience:  jwt.ClaimStrings{audience},
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.Secret)
	return s, exp, err
}

func (m *JWTManager) ParseSessionToken(tokenStr string) (*Claims, error) {
	return m.parse(tokenStr, audSession)
}

func (m *JWTManager) ParseResetToken(tokenStr string) (*Claims, error) {
	return m.parse(tokenStr, audReset)
}

func (m *JWTManager) parse(tokenStr, audience string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.Secret, nil
	}, jwt.WithAudience(audience))
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
