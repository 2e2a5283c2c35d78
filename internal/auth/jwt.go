package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

const (
	typeAccess  = "access"
	typeRefresh = "refresh"
)

type TokenManager struct {
	issuer        string
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewTokenManager(issuer, accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		issuer:        issuer,
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

type Claims struct {
	UserID string `json:"uid"`
	Type   string `json:"typ"` // "access" | "refresh"
	jwt.RegisteredClaims
}

type Pair struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
}

func (tm *TokenManager) claims(userID, typ string, ttl time.Duration) Claims {
	now := tm.now()
	return Claims{
		UserID: userID,
		Type:   typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tm.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
}

// GeneratePair signs an access and a refresh token for userID.
func (tm *TokenManager) GeneratePair(userID string) (Pair, error) {
	acc := tm.claims(userID, typeAccess, tm.accessTTL)
	ref := tm.claims(userID, typeRefresh, tm.refreshTTL)

	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, acc).SignedString(tm.accessSecret)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := jwt.NewWithClaims(jwt.SigningMethodHS256, ref).SignedString(tm.refreshSecret)
	if err != nil {
		return Pair{}, err
	}
	return Pair{AccessToken: access, RefreshToken: refresh, AccessExp: acc.ExpiresAt.Time}, nil
}

func (tm *TokenManager) parse(tokenStr string, secret []byte, typ string) (*Claims, bool) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tm.issuer),
		jwt.WithTimeFunc(tm.now),
	)
	return claims, err == nil && claims.Type == typ && claims.UserID != ""
}

// ParseAny tries the access secret first, then the refresh secret. The bool
// reports whether the token is a refresh token.
func (tm *TokenManager) ParseAny(tokenStr string) (*Claims, bool, error) {
	if c, ok := tm.parse(tokenStr, tm.accessSecret, typeAccess); ok {
		return c, false, nil
	}
	if c, ok := tm.parse(tokenStr, tm.refreshSecret, typeRefresh); ok {
		return c, true, nil
	}
	return nil, false, ErrInvalidToken
}
