package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrIdentityTokenInvalid = errors.New("identity token invalid")
	ErrIdentitySecretEmpty  = errors.New("identity secret is empty")
)

// IdentityClaims 网关身份令牌声明
type IdentityClaims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// IssueIdentityToken 签发身份令牌
func IssueIdentityToken(secret string, userID uint, role string, ttl time.Duration) (string, time.Time, error) {
	if strings.TrimSpace(secret) == "" {
		return "", time.Time{}, ErrIdentitySecretEmpty
	}
	if userID == 0 {
		return "", time.Time{}, ErrInvalidUserID
	}
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := IdentityClaims{
		UserID: userID,
		Role:   strings.ToUpper(strings.TrimSpace(role)),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseIdentityToken 解析并校验身份令牌
func ParseIdentityToken(secret, tokenString string) (*IdentityClaims, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrIdentitySecretEmpty
	}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &IdentityClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIdentityTokenInvalid, err)
	}
	if !token.Valid || claims.UserID == 0 || strings.TrimSpace(claims.Role) == "" {
		return nil, ErrIdentityTokenInvalid
	}
	return claims, nil
}
