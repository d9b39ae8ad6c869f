package api

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoSecret 未配置签名密钥
var ErrNoSecret = errors.New("jwt secret 未配置")

// GenerateToken 签发 HS256 Token
func GenerateToken(secret, deviceID string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrNoSecret
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"device_id": deviceID,
		"iat":       now.Unix(),
		"exp":       now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifyToken 校验 Token 并返回 claims
func VerifyToken(secret, tokenString string) (jwt.MapClaims, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("签名算法不支持: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrSignatureInvalid
}
