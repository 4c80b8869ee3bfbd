// FILE: internal/pkg/serverutils/jwt_middleware.go
package serverutils

import (
	"errors"
	"strings"
	"time"

	"listening-notes-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	bearerPrefix = "Bearer "
	uidLocalKey  = "uid"
)

// UserClaims is the identity carried by a bearer token.
type UserClaims struct {
	Uid string `json:"uid"`
	jwt.RegisteredClaims
}

// Authenticate verifies the bearer credential in an Authorization header value.
// Expiry is enforced when the token carries an exp claim.
func Authenticate(authHeader string, secret []byte) (*UserClaims, error) {
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return nil, apperror.NewAuthError("missing bearer token", nil)
	}
	tokenStr := strings.TrimSpace(authHeader[len(bearerPrefix):])
	if tokenStr == "" {
		return nil, apperror.NewAuthError("empty bearer token", nil)
	}
	if len(secret) == 0 {
		return nil, apperror.NewAuthError("token secret not configured", nil)
	}

	claims := &UserClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
	if err != nil {
		return nil, apperror.NewAuthError("invalid token", err)
	}
	if !token.Valid {
		return nil, apperror.NewAuthError("invalid token", nil)
	}
	if claims.Uid == "" {
		return nil, apperror.NewAuthError("token has no uid", nil)
	}

	return claims, nil
}

// JwtMiddleware authenticates every request of the group it is mounted on and
// exposes the caller's uid through CurrentUID.
func JwtMiddleware(secret string) fiber.Handler {
	key := []byte(secret)
	return func(ctx *fiber.Ctx) error {
		claims, err := Authenticate(ctx.Get(fiber.HeaderAuthorization), key)
		if err != nil {
			return err
		}
		ctx.Locals(uidLocalKey, claims.Uid)
		return ctx.Next()
	}
}

// CurrentUID returns the uid stored by JwtMiddleware.
func CurrentUID(ctx *fiber.Ctx) (string, error) {
	uid, ok := ctx.Locals(uidLocalKey).(string)
	if !ok || uid == "" {
		return "", apperror.NewAuthError("no authenticated user", nil)
	}
	return uid, nil
}

// IssueToken signs an HS256 token for uid. A zero ttl issues a token without exp.
func IssueToken(secret string, uid string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("token secret is empty")
	}
	if uid == "" {
		return "", errors.New("uid is empty")
	}

	now := time.Now()
	claims := UserClaims{
		Uid: uid,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  uid,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
