package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"intranet/core/config"
	"intranet/core/router"
	"intranet/core/types"

	"github.com/golang-jwt/jwt/v5"
)

const userIdKey = "user_id"

// Claims are the JWT claims issued at login
type Claims struct {
	UserId uint   `json:"uid"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// IssueToken signs a token for the given user
func IssueToken(secret string, ttl time.Duration, userId uint, email string) (string, time.Time, error) {
	expiresAt := time.Now().Add(ttl)
	claims := Claims{
		UserId: userId,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", userId),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// ParseToken validates a bearer token and returns its claims
func ParseToken(secret, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// AuthMiddleware rejects requests without a valid bearer token, except public paths
func AuthMiddleware(secret string, cfg *config.MiddlewareConfig) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c *router.Context) error {
			path := c.Request.URL.Path
			if !strings.HasPrefix(path, "/api") || cfg.IsPublic(path) {
				return next(c)
			}

			header := c.Request.Header.Get("Authorization")
			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				// browsers cannot set headers on websocket upgrades
				tokenString = c.Query("token")
			}
			if tokenString == "" {
				return c.JSON(http.StatusUnauthorized, types.ErrorResponse{Error: "Missing bearer token"})
			}

			claims, err := ParseToken(secret, tokenString)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, types.ErrorResponse{Error: "Invalid or expired token"})
			}

			c.Set(userIdKey, claims.UserId)
			return next(c)
		}
	}
}

// UserId returns the authenticated user id, zero when unauthenticated
func UserId(c *router.Context) uint {
	if value, ok := c.Get(userIdKey); ok {
		if id, ok := value.(uint); ok {
			return id
		}
	}
	return 0
}

// SetUserId stores the authenticated user id, used by tests and trusted adapters
func SetUserId(c *router.Context, id uint) {
	c.Set(userIdKey, id)
}

// CORSMiddleware answers preflight requests and sets CORS headers
func CORSMiddleware(origins []string) router.MiddlewareFunc {
	allowAll := len(origins) == 0
	allowed := make(map[string]bool, len(origins))
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			allowAll = true
		}
		allowed[origin] = true
	}

	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c *router.Context) error {
			origin := c.Request.Header.Get("Origin")
			if origin != "" && (allowAll || allowed[origin]) {
				h := c.Writer.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Vary", "Origin")
				h.Set("Access-Control-Allow-Credentials", "true")
				h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Api-Key")
				h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			}
			if c.Request.Method == http.MethodOptions {
				c.Status(http.StatusNoContent)
				return nil
			}
			return next(c)
		}
	}
}

// Recovery converts handler panics into 500 responses
func Recovery(onPanic func(recovered any)) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c *router.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					if onPanic != nil {
						onPanic(r)
					}
					err = c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Internal server error"})
				}
			}()
			return next(c)
		}
	}
}
