package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"restaurant-ordering-api/models"
)

const userIDKey = "userID"

type Claims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 access tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue creates a signed JWT for a given user
func (i *TokenIssuer) Issue(user *models.User) (string, error) {
	now := i.now()
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

func (i *TokenIssuer) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func bearer(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(authHeader, "Bearer "), true
}

// AuthRequired validates the JWT and injects the user id into the context
func AuthRequired(issuer *TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := bearer(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required (Bearer <token>)"})
			c.Abort()
			return
		}
		claims, err := issuer.Parse(tokenStr)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}
		c.Set(userIDKey, claims.UserID)
		c.Next()
	}
}

// AuthOptional sets the user when a valid token is present and lets
// anonymous requests through. A bad token is treated as no token.
func AuthOptional(issuer *TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenStr, ok := bearer(c); ok {
			if claims, err := issuer.Parse(tokenStr); err == nil {
				c.Set(userIDKey, claims.UserID)
			}
		}
		c.Next()
	}
}

// GetUserID extracts caller user ID from context. Only valid behind
// AuthRequired.
func GetUserID(c *gin.Context) uint {
	val, _ := c.Get(userIDKey)
	return val.(uint)
}

// CurrentUserID returns the caller or nil for anonymous requests.
func CurrentUserID(c *gin.Context) *uint {
	val, ok := c.Get(userIDKey)
	if !ok {
		return nil
	}
	id := val.(uint)
	return &id
}
