package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/salon-scheduler/internal/config"
)

const (
	ContextUserID     = "userID"
	ContextUserRole   = "userRole"
	ContextCustomerID = "customerID"
)

// Tipos de token: equipe (painel) e cliente (área do cliente).
const (
	TokenStaff    = "staff"
	TokenCustomer = "customer"
)

// IssueToken assina o JWT de sessão. role só é usado para a equipe.
func IssueToken(cfg *config.Config, kind string, subject uint, role string) (string, error) {
	now := time.Now()
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	claims := jwt.MapClaims{
		"sub":  subject,
		"kind": kind,
		"exp":  now.Add(ttl).Unix(),
		"iat":  now.Unix(),
	}
	if role != "" {
		claims["role"] = role
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// AuthMiddleware aceita apenas tokens da equipe.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return authenticate(cfg, TokenStaff)
}

// CustomerAuthMiddleware aceita apenas tokens de cliente.
func CustomerAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return authenticate(cfg, TokenCustomer)
}

func authenticate(cfg *config.Config, want string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error_code": "missing_authorization_header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error_code": "invalid_authorization_header"})
			return
		}

		tokenString := parts[1]

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {

			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error_code": "invalid_token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error_code": "invalid_token_claims"})
			return
		}

		subject, ok1 := claims["sub"].(float64)
		kind, ok2 := claims["kind"].(string)
		if !ok1 || !ok2 || subject <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error_code": "invalid_token_payload"})
			return
		}
		if kind != want {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error_code": "wrong_token_kind"})
			return
		}

		switch kind {
		case TokenStaff:
			role, _ := claims["role"].(string)
			c.Set(ContextUserID, uint(subject))
			c.Set(ContextUserRole, role)
		case TokenCustomer:
			c.Set(ContextCustomerID, uint(subject))
		}

		c.Next()
	}
}
