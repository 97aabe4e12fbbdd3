package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/caesariomj/jogjaelectrik-sub000/authz"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

const (
	userIDContextKey = "userID"
	roleContextKey   = "role"
)

// RequireAuth validates the Bearer token and stores the caller's identity
// in the Gin context.
func RequireAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is required"})
			c.Abort()
			return
		}
		if !strings.HasPrefix(header, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
			c.Abort()
			return
		}
		tokenString := header[7:]

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}
		userID, _ := claims["user_id"].(string)
		role, _ := claims["role"].(string)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}
		if role == "" {
			role = authz.RoleCustomer
		}

		c.Set(userIDContextKey, userID)
		c.Set(roleContextKey, role)
		c.Next()
	}
}

// GetActor extracts the authenticated actor stored by RequireAuth.
func GetActor(c *gin.Context) (authz.Actor, bool) {
	userID := c.GetString(userIDContextKey)
	if userID == "" {
		return authz.Actor{}, false
	}
	return authz.Actor{ID: userID, Role: c.GetString(roleContextKey)}, true
}

// AdminOnly restricts access to the admin role. Must run after RequireAuth.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(roleContextKey) != authz.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin role required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
