package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/SAP-F-2025/learning-trails-service/internal/models"
	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"
)

// Identity is the authenticated caller extracted from a bearer token
type Identity struct {
	UserID string
	Role   models.UserRole
}

// TokenParser verifies a bearer token and returns its identity
type TokenParser interface {
	Parse(token string) (*Identity, error)
}

// CasdoorTokenParser verifies tokens signed by the configured Casdoor application.
// casdoorsdk.InitConfig must have been called first.
type CasdoorTokenParser struct{}

func (CasdoorTokenParser) Parse(token string) (*Identity, error) {
	claims, err := casdoorsdk.ParseJwtToken(token)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if claims.User.Id == "" {
		return nil, fmt.Errorf("token carries no user id")
	}
	return &Identity{UserID: claims.User.Id, Role: casdoorRole(claims.User)}, nil
}

// casdoorRole maps a Casdoor account onto a learning role
func casdoorRole(user casdoorsdk.User) models.UserRole {
	if user.IsAdmin {
		return models.RoleAdmin
	}
	if role := models.UserRole(strings.ToLower(user.Type)); role.Valid() {
		return role
	}
	return models.RoleStudent
}

// AuthMiddleware rejects requests without a valid bearer token and stores
// user_id and user_role on the gin context
func AuthMiddleware(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Missing bearer token",
				Code:    "UNAUTHORIZED",
			})
			return
		}

		identity, err := parser.Parse(strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Invalid token",
				Code:    "UNAUTHORIZED",
			})
			return
		}

		c.Set("user_id", identity.UserID)
		c.Set("user_role", identity.Role)
		c.Next()
	}
}

// RequireAuthor only lets professors and admins through
func RequireAuthor() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get("user_role")
		if userRole, ok := role.(models.UserRole); !ok || !userRole.CanAuthor() {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
				Message: "Forbidden - insufficient permissions",
				Code:    "FORBIDDEN",
			})
			return
		}
		c.Next()
	}
}
