package auth

import (
	"errors"
	"net/http"
	"strings"

	"stadiumbook/internal/api"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// Identity is the authenticated caller, resolved once per request and passed
// explicitly to services.
type Identity struct {
	UserID int    `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// CanManage reports whether the caller may administer a resource owned by ownerID.
func (i Identity) CanManage(ownerID int) bool {
	return i.IsAdmin() || i.UserID == ownerID
}

// AuthMiddleware requires a valid access token, taken from the Authorization
// header or, failing that, from the session cookie.
func AuthMiddleware(accessTokenSecret, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := extractToken(c, cookieName)
		if err != nil {
			abort(c, err.Error())
			return
		}

		id, err := ValidateAccessToken(tokenString, accessTokenSecret)
		if err != nil {
			switch {
			case errors.Is(err, ErrTokenExpired):
				abort(c, "Token expired")
			case errors.Is(err, ErrInvalidTokenType):
				abort(c, "Access token required")
			case errors.Is(err, ErrInvalidRole):
				abort(c, "Unknown role")
			default:
				abort(c, "Invalid or malformed token")
			}
			return
		}

		SetIdentity(c, id)
		c.Next()
	}
}

// OptionalAuth attaches an identity when a valid token is present and lets
// anonymous requests through otherwise.
func OptionalAuth(accessTokenSecret, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, err := extractToken(c, cookieName); err == nil {
			if id, err := ValidateAccessToken(tokenString, accessTokenSecret); err == nil {
				SetIdentity(c, id)
			}
		}
		c.Next()
	}
}

func extractToken(c *gin.Context, cookieName string) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if cookieName != "" {
			if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
				return cookie, nil
			}
		}
		return "", errors.New("Authorization required")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.TrimSpace(parts[0]) != "Bearer" {
		return "", errors.New("Invalid authorization header format")
	}

	tokenString := strings.TrimSpace(parts[1])
	if tokenString == "" {
		return "", errors.New("Token is empty")
	}
	return tokenString, nil
}

func abort(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Error: msg})
}

func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := CurrentIdentity(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Unauthorized"})
			return
		}

		for _, role := range roles {
			if id.Role == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, api.ErrorResponse{Error: "Insufficient permissions"})
	}
}

func SetIdentity(c *gin.Context, id Identity) {
	c.Set(identityKey, id)
}

func CurrentIdentity(c *gin.Context) (Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return Identity{}, false
	}

	id, ok := v.(Identity)
	if !ok {
		return Identity{}, false
	}

	return id, true
}
