package middleware

import (
	"net/http"
	"strings"
	"time"

	"benchtime/internal/models"
	"benchtime/internal/utils"
	"benchtime/internal/utils/logger"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

var log = logger.New("auth_middleware")

// AuthMiddleware authenticates requests using bearer tokens. A token is
// only accepted when its signature verifies AND a matching unexpired
// session row exists, so deleting the row revokes the token immediately.
type AuthMiddleware struct {
	db        *gorm.DB
	jwtSecret string
}

func NewAuthMiddleware(db *gorm.DB, jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{
		db:        db,
		jwtSecret: jwtSecret,
	}
}

func (m *AuthMiddleware) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing authorization header")
			}

			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization header format")
			}

			return m.validateToken(c, tokenParts[1], next)
		}
	}
}

func (m *AuthMiddleware) validateToken(c echo.Context, tokenString string, next echo.HandlerFunc) error {
	claims, err := utils.ParseToken(tokenString, m.jwtSecret)
	if err != nil {
		log.Warn("rejected token: %v", err)
		return echo.NewHTTPError(http.StatusForbidden, "Invalid or expired token")
	}

	// Reset tokens are not session tokens
	if claims.Type != "" {
		return echo.NewHTTPError(http.StatusForbidden, "Invalid or expired token")
	}

	// Verify the session row still exists and has not lapsed
	session := &models.UserSession{}
	if err := m.db.Where("user_id = ? AND token = ? AND expires_at > ?",
		claims.UserID, tokenString, time.Now()).First(session).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Session expired or revoked")
	}

	// Verify the user is still active
	user := &models.User{}
	if err := m.db.Where("id = ? AND active = ?", claims.UserID, true).First(user).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	}

	// Set context values
	c.Set("userID", claims.UserID)
	c.Set("username", claims.Username)
	c.Set("email", claims.Email)
	c.Set("personID", claims.PersonID)
	c.Set("sessionToken", tokenString)

	return next(c)
}

// GetUserID Helper functions to get values from context
func GetUserID(c echo.Context) string {
	if id, ok := c.Get("userID").(string); ok {
		return id
	}
	return ""
}

func GetUsername(c echo.Context) string {
	if username, ok := c.Get("username").(string); ok {
		return username
	}
	return ""
}

func GetEmail(c echo.Context) string {
	if email, ok := c.Get("email").(string); ok {
		return email
	}
	return ""
}

func GetPersonID(c echo.Context) string {
	if id, ok := c.Get("personID").(string); ok {
		return id
	}
	return ""
}

func GetSessionToken(c echo.Context) string {
	if token, ok := c.Get("sessionToken").(string); ok {
		return token
	}
	return ""
}
