package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"benchtime/internal/api/middleware"
	"benchtime/internal/api/validator"
	"benchtime/internal/config"
	"benchtime/internal/events"
	"benchtime/internal/models"
	"benchtime/internal/tasks"
	"benchtime/internal/utils"
	"benchtime/internal/utils/logger"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthHandler struct {
	db  *gorm.DB
	cfg *config.Config
	log *logger.Logger
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg, log: logger.New("AuthHandler")}
}

// Login authenticates a user by username and password and opens a new
// session. The same error body is returned for an unknown username and
// a wrong password.
func (h *AuthHandler) Login(c echo.Context) error {
	var req validator.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	user, err := models.GetUserByUsername(req.Username, h.db)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
	}

	token, err := utils.GenerateSessionToken(user, h.cfg.JWT.Secret)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to generate token"})
	}

	session := &models.UserSession{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(utils.TokenTTL),
	}

	if err := h.db.Create(session).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create session"})
	}

	now := time.Now()
	h.db.Model(user).Update("last_login", now)

	roles, err := models.GetUserRoles(user.ID, h.db)
	if err != nil {
		h.log.Warn("failed to load roles for %s: %v", user.Username, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  h.userPayload(user, roles),
	})
}

// Logout revokes the current session by deleting its row. The token
// signature stays valid until expiry but no longer authenticates.
func (h *AuthHandler) Logout(c echo.Context) error {
	token := middleware.GetSessionToken(c)
	if err := h.db.Where("token = ?", token).Delete(&models.UserSession{}).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to end session"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// Register creates a person record and an account for it, granting the
// default user role.
func (h *AuthHandler) Register(c echo.Context) error {
	var req validator.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	email := strings.ToLower(req.Email)

	var count int64
	h.db.Model(&models.User{}).Where("username = ?", req.Username).Count(&count)
	if count > 0 {
		return c.JSON(http.StatusConflict, map[string]string{"error": "Username already taken"})
	}

	h.db.Model(&models.Person{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		return c.JSON(http.StatusConflict, map[string]string{"error": "Email already registered"})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to hash password"})
	}

	var user models.User
	err = h.db.Transaction(func(tx *gorm.DB) error {
		person := models.Person{
			Name:   req.Name,
			Email:  email,
			Active: true,
		}
		if err := tx.Create(&person).Error; err != nil {
			return err
		}

		user = models.User{
			Username:     req.Username,
			PasswordHash: string(hashedPassword),
			PersonID:     person.ID,
			Active:       true,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		return models.AssignRole(tx, user.ID, "user", user.ID)
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to register user"})
	}

	events.Emit(tasks.EventUserRegistered, tasks.WelcomeEmailPayload{
		ToName:  req.Name,
		ToEmail: email,
	})

	return c.JSON(http.StatusCreated, map[string]string{"message": "User registered successfully"})
}

// GetMe returns the authenticated user with their person record, roles
// and effective permission matrix.
func (h *AuthHandler) GetMe(c echo.Context) error {
	userID := middleware.GetUserID(c)

	user := &models.User{}
	if err := h.db.Preload("Person").Where("id = ?", userID).First(user).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "User not found"})
	}

	roles, err := models.GetUserRoles(userID, h.db)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load roles"})
	}

	return c.JSON(http.StatusOK, h.userPayload(user, roles))
}

// ForgotPassword issues a password reset token. The response never
// reveals whether the email is known.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	const genericMessage = "If the email exists, a reset link will be sent"

	var req validator.ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	person, err := models.GetPersonByEmail(req.Email, h.db)
	if err != nil {
		return c.JSON(http.StatusOK, map[string]string{"message": genericMessage})
	}

	user := &models.User{}
	if err := h.db.Where("person_id = ? AND active = ?", person.ID, true).First(user).Error; err != nil {
		return c.JSON(http.StatusOK, map[string]string{"message": genericMessage})
	}

	token, err := utils.GenerateResetToken(user.ID, person.Email, h.cfg.JWT.Secret)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to generate reset token"})
	}

	reset := models.PasswordReset{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(utils.TokenTTL),
	}

	if err := h.db.Create(&reset).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create reset token"})
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", h.cfg.App.PublicURL, token)

	events.Emit(tasks.EventPasswordResetRequested, tasks.PasswordResetEmailPayload{
		ToName:   person.Name,
		ToEmail:  person.Email,
		ResetURL: resetURL,
	})

	response := map[string]string{"message": genericMessage}
	if h.cfg.IsDevelopment() {
		response["reset_url"] = resetURL
	}

	return c.JSON(http.StatusOK, response)
}

// ResetPassword consumes a reset token and sets a new password. The
// token must carry a valid signature, the reset type claim, and a
// matching unexpired database row. All open sessions are revoked.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req validator.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	claims, err := utils.ParseToken(req.Token, h.cfg.JWT.Secret)
	if err != nil || claims.Type != utils.ResetTokenType {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid or expired reset token"})
	}

	var reset models.PasswordReset
	if err := h.db.Where("token = ? AND expires_at > ?", req.Token, time.Now()).First(&reset).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid or expired reset token"})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to hash password"})
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("id = ?", reset.UserID).
			Update("password_hash", string(hashedPassword)).Error; err != nil {
			return err
		}
		// Single use
		if err := tx.Delete(&reset).Error; err != nil {
			return err
		}
		// Changing the password invalidates every open session
		return tx.Where("user_id = ?", reset.UserID).Delete(&models.UserSession{}).Error
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to reset password"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Password reset successfully"})
}

func (h *AuthHandler) userPayload(user *models.User, roles []models.Role) map[string]interface{} {
	roleNames := make([]string, 0, len(roles))
	permissions := make(map[string]map[string]bool)
	for _, role := range roles {
		roleNames = append(roleNames, role.Name)
		for _, perm := range role.Permissions {
			entry, ok := permissions[perm.ResourceType]
			if !ok {
				entry = make(map[string]bool)
				permissions[perm.ResourceType] = entry
			}
			entry[models.PermissionView] = entry[models.PermissionView] || perm.CanView
			entry[models.PermissionCreate] = entry[models.PermissionCreate] || perm.CanCreate
			entry[models.PermissionEdit] = entry[models.PermissionEdit] || perm.CanEdit
			entry[models.PermissionDelete] = entry[models.PermissionDelete] || perm.CanDelete
		}
	}

	return map[string]interface{}{
		"id":          user.ID,
		"username":    user.Username,
		"person_id":   user.PersonID,
		"person":      user.Person,
		"active":      user.Active,
		"last_login":  user.LastLogin,
		"roles":       roleNames,
		"permissions": permissions,
	}
}
