package handlers

import (
	"net/http"
	"strings"

	"benchtime/internal/api/middleware"
	"benchtime/internal/api/validator"
	"benchtime/internal/models"
	"benchtime/internal/utils/logger"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AdminHandler struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{db: db, log: logger.New("AdminHandler")}
}

// ListRoles returns all roles with their permission matrix
func (h *AdminHandler) ListRoles(c echo.Context) error {
	var roles []models.Role
	if err := h.db.Preload("Permissions").Order("name").Find(&roles).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to list roles"})
	}
	return c.JSON(http.StatusOK, roles)
}

// CreateRole creates a custom role. Custom roles start without any
// permissions.
func (h *AdminHandler) CreateRole(c echo.Context) error {
	var req validator.RoleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	role := models.Role{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	}

	var count int64
	h.db.Model(&models.Role{}).Where("name = ?", role.Name).Count(&count)
	if count > 0 {
		return c.JSON(http.StatusConflict, map[string]string{"error": "Role name already exists"})
	}

	if err := h.db.Create(&role).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create role"})
	}

	return c.JSON(http.StatusCreated, role)
}

// UpdateRole renames or redescribes a custom role. System roles are
// immutable.
func (h *AdminHandler) UpdateRole(c echo.Context) error {
	role := &models.Role{}
	if err := h.db.Where("id = ?", c.Param("id")).First(role).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Role not found"})
	}

	if role.IsSystemRole {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "System roles cannot be modified"})
	}

	var req validator.RoleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	name := strings.TrimSpace(req.Name)

	var count int64
	h.db.Model(&models.Role{}).Where("name = ? AND id <> ?", name, role.ID).Count(&count)
	if count > 0 {
		return c.JSON(http.StatusConflict, map[string]string{"error": "Role name already exists"})
	}

	role.Name = name
	role.Description = req.Description
	if err := h.db.Save(role).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update role"})
	}

	return c.JSON(http.StatusOK, role)
}

// DeleteRole removes a custom role. A role that is still granted to
// any user cannot be deleted.
func (h *AdminHandler) DeleteRole(c echo.Context) error {
	role := &models.Role{}
	if err := h.db.Where("id = ?", c.Param("id")).First(role).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Role not found"})
	}

	if role.IsSystemRole {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "System roles cannot be deleted"})
	}

	var count int64
	h.db.Model(&models.UserRole{}).Where("role_id = ?", role.ID).Count(&count)
	if count > 0 {
		return c.JSON(http.StatusConflict, map[string]string{"error": "Role is still assigned to users"})
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", role.ID).Delete(&models.RolePermission{}).Error; err != nil {
			return err
		}
		return tx.Delete(role).Error
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete role"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Role deleted successfully"})
}

// GetRolePermissions returns the permission rows of a role
func (h *AdminHandler) GetRolePermissions(c echo.Context) error {
	role := &models.Role{}
	if err := h.db.Preload("Permissions").Where("id = ?", c.Param("id")).First(role).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Role not found"})
	}

	if role.Permissions == nil {
		role.Permissions = []models.RolePermission{}
	}

	return c.JSON(http.StatusOK, role.Permissions)
}

// ListPermissions returns every permission row with its role name,
// optionally filtered to a single role via ?roleId=
func (h *AdminHandler) ListPermissions(c echo.Context) error {
	type permissionRow struct {
		ID           string `json:"id"`
		RoleID       string `json:"role_id"`
		RoleName     string `json:"role_name"`
		ResourceType string `json:"resource_type"`
		CanView      bool   `json:"can_view"`
		CanCreate    bool   `json:"can_create"`
		CanEdit      bool   `json:"can_edit"`
		CanDelete    bool   `json:"can_delete"`
	}

	query := h.db.Model(&models.RolePermission{}).
		Select("role_permissions.id, role_permissions.role_id, roles.name AS role_name, role_permissions.resource_type, role_permissions.can_view, role_permissions.can_create, role_permissions.can_edit, role_permissions.can_delete").
		Joins("JOIN roles ON roles.id = role_permissions.role_id").
		Order("roles.name, role_permissions.resource_type")

	if roleID := c.QueryParam("roleId"); roleID != "" {
		query = query.Where("role_permissions.role_id = ?", roleID)
	}

	rows := []permissionRow{}
	if err := query.Find(&rows).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to list permissions"})
	}

	return c.JSON(http.StatusOK, rows)
}

// UpdateRolePermission upserts the permission flags of a role for one
// resource type
func (h *AdminHandler) UpdateRolePermission(c echo.Context) error {
	role := &models.Role{}
	if err := h.db.Where("id = ?", c.Param("id")).First(role).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Role not found"})
	}

	var req validator.PermissionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	perm := models.RolePermission{
		RoleID:       role.ID,
		ResourceType: req.ResourceType,
		CanView:      req.CanView,
		CanCreate:    req.CanCreate,
		CanEdit:      req.CanEdit,
		CanDelete:    req.CanDelete,
	}

	err := h.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "role_id"}, {Name: "resource_type"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"can_view", "can_create", "can_edit", "can_delete", "updated_at",
		}),
	}).Create(&perm).Error
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update permission"})
	}

	return c.JSON(http.StatusOK, perm)
}

// BulkUpdatePermissions applies a batch of permission updates,
// collecting per item errors instead of failing the whole batch
func (h *AdminHandler) BulkUpdatePermissions(c echo.Context) error {
	var req validator.BulkPermissionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	type bulkResult struct {
		RoleID       string `json:"role_id"`
		ResourceType string `json:"resource_type"`
		Error        string `json:"error,omitempty"`
	}

	results := make([]bulkResult, 0, len(req.Permissions))
	updated := 0

	for _, item := range req.Permissions {
		result := bulkResult{RoleID: item.RoleID, ResourceType: item.ResourceType}

		var count int64
		h.db.Model(&models.Role{}).Where("id = ?", item.RoleID).Count(&count)
		if count == 0 {
			result.Error = "Role not found"
			results = append(results, result)
			continue
		}

		perm := models.RolePermission{
			RoleID:       item.RoleID,
			ResourceType: item.ResourceType,
			CanView:      item.CanView,
			CanCreate:    item.CanCreate,
			CanEdit:      item.CanEdit,
			CanDelete:    item.CanDelete,
		}

		err := h.db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "role_id"}, {Name: "resource_type"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"can_view", "can_create", "can_edit", "can_delete", "updated_at",
			}),
		}).Create(&perm).Error
		if err != nil {
			result.Error = "Failed to update permission"
		} else {
			updated++
		}
		results = append(results, result)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"updated": updated,
		"results": results,
	})
}

// ListUsers returns all accounts with their person record and roles
func (h *AdminHandler) ListUsers(c echo.Context) error {
	var users []models.User
	if err := h.db.Preload("Person").Preload("Roles.Role").Order("username").Find(&users).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to list users"})
	}
	return c.JSON(http.StatusOK, users)
}

// UpdateUser updates an account's username, password, email or active
// flag. The email is written to the linked person record.
func (h *AdminHandler) UpdateUser(c echo.Context) error {
	user := &models.User{}
	if err := h.db.Where("id = ?", c.Param("id")).First(user).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "User not found"})
	}

	var req validator.UserUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	updates := map[string]interface{}{}

	if req.Username != nil {
		var count int64
		h.db.Model(&models.User{}).Where("username = ? AND id <> ?", *req.Username, user.ID).Count(&count)
		if count > 0 {
			return c.JSON(http.StatusConflict, map[string]string{"error": "Username already taken"})
		}
		updates["username"] = *req.Username
	}

	if req.Password != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to hash password"})
		}
		updates["password_hash"] = string(hashedPassword)
	}

	if req.Active != nil {
		updates["active"] = *req.Active
	}

	// The email lives on the linked person record
	if req.Email != nil {
		email := strings.ToLower(*req.Email)

		var count int64
		h.db.Model(&models.Person{}).Where("email = ? AND id <> ?", email, user.PersonID).Count(&count)
		if count > 0 {
			return c.JSON(http.StatusConflict, map[string]string{"error": "Email already registered"})
		}

		if err := h.db.Model(&models.Person{}).Where("id = ?", user.PersonID).
			Update("email", email).Error; err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update email"})
		}
	}

	if len(updates) > 0 {
		if err := h.db.Model(user).Updates(updates).Error; err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update user"})
		}
	}

	// Deactivating an account revokes its open sessions
	if req.Active != nil && !*req.Active {
		h.db.Where("user_id = ?", user.ID).Delete(&models.UserSession{})
	}

	return c.JSON(http.StatusOK, user)
}

// GetUserRoles returns the roles granted to an account
func (h *AdminHandler) GetUserRoles(c echo.Context) error {
	userID := c.Param("id")

	var count int64
	h.db.Model(&models.User{}).Where("id = ?", userID).Count(&count)
	if count == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "User not found"})
	}

	roles, err := models.GetUserRoles(userID, h.db)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load roles"})
	}

	return c.JSON(http.StatusOK, roles)
}

// SetUserRoles replaces an account's role grants with the given set,
// recording who granted them
func (h *AdminHandler) SetUserRoles(c echo.Context) error {
	userID := c.Param("id")

	var count int64
	h.db.Model(&models.User{}).Where("id = ?", userID).Count(&count)
	if count == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "User not found"})
	}

	var req validator.UserRolesRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	var roleCount int64
	h.db.Model(&models.Role{}).Where("id IN ?", req.RoleIDs).Count(&roleCount)
	if int(roleCount) != len(req.RoleIDs) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unknown role in request"})
	}

	grantedBy := middleware.GetUserID(c)

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.UserRole{}).Error; err != nil {
			return err
		}
		for _, roleID := range req.RoleIDs {
			grant := models.UserRole{
				UserID:    userID,
				RoleID:    roleID,
				GrantedBy: grantedBy,
			}
			if err := tx.Create(&grant).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update roles"})
	}

	roles, err := models.GetUserRoles(userID, h.db)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load roles"})
	}

	return c.JSON(http.StatusOK, roles)
}
