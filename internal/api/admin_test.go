package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"benchtime/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userIDByUsername(t *testing.T, s *Server, username string) string {
	t.Helper()

	user := &models.User{}
	require.NoError(t, s.db.Where("username = ?", username).First(user).Error)
	return user.ID
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	s, _ := newTestServer(t)

	registerUser(t, s, "jane", "secret123", "jane@example.com", "Jane Doe")
	token := login(t, s, "jane", "secret123")

	rec := doJSON(t, s, http.MethodGet, "/api/v1/admin/roles", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRoleLifecycle(t *testing.T) {
	s, _ := newTestServer(t)
	token := login(t, s, testAdminUsername, testAdminPassword)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/admin/roles", token, map[string]string{
		"name": "operator", "description": "Machine operators",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	roleID := decode(t, rec)["id"].(string)

	// Duplicate name
	rec = doJSON(t, s, http.MethodPost, "/api/v1/admin/roles", token, map[string]string{
		"name": "operator", "description": "Again",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Rename
	rec = doJSON(t, s, http.MethodPut, "/api/v1/admin/roles/"+roleID, token, map[string]string{
		"name": "machine-operator", "description": "Machine operators",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	// Custom roles start without permissions
	rec = doJSON(t, s, http.MethodGet, "/api/v1/admin/roles/"+roleID+"/permissions", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	// Deletable while unassigned
	rec = doJSON(t, s, http.MethodDelete, "/api/v1/admin/roles/"+roleID, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSystemRolesAreProtected(t *testing.T) {
	s, gormDB := newTestServer(t)
	token := login(t, s, testAdminUsername, testAdminPassword)

	adminRole, err := models.GetRoleByName("admin", gormDB)
	require.NoError(t, err)

	rec := doJSON(t, s, http.MethodPut, "/api/v1/admin/roles/"+adminRole.ID, token, map[string]string{
		"name": "superadmin", "description": "nope",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, s, http.MethodDelete, "/api/v1/admin/roles/"+adminRole.ID, token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRoleDeleteBlockedWhileAssigned(t *testing.T) {
	s, _ := newTestServer(t)
	token := login(t, s, testAdminUsername, testAdminPassword)

	registerUser(t, s, "jane", "secret123", "jane@example.com", "Jane Doe")
	janeID := userIDByUsername(t, s, "jane")

	rec := doJSON(t, s, http.MethodPost, "/api/v1/admin/roles", token, map[string]string{
		"name": "operator", "description": "Machine operators",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	roleID := decode(t, rec)["id"].(string)

	rec = doJSON(t, s, http.MethodPut, fmt.Sprintf("/api/v1/admin/users/%s/roles", janeID), token, map[string]interface{}{
		"role_ids": []string{roleID},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, s, http.MethodDelete, "/api/v1/admin/roles/"+roleID, token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Revoke the grant, then deletion succeeds
	rec = doJSON(t, s, http.MethodPut, fmt.Sprintf("/api/v1/admin/users/%s/roles", janeID), token, map[string]interface{}{
		"role_ids": []string{},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodDelete, "/api/v1/admin/roles/"+roleID, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPermissionUnionAcrossRoles(t *testing.T) {
	s, gormDB := newTestServer(t)
	adminToken := login(t, s, testAdminUsername, testAdminPassword)

	registerUser(t, s, "jane", "secret123", "jane@example.com", "Jane Doe")
	janeID := userIDByUsername(t, s, "jane")
	janeToken := login(t, s, "jane", "secret123")

	// A category for the resource to live in
	rec := doJSON(t, s, http.MethodPost, "/api/v1/resource-categories", adminToken, map[string]string{
		"name": "Machines",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	categoryID := decode(t, rec)["id"].(string)

	resourceBody := map[string]interface{}{
		"name": "Laser cutter", "category_id": categoryID,
	}

	// The default user role is read-only
	rec = doJSON(t, s, http.MethodPost, "/api/v1/resources", janeToken, resourceBody)
	require.Equal(t, http.StatusForbidden, rec.Code)

	// A second role granting can_create widens access
	rec = doJSON(t, s, http.MethodPost, "/api/v1/admin/roles", adminToken, map[string]string{
		"name": "operator", "description": "Machine operators",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	roleID := decode(t, rec)["id"].(string)

	rec = doJSON(t, s, http.MethodPut, "/api/v1/admin/roles/"+roleID+"/permissions", adminToken, map[string]interface{}{
		"resource_type": "resource", "can_view": true, "can_create": true,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	userRole, err := models.GetRoleByName("user", gormDB)
	require.NoError(t, err)

	rec = doJSON(t, s, http.MethodPut, fmt.Sprintf("/api/v1/admin/users/%s/roles", janeID), adminToken, map[string]interface{}{
		"role_ids": []string{userRole.ID, roleID},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/api/v1/resources", janeToken, resourceBody)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// Flipping the flag back off narrows access again
	rec = doJSON(t, s, http.MethodPut, "/api/v1/admin/roles/"+roleID+"/permissions", adminToken, map[string]interface{}{
		"resource_type": "resource", "can_view": true, "can_create": false,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/api/v1/resources", janeToken, resourceBody)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestBulkPermissionUpdateCollectsErrors(t *testing.T) {
	s, gormDB := newTestServer(t)
	token := login(t, s, testAdminUsername, testAdminPassword)

	userRole, err := models.GetRoleByName("user", gormDB)
	require.NoError(t, err)

	rec := doJSON(t, s, http.MethodPut, "/api/v1/admin/permissions/bulk", token, map[string]interface{}{
		"permissions": []map[string]interface{}{
			{"role_id": userRole.ID, "resource_type": "resource", "can_view": true, "can_edit": true},
			{"role_id": "0b312a7c-df14-4f7b-a9c7-8a2f8a9f6b31", "resource_type": "resource", "can_view": true},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	payload := decode(t, rec)
	assert.EqualValues(t, 1, payload["updated"])

	results := payload["results"].([]interface{})
	require.Len(t, results, 2)
	assert.Empty(t, results[0].(map[string]interface{})["error"])
	assert.Equal(t, "Role not found", results[1].(map[string]interface{})["error"])

	// The good item actually landed
	perm := &models.RolePermission{}
	require.NoError(t, gormDB.Where("role_id = ? AND resource_type = ?", userRole.ID, "resource").First(perm).Error)
	assert.True(t, perm.CanEdit)
}

func TestDeactivatingUserRevokesSessions(t *testing.T) {
	s, _ := newTestServer(t)
	adminToken := login(t, s, testAdminUsername, testAdminPassword)

	registerUser(t, s, "jane", "secret123", "jane@example.com", "Jane Doe")
	janeID := userIDByUsername(t, s, "jane")
	janeToken := login(t, s, "jane", "secret123")

	active := false
	rec := doJSON(t, s, http.MethodPut, "/api/v1/admin/users/"+janeID, adminToken, map[string]interface{}{
		"active": active,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, s, http.MethodGet, "/api/v1/auth/me", janeToken, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "jane", "password": "secret123",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListPermissionsWithRoleNames(t *testing.T) {
	s, _ := newTestServer(t)
	token := login(t, s, testAdminUsername, testAdminPassword)

	rec := doJSON(t, s, http.MethodGet, "/api/v1/admin/permissions", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 8, "two seeded roles across four resource types")

	names := map[string]bool{}
	for _, row := range rows {
		names[row["role_name"].(string)] = true
	}
	assert.True(t, names["admin"])
	assert.True(t, names["user"])

	role := &models.Role{}
	require.NoError(t, s.db.Where("name = ?", "user").First(role).Error)

	rec = doJSON(t, s, http.MethodGet, "/api/v1/admin/permissions?roleId="+role.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rows = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 4)
	for _, row := range rows {
		assert.Equal(t, "user", row["role_name"])
		assert.True(t, row["can_view"].(bool))
		assert.False(t, row["can_create"].(bool))
	}
}

func TestAdminUpdatesUserEmail(t *testing.T) {
	s, _ := newTestServer(t)
	adminToken := login(t, s, testAdminUsername, testAdminPassword)

	registerUser(t, s, "jane", "secret123", "jane@example.com", "Jane Doe")
	userID := userIDByUsername(t, s, "jane")

	rec := doJSON(t, s, http.MethodPut, "/api/v1/admin/users/"+userID, adminToken, map[string]string{
		"email": "Jane.New@Example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	person := &models.Person{}
	require.NoError(t, s.db.Where("email = ?", "jane.new@example.com").First(person).Error,
		"email is lowercased and written to the person record")

	// Another person's email is off limits
	rec = doJSON(t, s, http.MethodPut, "/api/v1/admin/users/"+userID, adminToken, map[string]string{
		"email": "admin@example.com",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAuthRolesListing(t *testing.T) {
	s, _ := newTestServer(t)

	adminToken := login(t, s, testAdminUsername, testAdminPassword)
	rec := doJSON(t, s, http.MethodGet, "/api/v1/auth/roles", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var roles []models.Role
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &roles))
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, role.Name)
	}
	assert.Contains(t, names, "admin")
	assert.Contains(t, names, "user")

	registerUser(t, s, "jane", "secret123", "jane@example.com", "Jane Doe")
	userToken := login(t, s, "jane", "secret123")
	rec = doJSON(t, s, http.MethodGet, "/api/v1/auth/roles", userToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
