package api

import (
	"net/http"
	"testing"

	"benchtime/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrganizationRegister(t *testing.T) {
	s, gormDB := newTestServer(t)

	body := map[string]string{
		"organizationName": "Werkstatt Mitte",
		"organizationSlug": "werkstatt-mitte",
		"adminEmail":       "chef@werkstatt.example",
		"adminName":        "Kim Chef",
		"adminUsername":    "kim",
		"adminPassword":    "secret123",
	}

	rec := doJSON(t, s, http.MethodPost, "/api/v1/organizations/register", "", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "werkstatt-mitte", decode(t, rec)["slug"])

	// The admin account works immediately and holds the admin role
	token := login(t, s, "kim", "secret123")
	rec = doJSON(t, s, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	roles := decode(t, rec)["roles"].([]interface{})
	assert.Contains(t, roles, "admin")

	// The person hangs off the organization
	person := &models.Person{}
	require.NoError(t, gormDB.Where("email = ?", "chef@werkstatt.example").First(person).Error)
	org := &models.Organization{}
	require.NoError(t, gormDB.Where("slug = ?", "werkstatt-mitte").First(org).Error)
	assert.Equal(t, org.ID, person.OrganizationID)
}

func TestOrganizationRegisterDuplicateSlug(t *testing.T) {
	s, _ := newTestServer(t)

	body := map[string]string{
		"organizationName": "Werkstatt Mitte",
		"organizationSlug": "werkstatt-mitte",
		"adminEmail":       "chef@werkstatt.example",
		"adminName":        "Kim Chef",
		"adminUsername":    "kim",
		"adminPassword":    "secret123",
	}

	rec := doJSON(t, s, http.MethodPost, "/api/v1/organizations/register", "", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	body["adminEmail"] = "other@werkstatt.example"
	body["adminUsername"] = "other"
	rec = doJSON(t, s, http.MethodPost, "/api/v1/organizations/register", "", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestOrganizationRegisterInvalidSlug(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/organizations/register", "", map[string]string{
		"organizationName": "Werkstatt Mitte",
		"organizationSlug": "Werkstatt Mitte",
		"adminEmail":       "chef@werkstatt.example",
		"adminName":        "Kim Chef",
		"adminUsername":    "kim",
		"adminPassword":    "secret123",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResourceLifecycle(t *testing.T) {
	s, _ := newTestServer(t)
	token := login(t, s, testAdminUsername, testAdminPassword)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/resource-categories", token, map[string]string{
		"name": "Machines", "icon": "cog", "color": "#ff8800",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	categoryID := decode(t, rec)["id"].(string)

	rec = doJSON(t, s, http.MethodPost, "/api/v1/resources", token, map[string]interface{}{
		"name":        "Laser cutter",
		"category_id": categoryID,
		"location":    "Room 2",
		"specifications": map[string]interface{}{
			"power_watts": 80,
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode(t, rec)
	resourceID := created["id"].(string)
	assert.Equal(t, "available", created["status"], "status defaults to available")

	// Unknown category is rejected
	rec = doJSON(t, s, http.MethodPost, "/api/v1/resources", token, map[string]interface{}{
		"name": "Mill", "category_id": "5f0b0f57-4f9a-49ef-9f6e-2ce8a6f3a001",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Invalid status is rejected
	rec = doJSON(t, s, http.MethodPut, "/api/v1/resources/"+resourceID, token, map[string]interface{}{
		"name": "Laser cutter", "category_id": categoryID, "status": "broken",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, s, http.MethodPut, "/api/v1/resources/"+resourceID, token, map[string]interface{}{
		"name": "Laser cutter", "category_id": categoryID, "status": "maintenance",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "maintenance", decode(t, rec)["status"])

	// Status filter
	rec = doJSON(t, s, http.MethodGet, "/api/v1/resources?status=maintenance", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), resourceID)

	rec = doJSON(t, s, http.MethodGet, "/api/v1/resources?status=available", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), resourceID)

	// The category is embedded in reads
	rec = doJSON(t, s, http.MethodGet, "/api/v1/resources/"+resourceID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	payload := decode(t, rec)
	category, ok := payload["resource_category"].(map[string]interface{})
	require.True(t, ok, "expected embedded category")
	assert.Equal(t, "Machines", category["name"])
}

func TestCategoryDeleteBlockedWhileInUse(t *testing.T) {
	s, _ := newTestServer(t)
	token := login(t, s, testAdminUsername, testAdminPassword)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/resource-categories", token, map[string]string{"name": "Machines"})
	require.Equal(t, http.StatusCreated, rec.Code)
	categoryID := decode(t, rec)["id"].(string)

	rec = doJSON(t, s, http.MethodPost, "/api/v1/resources", token, map[string]interface{}{
		"name": "Laser cutter", "category_id": categoryID,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	resourceID := decode(t, rec)["id"].(string)

	rec = doJSON(t, s, http.MethodDelete, "/api/v1/resource-categories/"+categoryID, token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, s, http.MethodDelete, "/api/v1/resources/"+resourceID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodDelete, "/api/v1/resource-categories/"+categoryID, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPersonEmailUniqueness(t *testing.T) {
	s, _ := newTestServer(t)
	token := login(t, s, testAdminUsername, testAdminPassword)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/people", token, map[string]interface{}{
		"name": "Jane Doe", "email": "Jane@Example.com", "roles": []string{"mentor"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "jane@example.com", decode(t, rec)["email"], "emails are stored lowercased")

	rec = doJSON(t, s, http.MethodPost, "/api/v1/people", token, map[string]interface{}{
		"name": "Other Jane", "email": "jane@example.com", "roles": []string{"mentor"},
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestEntityNameValidation(t *testing.T) {
	s, _ := newTestServer(t)
	token := login(t, s, testAdminUsername, testAdminPassword)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/people", token, map[string]interface{}{
		"name": "X", "email": "x@example.com", "roles": []string{"mentor"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "single character names are rejected")

	// Whitespace padding does not rescue a short name
	rec = doJSON(t, s, http.MethodPost, "/api/v1/people", token, map[string]interface{}{
		"name": " y ", "email": "y@example.com", "roles": []string{"mentor"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/api/v1/people", token, map[string]interface{}{
		"name": "Ada Lovelace", "email": "ada@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "persons need at least one role label")

	rec = doJSON(t, s, http.MethodPost, "/api/v1/people", token, map[string]interface{}{
		"name": "  Ada Lovelace  ", "email": "ada@example.com", "roles": []string{"mentor"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Ada Lovelace", decode(t, rec)["name"], "names are stored trimmed")

	rec = doJSON(t, s, http.MethodPost, "/api/v1/resource-categories", token, map[string]interface{}{
		"name": "T",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/api/v1/resource-categories", token, map[string]interface{}{
		"name": "Tools",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	categoryID := decode(t, rec)["id"].(string)

	rec = doJSON(t, s, http.MethodPost, "/api/v1/resources", token, map[string]interface{}{
		"name": "X", "category_id": categoryID,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteMissingEntity(t *testing.T) {
	s, _ := newTestServer(t)
	token := login(t, s, testAdminUsername, testAdminPassword)

	rec := doJSON(t, s, http.MethodDelete, "/api/v1/people/2e9d5c2a-7f57-4e0f-8c74-0b0f5b7f3d77", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
