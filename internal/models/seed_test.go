package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&Organization{}, &Person{}, &User{}, &Role{},
		&UserSession{}, &PasswordReset{}, &RolePermission{}, &UserRole{},
		&ResourceCategory{}, &Resource{},
	))

	return db
}

func TestSeedRolesAndPermissions(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, SeedRolesAndPermissions(db))

	admin, err := GetRoleByName("admin", db)
	require.NoError(t, err)
	assert.True(t, admin.IsSystemRole)

	user, err := GetRoleByName("user", db)
	require.NoError(t, err)
	assert.True(t, user.IsSystemRole)

	var adminPerms []RolePermission
	require.NoError(t, db.Where("role_id = ?", admin.ID).Find(&adminPerms).Error)
	assert.Len(t, adminPerms, len(permissionResourceTypes))
	for _, perm := range adminPerms {
		assert.True(t, perm.CanView)
		assert.True(t, perm.CanCreate)
		assert.True(t, perm.CanEdit)
		assert.True(t, perm.CanDelete)
	}

	var userPerms []RolePermission
	require.NoError(t, db.Where("role_id = ?", user.ID).Find(&userPerms).Error)
	assert.Len(t, userPerms, len(permissionResourceTypes))
	for _, perm := range userPerms {
		assert.True(t, perm.CanView)
		assert.False(t, perm.CanCreate)
		assert.False(t, perm.CanEdit)
		assert.False(t, perm.CanDelete)
	}
}

func TestSeedRolesAndPermissionsIsIdempotent(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, SeedRolesAndPermissions(db))
	require.NoError(t, SeedRolesAndPermissions(db))

	var roleCount, permCount int64
	db.Model(&Role{}).Count(&roleCount)
	db.Model(&RolePermission{}).Count(&permCount)

	assert.EqualValues(t, 2, roleCount)
	assert.EqualValues(t, 2*len(permissionResourceTypes), permCount)
}

func TestSeedDoesNotOverwriteEditedPermissions(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, SeedRolesAndPermissions(db))

	user, err := GetRoleByName("user", db)
	require.NoError(t, err)

	// An admin widens the user role, a later restart must not reset it
	require.NoError(t, db.Model(&RolePermission{}).
		Where("role_id = ? AND resource_type = ?", user.ID, ResourceTypeResource).
		Update("can_create", true).Error)

	require.NoError(t, SeedRolesAndPermissions(db))

	var perm RolePermission
	require.NoError(t, db.Where("role_id = ? AND resource_type = ?", user.ID, ResourceTypeResource).First(&perm).Error)
	assert.True(t, perm.CanCreate)
}

func TestAssignRole(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, SeedRolesAndPermissions(db))

	person := Person{Name: "Jane Doe", Email: "jane@example.com", Active: true}
	require.NoError(t, db.Create(&person).Error)
	user := User{Username: "jane", PasswordHash: "x", PersonID: person.ID, Active: true}
	require.NoError(t, db.Create(&user).Error)

	require.NoError(t, AssignRole(db, user.ID, "admin", user.ID))
	// Granting twice stays a single grant
	require.NoError(t, AssignRole(db, user.ID, "admin", user.ID))

	var count int64
	db.Model(&UserRole{}).Where("user_id = ?", user.ID).Count(&count)
	assert.EqualValues(t, 1, count)

	hasRole, err := UserHasRole(user.ID, "admin", db)
	require.NoError(t, err)
	assert.True(t, hasRole)

	hasRole, err = UserHasRole(user.ID, "user", db)
	require.NoError(t, err)
	assert.False(t, hasRole)
}

func TestAssignRoleUnknownRole(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, SeedRolesAndPermissions(db))

	err := AssignRole(db, "some-user", "machinist", "some-user")
	assert.Error(t, err)
}

func TestCreateAdminFromEnv(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, SeedRolesAndPermissions(db))

	t.Setenv("ADMIN_USERNAME", "admin")
	t.Setenv("ADMIN_PASSWORD", "changeme123")
	t.Setenv("ADMIN_EMAIL", "Admin@Example.com")
	t.Setenv("ADMIN_NAME", "Admin")

	require.NoError(t, CreateAdminFromEnv(db))

	user, err := GetUserByUsername("admin", db)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", user.Person.Email)

	hasRole, err := UserHasRole(user.ID, "admin", db)
	require.NoError(t, err)
	assert.True(t, hasRole)

	// A second run with an existing admin is a no-op
	require.NoError(t, CreateAdminFromEnv(db))
	var count int64
	db.Model(&User{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestGetUserRolesPreloadsPermissions(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, SeedRolesAndPermissions(db))

	person := Person{Name: "Jane Doe", Email: "jane@example.com", Active: true}
	require.NoError(t, db.Create(&person).Error)
	user := User{Username: "jane", PasswordHash: "x", PersonID: person.ID, Active: true}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, AssignRole(db, user.ID, "user", user.ID))

	roles, err := GetUserRoles(user.ID, db)
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, "user", roles[0].Name)
	assert.Len(t, roles[0].Permissions, len(permissionResourceTypes))
}
