package models

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"

	console "benchtime/internal/utils/logger"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var log = console.New("SEEDER")

// Resource types covered by the permission matrix
var permissionResourceTypes = []string{
	ResourceTypePerson,
	ResourceTypeResource,
	ResourceTypeCategory,
	ResourceTypeOrganization,
}

type permissionFlags struct {
	View, Create, Edit, Delete bool
}

// Default matrix for the two system roles. "admin" gets every flag on every
// resource type, "user" is read-only.
var systemRoles = map[string]struct {
	Description string
	Flags       permissionFlags
}{
	"admin": {
		Description: "Full access to all makerspace resources",
		Flags:       permissionFlags{View: true, Create: true, Edit: true, Delete: true},
	},
	"user": {
		Description: "Read-only access to makerspace resources",
		Flags:       permissionFlags{View: true},
	},
}

// SeedRolesAndPermissions creates the system roles and their default
// permission matrix. Safe to run on every start.
func SeedRolesAndPermissions(db *gorm.DB) error {
	for name, def := range systemRoles {
		role := Role{Name: name, Description: def.Description, IsSystemRole: true}
		if err := db.Where(Role{Name: name}).FirstOrCreate(&role).Error; err != nil {
			return fmt.Errorf("failed to create system role %s: %v", name, err)
		}

		for _, resourceType := range permissionResourceTypes {
			perm := RolePermission{
				RoleID:       role.ID,
				ResourceType: resourceType,
				CanView:      def.Flags.View,
				CanCreate:    def.Flags.Create,
				CanEdit:      def.Flags.Edit,
				CanDelete:    def.Flags.Delete,
			}
			if err := db.Where(RolePermission{RoleID: role.ID, ResourceType: resourceType}).
				FirstOrCreate(&perm).Error; err != nil {
				return fmt.Errorf("failed to create permissions for %s/%s: %v", name, resourceType, err)
			}
		}

		log.Info("Seeded role %s with default permissions", name)
	}

	return nil
}

// AssignRole grants the named role to a user, recording who granted it.
// Granting an already-held role is a no-op.
func AssignRole(db *gorm.DB, userID, roleName, grantedBy string) error {
	role, err := GetRoleByName(roleName, db)
	if err != nil {
		return fmt.Errorf("failed to find role %s: %v", roleName, err)
	}

	grant := UserRole{UserID: userID, RoleID: role.ID, GrantedBy: grantedBy}
	if err := db.Where(UserRole{UserID: userID, RoleID: role.ID}).FirstOrCreate(&grant).Error; err != nil {
		return fmt.Errorf("failed to assign role %s: %v", roleName, err)
	}

	return nil
}

// CreateAdminFromEnv creates the initial admin person/user pair from
// ADMIN_USERNAME, ADMIN_PASSWORD, ADMIN_EMAIL and ADMIN_NAME. Skipped when an
// admin user already exists.
func CreateAdminFromEnv(db *gorm.DB) error {
	var count int64
	db.Model(&UserRole{}).
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Where("roles.name = ?", "admin").
		Count(&count)
	if count > 0 {
		return nil
	}

	username, ok := os.LookupEnv("ADMIN_USERNAME")
	if !ok {
		return fmt.Errorf("ADMIN_USERNAME not set")
	}

	password, ok := os.LookupEnv("ADMIN_PASSWORD")
	if !ok {
		return fmt.Errorf("ADMIN_PASSWORD not set")
	}

	email, ok := os.LookupEnv("ADMIN_EMAIL")
	if !ok {
		return fmt.Errorf("ADMIN_EMAIL not set")
	}

	name, ok := os.LookupEnv("ADMIN_NAME")
	if !ok {
		return fmt.Errorf("ADMIN_NAME not set")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %v", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		person := Person{
			Name:       strings.TrimSpace(name),
			Email:      strings.ToLower(email),
			RoleLabels: datatypes.JSON(`["admin"]`),
			Active:     true,
		}
		if err := tx.Create(&person).Error; err != nil {
			return fmt.Errorf("failed to create admin person: %v", err)
		}

		user := User{
			Username:     strings.TrimSpace(username),
			PasswordHash: string(hashedPassword),
			PersonID:     person.ID,
			Active:       true,
		}
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %v", err)
		}

		return AssignRole(tx, user.ID, "admin", user.ID)
	})
}
