package models

import (
	"strings"

	"gorm.io/gorm"
)

// GetUserByUsername retrieves an active user with their person record
func GetUserByUsername(username string, db *gorm.DB) (*User, error) {
	user := &User{}
	if err := db.Where("username = ? AND active = ?", username, true).Preload("Person").First(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// GetPersonByEmail retrieves a person by lowercased email
func GetPersonByEmail(email string, db *gorm.DB) (*Person, error) {
	person := &Person{}
	if err := db.Where("email = ?", strings.ToLower(email)).First(person).Error; err != nil {
		return nil, err
	}
	return person, nil
}

// GetRoleByName retrieves a role by its unique name
func GetRoleByName(name string, db *gorm.DB) (*Role, error) {
	role := &Role{}
	if err := db.Where("name = ?", name).First(role).Error; err != nil {
		return nil, err
	}
	return role, nil
}

// GetUserRoles returns the roles granted to a user
func GetUserRoles(userID string, db *gorm.DB) ([]Role, error) {
	var roles []Role
	err := db.Preload("Permissions").
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ?", userID).
		Find(&roles).Error
	if err != nil {
		return nil, err
	}
	return roles, nil
}

// UserHasRole reports whether the user holds a role with the given name
func UserHasRole(userID, roleName string, db *gorm.DB) (bool, error) {
	var count int64
	err := db.Model(&UserRole{}).
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Where("user_roles.user_id = ? AND roles.name = ?", userID, roleName).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
