package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base contains common columns for all tables
type Base struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate will set a UUID rather than numeric ID
func (base *Base) BeforeCreate(tx *gorm.DB) error {
	if base.ID == "" {
		base.ID = uuid.New().String()
	}
	return nil
}

// Resource status constants
type ResourceStatus string

const (
	ResourceStatusAvailable   ResourceStatus = "available"
	ResourceStatusMaintenance ResourceStatus = "maintenance"
	ResourceStatusOutOfOrder  ResourceStatus = "out_of_order"
)

// IsValidResourceStatus checks if a given status is valid
func IsValidResourceStatus(status ResourceStatus) bool {
	switch status {
	case ResourceStatusAvailable, ResourceStatusMaintenance, ResourceStatusOutOfOrder:
		return true
	default:
		return false
	}
}

// Permission flag names as stored on role_permissions rows
const (
	PermissionView   = "can_view"
	PermissionCreate = "can_create"
	PermissionEdit   = "can_edit"
	PermissionDelete = "can_delete"
)

// Resource types the permission matrix covers
const (
	ResourceTypePerson       = "person"
	ResourceTypeResource     = "resource"
	ResourceTypeCategory     = "category"
	ResourceTypeOrganization = "organization"
)

// IsValidPermission checks if a permission flag name is known
func IsValidPermission(permission string) bool {
	switch permission {
	case PermissionView, PermissionCreate, PermissionEdit, PermissionDelete:
		return true
	default:
		return false
	}
}
