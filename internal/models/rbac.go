package models

type Role struct {
	Base
	Name        string `gorm:"uniqueIndex;not null" json:"name" validate:"required,min=2"`
	Description string `gorm:"not null" json:"description" validate:"required"`
	// System roles ("admin", "user") cannot be edited or deleted.
	IsSystemRole bool             `gorm:"not null;default:false" json:"isSystemRole"`
	Permissions  []RolePermission `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE" json:"permissions,omitempty"`
}

// RolePermission holds the CRUD flags one role has on one resource type.
type RolePermission struct {
	Base
	RoleID       string `gorm:"type:uuid;not null;uniqueIndex:idx_role_resource" json:"roleId"`
	Role         *Role  `json:"role,omitempty"`
	ResourceType string `gorm:"not null;uniqueIndex:idx_role_resource" json:"resourceType"`
	CanView      bool   `gorm:"not null;default:false" json:"can_view"`
	CanCreate    bool   `gorm:"not null;default:false" json:"can_create"`
	CanEdit      bool   `gorm:"not null;default:false" json:"can_edit"`
	CanDelete    bool   `gorm:"not null;default:false" json:"can_delete"`
}

// Has reports whether the named flag is set on this row.
func (p *RolePermission) Has(permission string) bool {
	switch permission {
	case PermissionView:
		return p.CanView
	case PermissionCreate:
		return p.CanCreate
	case PermissionEdit:
		return p.CanEdit
	case PermissionDelete:
		return p.CanDelete
	default:
		return false
	}
}

// UserRole joins users to roles and records who granted the role.
type UserRole struct {
	Base
	UserID    string `gorm:"type:uuid;not null;uniqueIndex:idx_user_role" json:"userId"`
	User      *User  `json:"user,omitempty"`
	RoleID    string `gorm:"type:uuid;not null;uniqueIndex:idx_user_role" json:"roleId"`
	Role      *Role  `json:"role,omitempty"`
	GrantedBy string `gorm:"type:uuid" json:"grantedBy,omitempty"`
}
