package models

import (
	"gorm.io/datatypes"
)

// Organization is the tenant boundary. Persons, resources and categories hang
// off it by foreign key.
type Organization struct {
	Base
	Name         string `gorm:"not null" json:"name" validate:"required,min=2"`
	Slug         string `gorm:"uniqueIndex;not null" json:"slug" validate:"required,slug"`
	Description  string `json:"description"`
	ContactEmail string `json:"contactEmail" validate:"omitempty,email"`
	Website      string `json:"website" validate:"omitempty,url"`
}

// Person is a display identity; it may or may not have a login-capable User.
// RoleLabels are informal badges shown in the UI, distinct from the
// relational UserRole grants that drive authorization.
type Person struct {
	Base
	Name           string         `gorm:"not null" json:"name" validate:"required,min=2"`
	Email          string         `gorm:"uniqueIndex;not null" json:"email" validate:"required,email"`
	RoleLabels     datatypes.JSON `gorm:"type:jsonb" json:"roles"`
	Active         bool           `gorm:"not null;default:true" json:"active"`
	OrganizationID string         `gorm:"type:uuid;default:NULL" json:"organizationId,omitempty"`
	Organization   *Organization  `json:"organization,omitempty"`
}

// Resource is a physical asset (tool/machine) tracked by the app.
type Resource struct {
	Base
	Name           string            `gorm:"not null" json:"name" validate:"required,min=2"`
	Description    string            `json:"description"`
	CategoryID     string            `gorm:"type:uuid;not null" json:"category_id" validate:"required,uuid"`
	Category       *ResourceCategory `gorm:"foreignKey:CategoryID" json:"resource_category,omitempty"`
	Status         ResourceStatus    `gorm:"not null;default:'available'" json:"status" validate:"omitempty,resource_status"`
	Location       string            `json:"location"`
	Specifications datatypes.JSON    `gorm:"type:jsonb" json:"specifications,omitempty"`
	ImageURL       string            `json:"image_url,omitempty"`
	OrganizationID string            `gorm:"type:uuid;default:NULL" json:"organizationId,omitempty"`
	Organization   *Organization     `json:"organization,omitempty"`
}

type ResourceCategory struct {
	Base
	Name           string        `gorm:"not null" json:"name" validate:"required,min=2"`
	Description    string        `json:"description"`
	Icon           string        `json:"icon"`
	Color          string        `json:"color"`
	OrganizationID string        `gorm:"type:uuid;default:NULL" json:"organizationId,omitempty"`
	Organization   *Organization `json:"organization,omitempty"`
}
