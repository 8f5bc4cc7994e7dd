package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NotificationType represents the type/severity of notification
type NotificationType string

const (
	NotificationTypeInfo    NotificationType = "info"
	NotificationTypeSuccess NotificationType = "success"
	NotificationTypeWarning NotificationType = "warning"
	NotificationTypeError   NotificationType = "error"
)

// NotificationCategory represents the category of notification
type NotificationCategory string

const (
	NotificationCategoryApplication NotificationCategory = "application"
	NotificationCategoryEnrollment  NotificationCategory = "enrollment"
	NotificationCategoryCertificate NotificationCategory = "certificate"
	NotificationCategoryGrading     NotificationCategory = "grading"
	NotificationCategoryGeneral     NotificationCategory = "general"
)

// Notification is a fire-and-forget record created alongside state
// transitions. Creation is synchronous with the triggering transition;
// delivery beyond the record itself is not guaranteed.
type Notification struct {
	ID            uint                 `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
	DeletedAt     gorm.DeletedAt       `gorm:"index" json:"-"`
	UserID        uint                 `gorm:"index;not null" json:"user_id"`
	Type          NotificationType     `gorm:"type:varchar(20);not null" json:"type"`
	Category      NotificationCategory `gorm:"type:varchar(30);not null" json:"category"`
	Title         string               `gorm:"type:varchar(255);not null" json:"title"`
	Message       string               `gorm:"type:text" json:"message"`
	IsRead        bool                 `gorm:"default:false" json:"is_read"`
	ApplicationID *uint                `gorm:"index" json:"application_id,omitempty"`
	InternshipID  *uint                `gorm:"index" json:"internship_id,omitempty"`
	Metadata      datatypes.JSON       `gorm:"type:jsonb" json:"metadata,omitempty"`

	// Relationships
	User        User                   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Application *InternshipApplication `gorm:"foreignKey:ApplicationID;constraint:OnDelete:SET NULL" json:"-"`
	Internship  *Internship            `gorm:"foreignKey:InternshipID;constraint:OnDelete:SET NULL" json:"-"`
}

// NotificationResponse represents the API response format for a notification
type NotificationResponse struct {
	ID            uint                 `json:"id"`
	Type          NotificationType     `json:"type"`
	Category      NotificationCategory `json:"category"`
	Title         string               `json:"title"`
	Message       string               `json:"message"`
	IsRead        bool                 `json:"is_read"`
	ApplicationID *uint                `json:"application_id,omitempty"`
	InternshipID  *uint                `json:"internship_id,omitempty"`
	Metadata      datatypes.JSON       `json:"metadata,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
}

// ToResponse converts a Notification to NotificationResponse
func (n *Notification) ToResponse() NotificationResponse {
	return NotificationResponse{
		ID:            n.ID,
		Type:          n.Type,
		Category:      n.Category,
		Title:         n.Title,
		Message:       n.Message,
		IsRead:        n.IsRead,
		ApplicationID: n.ApplicationID,
		InternshipID:  n.InternshipID,
		Metadata:      n.Metadata,
		CreatedAt:     n.CreatedAt,
	}
}
