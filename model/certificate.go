package model

import (
	"time"

	"gorm.io/gorm"
)

// CertificateIDLength is the length of the public certificate identifier.
const CertificateIDLength = 16

// Certificate is a completion record, unique per (user, course). It is
// created exactly once when progress first reaches 100% and is never revoked,
// even if the underlying progress row is later reset.
type Certificate struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	UserID        uint           `gorm:"not null;uniqueIndex:idx_certificates_user_course" json:"user_id"`
	CourseID      uint           `gorm:"not null;uniqueIndex:idx_certificates_user_course" json:"course_id"`
	CertificateID string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"certificate_id"`
	IssuedAt      time.Time      `gorm:"not null" json:"issued_at"`
	Verified      bool           `gorm:"default:false" json:"verified"`

	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Course Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"course,omitempty"`
}
