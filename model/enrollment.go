package model

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment is the active link between a user and a course, unique per
// (user, course). Unenrolling deactivates the row instead of deleting it so
// payment history stays intact; re-purchasing reactivates it.
type Enrollment struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
	UserID     uint           `gorm:"not null;uniqueIndex:idx_enrollments_user_course" json:"user_id"`
	CourseID   uint           `gorm:"not null;uniqueIndex:idx_enrollments_user_course" json:"course_id"`
	PaymentID  *uint          `gorm:"index" json:"payment_id,omitempty"`
	IsActive   bool           `gorm:"default:true;index" json:"is_active"`
	EnrolledAt time.Time      `gorm:"not null" json:"enrolled_at"`

	// Relationships
	User    User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Course  Course   `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"course,omitempty"`
	Payment *Payment `gorm:"foreignKey:PaymentID;constraint:OnDelete:SET NULL" json:"payment,omitempty"`
}

// StudentProgress tracks a student's completion percentage for one course,
// unique per (student, course). The percentage is recomputed on demand from
// viewed materials and completed assignments, never maintained incrementally.
type StudentProgress struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
	StudentID          uint           `gorm:"not null;uniqueIndex:idx_student_progress_student_course" json:"student_id"`
	CourseID           uint           `gorm:"not null;uniqueIndex:idx_student_progress_student_course" json:"course_id"`
	ProgressPercentage float64        `gorm:"type:decimal(5,2);default:0" json:"progress_percentage"`
	LastAccessed       time.Time      `json:"last_accessed"`

	Student User   `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"-"`
	Course  Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"course,omitempty"`
}

// TableName specifies the table name for StudentProgress
func (StudentProgress) TableName() string {
	return "student_progress"
}

// IsComplete reports whether the course is fully completed.
func (p *StudentProgress) IsComplete() bool { return p.ProgressPercentage >= 100 }
