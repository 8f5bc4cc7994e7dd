package model

import (
	"time"

	"gorm.io/gorm"
)

// Job is a generic job posting. Unlike internships there is no scoring, no
// seat tracking and no deadline enforcement.
type Job struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	CompanyID    uint           `gorm:"not null;index" json:"company_id"`
	Title        string         `gorm:"not null" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	Requirements string         `gorm:"type:text" json:"requirements"`
	Location     string         `gorm:"type:varchar(100)" json:"location"`
	SalaryRange  string         `gorm:"type:varchar(100)" json:"salary_range"`
	JobType      string         `gorm:"type:varchar(50)" json:"job_type"` // Full-time, Part-time, Contract

	Company      User             `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Applications []JobApplication `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"-"`
}

// Job application statuses, set manually by the posting company.
const (
	JobApplicationStatusPending     = "pending"
	JobApplicationStatusReviewed    = "reviewed"
	JobApplicationStatusShortlisted = "shortlisted"
	JobApplicationStatusRejected    = "rejected"
	JobApplicationStatusAccepted    = "accepted"
)

// ValidJobApplicationStatus reports whether s is a known job application
// status.
func ValidJobApplicationStatus(s string) bool {
	switch s {
	case JobApplicationStatusPending, JobApplicationStatusReviewed,
		JobApplicationStatusShortlisted, JobApplicationStatusRejected,
		JobApplicationStatusAccepted:
		return true
	}
	return false
}

// JobApplication is an application to a job posting. Applicants may be
// anonymous, so deduplication is by (job, email) rather than by user.
type JobApplication struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
	JobID      uint           `gorm:"not null;uniqueIndex:idx_job_applications_job_email" json:"job_id"`
	Email      string         `gorm:"type:varchar(254);not null;uniqueIndex:idx_job_applications_job_email" json:"email"`
	Name       string         `gorm:"not null" json:"name"`
	Phone      string         `gorm:"type:varchar(20)" json:"phone"`
	CoverNote  string         `gorm:"type:text" json:"cover_note"`
	ResumePath string         `gorm:"type:varchar(500)" json:"resume_path"`
	Status     string         `gorm:"type:varchar(20);default:'pending'" json:"status"`

	Job Job `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for JobApplication
func (JobApplication) TableName() string {
	return "job_applications"
}
