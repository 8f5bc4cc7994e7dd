package model

import (
	"time"

	"gorm.io/gorm"
)

// Internship posting statuses
const (
	InternshipStatusDraft     = "draft"
	InternshipStatusPublished = "published"
	InternshipStatusClosed    = "closed"
	InternshipStatusCancelled = "cancelled"
)

// Internship posting types
const (
	InternshipTypeInternship         = "internship"
	InternshipTypeIndustrialTraining = "industrial_training"
	InternshipTypePlacement          = "placement"
)

// Internship is a posting by a company. Required skills are stored as
// comma-separated text, like student profile skills.
type Internship struct {
	ID                    uint           `gorm:"primaryKey" json:"id"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
	DeletedAt             gorm.DeletedAt `gorm:"index" json:"-"`
	CompanyID             uint           `gorm:"not null;index" json:"company_id"`
	Title                 string         `gorm:"not null" json:"title"`
	Description           string         `gorm:"type:text" json:"description"`
	RequiredSkills        string         `gorm:"type:text" json:"required_skills"`
	Location              string         `gorm:"type:varchar(100)" json:"location"`
	Type                  string         `gorm:"type:varchar(30);default:'internship'" json:"type"`
	Stipend               float64        `gorm:"type:decimal(10,2);default:0" json:"stipend"`
	DurationMonths        int            `gorm:"default:0" json:"duration_months"`
	HasPlacementPotential bool           `gorm:"default:false" json:"has_placement_potential"`
	SeatsAvailable        int            `gorm:"not null;default:1" json:"seats_available"`
	SeatsFilled           int            `gorm:"not null;default:0" json:"seats_filled"`
	ApplicationDeadline   time.Time      `gorm:"not null" json:"application_deadline"`
	Status                string         `gorm:"type:varchar(20);default:'draft';index" json:"status"`

	// Relationships
	Company      User                    `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Applications []InternshipApplication `gorm:"foreignKey:InternshipID;constraint:OnDelete:CASCADE" json:"-"`
}

// RequiredSkillSet returns the required skills as a normalized list.
func (i *Internship) RequiredSkillSet() []string {
	return SplitCSV(i.RequiredSkills)
}

// IsOpen reports whether the posting accepts applications right now,
// ignoring seat availability.
func (i *Internship) IsOpen(now time.Time) bool {
	return i.Status == InternshipStatusPublished && i.ApplicationDeadline.After(now)
}

// Application statuses for the internship lane
const (
	ApplicationStatusDraft              = "draft"
	ApplicationStatusSubmitted          = "submitted"
	ApplicationStatusUnderReview        = "under_review"
	ApplicationStatusShortlisted        = "shortlisted"
	ApplicationStatusInterviewScheduled = "interview_scheduled"
	ApplicationStatusInterviewCompleted = "interview_completed"
	ApplicationStatusSelected           = "selected"
	ApplicationStatusRejected           = "rejected"
	ApplicationStatusWithdrawn          = "withdrawn"
)

// applicationTransitions is the legal state graph for internship
// applications. Withdrawal is handled separately: it is reachable from every
// non-terminal state.
var applicationTransitions = map[string][]string{
	ApplicationStatusDraft:              {ApplicationStatusSubmitted},
	ApplicationStatusSubmitted:          {ApplicationStatusUnderReview},
	ApplicationStatusUnderReview:        {ApplicationStatusShortlisted, ApplicationStatusInterviewScheduled},
	ApplicationStatusShortlisted:        {ApplicationStatusInterviewScheduled, ApplicationStatusInterviewCompleted},
	ApplicationStatusInterviewScheduled: {ApplicationStatusInterviewCompleted},
	ApplicationStatusInterviewCompleted: {ApplicationStatusSelected, ApplicationStatusRejected},
}

// IsTerminalApplicationStatus reports whether no further transition is
// possible from the given status.
func IsTerminalApplicationStatus(status string) bool {
	switch status {
	case ApplicationStatusSelected, ApplicationStatusRejected, ApplicationStatusWithdrawn:
		return true
	}
	return false
}

// CanTransitionApplication reports whether an application may move from one
// status to another.
func CanTransitionApplication(from, to string) bool {
	if to == ApplicationStatusWithdrawn {
		return !IsTerminalApplicationStatus(from)
	}
	for _, next := range applicationTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// InternshipApplication is a student's application to an internship posting,
// unique per (student, internship).
type InternshipApplication struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
	StudentID       uint           `gorm:"not null;uniqueIndex:idx_internship_applications_student_internship" json:"student_id"`
	InternshipID    uint           `gorm:"not null;uniqueIndex:idx_internship_applications_student_internship" json:"internship_id"`
	Status          string         `gorm:"type:varchar(30);default:'submitted';index" json:"status"`
	CoverLetter     string         `gorm:"type:text" json:"cover_letter"`
	ResumePath      string         `gorm:"type:varchar(500)" json:"resume_path"`
	AppliedAt       time.Time      `gorm:"not null" json:"applied_at"`
	InterviewAt     *time.Time     `json:"interview_at"`
	DecidedAt       *time.Time     `json:"decided_at"`
	RejectionReason string         `gorm:"type:text" json:"rejection_reason"`

	Student    User       `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"student,omitempty"`
	Internship Internship `gorm:"foreignKey:InternshipID;constraint:OnDelete:CASCADE" json:"internship,omitempty"`
}

// TableName specifies the table name for InternshipApplication
func (InternshipApplication) TableName() string {
	return "internship_applications"
}
