package model

import (
	"time"

	"gorm.io/gorm"
)

// Course represents a purchasable course in the catalog
type Course struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
	TeacherID          uint           `gorm:"not null;index" json:"teacher_id"`
	Title              string         `gorm:"not null" json:"title"`
	Description        string         `gorm:"type:text" json:"description"`
	Category           string         `gorm:"type:varchar(100);index" json:"category"`
	Level              string         `gorm:"type:varchar(50)" json:"level"`
	Duration           string         `gorm:"type:varchar(50)" json:"duration"`
	Price              float64        `gorm:"type:decimal(10,2);not null;default:0" json:"price"`
	Skills             string         `gorm:"type:text" json:"skills"`
	Syllabus           string         `gorm:"type:text" json:"syllabus"`
	ImagePath          string         `gorm:"type:varchar(500)" json:"image_path"`
	CertificateEnabled bool           `gorm:"default:true" json:"certificate_enabled"`

	// Relationships
	Teacher     User             `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
	Materials   []CourseMaterial `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"materials,omitempty"`
	Assignments []Assignment     `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"assignments,omitempty"`
	Enrollments []Enrollment     `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
}

// IsFree reports whether the course can be enrolled without payment.
func (c *Course) IsFree() bool { return c.Price <= 0 }

// CourseMaterial is a piece of course content (video, document, link).
// Only published materials count toward progress.
type CourseMaterial struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	CourseID    uint           `gorm:"not null;index" json:"course_id"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	FilePath    string         `gorm:"type:varchar(500)" json:"file_path"`
	ContentType string         `gorm:"type:varchar(50)" json:"content_type"` // video, document, link
	Position    int            `gorm:"default:0" json:"position"`
	IsPublished bool           `gorm:"default:false;index" json:"is_published"`

	Course Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for CourseMaterial
func (CourseMaterial) TableName() string {
	return "course_materials"
}

// MaterialView records that a student opened a material. The (student,
// material) pair is unique; viewing twice is a no-op.
type MaterialView struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	StudentID  uint      `gorm:"not null;uniqueIndex:idx_material_views_student_material" json:"student_id"`
	MaterialID uint      `gorm:"not null;uniqueIndex:idx_material_views_student_material" json:"material_id"`

	Student  User           `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"-"`
	Material CourseMaterial `gorm:"foreignKey:MaterialID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for MaterialView
func (MaterialView) TableName() string {
	return "material_views"
}

// Assignment is graded course work. Only published assignments count toward
// progress.
type Assignment struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	CourseID    uint           `gorm:"not null;index" json:"course_id"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	MaxMarks    int            `gorm:"default:100" json:"max_marks"`
	DueDate     *time.Time     `json:"due_date"`
	IsPublished bool           `gorm:"default:false;index" json:"is_published"`

	Course      Course                 `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
	Submissions []AssignmentSubmission `gorm:"foreignKey:AssignmentID;constraint:OnDelete:CASCADE" json:"-"`
}

// Assignment submission statuses. A submission in either status counts as a
// completed assignment for progress purposes.
const (
	SubmissionStatusSubmitted = "submitted"
	SubmissionStatusGraded    = "graded"
)

// AssignmentSubmission is a student's answer to an assignment, unique per
// (assignment, student).
type AssignmentSubmission struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	AssignmentID uint           `gorm:"not null;uniqueIndex:idx_submissions_assignment_student" json:"assignment_id"`
	StudentID    uint           `gorm:"not null;uniqueIndex:idx_submissions_assignment_student" json:"student_id"`
	Content      string         `gorm:"type:text" json:"content"`
	FilePath     string         `gorm:"type:varchar(500)" json:"file_path"`
	Status       string         `gorm:"type:varchar(20);default:'submitted'" json:"status"`
	Marks        *int           `json:"marks"`
	Feedback     string         `gorm:"type:text" json:"feedback"`
	GradedAt     *time.Time     `json:"graded_at"`

	Assignment Assignment `gorm:"foreignKey:AssignmentID;constraint:OnDelete:CASCADE" json:"-"`
	Student    User       `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for AssignmentSubmission
func (AssignmentSubmission) TableName() string {
	return "assignment_submissions"
}
