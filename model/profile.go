package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Internship preference values for a student profile
const (
	PreferenceInternship         = "internship"
	PreferenceIndustrialTraining = "industrial_training"
	PreferencePlacement          = "placement"
)

// StudentProfile holds the placement-relevant attributes of a student.
// Skills, preferred locations and preferred industries are stored as
// comma-separated text and normalized on read.
type StudentProfile struct {
	ID                   uint           `gorm:"primaryKey" json:"id"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`
	UserID               uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	Bio                  string         `gorm:"type:text" json:"bio"`
	Phone                string         `gorm:"type:varchar(20)" json:"phone"`
	Skills               string         `gorm:"type:text" json:"skills"`
	PreferredLocations   string         `gorm:"type:text" json:"preferred_locations"`
	PreferredIndustries  string         `gorm:"type:text" json:"preferred_industries"`
	CGPA                 float64        `gorm:"type:decimal(4,2);default:0" json:"cgpa"`
	InternshipPreference string         `gorm:"type:varchar(30);default:'internship'" json:"internship_preference"`
	IsPlacementReady     bool           `gorm:"default:false" json:"is_placement_ready"`
	ResumePath           string         `gorm:"type:varchar(500)" json:"resume_path"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for StudentProfile
func (StudentProfile) TableName() string {
	return "student_profiles"
}

// SkillSet returns the student's skills as a normalized list.
func (p *StudentProfile) SkillSet() []string {
	return SplitCSV(p.Skills)
}

// LocationSet returns the student's preferred locations as a normalized list.
func (p *StudentProfile) LocationSet() []string {
	return SplitCSV(p.PreferredLocations)
}

// IndustrySet returns the student's preferred industries as a normalized list.
func (p *StudentProfile) IndustrySet() []string {
	return SplitCSV(p.PreferredIndustries)
}

// CompanyProfile holds the company-role attributes of a user.
type CompanyProfile struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	UserID      uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	CompanyName string         `gorm:"not null" json:"company_name"`
	Industry    string         `gorm:"type:varchar(100)" json:"industry"`
	Location    string         `gorm:"type:varchar(100)" json:"location"`
	Website     string         `gorm:"type:varchar(255)" json:"website"`
	About       string         `gorm:"type:text" json:"about"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for CompanyProfile
func (CompanyProfile) TableName() string {
	return "company_profiles"
}

// SplitCSV splits comma-separated text into lowercased, trimmed, de-duplicated
// entries. Empty entries are dropped.
func SplitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	seen := make(map[string]struct{})
	var out []string
	for _, part := range strings.Split(s, ",") {
		v := strings.ToLower(strings.TrimSpace(part))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
