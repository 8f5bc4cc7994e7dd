package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/skillora/skillora-api/config"
	"github.com/skillora/skillora-api/model"
	"github.com/skillora/skillora-api/utils/auth"
	"gorm.io/gorm"
)

// Seeder handles database seeding operations
type Seeder struct {
	db       *gorm.DB
	defaults config.CourseDefaultsMap
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, defaults config.CourseDefaultsMap) *Seeder {
	return &Seeder{db: db, defaults: defaults}
}

// RunSeeds runs all seed functions against the given DB.
func RunSeeds(db *gorm.DB) error {
	return NewSeeder(db, config.DefaultCourseCatalog()).SeedAll()
}

// SeedAll runs all seed functions
func (s *Seeder) SeedAll() error {
	log.Println("Starting database seeding...")

	// Run seeds in order (respecting foreign key constraints)
	if err := s.SeedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	if err := s.SeedCourses(); err != nil {
		return fmt.Errorf("failed to seed courses: %w", err)
	}

	log.Println("Database seeding completed successfully.")
	return nil
}

// SeedAdminUser creates the default admin user
func (s *Seeder) SeedAdminUser() error {
	var count int64
	if err := s.db.Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Admin user already exists, skipping...")
		return nil
	}

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminEmail == "" || adminPassword == "" {
		log.Println("ADMIN_EMAIL and ADMIN_PASSWORD not set, skipping admin user creation")
		return nil
	}

	passwordHash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return err
	}

	admin := model.User{
		Email:        adminEmail,
		PasswordHash: passwordHash,
		Name:         "Skillora Admin",
		Role:         model.RoleAdmin,
	}
	if err := s.db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("Created admin user %s", adminEmail)
	return nil
}

// SeedCourses creates a starter catalog. Skills and syllabus come from the
// injected course defaults map when the catalog entry does not set them.
func (s *Seeder) SeedCourses() error {
	var count int64
	if err := s.db.Model(&model.Course{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Courses already exist, skipping...")
		return nil
	}

	var teacher model.User
	err := s.db.Where("role = ?", model.RoleTeacher).First(&teacher).Error
	if err == gorm.ErrRecordNotFound {
		passwordHash, herr := auth.HashPassword("changeme-" + fmt.Sprint(time.Now().Unix()))
		if herr != nil {
			return herr
		}
		teacher = model.User{
			Email:        "instructor@skillora.example",
			PasswordHash: passwordHash,
			Name:         "Skillora Instructor",
			Role:         model.RoleTeacher,
		}
		if err := s.db.Create(&teacher).Error; err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	catalog := []model.Course{
		{Title: "Python", Category: "Programming", Level: "Beginner", Duration: "8 weeks", Price: 499},
		{Title: "Web Development", Category: "Programming", Level: "Intermediate", Duration: "12 weeks", Price: 799},
		{Title: "Data Science", Category: "Data", Level: "Intermediate", Duration: "12 weeks", Price: 999},
		{Title: "Cybersecurity", Category: "Security", Level: "Advanced", Duration: "10 weeks", Price: 899},
		{Title: "Digital Marketing", Category: "Marketing", Level: "Beginner", Duration: "6 weeks", Price: 0},
	}

	for i := range catalog {
		course := &catalog[i]
		course.TeacherID = teacher.ID
		course.CertificateEnabled = true
		if d, ok := s.defaults.Lookup(course.Title); ok {
			if course.Skills == "" {
				course.Skills = d.Skills
			}
			if course.Syllabus == "" {
				course.Syllabus = d.Syllabus
			}
		}
		if err := s.db.Create(course).Error; err != nil {
			return err
		}
	}

	log.Printf("Created %d courses", len(catalog))
	return nil
}
