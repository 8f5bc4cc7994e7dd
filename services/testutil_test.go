package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/skillora/skillora-api/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testDB opens an in-memory sqlite database with the full schema migrated.
// The pool is pinned to one connection so every query sees the same database.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&model.User{},
		&model.StudentProfile{},
		&model.CompanyProfile{},
		&model.Course{},
		&model.CourseMaterial{},
		&model.MaterialView{},
		&model.Assignment{},
		&model.AssignmentSubmission{},
		&model.Enrollment{},
		&model.StudentProgress{},
		&model.Payment{},
		&model.CartItem{},
		&model.Certificate{},
		&model.Internship{},
		&model.InternshipApplication{},
		&model.Job{},
		&model.JobApplication{},
		&model.Notification{},
		&model.CronJobLog{},
	)
	if err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email, role string) model.User {
	t.Helper()
	user := model.User{
		Email:        email,
		PasswordHash: "x",
		Name:         email,
		Role:         role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", email, err)
	}
	return user
}

func seedCourse(t *testing.T, db *gorm.DB, teacherID uint, title string, price float64) model.Course {
	t.Helper()
	course := model.Course{
		TeacherID:          teacherID,
		Title:              title,
		Price:              price,
		CertificateEnabled: true,
	}
	if err := db.Create(&course).Error; err != nil {
		t.Fatalf("failed to create course %q: %v", title, err)
	}
	return course
}

func seedMaterial(t *testing.T, db *gorm.DB, courseID uint, published bool) model.CourseMaterial {
	t.Helper()
	material := model.CourseMaterial{
		CourseID:    courseID,
		Title:       fmt.Sprintf("material-%d", time.Now().UnixNano()),
		ContentType: "document",
		IsPublished: published,
	}
	if err := db.Create(&material).Error; err != nil {
		t.Fatalf("failed to create material: %v", err)
	}
	return material
}

func seedAssignment(t *testing.T, db *gorm.DB, courseID uint, published bool) model.Assignment {
	t.Helper()
	assignment := model.Assignment{
		CourseID:    courseID,
		Title:       fmt.Sprintf("assignment-%d", time.Now().UnixNano()),
		MaxMarks:    100,
		IsPublished: published,
	}
	if err := db.Create(&assignment).Error; err != nil {
		t.Fatalf("failed to create assignment: %v", err)
	}
	return assignment
}

// seedInternship creates a published posting with a future deadline; the
// mutate hook adjusts fields (status, deadline, seats) before the insert.
func seedInternship(t *testing.T, db *gorm.DB, companyID uint, mutate func(*model.Internship)) model.Internship {
	t.Helper()
	internship := model.Internship{
		CompanyID:           companyID,
		Title:               "Backend Intern",
		Type:                model.InternshipTypeInternship,
		SeatsAvailable:      1,
		ApplicationDeadline: time.Now().Add(48 * time.Hour),
		Status:              model.InternshipStatusPublished,
	}
	if mutate != nil {
		mutate(&internship)
	}
	if err := db.Create(&internship).Error; err != nil {
		t.Fatalf("failed to create internship: %v", err)
	}
	return internship
}
