package services

import (
	"context"
	"errors"
	"strings"

	"github.com/skillora/skillora-api/config"
	"github.com/skillora/skillora-api/model"
	"gorm.io/gorm"
)

// CourseService manages the course catalog. Creation fills in skills and
// syllabus from the default catalog when the teacher leaves them blank.
type CourseService struct {
	db       *gorm.DB
	defaults config.CourseDefaultsMap
}

// NewCourseService creates a new course service
func NewCourseService(db *gorm.DB, defaults config.CourseDefaultsMap) *CourseService {
	return &CourseService{db: db, defaults: defaults}
}

// CourseInput carries the editable fields of a course.
type CourseInput struct {
	Title              string
	Description        string
	Category           string
	Level              string
	Duration           string
	Price              float64
	Skills             string
	Syllabus           string
	ImagePath          string
	CertificateEnabled *bool
}

// Create adds a course owned by the given teacher.
func (s *CourseService) Create(ctx context.Context, teacherID uint, input CourseInput) (*model.Course, error) {
	course := model.Course{
		TeacherID:          teacherID,
		Title:              input.Title,
		Description:        input.Description,
		Category:           input.Category,
		Level:              input.Level,
		Duration:           input.Duration,
		Price:              input.Price,
		Skills:             input.Skills,
		Syllabus:           input.Syllabus,
		ImagePath:          input.ImagePath,
		CertificateEnabled: true,
	}
	if input.CertificateEnabled != nil {
		course.CertificateEnabled = *input.CertificateEnabled
	}

	if defaults, ok := s.defaults.Lookup(course.Title); ok {
		if course.Skills == "" {
			course.Skills = defaults.Skills
		}
		if course.Syllabus == "" {
			course.Syllabus = defaults.Syllabus
		}
	}

	if err := s.db.WithContext(ctx).Create(&course).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

// Update edits a course the teacher owns.
func (s *CourseService) Update(ctx context.Context, teacherID, courseID uint, input CourseInput) (*model.Course, error) {
	db := s.db.WithContext(ctx)

	var course model.Course
	err := db.Where("id = ? AND teacher_id = ?", courseID, teacherID).First(&course).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{
		"title":       input.Title,
		"description": input.Description,
		"category":    input.Category,
		"level":       input.Level,
		"duration":    input.Duration,
		"price":       input.Price,
		"skills":      input.Skills,
		"syllabus":    input.Syllabus,
	}
	if input.ImagePath != "" {
		updates["image_path"] = input.ImagePath
	}
	if input.CertificateEnabled != nil {
		updates["certificate_enabled"] = *input.CertificateEnabled
	}
	if err := db.Model(&course).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

// Delete soft-deletes a course the teacher owns.
func (s *CourseService) Delete(ctx context.Context, teacherID, courseID uint) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND teacher_id = ?", courseID, teacherID).
		Delete(&model.Course{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListOptions filters the public catalog listing.
type CourseListOptions struct {
	Search   string
	Category string
	Level    string
	Page     int
	PerPage  int
}

// List returns catalog courses with optional search and filters, paginated.
func (s *CourseService) List(ctx context.Context, opts CourseListOptions) ([]model.Course, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Course{})

	if search := strings.TrimSpace(opts.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if opts.Category != "" {
		query = query.Where("category = ?", opts.Category)
	}
	if opts.Level != "" {
		query = query.Where("level = ?", opts.Level)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := opts.Page
	if page < 1 {
		page = 1
	}
	perPage := opts.PerPage
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	var courses []model.Course
	err := query.Preload("Teacher").
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&courses).Error
	return courses, total, err
}

// Get returns a single course with its published materials and assignments.
func (s *CourseService) Get(ctx context.Context, courseID uint) (*model.Course, error) {
	var course model.Course
	err := s.db.WithContext(ctx).
		Preload("Teacher").
		Preload("Materials", "is_published = ?", true).
		Preload("Assignments", "is_published = ?", true).
		First(&course, courseID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &course, nil
}

// ListByTeacher returns all courses a teacher owns, including drafts of
// their content.
func (s *CourseService) ListByTeacher(ctx context.Context, teacherID uint) ([]model.Course, error) {
	var courses []model.Course
	err := s.db.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Order("created_at DESC").
		Find(&courses).Error
	return courses, err
}
