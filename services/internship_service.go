package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/skillora/skillora-api/model"
	"gorm.io/gorm"
)

// InternshipService manages internship postings on the company side, plus
// the public browse view for students.
type InternshipService struct {
	db *gorm.DB
}

// NewInternshipService creates a new internship service
func NewInternshipService(db *gorm.DB) *InternshipService {
	return &InternshipService{db: db}
}

// InternshipInput carries the editable fields of a posting.
type InternshipInput struct {
	Title                 string
	Description           string
	RequiredSkills        string
	Location              string
	Type                  string
	Stipend               float64
	DurationMonths        int
	HasPlacementPotential bool
	SeatsAvailable        int
	ApplicationDeadline   time.Time
}

// Create adds a draft posting owned by the given company.
func (s *InternshipService) Create(ctx context.Context, companyID uint, input InternshipInput) (*model.Internship, error) {
	internship := model.Internship{
		CompanyID:             companyID,
		Title:                 input.Title,
		Description:           input.Description,
		RequiredSkills:        input.RequiredSkills,
		Location:              input.Location,
		Type:                  input.Type,
		Stipend:               input.Stipend,
		DurationMonths:        input.DurationMonths,
		HasPlacementPotential: input.HasPlacementPotential,
		SeatsAvailable:        input.SeatsAvailable,
		ApplicationDeadline:   input.ApplicationDeadline,
		Status:                model.InternshipStatusDraft,
	}
	if internship.Type == "" {
		internship.Type = model.InternshipTypeInternship
	}
	if internship.SeatsAvailable < 1 {
		internship.SeatsAvailable = 1
	}

	if err := s.db.WithContext(ctx).Create(&internship).Error; err != nil {
		return nil, err
	}
	return &internship, nil
}

func (s *InternshipService) owned(db *gorm.DB, companyID, internshipID uint) (*model.Internship, error) {
	var internship model.Internship
	err := db.Where("id = ? AND company_id = ?", internshipID, companyID).First(&internship).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &internship, nil
}

// Update edits a posting the company owns. Closed and cancelled postings
// cannot be edited.
func (s *InternshipService) Update(ctx context.Context, companyID, internshipID uint, input InternshipInput) (*model.Internship, error) {
	db := s.db.WithContext(ctx)

	internship, err := s.owned(db, companyID, internshipID)
	if err != nil {
		return nil, err
	}
	if internship.Status == model.InternshipStatusClosed || internship.Status == model.InternshipStatusCancelled {
		return nil, ErrInvalidTransition
	}

	updates := map[string]interface{}{
		"title":                   input.Title,
		"description":             input.Description,
		"required_skills":         input.RequiredSkills,
		"location":                input.Location,
		"stipend":                 input.Stipend,
		"duration_months":         input.DurationMonths,
		"has_placement_potential": input.HasPlacementPotential,
		"application_deadline":    input.ApplicationDeadline,
	}
	if input.Type != "" {
		updates["type"] = input.Type
	}
	if input.SeatsAvailable >= 1 {
		updates["seats_available"] = input.SeatsAvailable
	}
	if err := db.Model(internship).Updates(updates).Error; err != nil {
		return nil, err
	}
	return internship, nil
}

// Publish moves a draft posting to published so students can see and apply
// to it. The deadline must still be in the future.
func (s *InternshipService) Publish(ctx context.Context, companyID, internshipID uint) (*model.Internship, error) {
	db := s.db.WithContext(ctx)

	internship, err := s.owned(db, companyID, internshipID)
	if err != nil {
		return nil, err
	}
	if internship.Status != model.InternshipStatusDraft {
		return nil, ErrInvalidTransition
	}
	if !internship.ApplicationDeadline.After(time.Now()) {
		return nil, ErrDeadlinePassed
	}

	if err := db.Model(internship).Update("status", model.InternshipStatusPublished).Error; err != nil {
		return nil, err
	}
	internship.Status = model.InternshipStatusPublished
	return internship, nil
}

// Close stops a published posting from accepting applications.
func (s *InternshipService) Close(ctx context.Context, companyID, internshipID uint) (*model.Internship, error) {
	db := s.db.WithContext(ctx)

	internship, err := s.owned(db, companyID, internshipID)
	if err != nil {
		return nil, err
	}
	if internship.Status != model.InternshipStatusPublished {
		return nil, ErrInvalidTransition
	}

	if err := db.Model(internship).Update("status", model.InternshipStatusClosed).Error; err != nil {
		return nil, err
	}
	internship.Status = model.InternshipStatusClosed
	return internship, nil
}

// ListByCompany returns all postings a company owns, newest first.
func (s *InternshipService) ListByCompany(ctx context.Context, companyID uint) ([]model.Internship, error) {
	var internships []model.Internship
	err := s.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Find(&internships).Error
	return internships, err
}

// BrowseOptions filters the public internship listing.
type BrowseOptions struct {
	Search   string
	Location string
	Type     string
	Page     int
	PerPage  int
}

// Browse returns published postings with a future deadline, filtered and
// paginated. Full postings still show up here; the seat check only applies
// when applying.
func (s *InternshipService) Browse(ctx context.Context, opts BrowseOptions) ([]model.Internship, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Internship{}).
		Where("status = ? AND application_deadline > ?", model.InternshipStatusPublished, time.Now())

	if search := strings.TrimSpace(opts.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(required_skills) LIKE ?", like, like)
	}
	if opts.Location != "" {
		query = query.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(opts.Location)+"%")
	}
	if opts.Type != "" {
		query = query.Where("type = ?", opts.Type)
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

	var internships []model.Internship
	err := query.Preload("Company").Preload("Company.CompanyProfile").
		Order("application_deadline ASC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&internships).Error
	return internships, total, err
}

// Get returns a single published posting for public viewing, or any posting
// when requested by its owning company.
func (s *InternshipService) Get(ctx context.Context, internshipID uint, companyID *uint) (*model.Internship, error) {
	query := s.db.WithContext(ctx).
		Preload("Company").Preload("Company.CompanyProfile").
		Where("id = ?", internshipID)
	if companyID != nil {
		query = query.Where("company_id = ?", *companyID)
	} else {
		query = query.Where("status = ?", model.InternshipStatusPublished)
	}

	var internship model.Internship
	if err := query.First(&internship).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &internship, nil
}
