package services

import (
	"context"
	"errors"
	"strings"

	"github.com/skillora/skillora-api/model"
	"gorm.io/gorm"
)

// JobService manages plain job postings and their anonymous application
// lane. There is no scoring or seat tracking here; status is set manually by
// the posting company.
type JobService struct {
	db *gorm.DB
}

// NewJobService creates a new job service
func NewJobService(db *gorm.DB) *JobService {
	return &JobService{db: db}
}

// JobInput carries the editable fields of a job posting.
type JobInput struct {
	Title        string
	Description  string
	Requirements string
	Location     string
	SalaryRange  string
	JobType      string
}

// Create adds a job posting owned by the given company.
func (s *JobService) Create(ctx context.Context, companyID uint, input JobInput) (*model.Job, error) {
	job := model.Job{
		CompanyID:    companyID,
		Title:        input.Title,
		Description:  input.Description,
		Requirements: input.Requirements,
		Location:     input.Location,
		SalaryRange:  input.SalaryRange,
		JobType:      input.JobType,
	}
	if err := s.db.WithContext(ctx).Create(&job).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// Update edits a job posting the company owns.
func (s *JobService) Update(ctx context.Context, companyID, jobID uint, input JobInput) (*model.Job, error) {
	db := s.db.WithContext(ctx)

	var job model.Job
	err := db.Where("id = ? AND company_id = ?", jobID, companyID).First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	err = db.Model(&job).Updates(map[string]interface{}{
		"title":        input.Title,
		"description":  input.Description,
		"requirements": input.Requirements,
		"location":     input.Location,
		"salary_range": input.SalaryRange,
		"job_type":     input.JobType,
	}).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// Delete soft-deletes a job posting the company owns.
func (s *JobService) Delete(ctx context.Context, companyID, jobID uint) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND company_id = ?", jobID, companyID).
		Delete(&model.Job{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns job postings for the public board, optionally filtered by
// type or location.
func (s *JobService) List(ctx context.Context, jobType, location string) ([]model.Job, error) {
	query := s.db.WithContext(ctx).Preload("Company").Preload("Company.CompanyProfile")
	if jobType != "" {
		query = query.Where("job_type = ?", jobType)
	}
	if location != "" {
		query = query.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(location)+"%")
	}

	var jobs []model.Job
	err := query.Order("created_at DESC").Find(&jobs).Error
	return jobs, err
}

// ListByCompany returns all job postings a company owns.
func (s *JobService) ListByCompany(ctx context.Context, companyID uint) ([]model.Job, error) {
	var jobs []model.Job
	err := s.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Find(&jobs).Error
	return jobs, err
}

// JobApplicationInput carries an applicant's details. No account is
// required, so the email is the deduplication key per job.
type JobApplicationInput struct {
	Name       string
	Email      string
	Phone      string
	CoverNote  string
	ResumePath string
}

// Apply records an application to a job posting. A second application with
// the same email for the same job is rejected.
func (s *JobService) Apply(ctx context.Context, jobID uint, input JobApplicationInput) (*model.JobApplication, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	var application model.JobApplication
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var job model.Job
		if err := tx.First(&job, jobID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var count int64
		err := tx.Model(&model.JobApplication{}).
			Where("job_id = ? AND email = ?", jobID, email).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateJobApplication
		}

		application = model.JobApplication{
			JobID:      jobID,
			Email:      email,
			Name:       input.Name,
			Phone:      input.Phone,
			CoverNote:  input.CoverNote,
			ResumePath: input.ResumePath,
			Status:     model.JobApplicationStatusPending,
		}
		return tx.Create(&application).Error
	})
	if err != nil {
		return nil, err
	}
	return &application, nil
}

// ListApplications returns all applications for a job the company owns.
func (s *JobService) ListApplications(ctx context.Context, companyID, jobID uint) ([]model.JobApplication, error) {
	db := s.db.WithContext(ctx)

	var job model.Job
	err := db.Where("id = ? AND company_id = ?", jobID, companyID).First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var applications []model.JobApplication
	err = db.Where("job_id = ?", jobID).Order("created_at ASC").Find(&applications).Error
	return applications, err
}

// SetApplicationStatus lets the posting company move an application to any
// known status. Unlike internship applications there is no state graph.
func (s *JobService) SetApplicationStatus(ctx context.Context, companyID, applicationID uint, status string) (*model.JobApplication, error) {
	if !model.ValidJobApplicationStatus(status) {
		return nil, ErrInvalidTransition
	}

	db := s.db.WithContext(ctx)

	var application model.JobApplication
	err := db.Joins("JOIN jobs ON jobs.id = job_applications.job_id").
		Where("job_applications.id = ? AND jobs.company_id = ?", applicationID, companyID).
		First(&application).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := db.Model(&application).Update("status", status).Error; err != nil {
		return nil, err
	}
	application.Status = status
	return &application, nil
}
