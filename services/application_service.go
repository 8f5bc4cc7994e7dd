package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/skillora/skillora-api/model"
	"gorm.io/gorm"
)

// ApplicationService owns the internship application lifecycle: submission
// with ordered precondition checks, the review state machine, and the
// notifications that accompany every transition.
type ApplicationService struct {
	db            *gorm.DB
	notifications *NotificationService
}

// NewApplicationService creates a new application service
func NewApplicationService(db *gorm.DB, notifications *NotificationService) *ApplicationService {
	return &ApplicationService{db: db, notifications: notifications}
}

// ApplyRequest carries the student's submission.
type ApplyRequest struct {
	StudentID    uint
	InternshipID uint
	CoverLetter  string
	ResumePath   string
}

// Apply submits an application. Preconditions are checked in a fixed order
// inside one transaction, and the first failure wins: duplicate application,
// seat availability, deadline, then cover letter. Seats are NOT consumed at
// submission time; they are bound only on selection so unreviewed applicants
// cannot exhaust a posting.
func (s *ApplicationService) Apply(ctx context.Context, req ApplyRequest) (*model.InternshipApplication, error) {
	var application *model.InternshipApplication

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var internship model.Internship
		if err := tx.First(&internship, req.InternshipID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if internship.Status != model.InternshipStatusPublished {
			return ErrNotFound
		}

		// (a) one application per (student, internship)
		var count int64
		if err := tx.Model(&model.InternshipApplication{}).
			Where("student_id = ? AND internship_id = ?", req.StudentID, req.InternshipID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateApplication
		}

		// (b) free seats, derived from confirmed selections
		remaining, err := SeatsRemaining(tx, &internship)
		if err != nil {
			return err
		}
		if remaining <= 0 {
			return ErrNoSeatsAvailable
		}

		// (c) deadline still open
		if !internship.ApplicationDeadline.After(time.Now()) {
			return ErrDeadlinePassed
		}

		// (d) a real cover letter
		if strings.TrimSpace(req.CoverLetter) == "" {
			return ErrEmptyCoverLetter
		}

		application = &model.InternshipApplication{
			StudentID:    req.StudentID,
			InternshipID: req.InternshipID,
			Status:       model.ApplicationStatusSubmitted,
			CoverLetter:  req.CoverLetter,
			ResumePath:   req.ResumePath,
			AppliedAt:    time.Now(),
		}
		if err := tx.Create(application).Error; err != nil {
			return err
		}

		s.notifications.notifyTx(tx, NotificationInput{
			UserID:        internship.CompanyID,
			Type:          model.NotificationTypeInfo,
			Category:      model.NotificationCategoryApplication,
			Title:         "New application received",
			Message:       fmt.Sprintf("A student applied to %q", internship.Title),
			ApplicationID: &application.ID,
			InternshipID:  &internship.ID,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return application, nil
}

// TransitionRequest moves an application through the review state machine.
type TransitionRequest struct {
	ApplicationID   uint
	NewStatus       string
	InterviewAt     *time.Time
	RejectionReason string
}

// Transition applies a status change, rejecting anything the state graph
// does not allow. Every transition notifies the student; selection also
// brings the posting's seats_filled column in line with the confirmed
// selection count inside the same transaction.
func (s *ApplicationService) Transition(ctx context.Context, req TransitionRequest) (*model.InternshipApplication, error) {
	var application model.InternshipApplication

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Internship").First(&application, req.ApplicationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if !model.CanTransitionApplication(application.Status, req.NewStatus) {
			return ErrInvalidTransition
		}

		updates := map[string]interface{}{"status": req.NewStatus}
		now := time.Now()

		switch req.NewStatus {
		case model.ApplicationStatusInterviewScheduled:
			if req.InterviewAt != nil {
				updates["interview_at"] = *req.InterviewAt
				application.InterviewAt = req.InterviewAt
			}
		case model.ApplicationStatusSelected, model.ApplicationStatusWithdrawn:
			updates["decided_at"] = now
			application.DecidedAt = &now
		case model.ApplicationStatusRejected:
			updates["decided_at"] = now
			updates["rejection_reason"] = req.RejectionReason
			application.DecidedAt = &now
			application.RejectionReason = req.RejectionReason
		}

		if err := tx.Model(&application).Updates(updates).Error; err != nil {
			return err
		}
		application.Status = req.NewStatus

		if req.NewStatus == model.ApplicationStatusSelected {
			if err := syncSeatsFilled(tx, application.InternshipID); err != nil {
				return err
			}
		}

		s.notifications.notifyTx(tx, transitionNotification(&application))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &application, nil
}

// Withdraw lets the student retract a pending application.
func (s *ApplicationService) Withdraw(ctx context.Context, studentID, applicationID uint) (*model.InternshipApplication, error) {
	var application model.InternshipApplication
	err := s.db.WithContext(ctx).
		Where("id = ? AND student_id = ?", applicationID, studentID).
		First(&application).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return s.Transition(ctx, TransitionRequest{
		ApplicationID: application.ID,
		NewStatus:     model.ApplicationStatusWithdrawn,
	})
}

// ListByStudent returns the student's applications, newest first.
func (s *ApplicationService) ListByStudent(ctx context.Context, studentID uint) ([]model.InternshipApplication, error) {
	var applications []model.InternshipApplication
	err := s.db.WithContext(ctx).
		Preload("Internship").
		Where("student_id = ?", studentID).
		Order("applied_at DESC").
		Find(&applications).Error
	return applications, err
}

// ListByInternship returns all applications for one posting, for the company
// that owns it.
func (s *ApplicationService) ListByInternship(ctx context.Context, companyID, internshipID uint) ([]model.InternshipApplication, error) {
	var internship model.Internship
	err := s.db.WithContext(ctx).
		Where("id = ? AND company_id = ?", internshipID, companyID).
		First(&internship).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var applications []model.InternshipApplication
	err = s.db.WithContext(ctx).
		Preload("Student").
		Where("internship_id = ?", internshipID).
		Order("applied_at ASC").
		Find(&applications).Error
	return applications, err
}

// GetForCompany fetches one application owned by the company's posting.
func (s *ApplicationService) GetForCompany(ctx context.Context, companyID, applicationID uint) (*model.InternshipApplication, error) {
	var application model.InternshipApplication
	err := s.db.WithContext(ctx).
		Preload("Internship").Preload("Student").
		Joins("JOIN internships ON internships.id = internship_applications.internship_id").
		Where("internship_applications.id = ? AND internships.company_id = ?", applicationID, companyID).
		First(&application).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &application, nil
}

// syncSeatsFilled realigns the stored seats_filled column with the confirmed
// selection count. Reads always derive; the column exists for reporting.
func syncSeatsFilled(tx *gorm.DB, internshipID uint) error {
	var selected int64
	err := tx.Model(&model.InternshipApplication{}).
		Where("internship_id = ? AND status = ?", internshipID, model.ApplicationStatusSelected).
		Count(&selected).Error
	if err != nil {
		return err
	}
	return tx.Model(&model.Internship{}).
		Where("id = ?", internshipID).
		Update("seats_filled", selected).Error
}

func transitionNotification(application *model.InternshipApplication) NotificationInput {
	title := "Application update"
	message := fmt.Sprintf("Your application for %q is now %s", application.Internship.Title, strings.ReplaceAll(application.Status, "_", " "))
	notifType := model.NotificationTypeInfo

	switch application.Status {
	case model.ApplicationStatusSelected:
		title = "Congratulations, you were selected!"
		notifType = model.NotificationTypeSuccess
	case model.ApplicationStatusRejected:
		title = "Application not successful"
		notifType = model.NotificationTypeError
		if application.RejectionReason != "" {
			message = fmt.Sprintf("Your application for %q was rejected: %s", application.Internship.Title, application.RejectionReason)
		}
	case model.ApplicationStatusInterviewScheduled:
		title = "Interview scheduled"
		if application.InterviewAt != nil {
			message = fmt.Sprintf("Interview for %q scheduled at %s", application.Internship.Title, application.InterviewAt.Format(time.RFC1123))
		}
	}

	return NotificationInput{
		UserID:        application.StudentID,
		Type:          notifType,
		Category:      model.NotificationCategoryApplication,
		Title:         title,
		Message:       message,
		ApplicationID: &application.ID,
		InternshipID:  &application.InternshipID,
	}
}
