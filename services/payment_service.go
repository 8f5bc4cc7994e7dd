package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/skillora/skillora-api/model"
	"github.com/skillora/skillora-api/utils/cache"
	"github.com/skillora/skillora-api/utils/crypto"
	"gorm.io/gorm"
)

// PaymentService owns the cart and the payment -> enrollment settlement
// flow. Settlement is the only way course access is granted.
type PaymentService struct {
	db            *gorm.DB
	otps          OTPStore
	notifications *NotificationService
}

// NewPaymentService creates a new payment service
func NewPaymentService(db *gorm.DB, otps OTPStore, notifications *NotificationService) *PaymentService {
	return &PaymentService{db: db, otps: otps, notifications: notifications}
}

// AddToCart puts a course into the user's cart. Re-adding is reported as a
// duplicate, as is adding a course the user already actively owns.
func (s *PaymentService) AddToCart(ctx context.Context, userID, courseID uint) (*model.CartItem, error) {
	db := s.db.WithContext(ctx)

	var course model.Course
	if err := db.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var enrolled int64
	err := db.Model(&model.Enrollment{}).
		Where("user_id = ? AND course_id = ? AND is_active = ?", userID, courseID, true).
		Count(&enrolled).Error
	if err != nil {
		return nil, err
	}
	if enrolled > 0 {
		return nil, ErrAlreadyEnrolled
	}

	var existing int64
	err = db.Model(&model.CartItem{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&existing).Error
	if err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, ErrAlreadyInCart
	}

	item := model.CartItem{UserID: userID, CourseID: courseID}
	if err := db.Create(&item).Error; err != nil {
		return nil, err
	}
	item.Course = course
	return &item, nil
}

// RemoveFromCart drops one course from the user's cart.
func (s *PaymentService) RemoveFromCart(ctx context.Context, userID, courseID uint) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Delete(&model.CartItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListCart returns the user's cart with course details and the total price.
func (s *PaymentService) ListCart(ctx context.Context, userID uint) ([]model.CartItem, float64, error) {
	var items []model.CartItem
	err := s.db.WithContext(ctx).
		Preload("Course").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}

	total := 0.0
	for _, item := range items {
		total += item.Course.Price
	}
	return items, total, nil
}

// CheckoutResult reports the outcome of a checkout: either the payment
// settled immediately (zero-amount cart) or an OTP confirmation is pending.
type CheckoutResult struct {
	Payment     *model.Payment `json:"payment"`
	OTPRequired bool           `json:"otp_required"`
}

// Checkout turns the whole cart into a pending payment. Zero-amount carts
// settle immediately; anything else waits for OTP confirmation sent to the
// given destination (email or phone).
func (s *PaymentService) Checkout(ctx context.Context, userID uint, method, destination string) (*CheckoutResult, error) {
	items, total, err := s.ListCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrCartEmpty
	}

	payment := &model.Payment{
		UserID:    userID,
		PaymentID: uuid.New().String(),
		Amount:    total,
		Status:    model.PaymentStatusPending,
		Method:    method,
	}

	courses := make([]model.Course, 0, len(items))
	for _, item := range items {
		courses = append(courses, item.Course)
	}
	payment.Courses = courses

	if err := s.db.WithContext(ctx).Create(payment).Error; err != nil {
		return nil, err
	}

	if total <= 0 {
		if err := s.Settle(ctx, payment); err != nil {
			return nil, err
		}
		return &CheckoutResult{Payment: payment}, nil
	}

	if s.otps == nil {
		return nil, errors.New("payment verification is unavailable: no OTP store configured")
	}

	code, err := crypto.GenerateOTP(OTPDigits)
	if err != nil {
		return nil, err
	}
	if err := s.otps.Put(ctx, payment.PaymentID, code, destination); err != nil {
		return nil, err
	}

	// Delivery is an external concern; the log line stands in for the
	// email/SMS gateway in development.
	log.Printf("payment %s: verification code sent to %s", payment.PaymentID, destination)

	return &CheckoutResult{Payment: payment, OTPRequired: true}, nil
}

// VerifyOTP checks the submitted code for a pending payment. Attempts are
// bounded; exceeding the limit discards the code and fails the payment.
func (s *PaymentService) VerifyOTP(ctx context.Context, userID uint, paymentID, code string) (*model.Payment, error) {
	db := s.db.WithContext(ctx)

	var payment model.Payment
	err := db.Preload("Courses").
		Where("payment_id = ? AND user_id = ?", paymentID, userID).
		First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	if payment.Status != model.PaymentStatusPending {
		return nil, ErrPaymentFinalized
	}

	attempts, err := s.otps.RecordAttempt(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if attempts > OTPMaxAttempts {
		s.otps.Discard(ctx, paymentID)
		if err := db.Model(&payment).Update("status", model.PaymentStatusFailed).Error; err != nil {
			return nil, err
		}
		return nil, ErrOTPMaxAttempts
	}

	stored, _, err := s.otps.Get(ctx, paymentID)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, ErrOTPExpired
		}
		return nil, err
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return nil, ErrOTPMismatch
	}

	s.otps.Discard(ctx, paymentID)
	if err := s.Settle(ctx, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// Settle converts a payment into active enrollments: the payment is marked
// completed, every attached course gets an upserted enrollment (reactivating
// a previously deactivated one), and the user's entire cart is cleared. All
// of it happens in one transaction.
func (s *PaymentService) Settle(ctx context.Context, payment *model.Payment) error {
	if payment.IsCompleted() {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		err := tx.Model(&model.Payment{}).
			Where("id = ?", payment.ID).
			Updates(map[string]interface{}{
				"status":       model.PaymentStatusCompleted,
				"completed_at": now,
			}).Error
		if err != nil {
			return err
		}
		payment.Status = model.PaymentStatusCompleted
		payment.CompletedAt = &now

		for _, course := range payment.Courses {
			if err := upsertEnrollment(tx, payment.UserID, course.ID, &payment.ID); err != nil {
				return err
			}

			courseID := course.ID
			s.notifications.notifyTx(tx, NotificationInput{
				UserID:   payment.UserID,
				Type:     model.NotificationTypeSuccess,
				Category: model.NotificationCategoryEnrollment,
				Title:    "Enrollment confirmed",
				Message:  fmt.Sprintf("You now have access to %q", course.Title),
				Metadata: map[string]interface{}{"course_id": courseID},
			})
		}

		// The cart is a single pending intent: settling clears all of it,
		// not just the rows that were paid for.
		return tx.Where("user_id = ?", payment.UserID).Delete(&model.CartItem{}).Error
	})
}

// upsertEnrollment creates or reactivates the unique (user, course)
// enrollment row and links it to the settling payment.
func upsertEnrollment(tx *gorm.DB, userID, courseID uint, paymentID *uint) error {
	var enrollment model.Enrollment
	err := tx.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		enrollment = model.Enrollment{
			UserID:     userID,
			CourseID:   courseID,
			PaymentID:  paymentID,
			IsActive:   true,
			EnrolledAt: time.Now(),
		}
		return tx.Create(&enrollment).Error
	}
	if err != nil {
		return err
	}

	return tx.Model(&enrollment).Updates(map[string]interface{}{
		"is_active":   true,
		"payment_id":  paymentID,
		"enrolled_at": time.Now(),
	}).Error
}

// ListByUser returns the user's payment history, newest first.
func (s *PaymentService) ListByUser(ctx context.Context, userID uint) ([]model.Payment, error) {
	var payments []model.Payment
	err := s.db.WithContext(ctx).
		Preload("Courses").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, err
}
