package services

import (
	"context"
	"errors"
	"testing"

	"github.com/skillora/skillora-api/model"
	"github.com/skillora/skillora-api/utils/cache"
)

// fakeOTPStore keeps codes in memory so payment flows can be tested without
// Redis.
type fakeOTPStore struct {
	codes        map[string]string
	destinations map[string]string
	attempts     map[string]int64
}

func newFakeOTPStore() *fakeOTPStore {
	return &fakeOTPStore{
		codes:        make(map[string]string),
		destinations: make(map[string]string),
		attempts:     make(map[string]int64),
	}
}

func (s *fakeOTPStore) Put(ctx context.Context, key, code, destination string) error {
	s.codes[key] = code
	s.destinations[key] = destination
	return nil
}

func (s *fakeOTPStore) Get(ctx context.Context, key string) (string, string, error) {
	code, ok := s.codes[key]
	if !ok {
		return "", "", cache.ErrNotFound
	}
	return code, s.destinations[key], nil
}

func (s *fakeOTPStore) RecordAttempt(ctx context.Context, key string) (int64, error) {
	s.attempts[key]++
	return s.attempts[key], nil
}

func (s *fakeOTPStore) Discard(ctx context.Context, key string) error {
	delete(s.codes, key)
	delete(s.destinations, key)
	delete(s.attempts, key)
	return nil
}

// expire simulates the TTL running out.
func (s *fakeOTPStore) expire(key string) {
	delete(s.codes, key)
	delete(s.destinations, key)
}

func TestAddToCart(t *testing.T) {
	db := testDB(t)
	svc := NewPaymentService(db, newFakeOTPStore(), NewNotificationService(db))
	ctx := context.Background()

	teacher := seedUser(t, db, "teacher@example.com", model.RoleTeacher)
	student := seedUser(t, db, "student@example.com", model.RoleStudent)
	course := seedCourse(t, db, teacher.ID, "Go Basics", 499)

	if _, err := svc.AddToCart(ctx, student.ID, course.ID); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}
	if _, err := svc.AddToCart(ctx, student.ID, course.ID); !errors.Is(err, ErrAlreadyInCart) {
		t.Fatalf("re-add: err = %v, want ErrAlreadyInCart", err)
	}
	if _, err := svc.AddToCart(ctx, student.ID, 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing course: err = %v, want ErrNotFound", err)
	}

	if err := svc.RemoveFromCart(ctx, student.ID, course.ID); err != nil {
		t.Fatalf("RemoveFromCart: %v", err)
	}
	if err := svc.RemoveFromCart(ctx, student.ID, course.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("remove again: err = %v, want ErrNotFound", err)
	}
}

func TestAddToCartAlreadyEnrolled(t *testing.T) {
	db := testDB(t)
	svc := NewPaymentService(db, newFakeOTPStore(), NewNotificationService(db))
	ctx := context.Background()

	teacher := seedUser(t, db, "teacher@example.com", model.RoleTeacher)
	student := seedUser(t, db, "student@example.com", model.RoleStudent)
	course := seedCourse(t, db, teacher.ID, "Go Basics", 499)

	enrollment := model.Enrollment{UserID: student.ID, CourseID: course.ID, IsActive: true}
	if err := db.Create(&enrollment).Error; err != nil {
		t.Fatalf("failed to create enrollment: %v", err)
	}

	if _, err := svc.AddToCart(ctx, student.ID, course.ID); !errors.Is(err, ErrAlreadyEnrolled) {
		t.Fatalf("err = %v, want ErrAlreadyEnrolled", err)
	}

	// An inactive enrollment does not block re-purchase.
	if err := db.Model(&enrollment).Update("is_active", false).Error; err != nil {
		t.Fatalf("failed to deactivate enrollment: %v", err)
	}
	if _, err := svc.AddToCart(ctx, student.ID, course.ID); err != nil {
		t.Fatalf("AddToCart after deactivation: %v", err)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	db := testDB(t)
	svc := NewPaymentService(db, newFakeOTPStore(), NewNotificationService(db))

	student := seedUser(t, db, "student@example.com", model.RoleStudent)
	_, err := svc.Checkout(context.Background(), student.ID, "upi", "student@example.com")
	if !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("err = %v, want ErrCartEmpty", err)
	}
}

func TestCheckoutFreeCourseSettlesImmediately(t *testing.T) {
	db := testDB(t)
	svc := NewPaymentService(db, newFakeOTPStore(), NewNotificationService(db))
	ctx := context.Background()

	teacher := seedUser(t, db, "teacher@example.com", model.RoleTeacher)
	student := seedUser(t, db, "student@example.com", model.RoleStudent)
	course := seedCourse(t, db, teacher.ID, "Free Intro", 0)

	if _, err := svc.AddToCart(ctx, student.ID, course.ID); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}

	result, err := svc.Checkout(ctx, student.ID, "free", "")
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if result.OTPRequired {
		t.Fatalf("zero-amount checkout requires OTP")
	}
	if result.Payment.Status != model.PaymentStatusCompleted {
		t.Fatalf("payment status = %q, want completed", result.Payment.Status)
	}

	var enrolled int64
	db.Model(&model.Enrollment{}).
		Where("user_id = ? AND course_id = ? AND is_active = ?", student.ID, course.ID, true).
		Count(&enrolled)
	if enrolled != 1 {
		t.Fatalf("active enrollments = %d, want 1", enrolled)
	}

	var cart int64
	db.Model(&model.CartItem{}).Where("user_id = ?", student.ID).Count(&cart)
	if cart != 0 {
		t.Fatalf("cart items after settlement = %d, want 0", cart)
	}
}

func TestCheckoutAndVerifyOTP(t *testing.T) {
	db := testDB(t)
	otps := newFakeOTPStore()
	svc := NewPaymentService(db, otps, NewNotificationService(db))
	ctx := context.Background()

	teacher := seedUser(t, db, "teacher@example.com", model.RoleTeacher)
	student := seedUser(t, db, "student@example.com", model.RoleStudent)
	paid := seedCourse(t, db, teacher.ID, "Go Basics", 499)
	extra := seedCourse(t, db, teacher.ID, "Docker", 299)

	if _, err := svc.AddToCart(ctx, student.ID, paid.ID); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}

	result, err := svc.Checkout(ctx, student.ID, "upi", "student@example.com")
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if !result.OTPRequired {
		t.Fatalf("priced checkout did not require OTP")
	}
	if result.Payment.Status != model.PaymentStatusPending {
		t.Fatalf("payment status = %q, want pending", result.Payment.Status)
	}
	code := otps.codes[result.Payment.PaymentID]
	if len(code) != OTPDigits {
		t.Fatalf("generated code %q has %d digits, want %d", code, len(code), OTPDigits)
	}

	// Something added to the cart after checkout is still swept away by
	// settlement: the cart is one pending intent.
	if _, err := svc.AddToCart(ctx, student.ID, extra.ID); err != nil {
		t.Fatalf("AddToCart extra: %v", err)
	}

	if _, err := svc.VerifyOTP(ctx, student.ID, result.Payment.PaymentID, "000000"); !errors.Is(err, ErrOTPMismatch) {
		if code == "000000" {
			t.Skip("generated code collided with the test's wrong guess")
		}
		t.Fatalf("wrong code: err = %v, want ErrOTPMismatch", err)
	}

	payment, err := svc.VerifyOTP(ctx, student.ID, result.Payment.PaymentID, code)
	if err != nil {
		t.Fatalf("VerifyOTP: %v", err)
	}
	if payment.Status != model.PaymentStatusCompleted {
		t.Fatalf("payment status = %q, want completed", payment.Status)
	}

	var enrolled int64
	db.Model(&model.Enrollment{}).Where("user_id = ? AND is_active = ?", student.ID, true).Count(&enrolled)
	if enrolled != 1 {
		t.Fatalf("active enrollments = %d, want 1", enrolled)
	}

	var cart int64
	db.Model(&model.CartItem{}).Where("user_id = ?", student.ID).Count(&cart)
	if cart != 0 {
		t.Fatalf("cart items after settlement = %d, want 0", cart)
	}
}

func TestVerifyOTPMaxAttempts(t *testing.T) {
	db := testDB(t)
	otps := newFakeOTPStore()
	svc := NewPaymentService(db, otps, NewNotificationService(db))
	ctx := context.Background()

	teacher := seedUser(t, db, "teacher@example.com", model.RoleTeacher)
	student := seedUser(t, db, "student@example.com", model.RoleStudent)
	course := seedCourse(t, db, teacher.ID, "Go Basics", 499)

	if _, err := svc.AddToCart(ctx, student.ID, course.ID); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}
	result, err := svc.Checkout(ctx, student.ID, "upi", "student@example.com")
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	// Force a guaranteed-wrong guess.
	otps.codes[result.Payment.PaymentID] = "123456"

	for i := 0; i < OTPMaxAttempts; i++ {
		if _, err := svc.VerifyOTP(ctx, student.ID, result.Payment.PaymentID, "654321"); !errors.Is(err, ErrOTPMismatch) {
			t.Fatalf("attempt %d: err = %v, want ErrOTPMismatch", i+1, err)
		}
	}

	// One more attempt exceeds the bound and fails the payment, even with
	// the correct code.
	if _, err := svc.VerifyOTP(ctx, student.ID, result.Payment.PaymentID, "123456"); !errors.Is(err, ErrOTPMaxAttempts) {
		t.Fatalf("err = %v, want ErrOTPMaxAttempts", err)
	}

	var payment model.Payment
	if err := db.Where("payment_id = ?", result.Payment.PaymentID).First(&payment).Error; err != nil {
		t.Fatalf("failed to reload payment: %v", err)
	}
	if payment.Status != model.PaymentStatusFailed {
		t.Fatalf("payment status = %q, want failed", payment.Status)
	}

	// A failed payment cannot be verified again.
	if _, err := svc.VerifyOTP(ctx, student.ID, result.Payment.PaymentID, "123456"); !errors.Is(err, ErrPaymentFinalized) {
		t.Fatalf("err = %v, want ErrPaymentFinalized", err)
	}
}

func TestVerifyOTPExpired(t *testing.T) {
	db := testDB(t)
	otps := newFakeOTPStore()
	svc := NewPaymentService(db, otps, NewNotificationService(db))
	ctx := context.Background()

	teacher := seedUser(t, db, "teacher@example.com", model.RoleTeacher)
	student := seedUser(t, db, "student@example.com", model.RoleStudent)
	course := seedCourse(t, db, teacher.ID, "Go Basics", 499)

	if _, err := svc.AddToCart(ctx, student.ID, course.ID); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}
	result, err := svc.Checkout(ctx, student.ID, "upi", "student@example.com")
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	otps.expire(result.Payment.PaymentID)

	if _, err := svc.VerifyOTP(ctx, student.ID, result.Payment.PaymentID, "123456"); !errors.Is(err, ErrOTPExpired) {
		t.Fatalf("err = %v, want ErrOTPExpired", err)
	}
}

func TestVerifyOTPWrongUser(t *testing.T) {
	db := testDB(t)
	otps := newFakeOTPStore()
	svc := NewPaymentService(db, otps, NewNotificationService(db))
	ctx := context.Background()

	teacher := seedUser(t, db, "teacher@example.com", model.RoleTeacher)
	student := seedUser(t, db, "student@example.com", model.RoleStudent)
	other := seedUser(t, db, "other@example.com", model.RoleStudent)
	course := seedCourse(t, db, teacher.ID, "Go Basics", 499)

	if _, err := svc.AddToCart(ctx, student.ID, course.ID); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}
	result, err := svc.Checkout(ctx, student.ID, "upi", "student@example.com")
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	code := otps.codes[result.Payment.PaymentID]
	if _, err := svc.VerifyOTP(ctx, other.ID, result.Payment.PaymentID, code); !errors.Is(err, ErrPaymentNotFound) {
		t.Fatalf("err = %v, want ErrPaymentNotFound", err)
	}
}

func TestSettleReactivatesEnrollment(t *testing.T) {
	db := testDB(t)
	otps := newFakeOTPStore()
	svc := NewPaymentService(db, otps, NewNotificationService(db))
	ctx := context.Background()

	teacher := seedUser(t, db, "teacher@example.com", model.RoleTeacher)
	student := seedUser(t, db, "student@example.com", model.RoleStudent)
	course := seedCourse(t, db, teacher.ID, "Go Basics", 499)

	inactive := model.Enrollment{UserID: student.ID, CourseID: course.ID, IsActive: false}
	if err := db.Create(&inactive).Error; err != nil {
		t.Fatalf("failed to create inactive enrollment: %v", err)
	}

	if _, err := svc.AddToCart(ctx, student.ID, course.ID); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}
	result, err := svc.Checkout(ctx, student.ID, "upi", "student@example.com")
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if _, err := svc.VerifyOTP(ctx, student.ID, result.Payment.PaymentID, otps.codes[result.Payment.PaymentID]); err != nil {
		t.Fatalf("VerifyOTP: %v", err)
	}

	var enrollments []model.Enrollment
	if err := db.Where("user_id = ? AND course_id = ?", student.ID, course.ID).Find(&enrollments).Error; err != nil {
		t.Fatalf("failed to load enrollments: %v", err)
	}
	if len(enrollments) != 1 {
		t.Fatalf("enrollment rows = %d, want 1 (reactivated, not duplicated)", len(enrollments))
	}
	if !enrollments[0].IsActive {
		t.Fatalf("enrollment not reactivated")
	}
	if enrollments[0].PaymentID == nil {
		t.Fatalf("enrollment not linked to the settling payment")
	}
}
