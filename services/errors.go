package services

import "errors"

// Typed errors raised by state-changing operations. Handlers map them onto
// the response envelope; none of them is fatal to the process.
var (
	ErrNotFound = errors.New("resource not found")

	// Application preconditions, checked in order
	ErrDuplicateApplication = errors.New("already applied to this internship")
	ErrNoSeatsAvailable     = errors.New("no seats available")
	ErrDeadlinePassed       = errors.New("application deadline has passed")
	ErrEmptyCoverLetter     = errors.New("cover letter must not be empty")

	// State machine
	ErrInvalidTransition = errors.New("invalid status transition")

	// Commerce
	ErrCartEmpty        = errors.New("cart is empty")
	ErrAlreadyInCart    = errors.New("course already in cart")
	ErrAlreadyEnrolled  = errors.New("already enrolled in this course")
	ErrNotEnrolled      = errors.New("not enrolled in this course")
	ErrPaymentNotFound  = errors.New("payment not found")
	ErrPaymentFinalized = errors.New("payment is already finalized")

	// OTP confirmation
	ErrOTPMismatch    = errors.New("incorrect verification code")
	ErrOTPExpired     = errors.New("verification code expired")
	ErrOTPMaxAttempts = errors.New("too many verification attempts")

	// Classroom
	ErrEmptySubmission = errors.New("submission must have content or a file")
	ErrAlreadyGraded   = errors.New("submission was already graded")
	ErrInvalidMarks    = errors.New("marks out of range")

	// Certificates
	ErrCourseNotComplete    = errors.New("course is not fully completed")
	ErrCertificatesDisabled = errors.New("certificates are not enabled for this course")

	// Jobs
	ErrDuplicateJobApplication = errors.New("an application with this email already exists for this job")
)
