package payment

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/skillora/skillora-api/services"
	"github.com/skillora/skillora-api/utils/middleware"
	"github.com/skillora/skillora-api/utils/response"
)

// PaymentHandler handles cart and payment requests
type PaymentHandler struct {
	payments *services.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

func parseID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

// AddToCart puts a course in the student's cart
func (h *PaymentHandler) AddToCart(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	courseID, err := parseID(c, "course_id")
	if err != nil {
		return response.BadRequest(c, "Invalid course id")
	}

	item, err := h.payments.AddToCart(c.Context(), userID, courseID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return response.NotFound(c, "Course not found")
		case errors.Is(err, services.ErrAlreadyEnrolled):
			return response.DuplicateAction(c, "Already enrolled in this course")
		case errors.Is(err, services.ErrAlreadyInCart):
			return response.DuplicateAction(c, "Course is already in the cart")
		default:
			return response.InternalServerError(c, "Failed to add course to cart")
		}
	}

	return response.Created(c, item)
}

// RemoveFromCart takes a course out of the student's cart
func (h *PaymentHandler) RemoveFromCart(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	courseID, err := parseID(c, "course_id")
	if err != nil {
		return response.BadRequest(c, "Invalid course id")
	}

	if err := h.payments.RemoveFromCart(c.Context(), userID, courseID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Course is not in the cart")
		}
		return response.InternalServerError(c, "Failed to remove course from cart")
	}

	return response.NoContent(c)
}

// ListCart returns the cart contents and the running total
func (h *PaymentHandler) ListCart(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	items, total, err := h.payments.ListCart(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list cart")
	}

	return response.Success(c, fiber.Map{
		"items": items,
		"total": total,
	})
}

// CheckoutRequest represents a checkout request
type CheckoutRequest struct {
	Method      string `json:"method"`      // card, upi, netbanking
	Destination string `json:"destination"` // where the verification code is sent
}

// Checkout turns the whole cart into a payment. Free carts settle
// immediately; paid carts wait for OTP verification.
func (h *PaymentHandler) Checkout(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var req CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.payments.Checkout(c.Context(), userID, req.Method, req.Destination)
	if err != nil {
		if errors.Is(err, services.ErrCartEmpty) {
			return response.PreconditionFailed(c, "Cart is empty")
		}
		return response.InternalServerError(c, "Failed to start checkout")
	}

	return response.Created(c, result)
}

// VerifyOTPRequest represents an OTP verification request
type VerifyOTPRequest struct {
	PaymentID string `json:"payment_id" validate:"required"`
	Code      string `json:"code" validate:"required"`
}

// VerifyOTP confirms a pending payment with the verification code
func (h *PaymentHandler) VerifyOTP(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var req VerifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.PaymentID == "" || req.Code == "" {
		return response.BadRequest(c, "Payment id and code are required")
	}

	payment, err := h.payments.VerifyOTP(c.Context(), userID, req.PaymentID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPaymentNotFound):
			return response.NotFound(c, "Payment not found")
		case errors.Is(err, services.ErrPaymentFinalized):
			return response.Conflict(c, "Payment is already finalized")
		case errors.Is(err, services.ErrOTPMaxAttempts):
			return response.TooManyRequests(c, "Too many verification attempts; the payment was cancelled")
		case errors.Is(err, services.ErrOTPExpired):
			return response.PreconditionFailed(c, "Verification code expired")
		case errors.Is(err, services.ErrOTPMismatch):
			return response.BadRequest(c, "Incorrect verification code")
		default:
			return response.InternalServerError(c, "Failed to verify payment")
		}
	}

	return response.SuccessWithMessage(c, "Payment completed", payment)
}

// ListPayments returns the student's payment history
func (h *PaymentHandler) ListPayments(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	payments, err := h.payments.ListByUser(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list payments")
	}

	return response.Success(c, payments)
}
