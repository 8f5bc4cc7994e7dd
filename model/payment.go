package model

import (
	"time"

	"gorm.io/gorm"
)

// Payment statuses
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

// Payment represents a checkout over one or more courses. The transition
// pending -> completed is what creates enrollments (settlement).
type Payment struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	PaymentID   string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"payment_id"`
	Amount      float64        `gorm:"type:decimal(10,2);not null" json:"amount"`
	Currency    string         `gorm:"type:varchar(10);default:'INR'" json:"currency"`
	Status      string         `gorm:"type:varchar(20);default:'pending'" json:"status"`
	Method      string         `gorm:"type:varchar(50)" json:"method"`
	CompletedAt *time.Time     `json:"completed_at"`

	// Relationships
	User    User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Courses []Course `gorm:"many2many:payment_courses" json:"courses,omitempty"`
}

// IsCompleted reports whether the payment has settled.
func (p *Payment) IsCompleted() bool { return p.Status == PaymentStatusCompleted }

// CartItem is a pending intent to buy a course, unique per (user, course).
// The whole cart is cleared on settlement.
type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_cart_items_user_course" json:"user_id"`
	CourseID  uint      `gorm:"not null;uniqueIndex:idx_cart_items_user_course" json:"course_id"`

	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Course Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"course,omitempty"`
}

// TableName specifies the table name for CartItem
func (CartItem) TableName() string {
	return "cart_items"
}
