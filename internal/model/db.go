package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID                 string          `gorm:"primaryKey;size:64;not null" json:"id"` // auth provider subject
	Email              string          `gorm:"size:255;index" json:"email"`
	FirstName          string          `gorm:"size:128" json:"first_name"`
	LastName           string          `gorm:"size:128" json:"last_name"`
	Phone              string          `gorm:"size:32" json:"phone"`
	NationalID         string          `gorm:"size:16" json:"national_id"`
	Address            string          `gorm:"size:255" json:"address"`
	City               string          `gorm:"size:128" json:"city"`
	CompanyID          string          `gorm:"size:16" json:"company_id,omitempty"`
	DiscountPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"discount_percentage"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// Complete reports whether the buyer block needed for an invoice is filled.
func (u *User) Complete() bool {
	return u.FirstName != "" && u.LastName != "" && u.Email != "" &&
		u.Phone != "" && u.NationalID != "" && u.Address != "" && u.City != ""
}

type Course struct {
	ID                 uint                `gorm:"primaryKey" json:"id"`
	Title              string              `gorm:"size:255;not null" json:"title"`
	Description        string              `gorm:"type:text" json:"description"`
	Price              decimal.Decimal     `gorm:"type:decimal(10,2);not null" json:"price"`
	DiscountPrice      decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"discount_price"`
	DiscountPercentage decimal.NullDecimal `gorm:"type:decimal(5,2)" json:"discount_percentage"`
	DurationMinutes    int                 `gorm:"not null" json:"duration_minutes"` // sum of lesson durations
	Available          bool                `gorm:"index;not null" json:"available"`
	Lessons            []Lesson            `gorm:"constraint:OnDelete:CASCADE;" json:"lessons"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

type Lesson struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	CourseID        uint   `gorm:"index;not null" json:"course_id"`
	Position        int    `gorm:"not null" json:"position"` // 1-based
	Title           string `gorm:"size:255;not null" json:"title"`
	VideoURL        string `gorm:"size:1024" json:"video_url"`
	DurationMinutes int    `gorm:"not null" json:"duration_minutes"`
	Summary         string `gorm:"type:text" json:"summary"`
	FAQ             []QA   `gorm:"type:text;serializer:json" json:"faq"`
	Exercises       []QA   `gorm:"type:text;serializer:json" json:"exercises"`
}

type QA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type EnrollmentStatus string

const (
	EnrollmentPending EnrollmentStatus = "pending" // hosted form created, payment not confirmed
	EnrollmentActive  EnrollmentStatus = "active"
	EnrollmentExpired EnrollmentStatus = "expired"
)

type Enrollment struct {
	ID                uint             `gorm:"primaryKey" json:"id"`
	UserID            string           `gorm:"size:64;not null;uniqueIndex:idx_enrollment_user_course" json:"user_id"`
	CourseID          uint             `gorm:"not null;uniqueIndex:idx_enrollment_user_course" json:"course_id"`
	CurrentLesson     int              `gorm:"not null" json:"current_lesson"`
	AmountPaid        decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"amount_paid"`
	CourseTitle       string           `gorm:"size:255" json:"course_title"`
	TotalLessons      int              `gorm:"not null" json:"total_lessons"`
	Status            EnrollmentStatus `gorm:"size:16;index;not null" json:"status"`
	CheckoutSessionID string           `gorm:"size:64;index" json:"checkout_session_id"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

type CheckoutStatus string

const (
	CheckoutInitiated        CheckoutStatus = "INITIATED"
	CheckoutFormCreated      CheckoutStatus = "FORM_CREATED"
	CheckoutPaymentConfirmed CheckoutStatus = "PAYMENT_CONFIRMED"
	CheckoutEnrolled         CheckoutStatus = "ENROLLED"
	CheckoutFailed           CheckoutStatus = "FAILED"
	CheckoutExpired          CheckoutStatus = "EXPIRED"
)

// CheckoutSession is one purchase attempt. Its ID doubles as the
// idempotency token sent to the provider.
type CheckoutSession struct {
	ID            string            `gorm:"primaryKey;size:64;not null"`
	UserID        string            `gorm:"size:64;index;not null"`
	CourseID      uint              `gorm:"index;not null"`
	Status        CheckoutStatus    `gorm:"size:32;index;not null"`
	FormState     string            `gorm:"size:32;not null"`
	Values        map[string]string `gorm:"type:text;serializer:json"`
	Amount        decimal.Decimal   `gorm:"type:decimal(10,2);not null"`
	Currency      string            `gorm:"size:8;not null"`
	PaymentURL    string            `gorm:"size:1024"`
	FailureReason string            `gorm:"size:512"`
	ExpiresAt     time.Time         `gorm:"index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type WebhookEvent struct {
	EventID     string `gorm:"primaryKey;size:128;not null"`
	EventType   string `gorm:"size:64;index"`
	ProcessedAt time.Time
	CreatedAt   time.Time
}

type NotificationKind string

const (
	NotificationPurchaseConfirmation NotificationKind = "purchase_confirmation"
	NotificationProgressReminder     NotificationKind = "progress_reminder"
	NotificationManual               NotificationKind = "manual"
)

type Notification struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	UserID    string           `gorm:"size:64;index" json:"user_id"`
	CourseID  uint             `gorm:"index" json:"course_id"`
	Kind      NotificationKind `gorm:"size:32;index;not null" json:"kind"`
	Recipient string           `gorm:"size:255;not null" json:"recipient"`
	Subject   string           `gorm:"size:255" json:"subject"`
	Status    string           `gorm:"size:16;not null" json:"status"` // sent, failed
	Error     string           `gorm:"size:512" json:"error,omitempty"`
	SentAt    time.Time        `gorm:"index" json:"sent_at"`
}
