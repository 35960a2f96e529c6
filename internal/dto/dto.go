package dto

import (
	"course-marketplace/internal/model"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type TokenRequest struct {
	ID     string `json:"id"`
	Secret string `json:"secret"`
}

// RelayRequest is forwarded to the provider as is. TokenRequest carries the
// bearer token and is required for every endpoint but the token one.
type RelayRequest struct {
	Endpoint     string          `json:"endpoint"`
	Data         json.RawMessage `json:"data"`
	TokenRequest string          `json:"tokenRequest"`
}

type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type StartCheckoutRequest struct {
	CourseID uint `json:"course_id"`
}

type CheckoutStepRequest struct {
	Values map[string]string `json:"values"`
}

type FieldSchema struct {
	Name     string `json:"name"`
	Required bool   `json:"required"`
}

type StepSchema struct {
	Name   string        `json:"name"`
	Fields []FieldSchema `json:"fields"`
}

type CheckoutSessionResponse struct {
	ID            string            `json:"id"`
	CourseID      uint              `json:"course_id"`
	Status        string            `json:"status"`
	Step          string            `json:"step"`
	Values        map[string]string `json:"values"`
	Steps         []StepSchema      `json:"steps"`
	Amount        decimal.Decimal   `json:"amount"`
	Currency      string            `json:"currency"`
	PaymentURL    string            `json:"payment_url,omitempty"`
	FailureReason string            `json:"failure_reason,omitempty"`
	ExpiresAt     time.Time         `json:"expires_at"`
}

type SubmitResponse struct {
	SessionID  string `json:"session_id"`
	PaymentURL string `json:"payment_url"`
}

type ResultResponse struct {
	Status       string `json:"status"` // success, pending, failure
	Notification string `json:"notification"`
	Redirect     string `json:"redirect"`
}

type LessonRequest struct {
	Title           string     `json:"title"`
	VideoURL        string     `json:"video_url"`
	DurationMinutes int        `json:"duration_minutes"`
	Summary         string     `json:"summary"`
	FAQ             []model.QA `json:"faq"`
	Exercises       []model.QA `json:"exercises"`
}

type CourseRequest struct {
	Title              string              `json:"title"`
	Description        string              `json:"description"`
	Price              decimal.Decimal     `json:"price"`
	DiscountPrice      decimal.NullDecimal `json:"discount_price"`
	DiscountPercentage decimal.NullDecimal `json:"discount_percentage"`
	Available          bool                `json:"available"`
	Lessons            []LessonRequest     `json:"lessons"`
}

type ProgressRequest struct {
	CurrentLesson int `json:"current_lesson"`
}

type ProfileRequest struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	NationalID string `json:"national_id"`
	Address    string `json:"address"`
	City       string `json:"city"`
	CompanyID  string `json:"company_id"`
}

type EmailRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

type EmailResponse struct {
	ID string `json:"id"`
}
