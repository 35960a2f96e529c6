package model

import "github.com/shopspring/decimal"

// Wire types of the invoicing/payment provider.

type TokenRequest struct {
	ID     string `json:"id"`
	Secret string `json:"secret"`
}

type TokenResponse struct {
	Token   string `json:"token"`
	Expires int64  `json:"expires,omitempty"`
}

type ProviderError struct {
	ErrorCode    int    `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

type InvoiceClient struct {
	Name    string   `json:"name"`
	Emails  []string `json:"emails"`
	TaxID   string   `json:"taxId"`
	Address string   `json:"address"`
	City    string   `json:"city"`
	Country string   `json:"country"`
	Phone   string   `json:"phone"`
	Add     bool     `json:"add"`
}

type IncomeRow struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
	VatType     int     `json:"vatType"`
}

type PaymentFormRequest struct {
	Description string        `json:"description"`
	Type        int           `json:"type"`
	Date        string        `json:"date"`
	DueDate     string        `json:"dueDate"`
	Lang        string        `json:"lang"`
	Currency    string        `json:"currency"`
	VatType     int           `json:"vatType"`
	Amount      float64       `json:"amount"`
	MaxPayments int           `json:"maxPayments"`
	Client      InvoiceClient `json:"client"`
	Income      []IncomeRow   `json:"income"`
	SuccessURL  string        `json:"successUrl"`
	FailureURL  string        `json:"failureUrl"`
	NotifyURL   string        `json:"notifyUrl"`
	Custom      string        `json:"custom"`
}

type PaymentFormResponse struct {
	ErrorCode int    `json:"errorCode"`
	URL       string `json:"url"`
}

// PaymentNotification is the provider's server-to-server callback sent to
// notifyUrl once a payment settles.
type PaymentNotification struct {
	ID     string          `json:"id"`
	Type   string          `json:"type"`
	Custom string          `json:"custom"`
	Amount decimal.Decimal `json:"amount"`
}
