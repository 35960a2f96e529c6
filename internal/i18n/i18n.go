package i18n

import "strings"

type Lang string

const (
	HE Lang = "he"
	EN Lang = "en"
)

func Parse(s string) Lang {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.HasPrefix(s, "he"), strings.HasPrefix(s, "iw"):
		return HE
	case strings.HasPrefix(s, "en"):
		return EN
	default:
		return HE
	}
}

// Message keys shown to buyers.
const (
	ErrFirstName     = "err_first_name"
	ErrLastName      = "err_last_name"
	ErrEmail         = "err_email"
	ErrPhone         = "err_phone"
	ErrNationalID    = "err_national_id"
	ErrAddress       = "err_address"
	ErrCity          = "err_city"
	ErrCompanyID     = "err_company_id"
	ErrRequired      = "err_required"
	ErrCheckout      = "err_checkout"
	PaymentSucceeded = "payment_succeeded"
	PaymentPending   = "payment_pending"
	PaymentFailed    = "payment_failed"
)

var catalog = map[Lang]map[string]string{
	HE: {
		ErrFirstName:     "יש להזין שם פרטי תקין (לפחות 2 אותיות)",
		ErrLastName:      "יש להזין שם משפחה תקין (לפחות 2 אותיות)",
		ErrEmail:         "כתובת האימייל אינה תקינה",
		ErrPhone:         "מספר הטלפון חייב להתחיל ב-05 ולהכיל 10 ספרות",
		ErrNationalID:    "מספר תעודת הזהות אינו תקין",
		ErrAddress:       "יש להזין רחוב ומספר בית",
		ErrCity:          "יש להזין שם עיר תקין",
		ErrCompanyID:     "מספר ח.פ. חייב להכיל 9 ספרות",
		ErrRequired:      "שדה חובה",
		ErrCheckout:      "אירעה שגיאה ביצירת התשלום, אנא נסו שוב",
		PaymentSucceeded: "התשלום התקבל בהצלחה! הקורס זמין באזור האישי",
		PaymentPending:   "התשלום בבדיקה, הקורס ייפתח לאחר אישור הסליקה",
		PaymentFailed:    "התשלום נכשל",
	},
	EN: {
		ErrFirstName:     "Enter a valid first name (at least 2 letters)",
		ErrLastName:      "Enter a valid last name (at least 2 letters)",
		ErrEmail:         "Email address is not valid",
		ErrPhone:         "Phone number must start with 05 and have 10 digits",
		ErrNationalID:    "ID number is not valid",
		ErrAddress:       "Enter a street and house number",
		ErrCity:          "Enter a valid city name",
		ErrCompanyID:     "Company ID must have 9 digits",
		ErrRequired:      "Required field",
		ErrCheckout:      "Something went wrong creating the payment, please try again",
		PaymentSucceeded: "Payment received! The course is available in your dashboard",
		PaymentPending:   "Payment is being verified, the course opens once it clears",
		PaymentFailed:    "Payment failed",
	},
}

// T returns the message for key, falling back to Hebrew and then to the key.
func T(lang Lang, key string) string {
	if msg, ok := catalog[lang][key]; ok {
		return msg
	}
	if msg, ok := catalog[HE][key]; ok {
		return msg
	}
	return key
}
