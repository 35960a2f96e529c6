package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL" envDefault:"http://localhost:8080"`
	DatabaseURL string `env:"DATABASE_URL" envDefault:"sqlite://marketplace.db"`

	Auth     Auth     `envPrefix:"AUTH_"`
	Invoice  Invoice  `envPrefix:"INVOICE_"`
	Email    Email    `envPrefix:"EMAIL_"`
	Redis    Redis    `envPrefix:"REDIS_"`
	Checkout Checkout `envPrefix:"CHECKOUT_"`
	Jobs     Jobs     `envPrefix:"JOBS_"`
}

type Auth struct {
	JWTSecret    string `env:"JWT_SECRET,required"`
	NotifySecret string `env:"NOTIFY_SECRET,required"`
}

// Invoice holds the invoicing/payment provider settings. The client id and
// secret never leave the server.
type Invoice struct {
	BaseApiURL   string        `env:"BASE_API_URL" envDefault:"https://sandbox.d.greeninvoice.co.il/api/v1"`
	ClientID     string        `env:"CLIENT_ID"`
	ClientSecret string        `env:"CLIENT_SECRET"`
	Timeout      time.Duration `env:"TIMEOUT" envDefault:"30s"`
	Currency     string        `env:"CURRENCY" envDefault:"ILS"`
	Language     string        `env:"LANGUAGE" envDefault:"he"`
	DocumentType int           `env:"DOCUMENT_TYPE" envDefault:"320"`
	VatType      int           `env:"VAT_TYPE" envDefault:"0"`
}

type Email struct {
	BaseApiURL    string        `env:"BASE_API_URL" envDefault:"https://api.resend.com"`
	ApiKey        string        `env:"API_KEY"`
	From          string        `env:"FROM" envDefault:"courses@example.com"`
	Timeout       time.Duration `env:"TIMEOUT" envDefault:"15s"`
	RetryAttempts uint          `env:"RETRY_ATTEMPTS" envDefault:"3"`
	RetryDelay    time.Duration `env:"RETRY_DELAY" envDefault:"500ms"`
}

// Redis is optional; an empty Addr selects the in-process submit lock.
type Redis struct {
	Addr     string `env:"ADDR"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
	Prefix   string `env:"PREFIX" envDefault:"marketplace"`
}

type Checkout struct {
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"2h"`
	SubmitLockTTL time.Duration `env:"SUBMIT_LOCK_TTL" envDefault:"1m"`
	DashboardPath string        `env:"DASHBOARD_PATH" envDefault:"/dashboard"`
	CoursePath    string        `env:"COURSE_PATH" envDefault:"/courses"`
}

type Jobs struct {
	Enabled          bool          `env:"ENABLED" envDefault:"true"`
	ExpireInterval   time.Duration `env:"EXPIRE_INTERVAL" envDefault:"5m"`
	ReminderInterval time.Duration `env:"REMINDER_INTERVAL" envDefault:"24h"`
	InactiveAfter    time.Duration `env:"INACTIVE_AFTER" envDefault:"168h"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
