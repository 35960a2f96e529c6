package service

import (
	"context"
	"course-marketplace/internal/client"
	"course-marketplace/internal/config"
	"course-marketplace/internal/lock"
	"course-marketplace/internal/model"
	"course-marketplace/internal/repository"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := client.InitDBClient("sqlite://" + filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("init db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func testConfig(providerURL string) *config.Config {
	return &config.Config{
		BaseURL: "http://shop.test",
		Auth: config.Auth{
			JWTSecret:    "jwt-secret",
			NotifySecret: "notify-secret",
		},
		Invoice: config.Invoice{
			BaseApiURL:   providerURL,
			ClientID:     "server-id",
			ClientSecret: "server-secret",
			Timeout:      5 * time.Second,
			Currency:     "ILS",
			Language:     "he",
			DocumentType: 320,
		},
		Email: config.Email{
			RetryAttempts: 3,
			RetryDelay:    time.Millisecond,
		},
		Checkout: config.Checkout{
			SessionTTL:    time.Hour,
			SubmitLockTTL: time.Minute,
			DashboardPath: "/dashboard",
			CoursePath:    "/courses",
		},
		Jobs: config.Jobs{
			InactiveAfter: 7 * 24 * time.Hour,
		},
	}
}

// fakeProvider stands in for the invoicing provider's token and payment
// form endpoints.
type fakeProvider struct {
	mu         sync.Mutex
	tokenCalls int
	formCalls  int
	lastForm   model.PaymentFormRequest
	formStatus int
	srv        *httptest.Server
}

func newFakeProvider(t *testing.T) *fakeProvider {
	t.Helper()
	p := &fakeProvider{}
	p.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.mu.Lock()
		defer p.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case client.TokenEndpoint:
			p.tokenCalls++
			_, _ = w.Write([]byte(`{"token":"tok-1","expires":1700000000}`))
		case client.PaymentFormEndpoint:
			p.formCalls++
			if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
				t.Errorf("unexpected authorization %q", got)
			}
			p.lastForm = model.PaymentFormRequest{}
			if err := json.NewDecoder(r.Body).Decode(&p.lastForm); err != nil {
				t.Errorf("decode form: %v", err)
			}
			if p.formStatus != 0 {
				w.WriteHeader(p.formStatus)
				_, _ = w.Write([]byte(`{"errorCode":2001,"errorMessage":"form rejected"}`))
				return
			}
			_, _ = w.Write([]byte(`{"errorCode":0,"url":"https://pay.test/form/1"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(p.srv.Close)
	return p
}

func (p *fakeProvider) calls() (int, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tokenCalls, p.formCalls
}

func (p *fakeProvider) setFormStatus(status int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.formStatus = status
}

func (p *fakeProvider) form() model.PaymentFormRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastForm
}

type stubEmailClient struct {
	mu       sync.Mutex
	sent     []*client.EmailMessage
	calls    int
	failures int
	err      error
}

func (c *stubEmailClient) Send(_ context.Context, msg *client.EmailMessage) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls++
	if c.failures > 0 {
		c.failures--
		return "", c.err
	}
	c.sent = append(c.sent, msg)
	return fmt.Sprintf("email-%d", len(c.sent)), nil
}

func (c *stubEmailClient) sentCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sent)
}

type checkoutFixture struct {
	db         *gorm.DB
	provider   *fakeProvider
	email      *stubEmailClient
	locker     lock.Locker
	svc        *checkoutServiceImpl
	courseRepo repository.CourseRepository
	userRepo   repository.UserRepository
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	db := newTestDB(t)
	provider := newFakeProvider(t)
	cfg := testConfig(provider.srv.URL)
	email := &stubEmailClient{}
	locker := lock.NewMemoryLocker()
	log := discardLogger()

	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	userRepo := repository.NewUserRepository(db)
	notifications := NewNotificationService(email, repository.NewNotificationRepository(db), enrollmentRepo, userRepo, cfg, log)

	svc := NewCheckoutService(
		db,
		client.NewInvoiceClient(&cfg.Invoice),
		locker,
		repository.NewCheckoutRepository(db),
		courseRepo,
		enrollmentRepo,
		userRepo,
		repository.NewWebhookEventRepository(db),
		notifications,
		cfg,
		log,
	).(*checkoutServiceImpl)

	return &checkoutFixture{
		db:         db,
		provider:   provider,
		email:      email,
		locker:     locker,
		svc:        svc,
		courseRepo: courseRepo,
		userRepo:   userRepo,
	}
}

func seedCourse(t *testing.T, repo repository.CourseRepository, price, discountPrice string, available bool) *model.Course {
	t.Helper()
	course := &model.Course{
		Title:           "Intro to Go",
		Price:           decimal.RequireFromString(price),
		DurationMinutes: 90,
		Available:       available,
		Lessons: []model.Lesson{
			{Position: 1, Title: "Setup", DurationMinutes: 30},
			{Position: 2, Title: "Types", DurationMinutes: 30},
			{Position: 3, Title: "Concurrency", DurationMinutes: 30},
		},
	}
	if discountPrice != "" {
		course.DiscountPrice = decimal.NewNullDecimal(decimal.RequireFromString(discountPrice))
	}
	if err := repo.Create(context.Background(), course); err != nil {
		t.Fatalf("seed course: %v", err)
	}
	return course
}

var validSteps = []map[string]string{
	{"first_name": "Dana", "last_name": "Levi"},
	{"email": "dana@example.com", "phone": "0501234567", "national_id": "000000018"},
	{"address": "Herzl 12", "city": "Tel Aviv"},
}

// readySession starts a checkout and walks it through every step.
func (f *checkoutFixture) readySession(t *testing.T, userID string, courseID uint) string {
	t.Helper()
	ctx := context.Background()

	resp, err := f.svc.Start(ctx, userID, "dana@example.com", courseID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	for i, values := range validSteps {
		if _, err := f.svc.Advance(ctx, userID, resp.ID, values); err != nil {
			t.Fatalf("Advance step %d: %v", i+1, err)
		}
	}
	return resp.ID
}
