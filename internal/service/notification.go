package service

import (
	"bytes"
	"context"
	"course-marketplace/internal/client"
	"course-marketplace/internal/config"
	"course-marketplace/internal/metrics"
	"course-marketplace/internal/model"
	"course-marketplace/internal/repository"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/avast/retry-go"
	"gorm.io/gorm"
)

type NotificationService interface {
	SendPurchaseConfirmation(ctx context.Context, user *model.User, course *model.Course) error
	// Send relays an operator-written email and returns the provider id.
	Send(ctx context.Context, to, subject, html string) (string, error)
	// SendProgressReminders emails buyers whose active enrollments have seen
	// no progress for the inactivity window.
	SendProgressReminders(ctx context.Context) error
}

var (
	purchaseTmpl = template.Must(template.New("purchase").Parse(`<div dir="rtl">
<p>שלום {{.Name}},</p>
<p>התשלום עבור הקורס <strong>{{.Course}}</strong> התקבל. הקורס זמין עכשיו באזור האישי.</p>
<p><a href="{{.Link}}">לאזור האישי</a></p>
</div>`))

	reminderTmpl = template.Must(template.New("reminder").Parse(`<div dir="rtl">
<p>שלום {{.Name}},</p>
<p>עצרת בשיעור {{.Lesson}} מתוך {{.Total}} בקורס <strong>{{.Course}}</strong>. נשמח לראות אותך ממשיך!</p>
<p><a href="{{.Link}}">להמשך הקורס</a></p>
</div>`))
)

type emailView struct {
	Name   string
	Course string
	Lesson int
	Total  int
	Link   string
}

type notificationServiceImpl struct {
	emailClient      client.EmailClient
	notificationRepo repository.NotificationRepository
	enrollmentRepo   repository.EnrollmentRepository
	userRepo         repository.UserRepository
	emailCfg         config.Email
	jobsCfg          config.Jobs
	baseURL          string
	dashboardPath    string
	log              *slog.Logger
	now              func() time.Time
}

func NewNotificationService(
	emailClient client.EmailClient,
	notificationRepo repository.NotificationRepository,
	enrollmentRepo repository.EnrollmentRepository,
	userRepo repository.UserRepository,
	cfg *config.Config,
	log *slog.Logger,
) NotificationService {
	return &notificationServiceImpl{
		emailClient:      emailClient,
		notificationRepo: notificationRepo,
		enrollmentRepo:   enrollmentRepo,
		userRepo:         userRepo,
		emailCfg:         cfg.Email,
		jobsCfg:          cfg.Jobs,
		baseURL:          strings.TrimRight(cfg.BaseURL, "/"),
		dashboardPath:    cfg.Checkout.DashboardPath,
		log:              log,
		now:              time.Now,
	}
}

func (s *notificationServiceImpl) SendPurchaseConfirmation(ctx context.Context, user *model.User, course *model.Course) error {
	if user.Email == "" {
		return fmt.Errorf("%w: email", ErrMissingField)
	}

	html, err := render(purchaseTmpl, emailView{
		Name:   displayName(user),
		Course: course.Title,
		Link:   s.baseURL + s.dashboardPath,
	})
	if err != nil {
		return err
	}

	_, err = s.deliver(ctx, model.NotificationPurchaseConfirmation, user.ID, course.ID, &client.EmailMessage{
		To:      []string{user.Email},
		Subject: "אישור רכישה: " + course.Title,
		HTML:    html,
	})
	return err
}

func (s *notificationServiceImpl) Send(ctx context.Context, to, subject, html string) (string, error) {
	switch {
	case strings.TrimSpace(to) == "":
		return "", fmt.Errorf("%w: to", ErrMissingField)
	case strings.TrimSpace(subject) == "":
		return "", fmt.Errorf("%w: subject", ErrMissingField)
	case strings.TrimSpace(html) == "":
		return "", fmt.Errorf("%w: html", ErrMissingField)
	}

	return s.deliver(ctx, model.NotificationManual, "", 0, &client.EmailMessage{
		To:      []string{strings.TrimSpace(to)},
		Subject: subject,
		HTML:    html,
	})
}

func (s *notificationServiceImpl) SendProgressReminders(ctx context.Context) error {
	since := s.now().Add(-s.jobsCfg.InactiveAfter)
	enrollments, err := s.enrollmentRepo.ListInactive(ctx, since)
	if err != nil {
		return fmt.Errorf("list inactive enrollments: %w", err)
	}

	var sent, failed int
	for _, e := range enrollments {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		already, err := s.notificationRepo.SentSince(ctx, e.UserID, e.CourseID, model.NotificationProgressReminder, since)
		if err != nil {
			return fmt.Errorf("check reminder history: %w", err)
		}
		if already {
			continue
		}

		user, err := s.userRepo.Get(ctx, e.UserID)
		if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && user.Email == "") {
			continue
		}
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}

		html, err := render(reminderTmpl, emailView{
			Name:   displayName(user),
			Course: e.CourseTitle,
			Lesson: e.CurrentLesson,
			Total:  e.TotalLessons,
			Link:   s.baseURL + s.dashboardPath,
		})
		if err != nil {
			return err
		}

		if _, err := s.deliver(ctx, model.NotificationProgressReminder, e.UserID, e.CourseID, &client.EmailMessage{
			To:      []string{user.Email},
			Subject: "ממשיכים ללמוד? " + e.CourseTitle,
			HTML:    html,
		}); err != nil {
			failed++
			continue
		}
		sent++
	}

	s.log.Info("progress reminders done",
		slog.Int("candidates", len(enrollments)),
		slog.Int("sent", sent),
		slog.Int("failed", failed),
	)
	return nil
}

// deliver sends with retry and records the outcome. A failure to record is
// logged, not returned, once the email itself went out.
func (s *notificationServiceImpl) deliver(ctx context.Context, kind model.NotificationKind, userID string, courseID uint, msg *client.EmailMessage) (string, error) {
	attempts := s.emailCfg.RetryAttempts
	if attempts == 0 {
		attempts = 1
	}

	var id string
	sendErr := retry.Do(
		func() error {
			var err error
			id, err = s.emailClient.Send(ctx, msg)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(s.emailCfg.RetryDelay),
		retry.RetryIf(client.Retryable),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			s.log.Warn("email send attempt failed",
				slog.String("kind", string(kind)),
				slog.Uint64("attempt", uint64(n+1)),
				slog.Any("error", err),
			)
		}),
	)

	notification := &model.Notification{
		UserID:    userID,
		CourseID:  courseID,
		Kind:      kind,
		Recipient: strings.Join(msg.To, ","),
		Subject:   msg.Subject,
		Status:    "sent",
		SentAt:    s.now(),
	}
	if sendErr != nil {
		notification.Status = "failed"
		notification.Error = truncate(sendErr.Error(), 512)
		metrics.EmailsSent.WithLabelValues(string(kind), "failed").Inc()
	} else {
		metrics.EmailsSent.WithLabelValues(string(kind), "sent").Inc()
	}

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		s.log.Error("record notification", slog.String("kind", string(kind)), slog.Any("error", err))
	}

	if sendErr != nil {
		return "", fmt.Errorf("send email: %w", sendErr)
	}
	return id, nil
}

func render(tmpl *template.Template, view emailView) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render %s email: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

func displayName(u *model.User) string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

// truncate cuts s to at most n bytes without splitting a character.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
