package service

import (
	"context"
	"course-marketplace/internal/client"
	"course-marketplace/internal/config"
	"course-marketplace/internal/dto"
	"course-marketplace/internal/i18n"
	"course-marketplace/internal/lock"
	"course-marketplace/internal/metrics"
	"course-marketplace/internal/model"
	"course-marketplace/internal/pricing"
	"course-marketplace/internal/repository"
	"course-marketplace/internal/validate"
	"course-marketplace/internal/wizard"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	stepIdentity = "identity"
	stepContact  = "contact"
	stepAddress  = "address"
)

// CheckoutSteps is the buyer-details form shown before payment.
func CheckoutSteps() []wizard.Step {
	return []wizard.Step{
		{Name: stepIdentity, Fields: []wizard.Field{
			{Name: "first_name", Required: true, Validate: validate.Name, Message: i18n.ErrFirstName},
			{Name: "last_name", Required: true, Validate: validate.Name, Message: i18n.ErrLastName},
		}},
		{Name: stepContact, Fields: []wizard.Field{
			{Name: "email", Required: true, Validate: validate.Email, Message: i18n.ErrEmail},
			{Name: "phone", Required: true, Validate: validate.Phone, Message: i18n.ErrPhone},
			{Name: "national_id", Required: true, Validate: validate.NationalID, Message: i18n.ErrNationalID},
		}},
		{Name: stepAddress, Fields: []wizard.Field{
			{Name: "address", Required: true, Validate: validate.Address, Message: i18n.ErrAddress},
			{Name: "city", Required: true, Validate: validate.Name, Message: i18n.ErrCity},
			{Name: "company_id", Validate: validate.CompanyID, Message: i18n.ErrCompanyID},
		}},
	}
}

type ResultQuery struct {
	Success   string
	CourseID  string
	Message   string
	SessionID string
}

// CheckoutService drives a purchase from buyer details to the provider's
// hosted payment page, and grants access once the provider confirms.
type CheckoutService interface {
	Start(ctx context.Context, userID, email string, courseID uint) (*dto.CheckoutSessionResponse, error)
	Get(ctx context.Context, userID, sessionID string) (*dto.CheckoutSessionResponse, error)
	Advance(ctx context.Context, userID, sessionID string, values map[string]string) (*dto.CheckoutSessionResponse, error)
	Back(ctx context.Context, userID, sessionID string) (*dto.CheckoutSessionResponse, error)
	Submit(ctx context.Context, userID, sessionID string) (*dto.SubmitResponse, error)
	Confirm(ctx context.Context, token string, n *model.PaymentNotification) error
	Result(ctx context.Context, q ResultQuery, lang i18n.Lang) *dto.ResultResponse
	ExpireStale(ctx context.Context) error
}

type checkoutServiceImpl struct {
	db               *gorm.DB
	invoiceClient    client.InvoiceClient
	locker           lock.Locker
	checkoutRepo     repository.CheckoutRepository
	courseRepo       repository.CourseRepository
	enrollmentRepo   repository.EnrollmentRepository
	userRepo         repository.UserRepository
	webhookEventRepo repository.WebhookEventRepository
	notifications    NotificationService
	invoiceCfg       config.Invoice
	checkoutCfg      config.Checkout
	serviceBaseUrl   string
	notifySecret     []byte
	steps            []wizard.Step
	log              *slog.Logger
	now              func() time.Time
}

func NewCheckoutService(
	db *gorm.DB,
	invoiceClient client.InvoiceClient,
	locker lock.Locker,
	checkoutRepo repository.CheckoutRepository,
	courseRepo repository.CourseRepository,
	enrollmentRepo repository.EnrollmentRepository,
	userRepo repository.UserRepository,
	webhookEventRepo repository.WebhookEventRepository,
	notifications NotificationService,
	cfg *config.Config,
	log *slog.Logger,
) CheckoutService {
	return &checkoutServiceImpl{
		db:               db,
		invoiceClient:    invoiceClient,
		locker:           locker,
		checkoutRepo:     checkoutRepo,
		courseRepo:       courseRepo,
		enrollmentRepo:   enrollmentRepo,
		userRepo:         userRepo,
		webhookEventRepo: webhookEventRepo,
		notifications:    notifications,
		invoiceCfg:       cfg.Invoice,
		checkoutCfg:      cfg.Checkout,
		serviceBaseUrl:   strings.TrimRight(cfg.BaseURL, "/"),
		notifySecret:     []byte(cfg.Auth.NotifySecret),
		steps:            CheckoutSteps(),
		log:              log,
		now:              time.Now,
	}
}

func (s *checkoutServiceImpl) Start(ctx context.Context, userID, email string, courseID uint) (*dto.CheckoutSessionResponse, error) {
	course, err := s.purchasableCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if err := s.checkNotEnrolled(ctx, userID, courseID); err != nil {
		return nil, err
	}

	user, err := s.userRepo.Ensure(ctx, userID, email)
	if err != nil {
		return nil, fmt.Errorf("ensure user: %w", err)
	}

	w := wizard.New(s.steps)
	w.Prefill(profileValues(user))

	session := &model.CheckoutSession{
		ID:        uuid.NewString(),
		UserID:    userID,
		CourseID:  course.ID,
		Status:    model.CheckoutInitiated,
		FormState: string(w.State()),
		Values:    w.Values(),
		Amount:    pricing.AmountDue(course.Price, course.DiscountPrice, user.DiscountPercentage),
		Currency:  s.invoiceCfg.Currency,
		ExpiresAt: s.now().Add(s.checkoutCfg.SessionTTL),
	}
	if err := s.checkoutRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("store checkout session: %w", err)
	}

	s.log.Info("checkout started",
		slog.String("session_id", session.ID),
		slog.String("user_id", userID),
		slog.Uint64("course_id", uint64(course.ID)),
	)
	return s.toResponse(session), nil
}

func (s *checkoutServiceImpl) Get(ctx context.Context, userID, sessionID string) (*dto.CheckoutSessionResponse, error) {
	session, err := s.loadSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(session), nil
}

func (s *checkoutServiceImpl) Advance(ctx context.Context, userID, sessionID string, values map[string]string) (*dto.CheckoutSessionResponse, error) {
	return s.editForm(ctx, userID, sessionID, func(w *wizard.Wizard) error {
		return w.Advance(values)
	})
}

func (s *checkoutServiceImpl) Back(ctx context.Context, userID, sessionID string) (*dto.CheckoutSessionResponse, error) {
	return s.editForm(ctx, userID, sessionID, func(w *wizard.Wizard) error {
		return w.Back()
	})
}

func (s *checkoutServiceImpl) editForm(ctx context.Context, userID, sessionID string, edit func(w *wizard.Wizard) error) (*dto.CheckoutSessionResponse, error) {
	session, err := s.loadSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.checkOpen(session); err != nil {
		return nil, err
	}

	w, err := wizard.Restore(s.steps, wizard.State(session.FormState), session.Values)
	if err != nil {
		return nil, err
	}

	if err := edit(w); err != nil {
		var fe wizard.FieldErrors
		if errors.As(err, &fe) {
			return nil, fe
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	}

	session.FormState = string(w.State())
	session.Values = w.Values()
	if err := s.checkoutRepo.Save(ctx, s.db, session); err != nil {
		return nil, fmt.Errorf("save checkout session: %w", err)
	}

	return s.toResponse(session), nil
}

func (s *checkoutServiceImpl) Submit(ctx context.Context, userID, sessionID string) (*dto.SubmitResponse, error) {
	session, err := s.loadSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == model.CheckoutFormCreated {
		return &dto.SubmitResponse{SessionID: session.ID, PaymentURL: session.PaymentURL}, nil
	}
	if err := s.checkOpen(session); err != nil {
		return nil, err
	}

	release, err := s.locker.Acquire(ctx, submitLockKey(userID, session.CourseID), s.checkoutCfg.SubmitLockTTL)
	if errors.Is(err, lock.ErrLocked) {
		metrics.CheckoutSubmissions.WithLabelValues("locked").Inc()
		return nil, ErrSubmitInProgress
	}
	if err != nil {
		return nil, fmt.Errorf("acquire submit lock: %w", err)
	}
	defer release()

	// a concurrent submit may have finished between the first read and the lock
	session, err = s.loadSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == model.CheckoutFormCreated {
		return &dto.SubmitResponse{SessionID: session.ID, PaymentURL: session.PaymentURL}, nil
	}
	// another session of the same buyer may have been paid since Start
	if err := s.checkNotEnrolled(ctx, userID, session.CourseID); err != nil {
		metrics.CheckoutSubmissions.WithLabelValues("already_enrolled").Inc()
		return nil, err
	}

	w, err := wizard.Restore(s.steps, wizard.State(session.FormState), session.Values)
	if err != nil {
		return nil, err
	}
	if err := w.BeginSubmit(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	}

	course, err := s.purchasableCourse(ctx, session.CourseID)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	session.Amount = pricing.AmountDue(course.Price, course.DiscountPrice, user.DiscountPercentage)

	paymentURL, err := s.createPaymentForm(ctx, session, course, w.Values())
	if err != nil {
		s.failSubmit(ctx, session, w, err)
		return nil, err
	}

	if err := w.Redirected(); err != nil {
		return nil, err
	}
	session.Status = model.CheckoutFormCreated
	session.FormState = string(w.State())
	session.PaymentURL = paymentURL
	session.FailureReason = ""

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := s.enrollmentRepo.UpsertPending(ctx, tx, &model.Enrollment{
			UserID:            userID,
			CourseID:          course.ID,
			CurrentLesson:     1,
			AmountPaid:        session.Amount,
			CourseTitle:       course.Title,
			TotalLessons:      len(course.Lessons),
			CheckoutSessionID: session.ID,
		})
		if errors.Is(err, repository.ErrEnrollmentActive) {
			return ErrAlreadyEnrolled
		}
		if err != nil {
			return fmt.Errorf("store pending enrollment: %w", err)
		}

		if !user.Complete() {
			if err := s.userRepo.UpdateProfile(ctx, tx, enrichProfile(user, w.Values())); err != nil {
				return fmt.Errorf("enrich user profile: %w", err)
			}
		}

		if err := s.checkoutRepo.Save(ctx, tx, session); err != nil {
			return fmt.Errorf("save checkout session: %w", err)
		}
		return nil
	})
	if err != nil {
		s.failSubmit(ctx, session, w, err)
		return nil, err
	}

	metrics.CheckoutSubmissions.WithLabelValues("form_created").Inc()
	s.log.Info("payment form created",
		slog.String("session_id", session.ID),
		slog.String("user_id", userID),
		slog.String("amount", session.Amount.StringFixed(2)),
	)

	return &dto.SubmitResponse{SessionID: session.ID, PaymentURL: paymentURL}, nil
}

// createPaymentForm requests a fresh token with the server credentials and
// asks the provider for a hosted payment page.
func (s *checkoutServiceImpl) createPaymentForm(ctx context.Context, session *model.CheckoutSession, course *model.Course, values map[string]string) (string, error) {
	token, err := s.invoiceClient.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("provider token: %w", err)
	}

	notifyToken, err := signNotifyToken(s.notifySecret, session.ID, session.ExpiresAt.Add(24*time.Hour))
	if err != nil {
		return "", err
	}

	form, err := s.invoiceClient.CreatePaymentForm(ctx, token, s.paymentForm(session, course, values, notifyToken))
	if err != nil {
		return "", fmt.Errorf("provider payment form: %w", err)
	}

	return form.URL, nil
}

func (s *checkoutServiceImpl) paymentForm(session *model.CheckoutSession, course *model.Course, values map[string]string, notifyToken string) *model.PaymentFormRequest {
	amount := session.Amount.InexactFloat64()
	today := s.now().Format("2006-01-02")

	taxID := values["company_id"]
	if taxID == "" {
		taxID = values["national_id"]
	}

	result := func(success bool) string {
		q := url.Values{}
		q.Set("success", strconv.FormatBool(success))
		q.Set("courseId", strconv.FormatUint(uint64(course.ID), 10))
		q.Set("session", session.ID)
		return s.serviceBaseUrl + "/api/checkout/result?" + q.Encode()
	}

	return &model.PaymentFormRequest{
		Description: course.Title,
		Type:        s.invoiceCfg.DocumentType,
		Date:        today,
		DueDate:     today,
		Lang:        s.invoiceCfg.Language,
		Currency:    session.Currency,
		VatType:     s.invoiceCfg.VatType,
		Amount:      amount,
		MaxPayments: 1,
		Client: model.InvoiceClient{
			Name:    strings.TrimSpace(values["first_name"] + " " + values["last_name"]),
			Emails:  []string{values["email"]},
			TaxID:   taxID,
			Address: values["address"],
			City:    values["city"],
			Country: "IL",
			Phone:   values["phone"],
			Add:     true,
		},
		Income: []model.IncomeRow{{
			Description: course.Title,
			Quantity:    1,
			Price:       amount,
			Currency:    session.Currency,
			VatType:     s.invoiceCfg.VatType,
		}},
		SuccessURL: result(true),
		FailureURL: result(false),
		NotifyURL:  s.serviceBaseUrl + "/api/checkout/notify?token=" + url.QueryEscape(notifyToken),
		Custom:     session.ID,
	}
}

func (s *checkoutServiceImpl) failSubmit(ctx context.Context, session *model.CheckoutSession, w *wizard.Wizard, cause error) {
	metrics.CheckoutSubmissions.WithLabelValues("failed").Inc()
	s.log.Error("checkout submit failed",
		slog.String("session_id", session.ID),
		slog.Any("error", cause),
	)

	w.Fail()
	session.Status = model.CheckoutFailed
	session.FormState = string(w.State())
	session.PaymentURL = ""
	session.FailureReason = i18n.ErrCheckout
	if err := s.checkoutRepo.Save(ctx, s.db, session); err != nil {
		s.log.Error("save failed checkout session", slog.String("session_id", session.ID), slog.Any("error", err))
	}
}

// Confirm handles the provider's server-to-server notification. Access is
// granted only here, after the signed link, the session binding, the amount
// and event uniqueness all check out. Replays succeed without side effects.
func (s *checkoutServiceImpl) Confirm(ctx context.Context, token string, n *model.PaymentNotification) error {
	sessionID, err := parseNotifyToken(s.notifySecret, token)
	if err != nil {
		return s.rejectNotify("bad token", fmt.Errorf("%w: %v", ErrNotifyRejected, err))
	}
	if n.Custom != sessionID {
		return s.rejectNotify("session mismatch", fmt.Errorf("%w: session mismatch", ErrNotifyRejected))
	}

	session, err := s.checkoutRepo.Get(ctx, sessionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.rejectNotify("unknown session", fmt.Errorf("%w: unknown session", ErrNotifyRejected))
	}
	if err != nil {
		return fmt.Errorf("get checkout session: %w", err)
	}

	eventID := n.ID
	if eventID == "" {
		eventID = uuid.NewSHA1(uuid.NameSpaceURL, []byte("checkout:"+session.ID)).String()
	}

	processed, err := s.webhookEventRepo.Exists(ctx, eventID)
	if err != nil {
		return fmt.Errorf("check notification event: %w", err)
	}
	if processed || session.Status == model.CheckoutEnrolled {
		metrics.PaymentConfirmations.WithLabelValues("duplicate").Inc()
		return nil
	}

	if session.Status != model.CheckoutFormCreated && session.Status != model.CheckoutExpired {
		return s.rejectNotify("invalid state", fmt.Errorf("%w: session is %s", ErrNotifyRejected, session.Status))
	}
	if !n.Amount.Equal(session.Amount) {
		return s.rejectNotify("amount mismatch", fmt.Errorf("%w: amount %s does not match %s",
			ErrNotifyRejected, n.Amount.String(), session.Amount.StringFixed(2)))
	}

	eventType := n.Type
	if eventType == "" {
		eventType = "payment"
	}

	replay, duplicatePayment := false, false
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fresh, err := s.webhookEventRepo.MarkProcessed(ctx, tx, eventID, eventType)
		if err != nil {
			return fmt.Errorf("record notification event: %w", err)
		}
		if !fresh {
			replay = true
			return nil
		}

		from := []model.CheckoutStatus{model.CheckoutFormCreated, model.CheckoutExpired}
		if err := s.checkoutRepo.Transition(ctx, tx, session.ID, from, model.CheckoutPaymentConfirmed); err != nil {
			return fmt.Errorf("confirm payment: %w", err)
		}
		err = s.enrollmentRepo.Activate(ctx, tx, session.UserID, session.CourseID)
		if errors.Is(err, repository.ErrEnrollmentActive) {
			// paid through another session; the payment is kept and flagged
			duplicatePayment = true
		} else if err != nil {
			return fmt.Errorf("activate enrollment: %w", err)
		}
		return s.checkoutRepo.Transition(ctx, tx, session.ID,
			[]model.CheckoutStatus{model.CheckoutPaymentConfirmed}, model.CheckoutEnrolled)
	})
	if err != nil {
		metrics.PaymentConfirmations.WithLabelValues("error").Inc()
		return err
	}
	if replay {
		metrics.PaymentConfirmations.WithLabelValues("duplicate").Inc()
		return nil
	}

	if duplicatePayment {
		metrics.PaymentConfirmations.WithLabelValues("duplicate_payment").Inc()
		s.log.Warn("payment for an already active enrollment, refund required",
			slog.String("session_id", session.ID),
			slog.String("event_id", eventID),
			slog.String("user_id", session.UserID),
			slog.Uint64("course_id", uint64(session.CourseID)),
			slog.String("amount", n.Amount.StringFixed(2)),
		)
		return nil
	}

	metrics.PaymentConfirmations.WithLabelValues("enrolled").Inc()
	s.log.Info("payment confirmed",
		slog.String("session_id", session.ID),
		slog.String("event_id", eventID),
		slog.String("user_id", session.UserID),
	)

	s.sendConfirmation(ctx, session)
	return nil
}

func (s *checkoutServiceImpl) sendConfirmation(ctx context.Context, session *model.CheckoutSession) {
	user, err := s.userRepo.Get(ctx, session.UserID)
	if err != nil {
		s.log.Warn("confirmation email skipped", slog.String("session_id", session.ID), slog.Any("error", err))
		return
	}
	course, err := s.courseRepo.FindByID(ctx, session.CourseID)
	if err != nil {
		s.log.Warn("confirmation email skipped", slog.String("session_id", session.ID), slog.Any("error", err))
		return
	}

	if err := s.notifications.SendPurchaseConfirmation(ctx, user, course); err != nil {
		s.log.Warn("confirmation email failed", slog.String("session_id", session.ID), slog.Any("error", err))
	}
}

func (s *checkoutServiceImpl) checkNotEnrolled(ctx context.Context, userID string, courseID uint) error {
	enrollment, err := s.enrollmentRepo.FindByUserAndCourse(ctx, userID, courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("find enrollment: %w", err)
	}
	if enrollment.Status == model.EnrollmentActive {
		return ErrAlreadyEnrolled
	}
	return nil
}

func (s *checkoutServiceImpl) rejectNotify(reason string, err error) error {
	metrics.PaymentConfirmations.WithLabelValues("rejected").Inc()
	s.log.Warn("payment notification rejected", slog.String("reason", reason), slog.Any("error", err))
	return err
}

// Result turns the provider's redirect into what the buyer sees. The query
// string alone never reports success.
func (s *checkoutServiceImpl) Result(ctx context.Context, q ResultQuery, lang i18n.Lang) *dto.ResultResponse {
	courseID := q.CourseID
	enrolled := false

	if q.SessionID != "" {
		session, err := s.checkoutRepo.Get(ctx, q.SessionID)
		switch {
		case err == nil:
			enrolled = session.Status == model.CheckoutEnrolled
			if courseID == "" {
				courseID = strconv.FormatUint(uint64(session.CourseID), 10)
			}
		case !errors.Is(err, gorm.ErrRecordNotFound):
			s.log.Error("load checkout session for result", slog.String("session_id", q.SessionID), slog.Any("error", err))
		}
	}

	coursePage := s.checkoutCfg.CoursePath
	if courseID != "" {
		coursePage = strings.TrimRight(coursePage, "/") + "/" + url.PathEscape(courseID)
	}

	claimed, _ := strconv.ParseBool(q.Success)
	switch {
	case enrolled:
		return &dto.ResultResponse{
			Status:       "success",
			Notification: i18n.T(lang, i18n.PaymentSucceeded),
			Redirect:     s.checkoutCfg.DashboardPath,
		}
	case claimed:
		return &dto.ResultResponse{
			Status:       "pending",
			Notification: i18n.T(lang, i18n.PaymentPending),
			Redirect:     coursePage,
		}
	default:
		msg := strings.TrimSpace(q.Message)
		if msg == "" {
			msg = i18n.T(lang, i18n.PaymentFailed)
		}
		return &dto.ResultResponse{
			Status:       "failure",
			Notification: msg,
			Redirect:     coursePage,
		}
	}
}

// ExpireStale closes sessions that outlived their TTL without a confirmed
// payment and expires the pending enrollments they created.
func (s *checkoutServiceImpl) ExpireStale(ctx context.Context) error {
	sessions, err := s.checkoutRepo.ListExpired(ctx, s.now())
	if err != nil {
		return fmt.Errorf("list expired sessions: %w", err)
	}
	if len(sessions) == 0 {
		return nil
	}

	var expired []string
	var enrollments int64
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, session := range sessions {
			err := s.checkoutRepo.Transition(ctx, tx, session.ID, []model.CheckoutStatus{
				model.CheckoutInitiated,
				model.CheckoutFormCreated,
				model.CheckoutFailed,
			}, model.CheckoutExpired)
			if errors.Is(err, repository.ErrStaleTransition) {
				continue
			}
			if err != nil {
				return err
			}
			expired = append(expired, session.ID)
		}

		n, err := s.enrollmentRepo.ExpirePending(ctx, tx, expired)
		enrollments = n
		return err
	})
	if err != nil {
		return fmt.Errorf("expire sessions: %w", err)
	}

	s.log.Info("expired checkout sessions",
		slog.Int("sessions", len(expired)),
		slog.Int64("enrollments", enrollments),
	)
	return nil
}

func (s *checkoutServiceImpl) loadSession(ctx context.Context, userID, sessionID string) (*model.CheckoutSession, error) {
	session, err := s.checkoutRepo.Get(ctx, sessionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get checkout session: %w", err)
	}
	if session.UserID != userID {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// checkOpen allows edits and submits only before the hosted form exists, or
// after a failed attempt, and only while the session is within its TTL.
func (s *checkoutServiceImpl) checkOpen(session *model.CheckoutSession) error {
	switch session.Status {
	case model.CheckoutInitiated, model.CheckoutFailed:
	case model.CheckoutExpired:
		return ErrSessionExpired
	default:
		return fmt.Errorf("%w: session is %s", ErrInvalidTransition, session.Status)
	}
	if s.now().After(session.ExpiresAt) {
		return ErrSessionExpired
	}
	return nil
}

func (s *checkoutServiceImpl) purchasableCourse(ctx context.Context, courseID uint) (*model.Course, error) {
	course, err := s.courseRepo.FindByID(ctx, courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCourseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	if !course.Available {
		return nil, ErrCourseUnavailable
	}
	return course, nil
}

func (s *checkoutServiceImpl) toResponse(session *model.CheckoutSession) *dto.CheckoutSessionResponse {
	steps := make([]dto.StepSchema, len(s.steps))
	for i, step := range s.steps {
		fields := make([]dto.FieldSchema, len(step.Fields))
		for j, f := range step.Fields {
			fields[j] = dto.FieldSchema{Name: f.Name, Required: f.Required}
		}
		steps[i] = dto.StepSchema{Name: step.Name, Fields: fields}
	}

	values := session.Values
	if values == nil {
		values = map[string]string{}
	}

	return &dto.CheckoutSessionResponse{
		ID:            session.ID,
		CourseID:      session.CourseID,
		Status:        string(session.Status),
		Step:          session.FormState,
		Values:        values,
		Steps:         steps,
		Amount:        session.Amount,
		Currency:      session.Currency,
		PaymentURL:    session.PaymentURL,
		FailureReason: session.FailureReason,
		ExpiresAt:     session.ExpiresAt,
	}
}

func submitLockKey(userID string, courseID uint) string {
	return fmt.Sprintf("checkout:%s:%d", userID, courseID)
}

func profileValues(u *model.User) map[string]string {
	return map[string]string{
		"first_name":  u.FirstName,
		"last_name":   u.LastName,
		"email":       u.Email,
		"phone":       u.Phone,
		"national_id": u.NationalID,
		"address":     u.Address,
		"city":        u.City,
		"company_id":  u.CompanyID,
	}
}

// enrichProfile fills the user's empty profile fields from checkout values
// and leaves filled ones alone.
func enrichProfile(u *model.User, values map[string]string) *model.User {
	out := *u
	fill := func(dst *string, key string) {
		if *dst == "" {
			*dst = values[key]
		}
	}
	fill(&out.FirstName, "first_name")
	fill(&out.LastName, "last_name")
	fill(&out.Email, "email")
	fill(&out.Phone, "phone")
	fill(&out.NationalID, "national_id")
	fill(&out.Address, "address")
	fill(&out.City, "city")
	fill(&out.CompanyID, "company_id")
	return &out
}
