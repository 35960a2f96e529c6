package repository

import (
	"context"
	"course-marketplace/internal/client"
	"course-marketplace/internal/model"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := client.InitDBClient("sqlite://" + filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("init db: %v", err)
	}
	return db
}

func TestUpsertPendingKeepsOneRowPerUserAndCourse(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewEnrollmentRepository(db)

	first := &model.Enrollment{UserID: "u1", CourseID: 7, AmountPaid: decimal.NewFromInt(100), TotalLessons: 3, CheckoutSessionID: "s1"}
	if err := repo.UpsertPending(ctx, db, first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	second := &model.Enrollment{UserID: "u1", CourseID: 7, AmountPaid: decimal.NewFromInt(80), TotalLessons: 3, CheckoutSessionID: "s2"}
	if err := repo.UpsertPending(ctx, db, second); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	var count int64
	if err := db.Model(&model.Enrollment{}).Where("user_id = ? AND course_id = ?", "u1", 7).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one row, got %d", count)
	}

	got, err := repo.FindByUserAndCourse(ctx, "u1", 7)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.CheckoutSessionID != "s2" || !got.AmountPaid.Equal(decimal.NewFromInt(80)) || got.CurrentLesson != 1 {
		t.Fatalf("unexpected row %+v", got)
	}
}

func TestActivateAndProgress(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewEnrollmentRepository(db)

	if err := repo.UpdateProgress(ctx, "u1", 7, 2); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	e := &model.Enrollment{UserID: "u1", CourseID: 7, TotalLessons: 3, CheckoutSessionID: "s1"}
	if err := repo.UpsertPending(ctx, db, e); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := repo.UpdateProgress(ctx, "u1", 7, 2); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("pending enrollment must not accept progress, got %v", err)
	}

	if err := repo.Activate(ctx, db, "u1", 7); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if err := repo.Activate(ctx, db, "u1", 7); !errors.Is(err, ErrEnrollmentActive) {
		t.Fatalf("second activate should report active enrollment, got %v", err)
	}
	if err := repo.Activate(ctx, db, "u2", 7); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found for missing enrollment, got %v", err)
	}
	if err := repo.UpdateProgress(ctx, "u1", 7, 2); err != nil {
		t.Fatalf("progress: %v", err)
	}

	got, err := repo.FindByUserAndCourse(ctx, "u1", 7)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Status != model.EnrollmentActive || got.CurrentLesson != 2 {
		t.Fatalf("unexpected row %+v", got)
	}
}

func TestUpsertPendingLeavesActiveEnrollment(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewEnrollmentRepository(db)

	first := &model.Enrollment{UserID: "u1", CourseID: 7, AmountPaid: decimal.NewFromInt(80), TotalLessons: 3, CheckoutSessionID: "s1"}
	if err := repo.UpsertPending(ctx, db, first); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := repo.Activate(ctx, db, "u1", 7); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if err := repo.UpdateProgress(ctx, "u1", 7, 3); err != nil {
		t.Fatalf("progress: %v", err)
	}

	second := &model.Enrollment{UserID: "u1", CourseID: 7, AmountPaid: decimal.NewFromInt(100), TotalLessons: 3, CheckoutSessionID: "s2"}
	if err := repo.UpsertPending(ctx, db, second); !errors.Is(err, ErrEnrollmentActive) {
		t.Fatalf("expected ErrEnrollmentActive, got %v", err)
	}

	got, err := repo.FindByUserAndCourse(ctx, "u1", 7)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Status != model.EnrollmentActive || got.CurrentLesson != 3 || got.CheckoutSessionID != "s1" {
		t.Fatalf("active enrollment was overwritten: %+v", got)
	}
}

func TestExpirePendingOnlyTouchesPending(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewEnrollmentRepository(db)

	for _, e := range []*model.Enrollment{
		{UserID: "u1", CourseID: 1, TotalLessons: 1, CheckoutSessionID: "s1"},
		{UserID: "u2", CourseID: 1, TotalLessons: 1, CheckoutSessionID: "s2"},
	} {
		if err := repo.UpsertPending(ctx, db, e); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}
	if err := repo.Activate(ctx, db, "u2", 1); err != nil {
		t.Fatalf("activate: %v", err)
	}

	n, err := repo.ExpirePending(ctx, db, []string{"s1", "s2"})
	if err != nil {
		t.Fatalf("expire: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 expired, got %d", n)
	}

	if n, err := repo.ExpirePending(ctx, db, nil); err != nil || n != 0 {
		t.Fatalf("empty expire returned %d, %v", n, err)
	}
}

func TestTransitionRejectsStaleState(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewCheckoutRepository(db)

	session := &model.CheckoutSession{
		ID:        "s1",
		UserID:    "u1",
		CourseID:  1,
		Status:    model.CheckoutFormCreated,
		FormState: "redirected",
		Amount:    decimal.NewFromInt(80),
		Currency:  "ILS",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	if err := repo.Create(ctx, session); err != nil {
		t.Fatalf("create: %v", err)
	}

	expired, err := repo.ListExpired(ctx, time.Now())
	if err != nil {
		t.Fatalf("list expired: %v", err)
	}
	if len(expired) != 1 || expired[0].ID != "s1" {
		t.Fatalf("unexpected expired sessions %+v", expired)
	}

	if err := repo.Transition(ctx, db, "s1", []model.CheckoutStatus{model.CheckoutFormCreated}, model.CheckoutPaymentConfirmed); err != nil {
		t.Fatalf("transition: %v", err)
	}
	err = repo.Transition(ctx, db, "s1", []model.CheckoutStatus{model.CheckoutFormCreated}, model.CheckoutExpired)
	if !errors.Is(err, ErrStaleTransition) {
		t.Fatalf("expected stale transition, got %v", err)
	}

	expired, err = repo.ListExpired(ctx, time.Now())
	if err != nil {
		t.Fatalf("list expired: %v", err)
	}
	if len(expired) != 0 {
		t.Fatalf("confirmed session must not be listed as expired")
	}
}
