package wizard

import (
	"errors"
	"strings"
	"testing"
)

func notEmptyDigits(n int) Validator {
	return func(v string) bool {
		if len(v) != n {
			return false
		}
		for _, r := range v {
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	}
}

func testSteps() []Step {
	return []Step{
		{Name: "one", Fields: []Field{
			{Name: "name", Required: true, Validate: func(v string) bool { return len(v) >= 2 }, Message: "bad_name"},
		}},
		{Name: "two", Fields: []Field{
			{Name: "code", Required: true, Validate: notEmptyDigits(3), Message: "bad_code"},
			{Name: "extra", Validate: notEmptyDigits(2), Message: "bad_extra"},
		}},
	}
}

func TestAdvanceRejectsInvalidFieldsAndKeepsState(t *testing.T) {
	w := New(testSteps())

	err := w.Advance(map[string]string{"name": "x"})

	var fe FieldErrors
	if !errors.As(err, &fe) {
		t.Fatalf("expected FieldErrors, got %v", err)
	}
	if fe["name"] != "bad_name" {
		t.Fatalf("unexpected errors %v", fe)
	}
	if w.State() != "one" {
		t.Fatalf("expected state one, got %q", w.State())
	}
	if _, ok := w.Values()["name"]; ok {
		t.Fatalf("invalid value must not be stored")
	}
}

func TestAdvanceWalksToSubmitting(t *testing.T) {
	w := New(testSteps())

	if err := w.Advance(map[string]string{"name": "  Dana "}); err != nil {
		t.Fatalf("Advance one: %v", err)
	}
	if w.State() != "two" {
		t.Fatalf("expected state two, got %q", w.State())
	}

	if err := w.Advance(map[string]string{"code": "123"}); err != nil {
		t.Fatalf("Advance two: %v", err)
	}
	if w.State() != StateSubmitting {
		t.Fatalf("expected submitting, got %q", w.State())
	}

	values := w.Values()
	if values["name"] != "Dana" || values["code"] != "123" {
		t.Fatalf("unexpected values %v", values)
	}
	if _, ok := values["extra"]; ok {
		t.Fatalf("empty optional field must not be stored")
	}

	if err := w.Advance(nil); !errors.Is(err, ErrNotEditable) {
		t.Fatalf("expected ErrNotEditable, got %v", err)
	}
}

func TestOptionalFieldValidatedWhenPresent(t *testing.T) {
	w := New(testSteps())
	w.Prefill(map[string]string{"name": "Dana"})
	if err := w.Advance(nil); err != nil {
		t.Fatalf("Advance with prefilled value: %v", err)
	}

	err := w.Advance(map[string]string{"code": "12", "extra": "123"})
	var fe FieldErrors
	if !errors.As(err, &fe) {
		t.Fatalf("expected FieldErrors, got %v", err)
	}
	if len(fe) != 2 || fe["code"] != "bad_code" || fe["extra"] != "bad_extra" {
		t.Fatalf("unexpected errors %v", fe)
	}
	if !strings.Contains(fe.Error(), "code, extra") {
		t.Fatalf("unexpected error text %q", fe.Error())
	}

	localized := fe.Localize(strings.ToUpper)
	if localized["code"] != "BAD_CODE" {
		t.Fatalf("unexpected localized %v", localized)
	}
}

func TestBackAndSubmitTransitions(t *testing.T) {
	w := New(testSteps())

	if err := w.Back(); !errors.Is(err, ErrNoPrevious) {
		t.Fatalf("expected ErrNoPrevious, got %v", err)
	}
	if err := w.BeginSubmit(); !errors.Is(err, ErrNotSubmitting) {
		t.Fatalf("expected ErrNotSubmitting, got %v", err)
	}

	_ = w.Advance(map[string]string{"name": "Dana"})
	_ = w.Advance(map[string]string{"code": "123"})

	if err := w.BeginSubmit(); err != nil {
		t.Fatalf("BeginSubmit: %v", err)
	}
	w.Fail()
	if w.State() != StateFailed {
		t.Fatalf("expected failed, got %q", w.State())
	}

	// A failed submission can be retried.
	if err := w.BeginSubmit(); err != nil {
		t.Fatalf("BeginSubmit after failure: %v", err)
	}
	if err := w.Redirected(); err != nil {
		t.Fatalf("Redirected: %v", err)
	}
	if err := w.Back(); !errors.Is(err, ErrNotEditable) {
		t.Fatalf("expected ErrNotEditable after redirect, got %v", err)
	}
}

func TestBackFromFailedReturnsToLastStep(t *testing.T) {
	w, err := Restore(testSteps(), StateFailed, map[string]string{"name": "Dana", "code": "123"})
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if err := w.Back(); err != nil {
		t.Fatalf("Back: %v", err)
	}
	if w.State() != "two" {
		t.Fatalf("expected state two, got %q", w.State())
	}
}

func TestRestoreRejectsUnknownState(t *testing.T) {
	if _, err := Restore(testSteps(), "three", nil); !errors.Is(err, ErrUnknownState) {
		t.Fatalf("expected ErrUnknownState, got %v", err)
	}
}

func TestValidateChecksAllSteps(t *testing.T) {
	_, err := Validate(testSteps(), map[string]string{"name": "x", "code": "12"})

	var fe FieldErrors
	if !errors.As(err, &fe) {
		t.Fatalf("expected FieldErrors, got %v", err)
	}
	if fe["name"] != "bad_name" || fe["code"] != "bad_code" {
		t.Fatalf("unexpected errors %v", fe)
	}

	values, err := Validate(testSteps(), map[string]string{"name": " Dana ", "code": "123"})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if values["name"] != "Dana" || values["code"] != "123" {
		t.Fatalf("unexpected values %v", values)
	}
}
