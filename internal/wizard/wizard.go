// Package wizard implements a multi-step form: an ordered list of steps, each
// a schema of fields with their validators, plus the terminal submission
// states that follow the last step.
package wizard

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

type Validator func(value string) bool

type Field struct {
	Name     string
	Required bool
	Validate Validator
	// Message is reported when the field fails; callers usually store a
	// translation key here.
	Message string
}

type Step struct {
	Name   string
	Fields []Field
}

type State string

const (
	StateSubmitting State = "submitting"
	StateRedirected State = "redirected"
	StateFailed     State = "failed"
)

var (
	ErrNotEditable   = errors.New("form is not at an editable step")
	ErrNoPrevious    = errors.New("form is at its first step")
	ErrNotSubmitting = errors.New("form is not ready for submission")
	ErrUnknownState  = errors.New("unknown form state")
)

// FieldErrors maps a field name to the Message of the rule it failed.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("invalid fields: %s", strings.Join(names, ", "))
}

// Localize returns a copy with every message passed through translate.
func (e FieldErrors) Localize(translate func(string) string) map[string]string {
	out := make(map[string]string, len(e))
	for name, msg := range e {
		out[name] = translate(msg)
	}
	return out
}

type Wizard struct {
	steps  []Step
	state  State
	values map[string]string
}

func New(steps []Step) *Wizard {
	return &Wizard{
		steps:  steps,
		state:  State(steps[0].Name),
		values: make(map[string]string),
	}
}

// Restore rebuilds a wizard from persisted state and values.
func Restore(steps []Step, state State, values map[string]string) (*Wizard, error) {
	w := New(steps)
	switch state {
	case StateSubmitting, StateRedirected, StateFailed:
	default:
		if w.indexOf(state) < 0 {
			return nil, fmt.Errorf("%w: %q", ErrUnknownState, state)
		}
	}

	w.state = state
	for k, v := range values {
		w.values[k] = v
	}
	return w, nil
}

func (w *Wizard) State() State {
	return w.state
}

func (w *Wizard) Steps() []Step {
	return w.steps
}

func (w *Wizard) Values() map[string]string {
	out := make(map[string]string, len(w.values))
	for k, v := range w.values {
		out[k] = v
	}
	return out
}

// Prefill sets values without validating them, e.g. from a stored profile.
func (w *Wizard) Prefill(values map[string]string) {
	for k, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			w.values[k] = v
		}
	}
}

// Advance validates the current step against input (falling back to
// already-known values for omitted fields) and moves to the next step, or
// to StateSubmitting after the last one. On failure the state is unchanged.
func (w *Wizard) Advance(input map[string]string) error {
	idx := w.indexOf(w.state)
	if idx < 0 {
		return ErrNotEditable
	}

	accepted, err := checkStep(w.steps[idx], input, w.values)
	if err != nil {
		return err
	}

	for k, v := range accepted {
		if v == "" {
			delete(w.values, k)
			continue
		}
		w.values[k] = v
	}

	if idx == len(w.steps)-1 {
		w.state = StateSubmitting
	} else {
		w.state = State(w.steps[idx+1].Name)
	}
	return nil
}

// Back returns to the previous step. From submitting or failed it returns to
// the last step so the buyer can correct details before retrying.
func (w *Wizard) Back() error {
	switch w.state {
	case StateSubmitting, StateFailed:
		w.state = State(w.steps[len(w.steps)-1].Name)
		return nil
	case StateRedirected:
		return ErrNotEditable
	}

	idx := w.indexOf(w.state)
	if idx <= 0 {
		return ErrNoPrevious
	}
	w.state = State(w.steps[idx-1].Name)
	return nil
}

// BeginSubmit is allowed once every step passed, and again after a failure.
func (w *Wizard) BeginSubmit() error {
	if w.state != StateSubmitting && w.state != StateFailed {
		return ErrNotSubmitting
	}
	w.state = StateSubmitting
	return nil
}

func (w *Wizard) Redirected() error {
	if w.state != StateSubmitting {
		return ErrNotSubmitting
	}
	w.state = StateRedirected
	return nil
}

func (w *Wizard) Fail() {
	w.state = StateFailed
}

// Validate checks values against every step at once, for edits made
// outside a wizard. It returns the trimmed accepted values.
func Validate(steps []Step, values map[string]string) (map[string]string, error) {
	out := make(map[string]string)
	errs := FieldErrors{}
	for _, step := range steps {
		accepted, err := checkStep(step, values, nil)
		var fe FieldErrors
		if errors.As(err, &fe) {
			for k, v := range fe {
				errs[k] = v
			}
			continue
		}
		for k, v := range accepted {
			out[k] = v
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}

func checkStep(step Step, input, known map[string]string) (map[string]string, error) {
	accepted := make(map[string]string, len(step.Fields))
	errs := FieldErrors{}
	for _, f := range step.Fields {
		v, ok := input[f.Name]
		if !ok {
			v = known[f.Name]
		}
		v = strings.TrimSpace(v)

		switch {
		case v == "" && f.Required:
			errs[f.Name] = f.Message
		case v != "" && f.Validate != nil && !f.Validate(v):
			errs[f.Name] = f.Message
		default:
			accepted[f.Name] = v
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return accepted, nil
}

func (w *Wizard) indexOf(state State) int {
	for i, s := range w.steps {
		if State(s.Name) == state {
			return i
		}
	}
	return -1
}
