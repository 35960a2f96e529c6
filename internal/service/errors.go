package service

import "errors"

var (
	ErrMissingField      = errors.New("missing required field")
	ErrInvalidEndpoint   = errors.New("endpoint must be a path on the provider api")
	ErrCourseNotFound    = errors.New("course not found")
	ErrCourseUnavailable = errors.New("course is not available for purchase")
	ErrAlreadyEnrolled   = errors.New("already enrolled in this course")
	ErrSessionNotFound   = errors.New("checkout session not found")
	ErrSessionExpired    = errors.New("checkout session expired")
	ErrInvalidTransition = errors.New("checkout session cannot do that in its current state")
	ErrSubmitInProgress  = errors.New("a checkout for this course is already being submitted")
	ErrNotifyRejected    = errors.New("payment notification rejected")
	ErrEnrollmentMissing = errors.New("enrollment not found")
	ErrInvalidProgress   = errors.New("current lesson is out of range")
	ErrForbidden         = errors.New("forbidden")
)
