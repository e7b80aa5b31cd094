package apperrors

import (
	"errors"
)

var (
	ErrInvalidRequest = errors.New("required field is missing")

	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Returned for any refresh verification failure: bad signature,
	// expired, malformed or the encoded user no longer exists. Callers
	// must not be able to tell these apart.
	ErrInvalidToken = errors.New("invalid token")

	// Returned on reset completion for wrong, expired or already
	// consumed tokens alike.
	ErrResetTokenInvalid = errors.New("reset token invalid or expired")

	ErrEmailDeliveryFailed = errors.New("email could not be sent")

	ErrProjectNotFound     = errors.New("project not found")
	ErrProjectExists       = errors.New("project with this slug already exists")
	ErrServiceNotFound     = errors.New("service not found")
	ErrServiceExists       = errors.New("service with this slug already exists")
	ErrTestimonialNotFound = errors.New("testimonial not found")
	ErrSubmissionNotFound  = errors.New("contact submission not found")

	ErrAlreadySubscribed    = errors.New("email already subscribed")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrNoActiveSubscribers  = errors.New("no active subscribers")
)
