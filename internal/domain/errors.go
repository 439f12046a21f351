package domain

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")

	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrAccountInactive    = errors.New("account is deactivated")

	ErrProfileNotFound      = errors.New("profile not found")
	ErrProfileSetupRequired = errors.New("complete your profile setup first")
	ErrUnderage             = errors.New("must be at least 18 years old")
	ErrInvalidAgeRange      = errors.New("age_range_min must not exceed age_range_max")
	ErrNotEnoughPhotos      = errors.New("not enough photos for profile setup")
	ErrPhotoNotFound        = errors.New("photo not found")
	ErrPhotoLimitReached    = errors.New("photo limit reached")
	ErrUnsupportedPhotoType = errors.New("unsupported photo type")
	ErrPhotoTooLarge        = errors.New("photo too large")

	ErrOnboardingCompleted  = errors.New("onboarding already completed")
	ErrStateNotFound        = errors.New("onboarding not started")
	ErrOnboardingIncomplete = errors.New("complete onboarding chat before discovering users")
	ErrTurnInProgress       = errors.New("another onboarding message is being processed")
	ErrLLMUnavailable       = errors.New("AI service is temporarily unavailable")

	ErrCannotTargetSelf = errors.New("cannot target yourself")
	ErrTargetInactive   = errors.New("user is deactivated")
	ErrAlreadySwiped    = errors.New("already liked/passed this user")
	ErrLikeNotFound     = errors.New("like not found")
	ErrMatchNotFound    = errors.New("match not found")
	ErrNotMatchMember   = errors.New("not your match")
	ErrBlocked          = errors.New("cannot interact with blocked user")
	ErrAlreadyBlocked   = errors.New("user already blocked")
	ErrBlockNotFound    = errors.New("block not found")

	ErrRateLimited = errors.New("rate limit exceeded")
)
