package utils

import "errors"

// Common application errors used across services.
var (
	ErrInvalidCredentials = errors.New("INVALID_CREDENTIALS")
	ErrEmailTaken         = errors.New("EMAIL_TAKEN")
	ErrLastAdmin          = errors.New("LAST_ADMIN")
	ErrSelfDeletion       = errors.New("SELF_DELETION")
	ErrReportNotFound     = errors.New("REPORT_NOT_FOUND")
	ErrVideoNotFound      = errors.New("VIDEO_NOT_FOUND")
)
