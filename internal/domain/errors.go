package domain

import "errors"

var (
	ErrStudentNotFound      = errors.New("student not found")
	ErrEmptyQuestion        = errors.New("question is empty")
	ErrDirectoryUnavailable = errors.New("student directory not configured")
	ErrInsightsUnavailable  = errors.New("insight generator not configured")
	ErrCacheMiss            = errors.New("cache miss")
)
