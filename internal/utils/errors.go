package utils

import "errors"

// ----------------- storage ------------------
var (
	ErrStorageEmptyHostName       = errors.New("host name is empty")
	ErrStorageInvalidPortNumber   = errors.New("port number is invalid")
	ErrStorageEmptyUsername       = errors.New("username is empty")
	ErrStorageEmptyPassword       = errors.New("password is empty")
	ErrStorageInvalidDatabaseName = errors.New("database name is empty")
	ErrStorageInvalidSslMode      = errors.New("SSL mode is invalid")
	ErrStorageInvalidPoolSize     = errors.New("pool size is invalid")
	ErrStorageInvalidTimeout      = errors.New("timeout is invalid")
)

// ----------------- cache ------------------
var (
	ErrCacheMiss = errors.New("cache miss")
)

// ----------------- domain ------------------
var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")
	// ErrParameterMissing is returned when a required identifier or field is absent.
	ErrParameterMissing = errors.New("parameter missing")
	// ErrValidation wraps payload validation failures.
	ErrValidation = errors.New("validation failed")

	ErrInvalidArticleID  = errors.New("invalid article id")
	ErrInvalidCategoryID = errors.New("invalid category id")
	ErrInvalidMediaPath  = errors.New("invalid media path")

	ErrUnsupportedCriteriaPart = errors.New("unsupported criteria part")
)
