package store

import apperrors "github.com/vsrunapp/vsrun-server/internal/errors"

// Sentinel errors shared by the sub-stores. These carry error codes so
// the API layer can translate them to HTTP statuses directly.
var (
	ErrNotFound      = apperrors.NotFound("resource not found")
	ErrAlreadyExists = apperrors.AlreadyExists("resource already exists")

	ErrProfileNotFound   = apperrors.NotFound("profile not found")
	ErrSlugTaken         = apperrors.AlreadyExists("profile slug already taken")
	ErrProfileExists     = apperrors.AlreadyExists("user already has a profile")
	ErrShoeNotFound      = apperrors.NotFound("shoe not found")
	ErrRotationNotFound  = apperrors.NotFound("rotation not found")
	ErrActivityNotFound  = apperrors.NotFound("activity not found")
	ErrHighlightExists   = apperrors.Conflict("profile already has a highlight run")
	ErrHighlightNotFound = apperrors.NotFound("profile has no highlight run")
)
