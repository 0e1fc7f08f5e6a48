package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, guests missing for a road trip).
// Handlers should map this to HTTP 400 Bad Request.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned by repo functions when an insert violates a unique
// constraint. For deals this means the slug was taken between the uniqueness
// check and the insert.
var ErrConflict = errors.New("conflict")

// ErrUploadFailed is returned by the media gateway once an image upload has
// exhausted all of its attempts.
var ErrUploadFailed = errors.New("image upload failed")
