package services

import "errors"

// ErrNotFound is returned when a referenced canvas, user, or tag does not
// exist or is invisible due to soft-delete. Handlers map it to 404.
var ErrNotFound = errors.New("not found")
