// Package apperr defines the sentinel error kinds shared across the
// repositories, the schedule engine and the handlers. Keeping them in
// a leaf package lets every layer distinguish failure scenarios
// without import cycles. For example, ErrForbidden indicates that the
// current user is not authorized to perform an operation on a
// resource owned by someone else, while ErrDuplicate signals a
// username or email collision at registration.
package apperr

import "errors"

// ErrValidation is returned when required input is missing or
// malformed. Handlers should translate this into an HTTP 400
// response. No state is changed.
var ErrValidation = errors.New("invalid input")

// ErrDuplicate is returned when a unique constraint would be
// violated, such as registering an already-taken username or email.
// Handlers should translate this into an HTTP 409 response.
var ErrDuplicate = errors.New("already exists")

// ErrInvalidCredentials is returned when login fails. Handlers
// should translate this into an HTTP 401 response without revealing
// whether the username or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response. The operation is aborted and state is
// left unchanged.
var ErrForbidden = errors.New("forbidden")

// ErrNotFound is returned when a referenced record does not exist.
// Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an operation cannot proceed due to
// conflicting state. Handlers should translate this into an HTTP
// 409 response.
var ErrConflict = errors.New("conflict")
