package service

import "errors"

// ErrValidation marks requests rejected before any mutation was attempted.
var ErrValidation = errors.New("validation failed")

// ErrAlreadyShipped is returned when shipping an order that is already
// shipped. The transition is one-way; a repeat attempt is rejected rather
// than treated as a no-op so callers notice the double submission.
var ErrAlreadyShipped = errors.New("order already shipped")
