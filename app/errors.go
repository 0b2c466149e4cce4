package app

import "github.com/iov-one/supersig/errors"

// ErrNoSuchPath is returned when no handler is registered for the
// message path.
var ErrNoSuchPath = errors.Register(70, "path not registered")
