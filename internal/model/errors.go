package model

import "errors"

// ErrShowNotFound is returned by every show source when the id is unknown.
var ErrShowNotFound = errors.New("show not found")
