package profile

import "errors"

var ErrInvalidUIDPath = errors.New("invalid uid path")
