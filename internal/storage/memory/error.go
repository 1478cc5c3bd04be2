package memory

import "errors"

var ErrEmptySessionID = errors.New("session has no id")
