package storage

import "errors"

var ErrRunNotFound = errors.New("storage: run not found")
