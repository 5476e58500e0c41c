package client

import (
	"errors"
)

var (
	ErrServerUnavailable = errors.New("calculator server unavailable")
	ErrUnexpectedStatus  = errors.New("unexpected response status")
)
