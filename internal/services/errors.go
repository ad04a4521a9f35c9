package services

import "errors"

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrLinkFailed      = errors.New("device link failed")
	ErrInvalidDeviceID = errors.New("invalid device id")
	ErrTooLarge        = errors.New("document too large")
	ErrRateLimited     = errors.New("too many writes")
)
