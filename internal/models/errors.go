package models

import "errors"

var (
	ErrUnauthenticated   = errors.New("owner is not authenticated")
	ErrInvalidInput      = errors.New("invalid input")
	ErrExtractionFailed  = errors.New("product extraction failed")
	ErrInvalidSnapshot   = errors.New("invalid product snapshot")
	ErrPersistenceFailed = errors.New("persistence operation failed")
	ErrDispatchFailed    = errors.New("alert dispatch failed")
)
