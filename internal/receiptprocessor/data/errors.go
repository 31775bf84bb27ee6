package data

import "errors"

var (
	ErrReceiptNotFound           = errors.New("receipt not found")
	ErrUniqueConstraintViolation = errors.New("unique constraint violation")
)
