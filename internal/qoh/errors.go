package qoh

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPercent     = errors.New("percent must be between 0 and 1")
	ErrNegativeAmount     = errors.New("amount must not be negative")
	ErrPositionOutOfRange = errors.New("board position must be between 1 and 54")
	ErrPositionTaken      = errors.New("board position already taken in this shuffle")
	ErrInvalidCard        = errors.New("card is not part of the deck")
	ErrCardAlreadyDrawn   = errors.New("card already drawn in this shuffle")
	ErrShuffleComplete    = errors.New("queen of hearts already drawn in this shuffle")
	ErrShuffleOutOfRange  = errors.New("shuffle does not exist yet")
	ErrShuffleMismatch    = errors.New("shuffle was already reset by this draw date")
	ErrQueenNotLast       = errors.New("queen of hearts must be the last drawing of its shuffle")
)

// ValidationError ties a rejected input to the field that caused it.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}
