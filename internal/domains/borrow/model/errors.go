package model

import (
	"fmt"

	"school-library-backend/internal/shared/apperr"
)

var (
	ErrRecordNotFound  = apperr.New(apperr.ErrNotFound, "RECORD_NOT_FOUND", "borrow record not found")
	ErrAlreadyReturned = apperr.New(apperr.ErrConflict, "ALREADY_RETURNED", "borrow record is already returned")
)

func NewRecordNotFoundError(id string) error {
	return fmt.Errorf("%w: id=%s", ErrRecordNotFound, id)
}

func NewAlreadyReturnedError(id string) error {
	return fmt.Errorf("%w: id=%s", ErrAlreadyReturned, id)
}
