package model

import (
	"fmt"

	"school-library-backend/internal/shared/apperr"
)

var (
	ErrBookNotFound       = apperr.New(apperr.ErrNotFound, "BOOK_NOT_FOUND", "book not found")
	ErrBookHasActiveLoans = apperr.New(apperr.ErrConflict, "HAS_ACTIVE_LOANS", "book has copies on loan and cannot be deleted")
)

// NewBookNotFoundError creates a detailed not found error
func NewBookNotFoundError(id string) error {
	return fmt.Errorf("%w: id=%s", ErrBookNotFound, id)
}

// NewBookHasActiveLoansError reports how many loans block the delete
func NewBookHasActiveLoansError(id string, active int) error {
	return ErrBookHasActiveLoans.WithDetails(map[string]any{"bookId": id, "activeLoans": active})
}
