package model

import (
	"fmt"

	"school-library-backend/internal/shared/apperr"
)

var (
	ErrStudentNotFound       = apperr.New(apperr.ErrNotFound, "STUDENT_NOT_FOUND", "student not found")
	ErrStudentHasActiveLoans = apperr.New(apperr.ErrConflict, "HAS_ACTIVE_LOANS", "student has books on loan and cannot be deleted")
)

func NewStudentNotFoundError(id string) error {
	return fmt.Errorf("%w: id=%s", ErrStudentNotFound, id)
}

func NewStudentHasActiveLoansError(id string, active int) error {
	return ErrStudentHasActiveLoans.WithDetails(map[string]any{"studentId": id, "activeLoans": active})
}
