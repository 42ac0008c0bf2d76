package model

import (
	"errors"
	"fmt"

	"school-library-backend/internal/shared/apperr"
)

var (
	ErrBookUnavailable       = apperr.New(apperr.ErrConflict, "BOOK_UNAVAILABLE", "no copies available")
	ErrQuantityBelowBorrowed = apperr.New(apperr.ErrConflict, "QUANTITY_BELOW_BORROWED", "quantity cannot be lower than the number of copies on loan")

	// ErrLedgerInvariant means a guarded counter update was refused.
	// Not a client error: it maps to 500.
	ErrLedgerInvariant = errors.New("ledger invariant violated")
)

func NewBookUnavailableError(bookID string) error {
	return fmt.Errorf("%w: book_id=%s", ErrBookUnavailable, bookID)
}

func NewQuantityBelowBorrowedError(bookID string, requested, borrowed int) error {
	return ErrQuantityBelowBorrowed.WithDetails(map[string]any{
		"bookId":    bookID,
		"requested": requested,
		"borrowed":  borrowed,
	})
}

func NewLedgerInvariantError(bookID string, c Counts, delta int) error {
	return fmt.Errorf("%w: book_id=%s quantity=%d available=%d delta=%d",
		ErrLedgerInvariant, bookID, c.Quantity, c.Available, delta)
}
