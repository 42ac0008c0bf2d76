package model

import "time"

// Status is the stored lifecycle state of a record
type Status string

const (
	StatusBorrowed Status = "borrowed"
	StatusReturned Status = "returned"

	// StatusOverdue is derived, never stored
	StatusOverdue Status = "overdue"
)

// DefaultLoanPeriod is used when a borrow request omits the due date
const DefaultLoanPeriod = 14 * 24 * time.Hour

// BorrowRecord - Domain Entity (from database)
//
// Lifecycle: [none] --borrow--> borrowed --return--> returned (terminal).
// ReturnDate is set exactly when Status is returned.
type BorrowRecord struct {
	ID         string     `json:"id" db:"id"`
	StudentID  string     `json:"studentId" db:"student_id"`
	BookID     string     `json:"bookId" db:"book_id"`
	BorrowDate time.Time  `json:"borrowDate" db:"borrow_date"`
	DueDate    time.Time  `json:"dueDate" db:"due_date"`
	ReturnDate *time.Time `json:"returnDate" db:"return_date"`
	Status     Status     `json:"status" db:"status"`
	CreatedAt  time.Time  `json:"createdAt" db:"created_at"`
}

// IsActive reports whether the copy is still out
func (r *BorrowRecord) IsActive() bool {
	return r.Status == StatusBorrowed
}

// IsOverdue: borrowed and past due at now
func (r *BorrowRecord) IsOverdue(now time.Time) bool {
	return r.IsActive() && r.DueDate.Before(now)
}

// DaysOverdue counts whole days past due, 0 when not overdue
func (r *BorrowRecord) DaysOverdue(now time.Time) int {
	if !r.IsOverdue(now) {
		return 0
	}
	return int(now.Sub(r.DueDate) / (24 * time.Hour))
}

// EffectiveStatus folds the overdue derivation into the stored status
func (r *BorrowRecord) EffectiveStatus(now time.Time) Status {
	if r.IsOverdue(now) {
		return StatusOverdue
	}
	return r.Status
}
