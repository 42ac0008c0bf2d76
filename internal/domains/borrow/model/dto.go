package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// BorrowRequest is the engine input. DueDate is required here;
// the HTTP layer fills the default loan period when the client omits it.
type BorrowRequest struct {
	StudentID string    `json:"studentId"`
	BookID    string    `json:"bookId"`
	DueDate   time.Time `json:"dueDate"`
}

func (r BorrowRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.StudentID, validation.Required.Error("studentId is required")),
		validation.Field(&r.BookID, validation.Required.Error("bookId is required")),
		validation.Field(&r.DueDate, validation.Required.Error("dueDate is required")),
	)
}

// CreateBorrowRecordRequest - POST /api/borrow-records
type CreateBorrowRecordRequest struct {
	StudentID string     `json:"studentId"`
	BookID    string     `json:"bookId"`
	DueDate   *time.Time `json:"dueDate"`
}

// ToBorrowRequest applies the default loan period when dueDate is absent
func (r CreateBorrowRecordRequest) ToBorrowRequest(now time.Time, period time.Duration) BorrowRequest {
	due := now.Add(period)
	if r.DueDate != nil {
		due = *r.DueDate
	}
	return BorrowRequest{StudentID: r.StudentID, BookID: r.BookID, DueDate: due.UTC()}
}

// RecordFilter - list filters, combined with AND
type RecordFilter struct {
	StudentID  string
	BookID     string
	ActiveOnly bool
}

// BorrowRecordResponse adds the derived status for clients
type BorrowRecordResponse struct {
	BorrowRecord
	EffectiveStatus Status `json:"effectiveStatus"`
	DaysOverdue     int    `json:"daysOverdue"`
}

func ToResponse(r *BorrowRecord, now time.Time) BorrowRecordResponse {
	return BorrowRecordResponse{
		BorrowRecord:    *r,
		EffectiveStatus: r.EffectiveStatus(now),
		DaysOverdue:     r.DaysOverdue(now),
	}
}

func ToResponses(records []BorrowRecord, now time.Time) []BorrowRecordResponse {
	out := make([]BorrowRecordResponse, 0, len(records))
	for i := range records {
		out = append(out, ToResponse(&records[i], now))
	}
	return out
}
