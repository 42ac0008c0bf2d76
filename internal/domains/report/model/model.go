package model

import "time"

// Placeholder is shown when a record points at a deleted student or book
const Placeholder = "Unknown"

const (
	DefaultActivitiesLimit = 10
	MaxActivitiesLimit     = 100
)

// Action - kind of activity event
type Action string

const (
	ActionBorrow Action = "borrow"
	ActionReturn Action = "return"
)

var actionLabels = map[Action]string{
	ActionBorrow: "대여",
	ActionReturn: "반납",
}

// ActionLabel returns the Korean display label
func ActionLabel(a Action) string {
	if label, ok := actionLabels[a]; ok {
		return label
	}
	return string(a)
}

// Stats - GET /api/stats
type Stats struct {
	TotalBooks    int `json:"totalBooks"`
	BorrowedBooks int `json:"borrowedBooks"`
	OverdueBooks  int `json:"overdueBooks"`
}

// Activity is one borrow or return event. A returned record yields two.
type Activity struct {
	ID          string    `json:"id"`
	RecordID    string    `json:"recordId"`
	Action      Action    `json:"action"`
	ActionLabel string    `json:"actionLabel"`
	StudentName string    `json:"studentName"`
	BookTitle   string    `json:"bookTitle"`
	Timestamp   time.Time `json:"timestamp"`
}

// OverdueItem - GET /api/overdue-items
type OverdueItem struct {
	ID          string    `json:"id"`
	StudentID   string    `json:"studentId"`
	BookID      string    `json:"bookId"`
	StudentName string    `json:"studentName"`
	BookTitle   string    `json:"bookTitle"`
	DueDate     time.Time `json:"dueDate"`
	DaysOverdue int       `json:"daysOverdue"`
}

// LoanRow is a borrow record joined with whatever is left of its student and book
type LoanRow struct {
	ID         string     `db:"id"`
	StudentID  string     `db:"student_id"`
	BookID     string     `db:"book_id"`
	BorrowDate time.Time  `db:"borrow_date"`
	DueDate    time.Time  `db:"due_date"`
	ReturnDate *time.Time `db:"return_date"`
	Status     string     `db:"status"`

	StudentName  *string `db:"student_name"`
	StudentGrade *int    `db:"student_grade"`
	StudentClass *int    `db:"student_class"`
	BookTitle    *string `db:"book_title"`
}
