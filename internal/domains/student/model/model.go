package model

import (
	"fmt"
	"time"
)

// Student - Domain Entity (from database)
type Student struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Grade     int       `json:"grade" db:"grade"`
	Class     int       `json:"class" db:"class"`
	Number    int       `json:"number" db:"number"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// DisplayLabel renders "name (grade학년 class반)"
func DisplayLabel(s *Student) string {
	return fmt.Sprintf("%s (%d학년 %d반)", s.Name, s.Grade, s.Class)
}

// BorrowCountResponse - GET /api/students/:id/borrow-count
// Flattened like the student object plus the count of open loans.
type BorrowCountResponse struct {
	Student
	BorrowedCount int `json:"borrowedCount"`
}
