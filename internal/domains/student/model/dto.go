package model

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// CreateStudentRequest - POST /api/students
type CreateStudentRequest struct {
	Name   string `json:"name"`
	Grade  int    `json:"grade"`
	Class  int    `json:"class"`
	Number int    `json:"number"`
}

func (r CreateStudentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required.Error("name is required"), validation.Length(1, 100)),
		validation.Field(&r.Grade, validation.Required.Error("grade must be at least 1"), validation.Min(1)),
		validation.Field(&r.Class, validation.Required.Error("class must be at least 1"), validation.Min(1)),
		validation.Field(&r.Number, validation.Required.Error("number must be at least 1"), validation.Min(1)),
	)
}

// UpdateStudentRequest - PUT/PATCH /api/students/:id, nil fields unchanged
type UpdateStudentRequest struct {
	Name   *string `json:"name"`
	Grade  *int    `json:"grade"`
	Class  *int    `json:"class"`
	Number *int    `json:"number"`
}

// Apply merges non-nil fields into s
func (r UpdateStudentRequest) Apply(s *Student) {
	if r.Name != nil {
		s.Name = strings.TrimSpace(*r.Name)
	}
	if r.Grade != nil {
		s.Grade = *r.Grade
	}
	if r.Class != nil {
		s.Class = *r.Class
	}
	if r.Number != nil {
		s.Number = *r.Number
	}
}

// ValidateStudent re-checks a merged entity
func ValidateStudent(s *Student) error {
	return validation.ValidateStruct(s,
		validation.Field(&s.Name, validation.Required.Error("name is required"), validation.Length(1, 100)),
		validation.Field(&s.Grade, validation.Required.Error("grade must be at least 1"), validation.Min(1)),
		validation.Field(&s.Class, validation.Required.Error("class must be at least 1"), validation.Min(1)),
		validation.Field(&s.Number, validation.Required.Error("number must be at least 1"), validation.Min(1)),
	)
}

// StudentFilter - Filter object for database query
type StudentFilter struct {
	Search string // substring over name
}

type DeleteStudentResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}
