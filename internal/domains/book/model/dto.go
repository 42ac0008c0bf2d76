package model

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ============ DTOs ============

// CreateBookRequest - POST /api/books
type CreateBookRequest struct {
	Title           string   `json:"title"`
	Author          string   `json:"author"`
	ISBN            *string  `json:"isbn"`
	Publisher       *string  `json:"publisher"`
	Category        Category `json:"category"`
	PublicationYear *int     `json:"publicationYear"`
	Quantity        int      `json:"quantity"`
	Description     *string  `json:"description"`
}

// Normalize trims text fields and drops blank optionals
func (r *CreateBookRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Author = strings.TrimSpace(r.Author)
	r.ISBN = trimOptional(r.ISBN)
	r.Publisher = trimOptional(r.Publisher)
	r.Description = trimOptional(r.Description)
}

func (r CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required.Error("title is required"), validation.Length(1, 255)),
		validation.Field(&r.Author, validation.Required.Error("author is required"), validation.Length(1, 255)),
		validation.Field(&r.Category, validation.Required.Error("category is required"), validation.In(categoryRules()...)),
		validation.Field(&r.Quantity, validation.Required.Error("quantity must be at least 1"), validation.Min(1)),
		validation.Field(&r.PublicationYear, validation.Min(0), validation.Max(9999)),
		validation.Field(&r.ISBN, validation.Length(0, 32)),
	)
}

// UpdateBookRequest - PUT/PATCH /api/books/:id
// nil fields are left unchanged
type UpdateBookRequest struct {
	Title           *string   `json:"title"`
	Author          *string   `json:"author"`
	ISBN            *string   `json:"isbn"`
	Publisher       *string   `json:"publisher"`
	Category        *Category `json:"category"`
	PublicationYear *int      `json:"publicationYear"`
	Quantity        *int      `json:"quantity"`
	Description     *string   `json:"description"`
}

// Apply merges the non-nil fields into b, except Quantity which goes through the ledger
func (r UpdateBookRequest) Apply(b *Book) {
	if r.Title != nil {
		b.Title = strings.TrimSpace(*r.Title)
	}
	if r.Author != nil {
		b.Author = strings.TrimSpace(*r.Author)
	}
	if r.ISBN != nil {
		b.ISBN = trimOptional(r.ISBN)
	}
	if r.Publisher != nil {
		b.Publisher = trimOptional(r.Publisher)
	}
	if r.Category != nil {
		b.Category = *r.Category
	}
	if r.PublicationYear != nil {
		b.PublicationYear = r.PublicationYear
	}
	if r.Description != nil {
		b.Description = trimOptional(r.Description)
	}
}

// ValidateBook re-checks a merged entity before it is persisted
func ValidateBook(b *Book) error {
	return validation.ValidateStruct(b,
		validation.Field(&b.Title, validation.Required.Error("title is required"), validation.Length(1, 255)),
		validation.Field(&b.Author, validation.Required.Error("author is required"), validation.Length(1, 255)),
		validation.Field(&b.Category, validation.Required, validation.In(categoryRules()...)),
		validation.Field(&b.Quantity, validation.Required.Error("quantity must be at least 1"), validation.Min(1)),
		validation.Field(&b.PublicationYear, validation.Min(0), validation.Max(9999)),
		validation.Field(&b.ISBN, validation.Length(0, 32)),
	)
}

// BookFilter - Filter object for database query
type BookFilter struct {
	Search string // substring over title, author, category
}

// AvailabilityResponse - GET /api/books/:id/availability
type AvailabilityResponse struct {
	BookID    string `json:"bookId"`
	Quantity  int    `json:"quantity"`
	Available int    `json:"available"`
	Borrowed  int    `json:"borrowed"`
}

// DeleteBookResponse - DELETE /api/books/:id
type DeleteBookResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

func categoryRules() []interface{} {
	out := make([]interface{}, 0, len(categoryLabels))
	for _, c := range Categories() {
		out = append(out, c)
	}
	return out
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
