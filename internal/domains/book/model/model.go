package model

import "time"

// Category is the closed set of shelf categories
type Category string

const (
	CategoryFiction Category = "fiction"
	CategoryScience Category = "science"
	CategoryHistory Category = "history"
	CategoryArt     Category = "art"
	CategoryEtc     Category = "etc"
)

var categoryLabels = map[Category]string{
	CategoryFiction: "문학",
	CategoryScience: "과학",
	CategoryHistory: "역사",
	CategoryArt:     "예술",
	CategoryEtc:     "기타",
}

// Categories lists every valid category in display order
func Categories() []Category {
	return []Category{CategoryFiction, CategoryScience, CategoryHistory, CategoryArt, CategoryEtc}
}

// CategoryLabel returns the Korean display label, or the raw value when unknown
func CategoryLabel(c Category) string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

// ParseCategory accepts either the code or its display label
func ParseCategory(s string) (Category, bool) {
	c := Category(s)
	if _, ok := categoryLabels[c]; ok {
		return c, true
	}
	for code, label := range categoryLabels {
		if label == s {
			return code, true
		}
	}
	return "", false
}

// Book - Domain Entity (from database)
type Book struct {
	ID              string   `json:"id" db:"id"`
	Title           string   `json:"title" db:"title"`
	Author          string   `json:"author" db:"author"`
	ISBN            *string  `json:"isbn" db:"isbn"`
	Publisher       *string  `json:"publisher" db:"publisher"`
	Category        Category `json:"category" db:"category"`
	PublicationYear *int     `json:"publicationYear" db:"publication_year"`
	Description     *string  `json:"description" db:"description"`

	// Quantity is owned by the entity store; Available only by the ledger
	Quantity  int `json:"quantity" db:"quantity"`
	Available int `json:"available" db:"available"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Borrowed is the number of copies currently out
func (b *Book) Borrowed() int {
	return b.Quantity - b.Available
}
