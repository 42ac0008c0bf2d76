package model

// ========================================
// IMPORT ROW MODEL
// ========================================

// ImportBookRow represents one data row of a CSV/XLSX import file.
// Row is the 1-based line number in the source, used for error reporting.
type ImportBookRow struct {
	Row             int     `json:"row"`
	Title           string  `json:"title"`
	Author          string  `json:"author"`
	Category        string  `json:"category"` // code or Korean label
	Quantity        int     `json:"quantity"`
	ISBN            *string `json:"isbn,omitempty"`
	Publisher       *string `json:"publisher,omitempty"`
	PublicationYear *int    `json:"publicationYear,omitempty"`
	Description     *string `json:"description,omitempty"`
}

// ImportColumns is the expected header, case-insensitive, any order
var ImportColumns = []string{"title", "author", "category", "quantity", "isbn", "publisher", "publication_year", "description"}

// ========================================
// VALIDATION ERROR MODEL
// ========================================

// ImportValidationError represents one rejected field of one row
type ImportValidationError struct {
	Row   int    `json:"row"`
	Field string `json:"field"`
	Value string `json:"value,omitempty"`
	Error string `json:"error"`
}

// ========================================
// BULK IMPORT RESULT
// ========================================

// BulkImportResult is returned after an import run.
// The import is all-or-nothing: any row error means nothing was created.
type BulkImportResult struct {
	Success      bool                    `json:"success"`
	TotalRows    int                     `json:"totalRows"`
	SuccessRows  int                     `json:"successRows,omitempty"`
	FailedRows   int                     `json:"failedRows,omitempty"`
	Errors       []ImportValidationError `json:"errors,omitempty"`
	CreatedBooks []string                `json:"createdBookIds,omitempty"`
}
