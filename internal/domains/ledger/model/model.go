package model

// Counts is the ledger's view of one book row
type Counts struct {
	BookID    string `json:"bookId" db:"id"`
	Title     string `json:"title" db:"title"`
	Quantity  int    `json:"quantity" db:"quantity"`
	Available int    `json:"available" db:"available"`
}

// Borrowed is the number of copies out according to the counters
func (c Counts) Borrowed() int {
	return c.Quantity - c.Available
}

// Valid reports whether 0 <= available <= quantity
func (c Counts) Valid() bool {
	return c.Available >= 0 && c.Available <= c.Quantity
}

// Drift is one book whose counters disagree with its open borrow records
type Drift struct {
	BookID            string `json:"bookId"`
	Title             string `json:"title"`
	Quantity          int    `json:"quantity"`
	Available         int    `json:"available"`
	ActiveLoans       int    `json:"activeLoans"`
	ExpectedAvailable int    `json:"expectedAvailable"`
}

// AuditReport is the result of a full ledger audit
type AuditReport struct {
	BooksChecked int     `json:"booksChecked"`
	Drifts       []Drift `json:"drifts"`
	// Loans still open against books that no longer exist
	OrphanLoans map[string]int `json:"orphanLoans,omitempty"`
}

// Clean is true when nothing drifted
func (r *AuditReport) Clean() bool {
	return len(r.Drifts) == 0 && len(r.OrphanLoans) == 0
}
