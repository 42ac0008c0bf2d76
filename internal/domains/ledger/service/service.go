package service

import (
	"context"
	"fmt"

	"school-library-backend/internal/domains/ledger/model"
	"school-library-backend/internal/domains/ledger/repository"
	"school-library-backend/pkg/database"
	"school-library-backend/pkg/logger"

	"github.com/jmoiron/sqlx"
)

// ServiceInterface - the availability ledger.
// It is the only writer of books.available after a book is created.
// Checkout, Checkin and Resize join the caller's transaction.
type ServiceInterface interface {
	Checkout(ctx context.Context, tx *sqlx.Tx, bookID string) error
	Checkin(ctx context.Context, tx *sqlx.Tx, bookID string) error
	Resize(ctx context.Context, tx *sqlx.Tx, bookID string, newQuantity int) (*model.Counts, error)
	Snapshot(ctx context.Context, bookID string) (*model.Counts, error)
	Audit(ctx context.Context) (*model.AuditReport, error)
	Repair(ctx context.Context, bookID string) (*model.Counts, error)
}

type Service struct {
	db   *sqlx.DB
	repo repository.RepositoryInterface
}

func NewService(db *sqlx.DB, repo repository.RepositoryInterface) ServiceInterface {
	return &Service{db: db, repo: repo}
}

// Checkout takes one copy off the shelf
func (s *Service) Checkout(ctx context.Context, tx *sqlx.Tx, bookID string) error {
	counts, err := s.repo.LockCounts(ctx, tx, bookID)
	if err != nil {
		return err
	}
	if counts.Available <= 0 {
		return model.NewBookUnavailableError(bookID)
	}

	ok, err := s.repo.ShiftAvailable(ctx, tx, bookID, -1)
	if err != nil {
		return err
	}
	if !ok {
		return model.NewBookUnavailableError(bookID)
	}
	return nil
}

// Checkin puts one copy back. Exceeding quantity means the counters were
// already wrong; the transaction is aborted rather than clamped.
func (s *Service) Checkin(ctx context.Context, tx *sqlx.Tx, bookID string) error {
	counts, err := s.repo.LockCounts(ctx, tx, bookID)
	if err != nil {
		return err
	}
	if counts.Available >= counts.Quantity {
		return model.NewLedgerInvariantError(bookID, *counts, +1)
	}

	ok, err := s.repo.ShiftAvailable(ctx, tx, bookID, +1)
	if err != nil {
		return err
	}
	if !ok {
		return model.NewLedgerInvariantError(bookID, *counts, +1)
	}
	return nil
}

// Resize changes total copies, keeping the borrowed count fixed
func (s *Service) Resize(ctx context.Context, tx *sqlx.Tx, bookID string, newQuantity int) (*model.Counts, error) {
	counts, err := s.repo.LockCounts(ctx, tx, bookID)
	if err != nil {
		return nil, err
	}

	borrowed := counts.Borrowed()
	if newQuantity < borrowed {
		return nil, model.NewQuantityBelowBorrowedError(bookID, newQuantity, borrowed)
	}
	if newQuantity == counts.Quantity {
		return counts, nil
	}

	next := model.Counts{
		BookID:    counts.BookID,
		Title:     counts.Title,
		Quantity:  newQuantity,
		Available: newQuantity - borrowed,
	}
	ok, err := s.repo.Resize(ctx, tx, bookID, next.Quantity, next.Available, borrowed)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, model.NewLedgerInvariantError(bookID, *counts, next.Available-counts.Available)
	}
	return &next, nil
}

func (s *Service) Snapshot(ctx context.Context, bookID string) (*model.Counts, error) {
	return s.repo.GetCounts(ctx, bookID)
}

// Audit compares every book's available counter with quantity minus its open loans
func (s *Service) Audit(ctx context.Context) (*model.AuditReport, error) {
	counts, err := s.repo.ListCounts(ctx)
	if err != nil {
		return nil, err
	}
	loans, err := s.repo.ActiveLoansByBook(ctx, s.db)
	if err != nil {
		return nil, err
	}

	report := &model.AuditReport{BooksChecked: len(counts), Drifts: []model.Drift{}}
	for _, c := range counts {
		active := loans[c.BookID]
		delete(loans, c.BookID)

		expected := c.Quantity - active
		if c.Available != expected {
			report.Drifts = append(report.Drifts, model.Drift{
				BookID:            c.BookID,
				Title:             c.Title,
				Quantity:          c.Quantity,
				Available:         c.Available,
				ActiveLoans:       active,
				ExpectedAvailable: expected,
			})
		}
	}
	if len(loans) > 0 {
		report.OrphanLoans = loans
	}

	if !report.Clean() {
		logger.Warn("Ledger audit found drift", map[string]interface{}{
			"books_checked": report.BooksChecked,
			"drifts":        len(report.Drifts),
			"orphan_books":  len(report.OrphanLoans),
		})
	}
	return report, nil
}

// Repair rewrites available from the open loans of one book.
// Refused when the loans alone exceed quantity.
func (s *Service) Repair(ctx context.Context, bookID string) (*model.Counts, error) {
	return database.WithTransactionResult(ctx, s.db, func(tx *sqlx.Tx) (*model.Counts, error) {
		counts, err := s.repo.LockCounts(ctx, tx, bookID)
		if err != nil {
			return nil, err
		}
		active, err := s.repo.CountActiveLoans(ctx, tx, bookID)
		if err != nil {
			return nil, err
		}

		expected := counts.Quantity - active
		if expected < 0 {
			return nil, fmt.Errorf("%w: book_id=%s has %d open loans for %d copies",
				model.ErrLedgerInvariant, bookID, active, counts.Quantity)
		}
		if expected == counts.Available {
			return counts, nil
		}

		ok, err := s.repo.SetAvailable(ctx, tx, bookID, expected)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, model.NewLedgerInvariantError(bookID, *counts, expected-counts.Available)
		}

		logger.Info("Ledger counters repaired", map[string]interface{}{
			"book_id": bookID,
			"from":    counts.Available,
			"to":      expected,
		})
		counts.Available = expected
		return counts, nil
	})
}
