package service

import (
	"context"
	"time"

	"school-library-backend/internal/domains/borrow/model"
	"school-library-backend/internal/domains/borrow/repository"
	ledger "school-library-backend/internal/domains/ledger/service"
	studentRepo "school-library-backend/internal/domains/student/repository"
	"school-library-backend/internal/shared/apperr"
	"school-library-backend/internal/shared/metrics"
	"school-library-backend/internal/shared/utils"
	"school-library-backend/pkg/clock"
	"school-library-backend/pkg/database"
	"school-library-backend/pkg/logger"

	"github.com/jmoiron/sqlx"
)

type Service struct {
	db          *sqlx.DB
	repo        repository.RepositoryInterface
	studentRepo studentRepo.RepositoryInterface
	ledger      ledger.ServiceInterface
	clock       clock.Clock
}

func NewService(
	db *sqlx.DB,
	repo repository.RepositoryInterface,
	studentRepo studentRepo.RepositoryInterface,
	ledger ledger.ServiceInterface,
	clk clock.Clock,
) ServiceInterface {
	return &Service{
		db:          db,
		repo:        repo,
		studentRepo: studentRepo,
		ledger:      ledger,
		clock:       clk,
	}
}

// now is truncated to what Postgres stores so returned values match a re-read
func (s *Service) now() time.Time {
	return s.clock.Now().UTC().Truncate(time.Microsecond)
}

// Borrow:
//  1. student must exist (row held until commit)
//  2. ledger checkout: book must exist and have a free copy
//  3. insert the borrowed record
func (s *Service) Borrow(ctx context.Context, req model.BorrowRequest) (record *model.BorrowRecord, err error) {
	defer func() {
		metrics.LoanOperations.WithLabelValues("borrow", metrics.Outcome(err)).Inc()
	}()

	if err := req.Validate(); err != nil {
		return nil, apperr.Validation(err)
	}

	now := s.now()
	record, err = database.WithTransactionResult(ctx, s.db, func(tx *sqlx.Tx) (*model.BorrowRecord, error) {
		if _, err := s.studentRepo.GetByIDForShare(ctx, tx, req.StudentID); err != nil {
			return nil, err
		}

		if err := s.ledger.Checkout(ctx, tx, req.BookID); err != nil {
			return nil, err
		}

		rec := &model.BorrowRecord{
			ID:         utils.NewID(),
			StudentID:  req.StudentID,
			BookID:     req.BookID,
			BorrowDate: now,
			DueDate:    req.DueDate.UTC().Truncate(time.Microsecond),
			Status:     model.StatusBorrowed,
			CreatedAt:  now,
		}
		if err := s.repo.Create(ctx, tx, rec); err != nil {
			return nil, err
		}
		return rec, nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Book borrowed", map[string]interface{}{
		"record_id":  record.ID,
		"student_id": record.StudentID,
		"book_id":    record.BookID,
		"due_date":   record.DueDate,
	})
	return record, nil
}

// Return closes a borrowed record and puts the copy back.
// Returning twice is an error, not a no-op.
func (s *Service) Return(ctx context.Context, recordID string) (record *model.BorrowRecord, err error) {
	defer func() {
		metrics.LoanOperations.WithLabelValues("return", metrics.Outcome(err)).Inc()
	}()

	now := s.now()
	record, err = database.WithTransactionResult(ctx, s.db, func(tx *sqlx.Tx) (*model.BorrowRecord, error) {
		rec, err := s.repo.GetByIDForUpdate(ctx, tx, recordID)
		if err != nil {
			return nil, err
		}
		if rec.Status != model.StatusBorrowed {
			return nil, model.NewAlreadyReturnedError(recordID)
		}

		ok, err := s.repo.MarkReturned(ctx, tx, recordID, now)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, model.NewAlreadyReturnedError(recordID)
		}

		if err := s.ledger.Checkin(ctx, tx, rec.BookID); err != nil {
			return nil, err
		}

		rec.Status = model.StatusReturned
		rec.ReturnDate = &now
		return rec, nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Book returned", map[string]interface{}{
		"record_id": record.ID,
		"book_id":   record.BookID,
		"overdue":   record.DueDate.Before(now),
	})
	return record, nil
}

func (s *Service) Get(ctx context.Context, id string) (*model.BorrowRecord, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter model.RecordFilter) ([]model.BorrowRecord, error) {
	return s.repo.List(ctx, filter)
}
