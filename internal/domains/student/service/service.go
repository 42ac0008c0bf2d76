package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"school-library-backend/internal/domains/student/model"
	"school-library-backend/internal/domains/student/repository"
	"school-library-backend/internal/shared/apperr"
	"school-library-backend/internal/shared/utils"
	"school-library-backend/pkg/clock"
	"school-library-backend/pkg/database"
	"school-library-backend/pkg/logger"

	"github.com/jmoiron/sqlx"
)

type Service struct {
	db    *sqlx.DB
	repo  repository.RepositoryInterface
	loans LoanCounter
	clock clock.Clock
}

func NewService(db *sqlx.DB, repo repository.RepositoryInterface, loans LoanCounter, clk clock.Clock) ServiceInterface {
	return &Service{db: db, repo: repo, loans: loans, clock: clk}
}

func (s *Service) CreateStudent(ctx context.Context, req model.CreateStudentRequest) (*model.Student, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := req.Validate(); err != nil {
		return nil, apperr.Validation(err)
	}

	student := &model.Student{
		ID:        utils.NewID(),
		Name:      req.Name,
		Grade:     req.Grade,
		Class:     req.Class,
		Number:    req.Number,
		CreatedAt: s.clock.Now().UTC().Truncate(time.Microsecond),
	}
	if err := s.repo.Create(ctx, s.db, student); err != nil {
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	logger.Info("Student created", map[string]interface{}{"student_id": student.ID})
	return student, nil
}

func (s *Service) GetStudent(ctx context.Context, id string) (*model.Student, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListStudents(ctx context.Context, filter model.StudentFilter) ([]model.Student, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) UpdateStudent(ctx context.Context, id string, req model.UpdateStudentRequest) (*model.Student, error) {
	return database.WithTransactionResult(ctx, s.db, func(tx *sqlx.Tx) (*model.Student, error) {
		existing, err := s.repo.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return nil, err
		}

		req.Apply(existing)
		if err := model.ValidateStudent(existing); err != nil {
			return nil, apperr.Validation(err)
		}

		if err := s.repo.Update(ctx, tx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	})
}

// DeleteStudent refuses while the student still holds a book
func (s *Service) DeleteStudent(ctx context.Context, id string) (*model.DeleteStudentResponse, error) {
	deleted, err := database.WithTransactionResult(ctx, s.db, func(tx *sqlx.Tx) (bool, error) {
		if _, err := s.repo.GetByIDForUpdate(ctx, tx, id); err != nil {
			if errors.Is(err, model.ErrStudentNotFound) {
				return false, nil
			}
			return false, err
		}

		active, err := s.loans.CountActiveByStudent(ctx, tx, id)
		if err != nil {
			return false, fmt.Errorf("failed to check active loans: %w", err)
		}
		if active > 0 {
			return false, model.NewStudentHasActiveLoansError(id, active)
		}

		return s.repo.Delete(ctx, tx, id)
	})
	if err != nil {
		return nil, err
	}

	if deleted {
		logger.Info("Student deleted", map[string]interface{}{"student_id": id})
	}
	return &model.DeleteStudentResponse{ID: id, Deleted: deleted}, nil
}

// GetBorrowCount counts records with status borrowed, overdue ones included
func (s *Service) GetBorrowCount(ctx context.Context, id string) (*model.BorrowCountResponse, error) {
	student, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	n, err := s.loans.CountActiveByStudent(ctx, s.db, id)
	if err != nil {
		return nil, fmt.Errorf("failed to count loans: %w", err)
	}
	return &model.BorrowCountResponse{Student: *student, BorrowedCount: n}, nil
}
