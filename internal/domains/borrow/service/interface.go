package service

import (
	"context"

	"school-library-backend/internal/domains/borrow/model"
)

// ServiceInterface - the borrow/return engine.
// Borrow and Return each run as one transaction; there are no retries.
type ServiceInterface interface {
	Borrow(ctx context.Context, req model.BorrowRequest) (*model.BorrowRecord, error)
	Return(ctx context.Context, recordID string) (*model.BorrowRecord, error)
	Get(ctx context.Context, id string) (*model.BorrowRecord, error)
	List(ctx context.Context, filter model.RecordFilter) ([]model.BorrowRecord, error)
}
