package unitofwork

import (
	"context"

	"workspace-disputes-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	DisputeRepository() contract.DisputeRepository
	DisputeEventRepository() contract.DisputeEventRepository
	UserRepository() contract.UserRepository
	BookingRepository() contract.BookingRepository
}
