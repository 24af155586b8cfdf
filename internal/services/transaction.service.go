package services

import (
	"context"

	"gatehouse/internal/database"
	"gatehouse/internal/logger"

	"gorm.io/gorm"
)

type txContextKey struct{}

// Transactor is the transaction boundary controllers depend on, so tests
// can substitute a pass-through fake.
type Transactor interface {
	Execute(ctx context.Context, fn func(txCtx context.Context) error) error
}

// TransactionService runs a function inside a single database transaction.
// The transaction handle travels in the context so repositories can pick it
// up transparently via GetTransaction.
type TransactionService struct {
	db  database.DB
	log logger.Logger
}

func NewTransactionService(db database.DB) *TransactionService {
	return &TransactionService{
		db:  db,
		log: logger.New("TransactionService"),
	}
}

func (s *TransactionService) Execute(ctx context.Context, fn func(txCtx context.Context) error) error {
	log := s.log.Function("Execute")

	return s.db.SQLWithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := context.WithValue(ctx, txContextKey{}, tx)
		if err := fn(txCtx); err != nil {
			log.Debug("rolling back transaction", "error", err)
			return err
		}
		return nil
	})
}

// GetTransaction returns the transaction bound to ctx, if any.
func GetTransaction(ctx context.Context) (*gorm.DB, bool) {
	tx, ok := ctx.Value(txContextKey{}).(*gorm.DB)
	return tx, ok
}
