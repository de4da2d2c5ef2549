package postgres

import (
	"database/sql"

	_ "github.com/lib/pq"

	"rentmarket-backend/internal/repository"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.ProductRepository
	repository.QuotationRepository
	repository.OrderRepository
	repository.SaleOrderRepository
	repository.InvoiceRepository
	repository.PickupRepository
	repository.SequenceRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                  db,
		UserRepository:      NewUserRepository(db),
		ProductRepository:   NewProductRepository(db),
		QuotationRepository: NewQuotationRepository(db),
		OrderRepository:     NewOrderRepository(db),
		SaleOrderRepository: NewSaleOrderRepository(db),
		InvoiceRepository:   NewInvoiceRepository(db),
		PickupRepository:    NewPickupRepository(db),
		SequenceRepository:  NewSequenceRepository(db),
	}
}
