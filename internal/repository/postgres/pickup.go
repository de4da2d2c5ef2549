package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"rentmarket-backend/internal/domain"
	"rentmarket-backend/internal/repository"
)

type pickupRepository struct {
	db *sql.DB
}

func NewPickupRepository(db *sql.DB) repository.PickupRepository {
	return &pickupRepository{db: db}
}

func (r *pickupRepository) Create(ctx context.Context, p *domain.Pickup) error {
	query := `INSERT INTO pickups (order_id, vendor_id, picked_by, notes, created_on)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	p.CreatedOn = time.Now()
	return r.db.QueryRowContext(ctx, query, p.OrderID, p.VendorID, p.PickedBy, nullString(p.Notes), p.CreatedOn).Scan(&p.ID)
}

func (r *pickupRepository) GetByOrder(ctx context.Context, orderID int64) (*domain.Pickup, error) {
	p := &domain.Pickup{}
	var notes sql.NullString
	query := `SELECT id, order_id, vendor_id, picked_by, notes, created_on FROM pickups WHERE order_id = $1`
	err := r.db.QueryRowContext(ctx, query, orderID).Scan(&p.ID, &p.OrderID, &p.VendorID, &p.PickedBy, &notes, &p.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("pickup for order", orderID)
	}
	if err != nil {
		return nil, err
	}
	p.Notes = notes.String
	return p, nil
}
