package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"rentmarket-backend/internal/domain"
	"rentmarket-backend/internal/repository"
)

type productRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	p := &domain.Product{}
	query := `SELECT id, vendor_id, name, category, hourly_rate, daily_rate, weekly_rate, sale_price, sellable, quantity_on_hand, tax_rate_override
	          FROM products WHERE id = $1`
	var override sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.VendorID, &p.Name, &p.Category,
		&p.HourlyRate, &p.DailyRate, &p.WeeklyRate, &p.SalePrice, &p.Sellable, &p.QuantityOnHand, &override)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("product", id)
	}
	if err != nil {
		return nil, err
	}
	if override.Valid {
		rate, err := decimalFromString(override.String)
		if err != nil {
			return nil, err
		}
		p.TaxRateOverride = &rate
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, product_id, order_id, quantity, start_date, end_date FROM reservations WHERE product_id = $1`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var res domain.Reservation
		if err := rows.Scan(&res.ID, &res.ProductID, &res.OrderID, &res.Quantity, &res.StartDate, &res.EndDate); err != nil {
			return nil, err
		}
		p.Reservations = append(p.Reservations, res)
	}
	return p, rows.Err()
}

func (r *productRepository) AdjustStock(ctx context.Context, productID int64, delta int) (bool, error) {
	query := `UPDATE products SET quantity_on_hand = quantity_on_hand + $2
	          WHERE id = $1 AND quantity_on_hand + $2 >= 0`
	res, err := r.db.ExecContext(ctx, query, productID, delta)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// ReserveIfAvailable locks the product row, sums holds overlapping the
// window and inserts the new hold only when quantity fits. Check and write
// happen in one transaction so concurrent conversions cannot oversell.
func (r *productRepository) ReserveIfAvailable(ctx context.Context, productID, orderID int64, quantity int, start, end time.Time) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var onHand int
	err = tx.QueryRowContext(ctx, `SELECT quantity_on_hand FROM products WHERE id = $1 FOR UPDATE`, productID).Scan(&onHand)
	if errors.Is(err, sql.ErrNoRows) {
		return false, domain.NewNotFoundError("product", productID)
	}
	if err != nil {
		return false, err
	}

	var reserved int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(quantity), 0) FROM reservations
		 WHERE product_id = $1 AND start_date < $2 AND end_date > $3`,
		productID, end, start).Scan(&reserved)
	if err != nil {
		return false, err
	}

	if onHand-reserved < quantity {
		return false, nil
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO reservations (product_id, order_id, quantity, start_date, end_date) VALUES ($1, $2, $3, $4, $5)`,
		productID, orderID, quantity, start, end)
	if err != nil {
		return false, err
	}
	return true, tx.Commit()
}

func (r *productRepository) ReleaseReservations(ctx context.Context, orderID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE order_id = $1`, orderID)
	return err
}
