package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"rentmarket-backend/internal/domain"
	"rentmarket-backend/internal/repository"
)

type orderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `id, number, quotation_id, customer_id, vendor_id, items, subtotal, tax_amount,
	discount_amount, total_amount, security_deposit, shipping_address, status, payment_status, pickup_date, created_on, updated_on`

func (r *orderRepository) Create(ctx context.Context, o *domain.Order) error {
	items, err := jsonbValue(o.Items)
	if err != nil {
		return err
	}
	query := `INSERT INTO orders (number, quotation_id, customer_id, vendor_id, items, subtotal, tax_amount,
	          discount_amount, total_amount, security_deposit, shipping_address, status, payment_status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15) RETURNING id`
	now := time.Now()
	o.CreatedOn, o.UpdatedOn = now, now
	return r.db.QueryRowContext(ctx, query, o.Number, o.QuotationID, o.CustomerID, o.VendorID, items,
		o.Subtotal, o.TaxAmount, o.DiscountAmount, o.TotalAmount, o.SecurityDeposit,
		nullString(o.ShippingAddress), o.Status, o.PaymentStatus, o.CreatedOn, o.UpdatedOn).Scan(&o.ID)
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	o, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("order", id)
	}
	return o, err
}

func (r *orderRepository) Update(ctx context.Context, o *domain.Order) error {
	items, err := jsonbValue(o.Items)
	if err != nil {
		return err
	}
	o.UpdatedOn = time.Now()
	query := `UPDATE orders SET items=$1, status=$2, payment_status=$3, pickup_date=$4, updated_on=$5 WHERE id=$6`
	_, err = r.db.ExecContext(ctx, query, items, o.Status, o.PaymentStatus, nullTime(o.PickupDate), o.UpdatedOn, o.ID)
	return err
}

func (r *orderRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	return err
}

func (r *orderRepository) ListByCustomer(ctx context.Context, customerID int64, status string, page, pageSize int32) ([]domain.Order, int32, error) {
	return r.list(ctx, "customer_id", customerID, status, page, pageSize)
}

func (r *orderRepository) ListByVendor(ctx context.Context, vendorID int64, status string, page, pageSize int32) ([]domain.Order, int32, error) {
	return r.list(ctx, "vendor_id", vendorID, status, page, pageSize)
}

func (r *orderRepository) ListAll(ctx context.Context, status string, page, pageSize int32) ([]domain.Order, int32, error) {
	return r.list(ctx, "", 0, status, page, pageSize)
}

func (r *orderRepository) list(ctx context.Context, ownerCol string, ownerID int64, status string, page, pageSize int32) ([]domain.Order, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + orderColumns + ` FROM orders WHERE 1=1`
	var args []interface{}
	argIdx := 1
	if ownerCol != "" {
		query += fmt.Sprintf(" AND %s = $%d", ownerCol, argIdx)
		args = append(args, ownerID)
		argIdx++
	}
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") as sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY created_on DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, *o)
	}
	return orders, count, rows.Err()
}

func (r *orderRepository) ListWithoutMirror(ctx context.Context) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders o
	          WHERE o.status != $1 AND NOT EXISTS (SELECT 1 FROM sale_orders so WHERE so.linked_order_id = o.id)`
	rows, err := r.db.QueryContext(ctx, query, domain.OrderStatusCancelled)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	o := &domain.Order{}
	var items []byte
	var shippingAddress sql.NullString
	var pickupDate sql.NullTime
	err := row.Scan(&o.ID, &o.Number, &o.QuotationID, &o.CustomerID, &o.VendorID, &items, &o.Subtotal,
		&o.TaxAmount, &o.DiscountAmount, &o.TotalAmount, &o.SecurityDeposit, &shippingAddress,
		&o.Status, &o.PaymentStatus, &pickupDate, &o.CreatedOn, &o.UpdatedOn)
	if err != nil {
		return nil, err
	}
	if err := jsonbScan(items, &o.Items); err != nil {
		return nil, err
	}
	o.ShippingAddress = shippingAddress.String
	o.PickupDate = timePtr(pickupDate)
	return o, nil
}
