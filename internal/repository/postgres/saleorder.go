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

type saleOrderRepository struct {
	db *sql.DB
}

func NewSaleOrderRepository(db *sql.DB) repository.SaleOrderRepository {
	return &saleOrderRepository{db: db}
}

const saleOrderColumns = `id, number, linked_order_id, quotation_id, customer_id, vendor_id, items, subtotal,
	tax_rate, tax_amount, shipping_amount, discount_amount, total_amount, status, payment_status,
	confirmed_at, shipped_at, delivered_at, cancelled_at, cancel_reason, created_on, updated_on`

func (r *saleOrderRepository) Create(ctx context.Context, so *domain.SaleOrder) error {
	items, err := jsonbValue(so.Items)
	if err != nil {
		return err
	}
	query := `INSERT INTO sale_orders (number, linked_order_id, quotation_id, customer_id, vendor_id, items,
	          subtotal, tax_rate, tax_amount, shipping_amount, discount_amount, total_amount, status, payment_status,
	          confirmed_at, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17) RETURNING id`
	now := time.Now()
	so.CreatedOn, so.UpdatedOn = now, now
	return r.db.QueryRowContext(ctx, query, so.Number, nullInt64(so.LinkedOrderID), nullInt64(so.QuotationID),
		so.CustomerID, so.VendorID, items, so.Subtotal, so.TaxRate, so.TaxAmount, so.ShippingAmount,
		so.DiscountAmount, so.TotalAmount, so.Status, so.PaymentStatus, nullTime(so.ConfirmedAt),
		so.CreatedOn, so.UpdatedOn).Scan(&so.ID)
}

func (r *saleOrderRepository) GetByID(ctx context.Context, id int64) (*domain.SaleOrder, error) {
	query := `SELECT ` + saleOrderColumns + ` FROM sale_orders WHERE id = $1`
	so, err := scanSaleOrder(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("sale order", id)
	}
	return so, err
}

func (r *saleOrderRepository) GetByLinkedOrder(ctx context.Context, orderID int64) (*domain.SaleOrder, error) {
	query := `SELECT ` + saleOrderColumns + ` FROM sale_orders WHERE linked_order_id = $1`
	so, err := scanSaleOrder(r.db.QueryRowContext(ctx, query, orderID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("sale order for order", orderID)
	}
	return so, err
}

func (r *saleOrderRepository) Update(ctx context.Context, so *domain.SaleOrder) error {
	items, err := jsonbValue(so.Items)
	if err != nil {
		return err
	}
	so.UpdatedOn = time.Now()
	query := `UPDATE sale_orders SET items=$1, status=$2, payment_status=$3, confirmed_at=$4, shipped_at=$5,
	          delivered_at=$6, cancelled_at=$7, cancel_reason=$8, updated_on=$9 WHERE id=$10`
	_, err = r.db.ExecContext(ctx, query, items, so.Status, so.PaymentStatus, nullTime(so.ConfirmedAt),
		nullTime(so.ShippedAt), nullTime(so.DeliveredAt), nullTime(so.CancelledAt), nullString(so.CancelReason),
		so.UpdatedOn, so.ID)
	return err
}

func (r *saleOrderRepository) ListByCustomer(ctx context.Context, customerID int64, status string, page, pageSize int32) ([]domain.SaleOrder, int32, error) {
	return r.list(ctx, "customer_id", customerID, status, page, pageSize)
}

func (r *saleOrderRepository) ListByVendor(ctx context.Context, vendorID int64, status string, page, pageSize int32) ([]domain.SaleOrder, int32, error) {
	return r.list(ctx, "vendor_id", vendorID, status, page, pageSize)
}

func (r *saleOrderRepository) ListAll(ctx context.Context, status string, page, pageSize int32) ([]domain.SaleOrder, int32, error) {
	return r.list(ctx, "", 0, status, page, pageSize)
}

func (r *saleOrderRepository) list(ctx context.Context, ownerCol string, ownerID int64, status string, page, pageSize int32) ([]domain.SaleOrder, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + saleOrderColumns + ` FROM sale_orders WHERE 1=1`
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

	var saleOrders []domain.SaleOrder
	for rows.Next() {
		so, err := scanSaleOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		saleOrders = append(saleOrders, *so)
	}
	return saleOrders, count, rows.Err()
}

func scanSaleOrder(row rowScanner) (*domain.SaleOrder, error) {
	so := &domain.SaleOrder{}
	var items []byte
	var linkedOrder, quotation sql.NullInt64
	var confirmedAt, shippedAt, deliveredAt, cancelledAt sql.NullTime
	var cancelReason sql.NullString
	err := row.Scan(&so.ID, &so.Number, &linkedOrder, &quotation, &so.CustomerID, &so.VendorID, &items,
		&so.Subtotal, &so.TaxRate, &so.TaxAmount, &so.ShippingAmount, &so.DiscountAmount, &so.TotalAmount,
		&so.Status, &so.PaymentStatus, &confirmedAt, &shippedAt, &deliveredAt, &cancelledAt, &cancelReason,
		&so.CreatedOn, &so.UpdatedOn)
	if err != nil {
		return nil, err
	}
	if err := jsonbScan(items, &so.Items); err != nil {
		return nil, err
	}
	so.LinkedOrderID = int64Ptr(linkedOrder)
	so.QuotationID = int64Ptr(quotation)
	so.ConfirmedAt = timePtr(confirmedAt)
	so.ShippedAt = timePtr(shippedAt)
	so.DeliveredAt = timePtr(deliveredAt)
	so.CancelledAt = timePtr(cancelledAt)
	so.CancelReason = cancelReason.String
	return so, nil
}
