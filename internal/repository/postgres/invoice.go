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

type invoiceRepository struct {
	db *sql.DB
}

func NewInvoiceRepository(db *sql.DB) repository.InvoiceRepository {
	return &invoiceRepository{db: db}
}

const invoiceColumns = `id, number, order_id, order_kind, customer_id, vendor_id, items, subtotal, discount,
	discount_type, tax_rate, cgst, sgst, igst, tax_amount, total_amount, security_deposit, late_return_fee,
	paid_amount, balance_amount, payment_type, status, payments, due_date, created_on, updated_on`

func (r *invoiceRepository) Create(ctx context.Context, inv *domain.Invoice) error {
	items, err := jsonbValue(inv.Items)
	if err != nil {
		return err
	}
	payments, err := jsonbValue(inv.Payments)
	if err != nil {
		return err
	}
	query := `INSERT INTO invoices (number, order_id, order_kind, customer_id, vendor_id, items, subtotal, discount,
	          discount_type, tax_rate, cgst, sgst, igst, tax_amount, total_amount, security_deposit, late_return_fee,
	          paid_amount, balance_amount, payment_type, status, payments, due_date, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)
	          RETURNING id`
	now := time.Now()
	inv.CreatedOn, inv.UpdatedOn = now, now
	return r.db.QueryRowContext(ctx, query, inv.Number, inv.OrderID, inv.OrderKind, inv.CustomerID, inv.VendorID,
		items, inv.Subtotal, inv.Discount, discountTypeValue(inv.DiscountType), inv.TaxRate, inv.CGST, inv.SGST,
		inv.IGST, inv.TaxAmount, inv.TotalAmount, inv.SecurityDeposit, inv.LateReturnFee, inv.PaidAmount,
		inv.BalanceAmount, inv.PaymentType, inv.Status, payments, inv.DueDate, inv.CreatedOn, inv.UpdatedOn).Scan(&inv.ID)
}

func (r *invoiceRepository) GetByID(ctx context.Context, id int64) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	inv, err := scanInvoice(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("invoice", id)
	}
	return inv, err
}

func (r *invoiceRepository) GetByOrder(ctx context.Context, orderID int64, kind domain.OrderKind) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE order_id = $1 AND order_kind = $2`
	inv, err := scanInvoice(r.db.QueryRowContext(ctx, query, orderID, kind))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("invoice for order", orderID)
	}
	return inv, err
}

func (r *invoiceRepository) Update(ctx context.Context, inv *domain.Invoice) error {
	payments, err := jsonbValue(inv.Payments)
	if err != nil {
		return err
	}
	inv.UpdatedOn = time.Now()
	query := `UPDATE invoices SET paid_amount=$1, balance_amount=$2, status=$3, payments=$4, updated_on=$5 WHERE id=$6`
	_, err = r.db.ExecContext(ctx, query, inv.PaidAmount, inv.BalanceAmount, inv.Status, payments, inv.UpdatedOn, inv.ID)
	return err
}

func (r *invoiceRepository) ListByCustomer(ctx context.Context, customerID int64, status string, page, pageSize int32) ([]domain.Invoice, int32, error) {
	return r.list(ctx, "customer_id", customerID, status, page, pageSize)
}

func (r *invoiceRepository) ListByVendor(ctx context.Context, vendorID int64, status string, page, pageSize int32) ([]domain.Invoice, int32, error) {
	return r.list(ctx, "vendor_id", vendorID, status, page, pageSize)
}

func (r *invoiceRepository) ListAll(ctx context.Context, status string, page, pageSize int32) ([]domain.Invoice, int32, error) {
	return r.list(ctx, "", 0, status, page, pageSize)
}

func (r *invoiceRepository) list(ctx context.Context, ownerCol string, ownerID int64, status string, page, pageSize int32) ([]domain.Invoice, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE 1=1`
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

	var invoices []domain.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, err
		}
		invoices = append(invoices, *inv)
	}
	return invoices, count, rows.Err()
}

func (r *invoiceRepository) ListUnpaidDue(ctx context.Context, cutoff time.Time) ([]domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices
	          WHERE status NOT IN ($1, $2) AND balance_amount > 0 AND due_date < $3`
	rows, err := r.db.QueryContext(ctx, query, domain.InvoiceStatusPaid, domain.InvoiceStatusCancelled, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []domain.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, *inv)
	}
	return invoices, rows.Err()
}

func scanInvoice(row rowScanner) (*domain.Invoice, error) {
	inv := &domain.Invoice{}
	var items, payments []byte
	var discountType sql.NullString
	err := row.Scan(&inv.ID, &inv.Number, &inv.OrderID, &inv.OrderKind, &inv.CustomerID, &inv.VendorID, &items,
		&inv.Subtotal, &inv.Discount, &discountType, &inv.TaxRate, &inv.CGST, &inv.SGST, &inv.IGST,
		&inv.TaxAmount, &inv.TotalAmount, &inv.SecurityDeposit, &inv.LateReturnFee, &inv.PaidAmount,
		&inv.BalanceAmount, &inv.PaymentType, &inv.Status, &payments, &inv.DueDate, &inv.CreatedOn, &inv.UpdatedOn)
	if err != nil {
		return nil, err
	}
	if err := jsonbScan(items, &inv.Items); err != nil {
		return nil, err
	}
	if err := jsonbScan(payments, &inv.Payments); err != nil {
		return nil, err
	}
	if discountType.Valid {
		dt := domain.DiscountType(discountType.String)
		inv.DiscountType = &dt
	}
	return inv, nil
}
