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

type quotationRepository struct {
	db *sql.DB
}

func NewQuotationRepository(db *sql.DB) repository.QuotationRepository {
	return &quotationRepository{db: db}
}

const quotationColumns = `id, number, customer_id, vendor_id, items, subtotal, tax_rate, tax_amount,
	discount_amount, discount_type, total_amount, status, counter_offers, notes, vendor_notes,
	approved_at, approved_by, rejected_at, rejection_reason, converted_to_order, valid_until, created_on, updated_on`

func (r *quotationRepository) Create(ctx context.Context, q *domain.Quotation) error {
	items, err := jsonbValue(q.Items)
	if err != nil {
		return err
	}
	offers, err := jsonbValue(q.CounterOffers)
	if err != nil {
		return err
	}
	query := `INSERT INTO quotations (number, customer_id, vendor_id, items, subtotal, tax_rate, tax_amount,
	          discount_amount, discount_type, total_amount, status, counter_offers, notes, vendor_notes, valid_until, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17) RETURNING id`
	now := time.Now()
	q.CreatedOn, q.UpdatedOn = now, now
	return r.db.QueryRowContext(ctx, query, q.Number, q.CustomerID, q.VendorID, items, q.Subtotal, q.TaxRate,
		q.TaxAmount, q.DiscountAmount, discountTypeValue(q.DiscountType), q.TotalAmount, q.Status, offers,
		nullString(q.Notes), nullString(q.VendorNotes), q.ValidUntil, q.CreatedOn, q.UpdatedOn).Scan(&q.ID)
}

func (r *quotationRepository) GetByID(ctx context.Context, id int64) (*domain.Quotation, error) {
	query := `SELECT ` + quotationColumns + ` FROM quotations WHERE id = $1`
	q, err := scanQuotation(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("quotation", id)
	}
	return q, err
}

func (r *quotationRepository) Update(ctx context.Context, q *domain.Quotation) error {
	items, err := jsonbValue(q.Items)
	if err != nil {
		return err
	}
	offers, err := jsonbValue(q.CounterOffers)
	if err != nil {
		return err
	}
	q.UpdatedOn = time.Now()
	query := `UPDATE quotations SET items=$1, subtotal=$2, tax_rate=$3, tax_amount=$4, discount_amount=$5,
	          discount_type=$6, total_amount=$7, status=$8, counter_offers=$9, notes=$10, vendor_notes=$11,
	          approved_at=$12, approved_by=$13, rejected_at=$14, rejection_reason=$15, converted_to_order=$16, updated_on=$17
	          WHERE id=$18`
	_, err = r.db.ExecContext(ctx, query, items, q.Subtotal, q.TaxRate, q.TaxAmount, q.DiscountAmount,
		discountTypeValue(q.DiscountType), q.TotalAmount, q.Status, offers, nullString(q.Notes), nullString(q.VendorNotes),
		nullTime(q.ApprovedAt), nullInt64(q.ApprovedBy), nullTime(q.RejectedAt), nullString(q.RejectionReason),
		nullInt64(q.ConvertedToOrder), q.UpdatedOn, q.ID)
	return err
}

func (r *quotationRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM quotations WHERE id = $1`, id)
	return err
}

func (r *quotationRepository) ListByCustomer(ctx context.Context, customerID int64, status string, page, pageSize int32) ([]domain.Quotation, int32, error) {
	return r.list(ctx, "customer_id", customerID, status, page, pageSize)
}

func (r *quotationRepository) ListByVendor(ctx context.Context, vendorID int64, status string, page, pageSize int32) ([]domain.Quotation, int32, error) {
	return r.list(ctx, "vendor_id", vendorID, status, page, pageSize)
}

func (r *quotationRepository) ListAll(ctx context.Context, status string, page, pageSize int32) ([]domain.Quotation, int32, error) {
	return r.list(ctx, "", 0, status, page, pageSize)
}

func (r *quotationRepository) list(ctx context.Context, ownerCol string, ownerID int64, status string, page, pageSize int32) ([]domain.Quotation, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + quotationColumns + ` FROM quotations WHERE 1=1`
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

	var quotations []domain.Quotation
	for rows.Next() {
		q, err := scanQuotation(rows)
		if err != nil {
			return nil, 0, err
		}
		quotations = append(quotations, *q)
	}
	return quotations, count, rows.Err()
}

func (r *quotationRepository) ExpirePending(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `UPDATE quotations SET status = $1, updated_on = $2
	          WHERE status IN ($3, $4) AND valid_until < $5`
	res, err := r.db.ExecContext(ctx, query, domain.QuotationStatusExpired, time.Now(),
		domain.QuotationStatusDraft, domain.QuotationStatusPending, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanQuotation(row rowScanner) (*domain.Quotation, error) {
	q := &domain.Quotation{}
	var items, offers []byte
	var discountType, notes, vendorNotes, rejectionReason sql.NullString
	var approvedAt, rejectedAt sql.NullTime
	var approvedBy, converted sql.NullInt64
	err := row.Scan(&q.ID, &q.Number, &q.CustomerID, &q.VendorID, &items, &q.Subtotal, &q.TaxRate, &q.TaxAmount,
		&q.DiscountAmount, &discountType, &q.TotalAmount, &q.Status, &offers, &notes, &vendorNotes,
		&approvedAt, &approvedBy, &rejectedAt, &rejectionReason, &converted, &q.ValidUntil, &q.CreatedOn, &q.UpdatedOn)
	if err != nil {
		return nil, err
	}
	if err := jsonbScan(items, &q.Items); err != nil {
		return nil, err
	}
	if err := jsonbScan(offers, &q.CounterOffers); err != nil {
		return nil, err
	}
	if discountType.Valid {
		dt := domain.DiscountType(discountType.String)
		q.DiscountType = &dt
	}
	q.Notes = notes.String
	q.VendorNotes = vendorNotes.String
	q.RejectionReason = rejectionReason.String
	q.ApprovedAt = timePtr(approvedAt)
	q.RejectedAt = timePtr(rejectedAt)
	q.ApprovedBy = int64Ptr(approvedBy)
	q.ConvertedToOrder = int64Ptr(converted)
	return q, nil
}

func discountTypeValue(dt *domain.DiscountType) sql.NullString {
	if dt == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*dt), Valid: true}
}
