package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"rentmarket-backend/internal/domain"
)

func quotationRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "number", "customer_id", "vendor_id", "items", "subtotal",
		"tax_rate", "tax_amount", "discount_amount", "discount_type", "total_amount", "status",
		"counter_offers", "notes", "vendor_notes", "approved_at", "approved_by", "rejected_at",
		"rejection_reason", "converted_to_order", "valid_until", "created_on", "updated_on"}).
		AddRow(5, "QUO000005", 7, 3, []byte(`[{"product_id":21,"quantity":2}]`), "600",
			"18", "108", "0", nil, "708", "pending",
			[]byte(`[]`), nil, nil, nil, nil, nil,
			nil, nil, now.AddDate(0, 0, 7), now, now)
}

func TestQuotationCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewQuotationRepository(db)

	mock.ExpectQuery("INSERT INTO quotations").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))

	q := &domain.Quotation{
		Number:      "QUO000005",
		CustomerID:  7,
		VendorID:    3,
		Items:       []domain.LineItem{{ProductID: 21, Quantity: 2}},
		Subtotal:    decimal.NewFromInt(600),
		TaxRate:     decimal.NewFromInt(18),
		TaxAmount:   decimal.NewFromInt(108),
		TotalAmount: decimal.NewFromInt(708),
		Status:      domain.QuotationStatusDraft,
		ValidUntil:  time.Now().AddDate(0, 0, 7),
	}
	assert.NoError(t, repo.Create(context.Background(), q))
	assert.Equal(t, int64(5), q.ID)
	assert.False(t, q.CreatedOn.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuotationGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewQuotationRepository(db)

	t.Run("Hydrates JSONB columns", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM quotations WHERE id").
			WithArgs(int64(5)).
			WillReturnRows(quotationRows())

		q, err := repo.GetByID(context.Background(), 5)
		assert.NoError(t, err)
		assert.Equal(t, "QUO000005", q.Number)
		assert.Equal(t, domain.QuotationStatusPending, q.Status)
		assert.Len(t, q.Items, 1)
		assert.Equal(t, int64(21), q.Items[0].ProductID)
		assert.True(t, q.TotalAmount.Equal(decimal.NewFromInt(708)))
		assert.Nil(t, q.ConvertedToOrder)
	})

	t.Run("Missing row is a typed not-found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM quotations WHERE id").
			WithArgs(int64(99)).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(context.Background(), 99)
		assert.True(t, domain.IsNotFound(err))
	})
}

func TestQuotationExpirePending(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewQuotationRepository(db)
	cutoff := time.Now()

	mock.ExpectExec("UPDATE quotations SET status").
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.ExpirePending(context.Background(), cutoff)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuotationListAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewQuotationRepository(db)

	mock.ExpectQuery("SELECT count").
		WithArgs("pending").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int32(1)))
	mock.ExpectQuery("SELECT (.+) FROM quotations WHERE 1=1 AND status").
		WithArgs("pending", int32(20), int32(0)).
		WillReturnRows(quotationRows())

	quotations, count, err := repo.ListAll(context.Background(), "pending", 1, 20)
	assert.NoError(t, err)
	assert.Equal(t, int32(1), count)
	assert.Len(t, quotations, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
