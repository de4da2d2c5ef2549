package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"rentmarket-backend/internal/domain"
)

func TestProductGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewProductRepository(db)
	productColumns := []string{"id", "vendor_id", "name", "category", "hourly_rate", "daily_rate",
		"weekly_rate", "sale_price", "sellable", "quantity_on_hand", "tax_rate_override"}

	t.Run("Loads the product with its reservations", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM products WHERE id").
			WithArgs(int64(21)).
			WillReturnRows(sqlmock.NewRows(productColumns).
				AddRow(21, 3, "Projector", "Electronics", "10", "100", "500", "0", false, 5, nil))
		mock.ExpectQuery("SELECT (.+) FROM reservations WHERE product_id").
			WithArgs(int64(21)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "order_id", "quantity", "start_date", "end_date"}).
				AddRow(1, 21, 42, 2, time.Now(), time.Now().AddDate(0, 0, 3)))

		p, err := repo.GetByID(context.Background(), 21)
		assert.NoError(t, err)
		assert.Equal(t, "Projector", p.Name)
		assert.Nil(t, p.TaxRateOverride)
		assert.Len(t, p.Reservations, 1)
		assert.Equal(t, int64(42), p.Reservations[0].OrderID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing product is a typed not-found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM products WHERE id").
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows(productColumns))

		_, err := repo.GetByID(context.Background(), 99)
		assert.True(t, domain.IsNotFound(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProductAdjustStock(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewProductRepository(db)

	t.Run("Decrement within stock affects one row", func(t *testing.T) {
		mock.ExpectExec("UPDATE products SET quantity_on_hand").
			WithArgs(int64(21), -3).
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.AdjustStock(context.Background(), 21, -3)
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("Decrement past zero affects no rows", func(t *testing.T) {
		mock.ExpectExec("UPDATE products SET quantity_on_hand").
			WithArgs(int64(21), -100).
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.AdjustStock(context.Background(), 21, -100)
		assert.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestProductReserveIfAvailable(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 3)

	t.Run("Available quantity commits the hold", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT quantity_on_hand FROM products WHERE id (.+) FOR UPDATE").
			WithArgs(int64(21)).
			WillReturnRows(sqlmock.NewRows([]string{"quantity_on_hand"}).AddRow(5))
		mock.ExpectQuery("SELECT COALESCE\\(SUM\\(quantity\\), 0\\) FROM reservations").
			WithArgs(int64(21), end, start).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(2))
		mock.ExpectExec("INSERT INTO reservations").
			WithArgs(int64(21), int64(42), 3, start, end).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		repo := NewProductRepository(db)
		ok, err := repo.ReserveIfAvailable(context.Background(), 21, 42, 3, start, end)
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Insufficient quantity rolls back without inserting", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT quantity_on_hand FROM products WHERE id (.+) FOR UPDATE").
			WithArgs(int64(21)).
			WillReturnRows(sqlmock.NewRows([]string{"quantity_on_hand"}).AddRow(5))
		mock.ExpectQuery("SELECT COALESCE\\(SUM\\(quantity\\), 0\\) FROM reservations").
			WithArgs(int64(21), end, start).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(4))
		mock.ExpectRollback()

		repo := NewProductRepository(db)
		ok, err := repo.ReserveIfAvailable(context.Background(), 21, 42, 3, start, end)
		assert.NoError(t, err)
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown product is a typed not-found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT quantity_on_hand FROM products WHERE id (.+) FOR UPDATE").
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows([]string{"quantity_on_hand"}))
		mock.ExpectRollback()

		repo := NewProductRepository(db)
		_, err = repo.ReserveIfAvailable(context.Background(), 99, 42, 1, start, end)
		assert.True(t, domain.IsNotFound(err))
	})
}

func TestProductReleaseReservations(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("DELETE FROM reservations WHERE order_id").
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	repo := NewProductRepository(db)
	assert.NoError(t, repo.ReleaseReservations(context.Background(), 42))
	assert.NoError(t, mock.ExpectationsWereMet())
}
