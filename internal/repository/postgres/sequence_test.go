package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestSequenceNext(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewSequenceRepository(db)

	t.Run("Upsert returns the incremented value", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO document_sequences").
			WithArgs("quotation").
			WillReturnRows(sqlmock.NewRows([]string{"next_value"}).AddRow(int64(13)))

		value, err := repo.Next(context.Background(), "quotation")
		assert.NoError(t, err)
		assert.Equal(t, int64(13), value)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Query errors pass through", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO document_sequences").
			WithArgs("invoice").
			WillReturnError(assert.AnError)

		_, err := repo.Next(context.Background(), "invoice")
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
