package postgres

import (
	"context"
	"database/sql"
	"errors"

	"rentmarket-backend/internal/domain"
	"rentmarket-backend/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT id, name, email, COALESCE(company, ''), COALESCE(gstin, ''), role FROM users WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Name, &u.Email, &u.Company, &u.GSTIN, &u.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("user", id)
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}
