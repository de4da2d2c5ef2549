package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"rentmarket-backend/internal/domain"
)

var validate = validator.New()

// decodeJSON decodes the body into dst and runs struct validation. Both
// failure modes surface as ValidationError so handlers answer 400.
func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.NewValidationError("invalid request body: %v", err)
	}
	if err := validate.Struct(dst); err != nil {
		return domain.NewValidationError("invalid request: %v", err)
	}
	return nil
}

func pathID(r *http.Request) (int64, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError("invalid id %q", raw)
	}
	return id, nil
}

// pagination reads page/page_size query params with sane bounds.
func pagination(r *http.Request) (page, pageSize int32) {
	page, pageSize = 1, 20
	if v, err := strconv.ParseInt(r.URL.Query().Get("page"), 10, 32); err == nil && v > 0 {
		page = int32(v)
	}
	if v, err := strconv.ParseInt(r.URL.Query().Get("page_size"), 10, 32); err == nil && v > 0 && v <= 100 {
		pageSize = int32(v)
	}
	return page, pageSize
}

func discountTypePtr(s *string) *domain.DiscountType {
	if s == nil || *s == "" {
		return nil
	}
	dt := domain.DiscountType(*s)
	return &dt
}
