package http

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"rentmarket-backend/internal/domain"
	"rentmarket-backend/internal/service"
)

type InvoiceHandler struct {
	invoices service.InvoiceService
}

func NewInvoiceHandler(invoices service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices}
}

type createInvoiceRequest struct {
	OrderID        int64           `json:"order_id" validate:"required,gt=0"`
	OrderKind      string          `json:"order_kind" validate:"omitempty,oneof=rental sale"`
	DueDate        *time.Time      `json:"due_date"`
	Discount       decimal.Decimal `json:"discount"`
	DiscountType   *string         `json:"discount_type" validate:"omitempty,oneof=coupon promo loyalty"`
	PaymentType    string          `json:"payment_type" validate:"omitempty,oneof=full partial deposit advance"`
	InitialPayment decimal.Decimal `json:"initial_payment"`
}

func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createInvoiceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	inv, err := h.invoices.CreateFromOrder(r.Context(), principalFrom(r), service.CreateInvoiceInput{
		OrderID:        req.OrderID,
		OrderKind:      domain.OrderKind(req.OrderKind),
		DueDate:        req.DueDate,
		Discount:       req.Discount,
		DiscountType:   discountTypePtr(req.DiscountType),
		PaymentType:    domain.PaymentType(req.PaymentType),
		InitialPayment: req.InitialPayment,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeEntity(w, http.StatusCreated, "invoice", inv)
}

func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	inv, err := h.invoices.Get(r.Context(), principalFrom(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeEntity(w, http.StatusOK, "invoice", inv)
}

func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	status := r.URL.Query().Get("status")
	invoices, total, err := h.invoices.List(r.Context(), principalFrom(r), status, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, "invoices", invoices, total, page, pageSize)
}

type addPaymentRequest struct {
	Amount        decimal.Decimal `json:"amount" validate:"required"`
	Method        string          `json:"method" validate:"required"`
	TransactionID string          `json:"transaction_id"`
	Notes         string          `json:"notes"`
}

func (h *InvoiceHandler) AddPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req addPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	inv, err := h.invoices.AddPayment(r.Context(), principalFrom(r), id, service.PaymentInput{
		Amount:        req.Amount,
		Method:        req.Method,
		TransactionID: req.TransactionID,
		Notes:         req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeEntity(w, http.StatusOK, "invoice", inv)
}

type updateInvoiceStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=sent cancelled"`
}

func (h *InvoiceHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req updateInvoiceStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	inv, err := h.invoices.UpdateStatus(r.Context(), principalFrom(r), id, domain.InvoiceStatus(req.Status))
	if err != nil {
		writeError(w, err)
		return
	}
	writeEntity(w, http.StatusOK, "invoice", inv)
}
