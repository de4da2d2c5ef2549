package http

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"rentmarket-backend/internal/service"
)

type QuotationHandler struct {
	quotations service.QuotationService
}

func NewQuotationHandler(quotations service.QuotationService) *QuotationHandler {
	return &QuotationHandler{quotations: quotations}
}

type quotationItemRequest struct {
	ProductID   int64     `json:"product_id" validate:"required,gt=0"`
	Quantity    int       `json:"quantity" validate:"required,min=1"`
	RentalStart time.Time `json:"rental_start" validate:"required"`
	RentalEnd   time.Time `json:"rental_end" validate:"required"`
}

type createQuotationRequest struct {
	Items          []quotationItemRequest `json:"items" validate:"required,min=1,dive"`
	Notes          string                 `json:"notes"`
	DiscountAmount decimal.Decimal        `json:"discount_amount"`
	DiscountType   *string                `json:"discount_type" validate:"omitempty,oneof=coupon promo loyalty"`
}

func (h *QuotationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createQuotationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	input := service.CreateQuotationInput{
		Notes:          req.Notes,
		DiscountAmount: req.DiscountAmount,
		DiscountType:   discountTypePtr(req.DiscountType),
	}
	for _, it := range req.Items {
		input.Items = append(input.Items, service.QuotationItemInput{
			ProductID:   it.ProductID,
			Quantity:    it.Quantity,
			RentalStart: it.RentalStart,
			RentalEnd:   it.RentalEnd,
		})
	}

	q, err := h.quotations.Create(r.Context(), principalFrom(r), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeEntity(w, http.StatusCreated, "quotation", q)
}

func (h *QuotationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	q, err := h.quotations.Get(r.Context(), principalFrom(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeEntity(w, http.StatusOK, "quotation", q)
}

func (h *QuotationHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	status := r.URL.Query().Get("status")
	quotations, total, err := h.quotations.List(r.Context(), principalFrom(r), status, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, "quotations", quotations, total, page, pageSize)
}

func (h *QuotationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	q, err := h.quotations.Submit(r.Context(), principalFrom(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeEntity(w, http.StatusOK, "quotation", q)
}

type counterOfferRequest struct {
	Items []struct {
		ProductID    int64           `json:"product_id" validate:"required,gt=0"`
		PricePerUnit decimal.Decimal `json:"price_per_unit"`
	} `json:"items" validate:"required,min=1,dive"`
	Notes string `json:"notes"`
}

func (h *QuotationHandler) CounterOffer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req counterOfferRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	items := make([]service.CounterOfferItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, service.CounterOfferItem{ProductID: it.ProductID, PricePerUnit: it.PricePerUnit})
	}

	q, err := h.quotations.CounterOffer(r.Context(), principalFrom(r), id, items, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeEntity(w, http.StatusOK, "quotation", q)
}

type approveQuotationRequest struct {
	VendorNotes string `json:"vendor_notes"`
}

func (h *QuotationHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req approveQuotationRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
	}
	q, err := h.quotations.Approve(r.Context(), principalFrom(r), id, req.VendorNotes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeEntity(w, http.StatusOK, "quotation", q)
}

type rejectQuotationRequest struct {
	Reason string `json:"reason" validate:"required"`
}

func (h *QuotationHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req rejectQuotationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	q, err := h.quotations.Reject(r.Context(), principalFrom(r), id, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeEntity(w, http.StatusOK, "quotation", q)
}

type convertToOrderRequest struct {
	ShippingAddress string `json:"shipping_address"`
}

func (h *QuotationHandler) ConvertToOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req convertToOrderRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
	}
	order, err := h.quotations.ConvertToOrder(r.Context(), principalFrom(r), id, req.ShippingAddress)
	if err != nil {
		writeError(w, err)
		return
	}
	writeEntity(w, http.StatusCreated, "order", order)
}

func (h *QuotationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.quotations.Delete(r.Context(), principalFrom(r), id); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "quotation deleted")
}
