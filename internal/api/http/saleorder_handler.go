package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	"rentmarket-backend/internal/domain"
	"rentmarket-backend/internal/service"
)

type SaleOrderHandler struct {
	saleOrders service.SaleOrderService
}

func NewSaleOrderHandler(saleOrders service.SaleOrderService) *SaleOrderHandler {
	return &SaleOrderHandler{saleOrders: saleOrders}
}

type saleOrderItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,min=1"`
}

type createSaleOrderRequest struct {
	CustomerID     int64                  `json:"customer_id" validate:"required,gt=0"`
	Items          []saleOrderItemRequest `json:"items" validate:"required,min=1,dive"`
	ShippingAmount decimal.Decimal        `json:"shipping_amount"`
	DiscountAmount decimal.Decimal        `json:"discount_amount"`
	DiscountType   *string                `json:"discount_type" validate:"omitempty,oneof=coupon promo loyalty"`
}

func (h *SaleOrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSaleOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	input := service.CreateSaleOrderInput{
		CustomerID:     req.CustomerID,
		ShippingAmount: req.ShippingAmount,
		DiscountAmount: req.DiscountAmount,
		DiscountType:   discountTypePtr(req.DiscountType),
	}
	for _, it := range req.Items {
		input.Items = append(input.Items, service.SaleOrderItemInput{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	so, err := h.saleOrders.CreateStandalone(r.Context(), principalFrom(r), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeEntity(w, http.StatusCreated, "sale_order", so)
}

func (h *SaleOrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	so, err := h.saleOrders.Get(r.Context(), principalFrom(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeEntity(w, http.StatusOK, "sale_order", so)
}

func (h *SaleOrderHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	status := r.URL.Query().Get("status")
	saleOrders, total, err := h.saleOrders.List(r.Context(), principalFrom(r), status, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, "sale_orders", saleOrders, total, page, pageSize)
}

type updateSaleOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed processing shipped delivered refunded"`
}

func (h *SaleOrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req updateSaleOrderStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	so, err := h.saleOrders.UpdateStatus(r.Context(), principalFrom(r), id, domain.SaleOrderStatus(req.Status))
	if err != nil {
		writeError(w, err)
		return
	}
	writeEntity(w, http.StatusOK, "sale_order", so)
}

type cancelSaleOrderRequest struct {
	Reason string `json:"reason" validate:"required"`
}

func (h *SaleOrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req cancelSaleOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	so, err := h.saleOrders.Cancel(r.Context(), principalFrom(r), id, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeEntity(w, http.StatusOK, "sale_order", so)
}
