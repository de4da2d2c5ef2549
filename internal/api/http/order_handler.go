package http

import (
	"net/http"

	"rentmarket-backend/internal/domain"
	"rentmarket-backend/internal/service"
)

type OrderHandler struct {
	orders service.OrderService
}

func NewOrderHandler(orders service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	o, err := h.orders.Get(r.Context(), principalFrom(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeEntity(w, http.StatusOK, "order", o)
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	status := r.URL.Query().Get("status")
	orders, total, err := h.orders.List(r.Context(), principalFrom(r), status, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, "orders", orders, total, page, pageSize)
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed processing picked_up active completed"`
	Notes  string `json:"notes"`
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req updateOrderStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	o, err := h.orders.UpdateStatus(r.Context(), principalFrom(r), id, domain.OrderStatus(req.Status), req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeEntity(w, http.StatusOK, "order", o)
}

type cancelOrderRequest struct {
	Reason string `json:"reason"`
}

func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req cancelOrderRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
	}
	o, err := h.orders.Cancel(r.Context(), principalFrom(r), id, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeEntity(w, http.StatusOK, "order", o)
}

type updateOrderPaymentRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required,oneof=pending partial paid refunded failed"`
}

func (h *OrderHandler) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req updateOrderPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	o, err := h.orders.UpdatePaymentStatus(r.Context(), principalFrom(r), id, domain.PaymentStatus(req.PaymentStatus))
	if err != nil {
		writeError(w, err)
		return
	}
	writeEntity(w, http.StatusOK, "order", o)
}
