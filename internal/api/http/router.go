package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"rentmarket-backend/internal/security"
	"rentmarket-backend/internal/service"
)

// NewRouter wires every API route. All business routes sit behind the auth
// middleware; only the health check is public.
func NewRouter(
	tm security.TokenManager,
	quotations service.QuotationService,
	orders service.OrderService,
	saleOrders service.SaleOrderService,
	invoices service.InvoiceService,
) *mux.Router {
	router := mux.NewRouter()
	router.Use(LoggingMiddleware)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusOK, "ok")
	}).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(AuthMiddleware(tm))

	qh := NewQuotationHandler(quotations)
	api.HandleFunc("/quotations", qh.Create).Methods(http.MethodPost)
	api.HandleFunc("/quotations", qh.List).Methods(http.MethodGet)
	api.HandleFunc("/quotations/{id:[0-9]+}", qh.Get).Methods(http.MethodGet)
	api.HandleFunc("/quotations/{id:[0-9]+}", qh.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/quotations/{id:[0-9]+}/submit", qh.Submit).Methods(http.MethodPut)
	api.HandleFunc("/quotations/{id:[0-9]+}/counter-offer", qh.CounterOffer).Methods(http.MethodPost)
	api.HandleFunc("/quotations/{id:[0-9]+}/approve", qh.Approve).Methods(http.MethodPut)
	api.HandleFunc("/quotations/{id:[0-9]+}/reject", qh.Reject).Methods(http.MethodPut)
	api.HandleFunc("/quotations/{id:[0-9]+}/convert-to-order", qh.ConvertToOrder).Methods(http.MethodPost)

	oh := NewOrderHandler(orders)
	api.HandleFunc("/orders", oh.List).Methods(http.MethodGet)
	api.HandleFunc("/orders/{id:[0-9]+}", oh.Get).Methods(http.MethodGet)
	api.HandleFunc("/orders/{id:[0-9]+}/status", oh.UpdateStatus).Methods(http.MethodPut)
	api.HandleFunc("/orders/{id:[0-9]+}/cancel", oh.Cancel).Methods(http.MethodPut)
	api.HandleFunc("/orders/{id:[0-9]+}/payment-status", oh.UpdatePaymentStatus).Methods(http.MethodPut)

	sh := NewSaleOrderHandler(saleOrders)
	api.HandleFunc("/sale-orders", sh.Create).Methods(http.MethodPost)
	api.HandleFunc("/sale-orders", sh.List).Methods(http.MethodGet)
	api.HandleFunc("/sale-orders/{id:[0-9]+}", sh.Get).Methods(http.MethodGet)
	api.HandleFunc("/sale-orders/{id:[0-9]+}/status", sh.UpdateStatus).Methods(http.MethodPut)
	api.HandleFunc("/sale-orders/{id:[0-9]+}/cancel", sh.Cancel).Methods(http.MethodPut)

	ih := NewInvoiceHandler(invoices)
	api.HandleFunc("/invoices", ih.Create).Methods(http.MethodPost)
	api.HandleFunc("/invoices", ih.List).Methods(http.MethodGet)
	api.HandleFunc("/invoices/{id:[0-9]+}", ih.Get).Methods(http.MethodGet)
	api.HandleFunc("/invoices/{id:[0-9]+}/payment", ih.AddPayment).Methods(http.MethodPost)
	api.HandleFunc("/invoices/{id:[0-9]+}/status", ih.UpdateStatus).Methods(http.MethodPut)

	return router
}
