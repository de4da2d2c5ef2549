package jobs

import (
	"context"
	"fmt"
	"time"

	"rentmarket-backend/internal/logger"
	"rentmarket-backend/internal/repository"
	"rentmarket-backend/internal/service"
)

const jobTimeout = 10 * time.Minute

// ExpireQuotations flips draft/pending quotations past their validity date
// to expired. Expiry is also checked lazily on submit; this job catches
// documents nobody touches again.
func (jr *JobRunner) ExpireQuotations() {
	jr.runWithRecovery("ExpireQuotations", func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		count, err := jr.store.QuotationRepository.ExpirePending(ctx, time.Now())
		if err != nil {
			logger.Error("Failed to expire quotations", "error", err)
			return
		}
		logger.Info("Expired quotations", "count", count)
	})
}

// ReconcileSaleOrderMirrors recreates sale-order mirrors for rental orders
// whose best-effort mirror creation failed at conversion time.
func (jr *JobRunner) ReconcileSaleOrderMirrors() {
	jr.runWithRecovery("ReconcileSaleOrderMirrors", func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		orders, err := jr.store.OrderRepository.ListWithoutMirror(ctx)
		if err != nil {
			logger.Error("Failed to list orders without mirror", "error", err)
			return
		}

		created := 0
		for i := range orders {
			order := orders[i]
			seq, err := jr.store.SequenceRepository.Next(ctx, repository.SeqSaleOrder)
			if err != nil {
				logger.Error("Failed to allocate mirror number", "order", order.Number, "error", err)
				continue
			}
			mirror := service.NewSaleOrderMirror(&order, fmt.Sprintf("SO%06d", seq), time.Now())
			if err := jr.store.SaleOrderRepository.Create(ctx, mirror); err != nil {
				logger.Error("Failed to create sale-order mirror", "order", order.Number, "error", err)
				continue
			}
			created++
		}
		logger.Info("Reconciled sale-order mirrors", "checked", len(orders), "created", created)
	})
}

// SendPaymentReminders emails customers whose invoices are past due with an
// outstanding balance.
func (jr *JobRunner) SendPaymentReminders() {
	jr.runWithRecovery("SendPaymentReminders", func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		invoices, err := jr.store.InvoiceRepository.ListUnpaidDue(ctx, time.Now())
		if err != nil {
			logger.Error("Failed to list overdue invoices", "error", err)
			return
		}

		sent := 0
		for _, inv := range invoices {
			customer, err := jr.store.UserRepository.GetByID(ctx, inv.CustomerID)
			if err != nil {
				logger.Error("Failed to load customer for reminder", "invoice", inv.Number, "error", err)
				continue
			}
			if err := jr.email.SendPaymentReminder(ctx, customer.Email, inv.Number, inv.BalanceAmount, inv.DueDate); err != nil {
				logger.Error("Failed to send payment reminder", "invoice", inv.Number, "error", err)
				continue
			}
			sent++
		}
		logger.Info("Sent payment reminders", "overdue", len(invoices), "sent", sent)
	})
}
