package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/shopspring/decimal"

	"rentmarket-backend/internal/domain"
	"rentmarket-backend/internal/logger"
)

type sendGridEmailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewSendGridEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &sendGridEmailService{apiKey: apiKey, fromEmail: fromEmail, fromName: fromName}
}

func (s *sendGridEmailService) send(to, subject, plainText string) error {
	if s.apiKey == "" {
		// No key configured (local/dev). Log instead of failing callers.
		logger.Debug("Email sending skipped, no API key", "to", to, "subject", subject)
		return nil
	}

	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail("", to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *sendGridEmailService) SendQuotationSubmitted(ctx context.Context, vendorEmail, customerName, quotationNumber string) error {
	subject := fmt.Sprintf("New quotation %s awaiting review", quotationNumber)
	body := fmt.Sprintf("%s has submitted quotation %s for your review.", customerName, quotationNumber)
	return s.send(vendorEmail, subject, body)
}

func (s *sendGridEmailService) SendQuotationApproved(ctx context.Context, customerEmail, quotationNumber string) error {
	subject := fmt.Sprintf("Quotation %s approved", quotationNumber)
	body := fmt.Sprintf("Your quotation %s has been approved. You can now convert it to an order.", quotationNumber)
	return s.send(customerEmail, subject, body)
}

func (s *sendGridEmailService) SendQuotationRejected(ctx context.Context, customerEmail, quotationNumber, reason string) error {
	subject := fmt.Sprintf("Quotation %s rejected", quotationNumber)
	body := fmt.Sprintf("Your quotation %s was rejected. Reason: %s", quotationNumber, reason)
	return s.send(customerEmail, subject, body)
}

func (s *sendGridEmailService) SendCounterOfferReceived(ctx context.Context, recipientEmail, quotationNumber string) error {
	subject := fmt.Sprintf("Counter-offer on quotation %s", quotationNumber)
	body := fmt.Sprintf("A counter-offer has been made on quotation %s. Review it to accept or respond.", quotationNumber)
	return s.send(recipientEmail, subject, body)
}

func (s *sendGridEmailService) SendOrderStatusChanged(ctx context.Context, customerEmail, orderNumber string, status domain.OrderStatus) error {
	subject := fmt.Sprintf("Order %s is now %s", orderNumber, status)
	body := fmt.Sprintf("Your order %s has moved to status %s.", orderNumber, status)
	return s.send(customerEmail, subject, body)
}

func (s *sendGridEmailService) SendInvoiceIssued(ctx context.Context, customerEmail, invoiceNumber string, total decimal.Decimal) error {
	subject := fmt.Sprintf("Invoice %s issued", invoiceNumber)
	body := fmt.Sprintf("Invoice %s for %s has been issued to you.", invoiceNumber, total.StringFixed(2))
	return s.send(customerEmail, subject, body)
}

func (s *sendGridEmailService) SendPaymentReceived(ctx context.Context, customerEmail, invoiceNumber string, amount, balance decimal.Decimal) error {
	subject := fmt.Sprintf("Payment received for invoice %s", invoiceNumber)
	body := fmt.Sprintf("We received your payment of %s against invoice %s. Outstanding balance: %s.",
		amount.StringFixed(2), invoiceNumber, balance.StringFixed(2))
	return s.send(customerEmail, subject, body)
}

func (s *sendGridEmailService) SendPaymentReminder(ctx context.Context, customerEmail, invoiceNumber string, balance decimal.Decimal, dueDate time.Time) error {
	subject := fmt.Sprintf("Payment reminder for invoice %s", invoiceNumber)
	body := fmt.Sprintf("Invoice %s was due on %s with an outstanding balance of %s. Please arrange payment.",
		invoiceNumber, dueDate.Format("2006-01-02"), balance.StringFixed(2))
	return s.send(customerEmail, subject, body)
}
