package authz

import (
	"rentmarket-backend/internal/domain"
)

// Principal is the authenticated caller, asserted by the external auth
// service via JWT claims.
type Principal struct {
	ID    int64
	Email string
	Role  domain.Role
}

// Relationship positions a principal relative to the document it is acting
// on. Admins collapse to RelAdmin regardless of ownership.
type Relationship string

const (
	RelOwner  Relationship = "owner"  // the document's customer
	RelVendor Relationship = "vendor" // the document's assigned vendor
	RelAdmin  Relationship = "admin"
	RelOther  Relationship = "other"
)

// Operation names a workflow capability gated by the policy table.
type Operation string

const (
	OpQuotationCreate  Operation = "quotation.create"
	OpQuotationRead    Operation = "quotation.read"
	OpQuotationSubmit  Operation = "quotation.submit"
	OpQuotationCounter Operation = "quotation.counter_offer"
	OpQuotationApprove Operation = "quotation.approve"
	OpQuotationReject  Operation = "quotation.reject"
	OpQuotationConvert Operation = "quotation.convert"
	OpQuotationDelete  Operation = "quotation.delete"

	OpOrderRead          Operation = "order.read"
	OpOrderUpdateStatus  Operation = "order.update_status"
	OpOrderCancel        Operation = "order.cancel"
	OpOrderUpdatePayment Operation = "order.update_payment"

	OpSaleOrderCreate       Operation = "sale_order.create"
	OpSaleOrderRead         Operation = "sale_order.read"
	OpSaleOrderUpdateStatus Operation = "sale_order.update_status"
	OpSaleOrderCancel       Operation = "sale_order.cancel"

	OpInvoiceCreate       Operation = "invoice.create"
	OpInvoiceRead         Operation = "invoice.read"
	OpInvoiceAddPayment   Operation = "invoice.add_payment"
	OpInvoiceUpdateStatus Operation = "invoice.update_status"
)

// policy is the single (relationship -> operations) table every workflow
// consults instead of re-deriving isVendor/isCustomer booleans inline.
var policy = map[Relationship]map[Operation]bool{
	RelOwner: {
		OpQuotationCreate:  true,
		OpQuotationRead:    true,
		OpQuotationSubmit:  true,
		OpQuotationCounter: true,
		OpQuotationConvert: true,
		OpQuotationDelete:  true,
		OpOrderRead:        true,
		OpOrderCancel:      true,
		OpSaleOrderRead:    true,
		OpSaleOrderCancel:  true,
		OpInvoiceRead:      true,
	},
	RelVendor: {
		OpQuotationRead:         true,
		OpQuotationCounter:      true,
		OpQuotationApprove:      true,
		OpQuotationReject:       true,
		OpOrderRead:             true,
		OpOrderUpdateStatus:     true,
		OpOrderUpdatePayment:    true,
		OpSaleOrderCreate:       true,
		OpSaleOrderRead:         true,
		OpSaleOrderUpdateStatus: true,
		OpSaleOrderCancel:       true,
		OpInvoiceCreate:         true,
		OpInvoiceRead:           true,
		OpInvoiceAddPayment:     true,
		OpInvoiceUpdateStatus:   true,
	},
	RelOther: {
		// A customer accepting the other party's counter-offer is the one
		// cross-relationship case; it is handled in the workflow, which
		// requires counter-offer history before widening approve to owners.
	},
}

// RelationshipTo derives the caller's relationship to a document owned by
// customerID and assigned to vendorID.
func (p Principal) RelationshipTo(customerID, vendorID int64) Relationship {
	if p.Role == domain.RoleAdmin {
		return RelAdmin
	}
	if p.ID == customerID && p.Role == domain.RoleCustomer {
		return RelOwner
	}
	if p.ID == vendorID && p.Role == domain.RoleVendor {
		return RelVendor
	}
	return RelOther
}

// Can reports whether the relationship permits the operation. Admins may
// perform every operation.
func Can(rel Relationship, op Operation) bool {
	if rel == RelAdmin {
		return true
	}
	return policy[rel][op]
}

// Authorize returns an AuthorizationError unless the principal's
// relationship to the document permits the operation.
func Authorize(p Principal, customerID, vendorID int64, op Operation) error {
	if Can(p.RelationshipTo(customerID, vendorID), op) {
		return nil
	}
	return domain.NewAuthorizationError("role %s is not allowed to perform %s", p.Role, op)
}
