package ledger

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/invoicebook/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DefaultQuantity is used for a line item recorded without a quantity
const DefaultQuantity = 1

// Money columns are DECIMAL(18,2)
const (
	MoneyScale         = 2
	MoneyIntegerDigits = 16
)

var maxMoney = decimal.New(1, MoneyIntegerDigits)

// Invoice is one ledger entry for a client. It is immutable once recorded.
type Invoice struct {
	ID       uuid.UUID
	No       int64
	ClientID uuid.UUID
	Note     *string
	// Balance is the authoritative snapshot of the client's balance after this invoice
	Balance   decimal.Decimal
	Payment   decimal.Decimal
	CreatedAt time.Time
	Details   []InvoiceDetail
}

// InvoiceDetail is a line item owned by exactly one invoice
type InvoiceDetail struct {
	ID        uuid.UUID
	InvoiceID uuid.UUID
	Position  int
	Name      string
	Spec      *string
	Quantity  int
	Price     decimal.Decimal
}

// InvoiceInput carries the caller-supplied fields of a new invoice.
// Nil pointers take the documented defaults.
type InvoiceInput struct {
	No       int64
	ClientID uuid.UUID
	Note     *string
	Balance  *decimal.Decimal
	Payment  *decimal.Decimal
	Details  []DetailInput
}

// DetailInput carries the caller-supplied fields of one line item
type DetailInput struct {
	Name     string
	Spec     *string
	Quantity *int
	Price    *decimal.Decimal
}

// NewInvoice builds an invoice and its ordered line items with defaults applied
func NewInvoice(in InvoiceInput, now time.Time) (*Invoice, error) {
	if in.No <= 0 {
		return nil, shared.NewValidationError("no", "no must be a positive number")
	}
	if in.ClientID == uuid.Nil {
		return nil, shared.NewValidationError("client_id", "client_id is required")
	}

	inv := &Invoice{
		ID:        uuid.New(),
		No:        in.No,
		ClientID:  in.ClientID,
		Note:      in.Note,
		Balance:   decimal.Zero,
		Payment:   decimal.Zero,
		CreatedAt: now,
		Details:   make([]InvoiceDetail, 0, len(in.Details)),
	}
	if in.Balance != nil {
		if err := checkMoney("balance", *in.Balance); err != nil {
			return nil, err
		}
		inv.Balance = *in.Balance
	}
	if in.Payment != nil {
		if in.Payment.IsNegative() {
			return nil, shared.NewValidationError("payment", "payment cannot be negative")
		}
		if err := checkMoney("payment", *in.Payment); err != nil {
			return nil, err
		}
		inv.Payment = *in.Payment
	}

	for i, d := range in.Details {
		detail, err := newInvoiceDetail(inv.ID, i, d)
		if err != nil {
			return nil, err
		}
		inv.Details = append(inv.Details, detail)
	}

	return inv, nil
}

func newInvoiceDetail(invoiceID uuid.UUID, position int, in DetailInput) (InvoiceDetail, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return InvoiceDetail{}, shared.NewValidationError(detailField(position, "name"), "name is required")
	}

	detail := InvoiceDetail{
		ID:        uuid.New(),
		InvoiceID: invoiceID,
		Position:  position,
		Name:      name,
		Spec:      in.Spec,
		Quantity:  DefaultQuantity,
		Price:     decimal.Zero,
	}
	if in.Quantity != nil {
		if *in.Quantity < 0 {
			return InvoiceDetail{}, shared.NewValidationError(detailField(position, "quantity"), "quantity cannot be negative")
		}
		detail.Quantity = *in.Quantity
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return InvoiceDetail{}, shared.NewValidationError(detailField(position, "price"), "price cannot be negative")
		}
		if err := checkMoney(detailField(position, "price"), *in.Price); err != nil {
			return InvoiceDetail{}, err
		}
		detail.Price = *in.Price
	}

	return detail, nil
}

// checkMoney rejects amounts the store would round or overflow
func checkMoney(field string, d decimal.Decimal) error {
	if !d.Equal(d.Truncate(MoneyScale)) {
		return shared.NewValidationError(field, field+" must have at most 2 decimal places")
	}
	if d.Abs().GreaterThanOrEqual(maxMoney) {
		return shared.NewValidationError(field, field+" must have at most 16 integer digits")
	}
	return nil
}

func detailField(position int, field string) string {
	return "details[" + strconv.Itoa(position) + "]." + field
}

// LineTotal returns quantity × price
func (d InvoiceDetail) LineTotal() decimal.Decimal {
	return d.Price.Mul(decimal.NewFromInt(int64(d.Quantity)))
}

// HasPayment reports whether this invoice records a payment, which gates the client balance update
func (i *Invoice) HasPayment() bool {
	return i.Payment.IsPositive()
}

// Subtotal returns the sum of the line totals
func (i *Invoice) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, d := range i.Details {
		total = total.Add(d.LineTotal())
	}
	return total
}

// Summary is the breakdown printed under an invoice's line items
type Summary struct {
	Subtotal    decimal.Decimal
	PrevBalance decimal.Decimal
	Total       decimal.Decimal
	Payment     decimal.Decimal
	Balance     decimal.Decimal
	Note        *string
}

// Summarize derives the summary block from the stored balance snapshot.
// The snapshot is never recomputed: the carried-in balance is backed out of it
// so that Total = PrevBalance + Subtotal and Balance = Total - Payment.
func Summarize(inv *Invoice) Summary {
	subtotal := inv.Subtotal()
	prev := inv.Balance.Add(inv.Payment).Sub(subtotal)
	return Summary{
		Subtotal:    subtotal,
		PrevBalance: prev,
		Total:       prev.Add(subtotal),
		Payment:     inv.Payment,
		Balance:     inv.Balance,
		Note:        inv.Note,
	}
}
