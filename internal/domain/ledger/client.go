package ledger

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/invoicebook/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Client is an account that invoices are issued to.
// It is the aggregate root for the running balance.
type Client struct {
	shared.BaseAggregateRoot
	Name       string
	Phone      string
	Note       string
	IsFavorite bool
	// Balance is the write-through copy of the latest paid invoice's balance snapshot
	Balance decimal.Decimal
}

// ClientOptions carries the optional fields of a new client
type ClientOptions struct {
	Phone      string
	Note       string
	IsFavorite bool
}

// NewClient creates a client with a zero balance
func NewClient(name string, opts ClientOptions, now time.Time) (*Client, error) {
	name = strings.TrimSpace(name)
	if err := validateClientName(name); err != nil {
		return nil, err
	}

	client := &Client{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(now),
		Name:              name,
		Phone:             strings.TrimSpace(opts.Phone),
		Note:              opts.Note,
		IsFavorite:        opts.IsFavorite,
		Balance:           decimal.Zero,
	}

	client.AddDomainEvent(NewClientCreatedEvent(client))

	return client, nil
}

// ApplyBalanceSnapshot overwrites the running balance with an explicit snapshot.
// The value is not a delta.
func (c *Client) ApplyBalanceSnapshot(balance decimal.Decimal, at time.Time) {
	old := c.Balance
	c.Balance = balance
	c.UpdatedAt = at
	c.AddDomainEvent(NewClientBalanceUpdatedEvent(c, old))
}

// SetFavorite toggles the favorite flag
func (c *Client) SetFavorite(favorite bool) {
	c.IsFavorite = favorite
}

func validateClientName(name string) error {
	if name == "" {
		return shared.NewValidationError("name", "name is required")
	}
	if utf8.RuneCountInString(name) > 200 {
		return shared.NewValidationError("name", "name cannot exceed 200 characters")
	}
	return nil
}
