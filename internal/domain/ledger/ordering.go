package ledger

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// OrderKey holds the fields that define history order
type OrderKey struct {
	CreatedAt time.Time
	No        int64
	ID        uuid.UUID
}

// NewerThan reports whether k sorts before o in a newest-first listing.
// Creation time decides first, then No, then ID so the order is total.
func (k OrderKey) NewerThan(o OrderKey) bool {
	if !k.CreatedAt.Equal(o.CreatedAt) {
		return k.CreatedAt.After(o.CreatedAt)
	}
	if k.No != o.No {
		return k.No > o.No
	}
	return k.ID.String() > o.ID.String()
}

// OrderKey returns the invoice's history ordering key
func (i *Invoice) OrderKey() OrderKey {
	return OrderKey{CreatedAt: i.CreatedAt, No: i.No, ID: i.ID}
}

// SortNewestFirst orders invoices by creation time descending, ties broken by No descending
func SortNewestFirst(invoices []Invoice) {
	sort.SliceStable(invoices, func(i, j int) bool {
		return invoices[i].OrderKey().NewerThan(invoices[j].OrderKey())
	})
}

// Latest returns the invoice with the greatest creation time, or nil for an empty list.
// It is always the head of a list sorted by SortNewestFirst.
func Latest(invoices []Invoice) *Invoice {
	var latest *Invoice
	for i := range invoices {
		if latest == nil || invoices[i].OrderKey().NewerThan(latest.OrderKey()) {
			latest = &invoices[i]
		}
	}
	return latest
}
