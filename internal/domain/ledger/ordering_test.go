package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortNewestFirst(t *testing.T) {
	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	t3 := t2.Add(time.Hour)

	t.Run("orders by creation time descending", func(t *testing.T) {
		invoices := []Invoice{
			{ID: uuid.New(), No: 1, CreatedAt: t1},
			{ID: uuid.New(), No: 3, CreatedAt: t3},
			{ID: uuid.New(), No: 2, CreatedAt: t2},
		}

		SortNewestFirst(invoices)

		assert.Equal(t, []int64{3, 2, 1}, nos(invoices))
		assert.Equal(t, int64(3), Latest(invoices).No)
	})

	t.Run("breaks ties by number descending", func(t *testing.T) {
		invoices := []Invoice{
			{ID: uuid.New(), No: 4, CreatedAt: t2},
			{ID: uuid.New(), No: 9, CreatedAt: t2},
			{ID: uuid.New(), No: 1, CreatedAt: t1},
		}

		SortNewestFirst(invoices)

		assert.Equal(t, []int64{9, 4, 1}, nos(invoices))
		latest := Latest(invoices)
		require.NotNil(t, latest)
		assert.Equal(t, invoices[0].ID, latest.ID)
	})

	t.Run("latest of empty list is nil", func(t *testing.T) {
		assert.Nil(t, Latest(nil))
	})
}

func nos(invoices []Invoice) []int64 {
	out := make([]int64, len(invoices))
	for i := range invoices {
		out[i] = invoices[i].No
	}
	return out
}
