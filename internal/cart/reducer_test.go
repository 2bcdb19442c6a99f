package cart

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthieukhl/storefront/internal/models"
)

func product(id, price string) models.Product {
	return models.Product{
		ID:     id,
		Name:   "Product " + id,
		Price:  decimal.RequireFromString(price),
		Images: []string{"https://example.com/" + id + ".jpg"},
	}
}

func discounted(id, price, discount string) models.Product {
	p := product(id, price)
	dp := decimal.RequireFromString(discount)
	p.DiscountPrice = &dp
	return p
}

// assertConsistent checks the projections against the lines
func assertConsistent(t *testing.T, s State) {
	t.Helper()
	count := 0
	total := decimal.Zero
	for _, l := range s.Lines {
		count += l.Quantity
		total = total.Add(l.Product.EffectivePrice().Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	assert.Equal(t, count, s.ItemCount, "item count drifted from lines")
	assert.True(t, total.Equal(s.Total), "total drifted: expected %s, got %s", total, s.Total)
}

func mustReduce(t *testing.T, s State, cmds ...Command) State {
	t.Helper()
	for _, cmd := range cmds {
		var err error
		s, err = Reduce(s, cmd)
		require.NoError(t, err)
		assertConsistent(t, s)
	}
	return s
}

func TestReduce_AddSameProductMergesLines(t *testing.T) {
	p := product("a", "10.00")

	s := mustReduce(t, EmptyState(),
		AddItem{Product: p, Quantity: 2},
		AddItem{Product: p, Quantity: 3},
	)

	require.Len(t, s.Lines, 1)
	assert.Equal(t, 5, s.Lines[0].Quantity)
	assert.Equal(t, 5, s.ItemCount)
	assert.True(t, s.Total.Equal(decimal.RequireFromString("50")))
}

func TestReduce_UsesEffectivePrice(t *testing.T) {
	s := mustReduce(t, EmptyState(),
		AddItem{Product: discounted("a", "249.99", "199.99"), Quantity: 1},
		AddItem{Product: product("b", "10.50"), Quantity: 2},
	)

	assert.True(t, s.Total.Equal(decimal.RequireFromString("220.99")), "got %s", s.Total)
}

func TestReduce_PreservesInsertionOrder(t *testing.T) {
	s := mustReduce(t, EmptyState(),
		AddItem{Product: product("c", "1"), Quantity: 1},
		AddItem{Product: product("a", "1"), Quantity: 1},
		AddItem{Product: product("b", "1"), Quantity: 1},
		AddItem{Product: product("a", "1"), Quantity: 4},
	)

	var order []string
	for _, l := range s.Lines {
		order = append(order, l.Product.ID)
	}
	assert.Equal(t, []string{"c", "a", "b"}, order)
}

func TestReduce_RemoveMissingIsNoop(t *testing.T) {
	s := mustReduce(t, EmptyState(), AddItem{Product: product("a", "3"), Quantity: 2})

	next := mustReduce(t, s, RemoveItem{ProductID: "zzz"})

	assert.Equal(t, s.Lines, next.Lines)
	assert.Equal(t, s.ItemCount, next.ItemCount)
	assert.True(t, s.Total.Equal(next.Total))
}

func TestReduce_UpdateQuantity(t *testing.T) {
	s := mustReduce(t, EmptyState(),
		AddItem{Product: product("a", "2"), Quantity: 1},
		AddItem{Product: product("b", "5"), Quantity: 1},
	)

	t.Run("sets quantity", func(t *testing.T) {
		next := mustReduce(t, s, UpdateQuantity{ProductID: "a", Quantity: 7})
		line, ok := next.Line("a")
		require.True(t, ok)
		assert.Equal(t, 7, line.Quantity)
		assert.Equal(t, 8, next.ItemCount)
	})

	t.Run("zero removes the line", func(t *testing.T) {
		next := mustReduce(t, s, UpdateQuantity{ProductID: "a", Quantity: 0})
		_, ok := next.Line("a")
		assert.False(t, ok)
		assert.Equal(t, 1, next.ItemCount)
	})

	t.Run("negative is rejected", func(t *testing.T) {
		next, err := Reduce(s, UpdateQuantity{ProductID: "a", Quantity: -2})
		require.Error(t, err)
		var cmdErr *CommandError
		require.ErrorAs(t, err, &cmdErr)
		assert.Equal(t, StatusInvalidArgument, cmdErr.Code)
		assert.Equal(t, s, next)
	})

	t.Run("missing product is a no-op", func(t *testing.T) {
		next := mustReduce(t, s, UpdateQuantity{ProductID: "zzz", Quantity: 3})
		assert.Equal(t, s.ItemCount, next.ItemCount)
	})
}

func TestReduce_AddRejectsBadInput(t *testing.T) {
	_, err := Reduce(EmptyState(), AddItem{Product: product("a", "1"), Quantity: 0})
	assert.EqualError(t, err, ErrMsgQuantityPositive)

	_, err = Reduce(EmptyState(), AddItem{Product: models.Product{}, Quantity: 1})
	assert.EqualError(t, err, ErrMsgProductIDRequired)
}

func TestReduce_QuantityOverflowRejected(t *testing.T) {
	p := product("a", "1.99")
	s := mustReduce(t, EmptyState(), AddItem{Product: p, Quantity: math.MaxInt})

	next, err := Reduce(s, AddItem{Product: p, Quantity: 1})
	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, StatusInvalidArgument, cmdErr.Code)
	assert.Equal(t, ErrMsgQuantityTooLarge, cmdErr.Message)
	assert.Equal(t, s, next, "rejected add leaves the cart unchanged")
	assert.Equal(t, math.MaxInt, next.ItemCount)

	// each line fits but the item count would not
	_, err = Reduce(s, AddItem{Product: product("b", "1"), Quantity: 1})
	assert.EqualError(t, err, ErrMsgQuantityTooLarge)

	_, err = Reduce(EmptyState(), Load{Lines: []models.CartLine{
		{Product: p, Quantity: math.MaxInt},
		{Product: p, Quantity: 1},
	}})
	assert.EqualError(t, err, ErrMsgQuantityTooLarge)
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	s := mustReduce(t, EmptyState(), AddItem{Product: product("a", "1"), Quantity: 1})
	before := s.Clone()

	mustReduce(t, s, AddItem{Product: product("a", "1"), Quantity: 9})
	mustReduce(t, s, UpdateQuantity{ProductID: "a", Quantity: 4})

	assert.Equal(t, before, s)
}

func TestReduce_ClearAndLoad(t *testing.T) {
	s := mustReduce(t, EmptyState(), AddItem{Product: product("a", "1"), Quantity: 3})

	cleared := mustReduce(t, s, Clear{})
	assert.True(t, cleared.IsEmpty())
	assert.Equal(t, 0, cleared.ItemCount)
	assert.True(t, cleared.Total.IsZero())

	loaded := mustReduce(t, cleared, Load{Lines: []models.CartLine{
		{Product: product("x", "2"), Quantity: 1},
		{Product: product("x", "2"), Quantity: 2},
	}})
	require.Len(t, loaded.Lines, 1, "duplicate stored lines are merged")
	assert.Equal(t, 3, loaded.ItemCount)

	_, err := Reduce(cleared, Load{Lines: []models.CartLine{{Product: product("x", "2"), Quantity: 0}}})
	assert.Error(t, err)
}

func TestReduce_RandomSequenceNeverDrifts(t *testing.T) {
	products := []models.Product{
		product("a", "19.99"),
		discounted("b", "89.99", "74.99"),
		product("c", "0.10"),
	}

	s := EmptyState()
	for i := 0; i < 200; i++ {
		p := products[i%len(products)]
		var cmd Command
		switch i % 5 {
		case 0, 1:
			cmd = AddItem{Product: p, Quantity: i%4 + 1}
		case 2:
			cmd = UpdateQuantity{ProductID: p.ID, Quantity: i % 6}
		case 3:
			cmd = RemoveItem{ProductID: products[(i+1)%len(products)].ID}
		case 4:
			cmd = AddItem{Product: p, Quantity: 1}
		}
		s = mustReduce(t, s, cmd)
	}
}
