package cart

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/matthieukhl/storefront/internal/models"
)

// State is the cart contents. ItemCount and Total are projections of Lines
// and are recomputed by Reduce after every command.
type State struct {
	Lines     []models.CartLine
	ItemCount int
	Total     decimal.Decimal
}

// Command is one of AddItem, RemoveItem, UpdateQuantity, Clear or Load
type Command interface {
	isCommand()
}

type AddItem struct {
	Product  models.Product
	Quantity int
}

type RemoveItem struct {
	ProductID string
}

// UpdateQuantity sets a line's quantity. Zero removes the line.
type UpdateQuantity struct {
	ProductID string
	Quantity  int
}

type Clear struct{}

// Load replaces the lines wholesale, e.g. from durable storage
type Load struct {
	Lines []models.CartLine
}

func (AddItem) isCommand()        {}
func (RemoveItem) isCommand()     {}
func (UpdateQuantity) isCommand() {}
func (Clear) isCommand()          {}
func (Load) isCommand()           {}

func EmptyState() State {
	return State{Lines: []models.CartLine{}, Total: decimal.Zero}
}

// Reduce applies cmd to state and returns the new state. The input state is
// never modified. On error the returned state is the input state.
func Reduce(state State, cmd Command) (State, error) {
	var lines []models.CartLine

	switch c := cmd.(type) {
	case AddItem:
		if c.Product.ID == "" {
			return state, NewInvalidArgument(ErrMsgProductIDRequired)
		}
		if c.Quantity <= 0 {
			return state, NewInvalidArgument(ErrMsgQuantityPositive)
		}
		lines = copyLines(state.Lines)
		if i := indexOf(lines, c.Product.ID); i >= 0 {
			if lines[i].Quantity > math.MaxInt-c.Quantity {
				return state, NewInvalidArgument(ErrMsgQuantityTooLarge)
			}
			lines[i].Quantity += c.Quantity
		} else {
			lines = append(lines, models.CartLine{Product: c.Product, Quantity: c.Quantity})
		}

	case RemoveItem:
		lines = make([]models.CartLine, 0, len(state.Lines))
		for _, l := range state.Lines {
			if l.Product.ID != c.ProductID {
				lines = append(lines, l)
			}
		}

	case UpdateQuantity:
		if c.Quantity < 0 {
			return state, NewInvalidArgument(ErrMsgQuantityNegative)
		}
		if c.Quantity == 0 {
			return Reduce(state, RemoveItem{ProductID: c.ProductID})
		}
		lines = copyLines(state.Lines)
		if i := indexOf(lines, c.ProductID); i >= 0 {
			lines[i].Quantity = c.Quantity
		}

	case Clear:
		lines = []models.CartLine{}

	case Load:
		lines = copyLines(c.Lines)
		for _, l := range lines {
			if l.Product.ID == "" {
				return state, NewInvalidArgument(ErrMsgProductIDRequired)
			}
			if l.Quantity <= 0 {
				return state, NewInvalidArgumentf("%s: product %s has quantity %d", ErrMsgQuantityPositive, l.Product.ID, l.Quantity)
			}
		}
		var err error
		if lines, err = mergeDuplicates(lines); err != nil {
			return state, err
		}

	default:
		return state, NewFailedPrecondition(ErrMsgUnknownCommand)
	}

	next, err := derive(lines)
	if err != nil {
		return state, err
	}
	return next, nil
}

// derive rebuilds the projections from the line list. The item count must
// fit in an int.
func derive(lines []models.CartLine) (State, error) {
	s := State{Lines: lines, Total: decimal.Zero}
	for _, l := range lines {
		if s.ItemCount > math.MaxInt-l.Quantity {
			return State{}, NewInvalidArgument(ErrMsgQuantityTooLarge)
		}
		s.ItemCount += l.Quantity
		s.Total = s.Total.Add(l.LineTotal())
	}
	return s, nil
}

// Clone returns a deep copy of the line list
func (s State) Clone() State {
	return State{Lines: copyLines(s.Lines), ItemCount: s.ItemCount, Total: s.Total}
}

// IsEmpty reports whether the cart has no lines
func (s State) IsEmpty() bool {
	return len(s.Lines) == 0
}

// Line returns the line for a product, if present
func (s State) Line(productID string) (models.CartLine, bool) {
	if i := indexOf(s.Lines, productID); i >= 0 {
		return s.Lines[i], true
	}
	return models.CartLine{}, false
}

func copyLines(lines []models.CartLine) []models.CartLine {
	out := make([]models.CartLine, len(lines))
	copy(out, lines)
	return out
}

func indexOf(lines []models.CartLine, productID string) int {
	for i, l := range lines {
		if l.Product.ID == productID {
			return i
		}
	}
	return -1
}

// mergeDuplicates folds repeated product ids into the first occurrence so a
// loaded cart keeps one line per product
func mergeDuplicates(lines []models.CartLine) ([]models.CartLine, error) {
	out := make([]models.CartLine, 0, len(lines))
	for _, l := range lines {
		if i := indexOf(out, l.Product.ID); i >= 0 {
			if out[i].Quantity > math.MaxInt-l.Quantity {
				return nil, NewInvalidArgument(ErrMsgQuantityTooLarge)
			}
			out[i].Quantity += l.Quantity
			continue
		}
		out = append(out, l)
	}
	return out, nil
}
