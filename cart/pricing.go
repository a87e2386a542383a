package cart

import "github.com/shopspring/decimal"

// Subtotal is the captured unit price times quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (b Bucket) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range b.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Total sums every line of every bucket. The catalog is never consulted.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, b := range c.buckets {
		total = total.Add(b.Total())
	}
	return total
}

type LineSummary struct {
	Line
	Subtotal decimal.Decimal `json:"subtotal"`
}

type BucketSummary struct {
	RestaurantID   uint            `json:"restaurant_id"`
	RestaurantName string          `json:"restaurant_name"`
	Lines          []LineSummary   `json:"lines"`
	Total          decimal.Decimal `json:"total"`
}

// Summary is the priced view of a cart returned to clients.
type Summary struct {
	Policy    Policy          `json:"policy"`
	Buckets   []BucketSummary `json:"buckets"`
	ItemCount int             `json:"item_count"`
	Total     decimal.Decimal `json:"total"`
}

func Summarize(c *Cart) Summary {
	s := Summary{
		Policy:  c.policy,
		Buckets: make([]BucketSummary, 0, len(c.buckets)),
		Total:   decimal.Zero,
	}
	for _, b := range c.buckets {
		bs := BucketSummary{
			RestaurantID:   b.RestaurantID,
			RestaurantName: b.RestaurantName,
			Lines:          make([]LineSummary, 0, len(b.Lines)),
			Total:          b.Total(),
		}
		for _, l := range b.Lines {
			bs.Lines = append(bs.Lines, LineSummary{Line: l, Subtotal: l.Subtotal()})
			s.ItemCount += l.Quantity
		}
		s.Buckets = append(s.Buckets, bs)
		s.Total = s.Total.Add(bs.Total)
	}
	return s
}
