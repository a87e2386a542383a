// Package cart implements the session scoped shopping cart.
//
// A Cart groups lines into one bucket per restaurant. Under the multi
// restaurant policy any number of buckets may coexist and checkout places one
// order per bucket. Under the single restaurant policy the cart holds at most
// one bucket, and adding an item from another restaurant discards the current
// contents.
//
// Cart state is unexported. All mutation goes through the methods below so
// the quantity bounds and the captured unit price are enforced in one place.
package cart

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

type Policy string

const (
	PolicyMultiRestaurant  Policy = "multi"
	PolicySingleRestaurant Policy = "single"
)

// ParsePolicy accepts "multi" or "single" (case insensitive).
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case PolicyMultiRestaurant:
		return PolicyMultiRestaurant, nil
	case PolicySingleRestaurant:
		return PolicySingleRestaurant, nil
	}
	return "", fmt.Errorf("unknown cart policy %q (want multi or single)", s)
}

const (
	MinQuantity = 1
	MaxQuantity = 50
)

// Item is the catalog snapshot a line is built from.
type Item struct {
	MenuItemID     uint
	RestaurantID   uint
	RestaurantName string
	Name           string
	Price          decimal.Decimal
}

type Line struct {
	MenuItemID uint            `json:"menu_item_id"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int             `json:"quantity"`
}

type Bucket struct {
	RestaurantID   uint   `json:"restaurant_id"`
	RestaurantName string `json:"restaurant_name"`
	Lines          []Line `json:"lines"`
}

type Cart struct {
	policy  Policy
	buckets []Bucket
	version int64
}

// AddResult describes what Add did to the cart.
type AddResult struct {
	Line Line
	// Replaced is set when the single restaurant policy threw away the lines
	// of ReplacedRestaurantID to make room for the new item.
	Replaced             bool
	ReplacedRestaurantID uint
}

func New(policy Policy) *Cart {
	if policy == "" {
		policy = PolicyMultiRestaurant
	}
	return &Cart{policy: policy}
}

func (c *Cart) Policy() Policy { return c.policy }

// Version increases by one every time a store persists the cart.
func (c *Cart) Version() int64 { return c.version }

// Touch marks a new persisted revision.
func (c *Cart) Touch() { c.version++ }

// RestaurantID returns the restaurant a single policy cart belongs to, or 0
// when the cart is empty or holds several restaurants.
func (c *Cart) RestaurantID() uint {
	if len(c.buckets) != 1 {
		return 0
	}
	return c.buckets[0].RestaurantID
}

// Buckets returns a deep copy of the cart contents.
func (c *Cart) Buckets() []Bucket {
	out := make([]Bucket, len(c.buckets))
	for i, b := range c.buckets {
		out[i] = Bucket{
			RestaurantID:   b.RestaurantID,
			RestaurantName: b.RestaurantName,
			Lines:          append([]Line(nil), b.Lines...),
		}
	}
	return out
}

func (c *Cart) IsEmpty() bool { return c.LineCount() == 0 }

func (c *Cart) LineCount() int {
	n := 0
	for _, b := range c.buckets {
		n += len(b.Lines)
	}
	return n
}

// Line returns the first line for menuItemID.
func (c *Cart) Line(menuItemID uint) (Line, bool) {
	for _, b := range c.buckets {
		for _, l := range b.Lines {
			if l.MenuItemID == menuItemID {
				return l, true
			}
		}
	}
	return Line{}, false
}

// Add puts one unit of item into the cart. An existing line in the item's
// restaurant bucket is incremented without an upper bound; new lines start at
// quantity 1 with the item's current price captured.
func (c *Cart) Add(item Item) AddResult {
	var res AddResult
	if c.policy == PolicySingleRestaurant && len(c.buckets) > 0 && c.buckets[0].RestaurantID != item.RestaurantID {
		res.Replaced = true
		res.ReplacedRestaurantID = c.buckets[0].RestaurantID
		c.buckets = nil
	}

	bi := c.bucketIndex(item.RestaurantID)
	if bi < 0 {
		c.buckets = append(c.buckets, Bucket{RestaurantID: item.RestaurantID, RestaurantName: item.RestaurantName})
		bi = len(c.buckets) - 1
	}
	b := &c.buckets[bi]
	for i := range b.Lines {
		if b.Lines[i].MenuItemID == item.MenuItemID {
			b.Lines[i].Quantity++
			res.Line = b.Lines[i]
			return res
		}
	}
	line := Line{
		MenuItemID: item.MenuItemID,
		Name:       item.Name,
		UnitPrice:  item.Price,
		Quantity:   1,
	}
	b.Lines = append(b.Lines, line)
	res.Line = line
	return res
}

// ParseQuantity converts raw user input into a quantity in
// [MinQuantity, MaxQuantity]. Integers too large to represent clamp by sign;
// anything else that is not an integer becomes 1.
func ParseQuantity(raw string) int {
	s := strings.TrimSpace(raw)
	q, err := strconv.Atoi(s)
	switch {
	case errors.Is(err, strconv.ErrRange):
		if strings.HasPrefix(s, "-") {
			q = MinQuantity
		} else {
			q = MaxQuantity
		}
	case err != nil:
		q = MinQuantity
	}
	return ClampQuantity(q)
}

func ClampQuantity(q int) int {
	return max(MinQuantity, min(MaxQuantity, q))
}

// SetQuantity stores ParseQuantity(raw) on the first line for menuItemID.
// It returns false, leaving the cart untouched, when no such line exists.
func (c *Cart) SetQuantity(menuItemID uint, raw string) bool {
	qty := ParseQuantity(raw)
	for bi := range c.buckets {
		lines := c.buckets[bi].Lines
		for i := range lines {
			if lines[i].MenuItemID == menuItemID {
				lines[i].Quantity = qty
				return true
			}
		}
	}
	return false
}

// Remove drops every line for menuItemID. Buckets left without lines are
// removed too.
func (c *Cart) Remove(menuItemID uint) bool {
	removed := false
	for bi := range c.buckets {
		kept := c.buckets[bi].Lines[:0]
		for _, l := range c.buckets[bi].Lines {
			if l.MenuItemID == menuItemID {
				removed = true
				continue
			}
			kept = append(kept, l)
		}
		c.buckets[bi].Lines = kept
	}
	if removed {
		c.compact()
	}
	return removed
}

// Clear resets the cart to its empty initial state. The version is kept so
// stores can still detect concurrent writers.
func (c *Cart) Clear() {
	c.buckets = nil
}

// Restore puts the lines of taken back after a checkout that could not be
// saved. Quantities of lines present in both carts are added up. Under the
// single restaurant policy a cart that moved on to another restaurant is
// replaced by taken.
func (c *Cart) Restore(taken *Cart) {
	back := taken.Buckets()
	if len(back) == 0 {
		return
	}
	if c.policy == PolicySingleRestaurant && len(c.buckets) > 0 && c.buckets[0].RestaurantID != back[0].RestaurantID {
		c.buckets = nil
	}
	for _, tb := range back {
		bi := c.bucketIndex(tb.RestaurantID)
		if bi < 0 {
			c.buckets = append(c.buckets, tb)
			continue
		}
		b := &c.buckets[bi]
	lines:
		for _, tl := range tb.Lines {
			for i := range b.Lines {
				if b.Lines[i].MenuItemID == tl.MenuItemID {
					b.Lines[i].Quantity += tl.Quantity
					continue lines
				}
			}
			b.Lines = append(b.Lines, tl)
		}
	}
}

// ApplyPolicy switches the cart to p. Moving to the single restaurant policy
// keeps only the most recently opened bucket.
func (c *Cart) ApplyPolicy(p Policy) {
	c.policy = p
	if p == PolicySingleRestaurant && len(c.buckets) > 1 {
		c.buckets = c.buckets[len(c.buckets)-1:]
	}
}

// Clone returns an independent copy, version included.
func (c *Cart) Clone() *Cart {
	return &Cart{policy: c.policy, buckets: c.Buckets(), version: c.version}
}

func (c *Cart) bucketIndex(restaurantID uint) int {
	for i, b := range c.buckets {
		if b.RestaurantID == restaurantID {
			return i
		}
	}
	return -1
}

func (c *Cart) compact() {
	kept := c.buckets[:0]
	for _, b := range c.buckets {
		if len(b.Lines) > 0 {
			kept = append(kept, b)
		}
	}
	if len(kept) == 0 {
		c.buckets = nil
		return
	}
	c.buckets = kept
}
