package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestItemsTotal(t *testing.T) {
	o := Order{Items: []OrderItem{
		{Quantity: 2, Price: decimal.RequireFromString("10.00")},
		{Quantity: 3, Price: decimal.RequireFromString("0.10")},
	}}
	assert.True(t, o.ItemsTotal().Equal(decimal.RequireFromString("20.30")))
	assert.True(t, (&Order{}).ItemsTotal().IsZero())
}
