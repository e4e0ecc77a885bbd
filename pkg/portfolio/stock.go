// Package portfolio models stock holdings: validated Stock and DStock types,
// loading a portfolio through the CSV parser, computing its total cost and
// printing a report.
package portfolio

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/ajitpratap0/tabula/pkg/errors"
	"github.com/ajitpratap0/tabula/pkg/schema"
)

// Holding is a position that can be listed in a portfolio report
type Holding interface {
	Name() string
	Shares() int
	// PriceFixed renders the price with the given number of decimal places
	PriceFixed(places int32) string
}

// Stock is a holding priced with a float. Shares and price are never
// negative.
type Stock struct {
	name   string
	shares int
	price  float64
}

// NewStock validates shares and price
func NewStock(name string, shares int, price float64) (*Stock, error) {
	s := &Stock{name: name}
	if err := s.SetShares(shares); err != nil {
		return nil, err
	}
	if err := s.SetPrice(price); err != nil {
		return nil, err
	}
	return s, nil
}

// FromRow builds a Stock from name, shares and price fields
func (Stock) FromRow(row []string) (*Stock, error) {
	values, err := decodeRow(row, schema.Float)
	if err != nil {
		return nil, err
	}
	return NewStock(values[0].(string), values[1].(int), values[2].(float64))
}

func (s *Stock) Name() string   { return s.name }
func (s *Stock) Shares() int    { return s.shares }
func (s *Stock) Price() float64 { return s.price }
func (s *Stock) Cost() float64  { return float64(s.shares) * s.price }
func (s *Stock) String() string { return fmt.Sprintf("Stock(%s, %d, %v)", s.name, s.shares, s.price) }

// SetShares rejects negative counts
func (s *Stock) SetShares(n int) error {
	if err := checkShares(n); err != nil {
		return err
	}
	s.shares = n
	return nil
}

// SetPrice rejects negative prices
func (s *Stock) SetPrice(p float64) error {
	if p < 0 {
		return negative("price", p)
	}
	s.price = p
	return nil
}

// Sell removes n shares. Selling more than is held fails and leaves the
// holding unchanged.
func (s *Stock) Sell(n int) error {
	return s.SetShares(s.shares - n)
}

// PriceFixed implements Holding
func (s *Stock) PriceFixed(places int32) string {
	return strconv.FormatFloat(s.price, 'f', int(places), 64)
}

// DStock is a holding priced with an exact decimal
type DStock struct {
	name   string
	shares int
	price  decimal.Decimal
}

// NewDStock validates shares and price
func NewDStock(name string, shares int, price decimal.Decimal) (*DStock, error) {
	s := &DStock{name: name}
	if err := s.SetShares(shares); err != nil {
		return nil, err
	}
	if err := s.SetPrice(price); err != nil {
		return nil, err
	}
	return s, nil
}

// FromRow builds a DStock from name, shares and price fields
func (DStock) FromRow(row []string) (*DStock, error) {
	values, err := decodeRow(row, schema.Decimal)
	if err != nil {
		return nil, err
	}
	return NewDStock(values[0].(string), values[1].(int), values[2].(decimal.Decimal))
}

func (s *DStock) Name() string           { return s.name }
func (s *DStock) Shares() int            { return s.shares }
func (s *DStock) Price() decimal.Decimal { return s.price }
func (s *DStock) String() string {
	return fmt.Sprintf("DStock(%s, %d, %s)", s.name, s.shares, s.price)
}

// Cost is shares times price, computed exactly
func (s *DStock) Cost() decimal.Decimal {
	return s.price.Mul(decimal.NewFromInt(int64(s.shares)))
}

// SetShares rejects negative counts
func (s *DStock) SetShares(n int) error {
	if err := checkShares(n); err != nil {
		return err
	}
	s.shares = n
	return nil
}

// SetPrice rejects negative prices
func (s *DStock) SetPrice(p decimal.Decimal) error {
	if p.IsNegative() {
		return negative("price", p.String())
	}
	s.price = p
	return nil
}

// Sell removes n shares
func (s *DStock) Sell(n int) error {
	return s.SetShares(s.shares - n)
}

// PriceFixed implements Holding
func (s *DStock) PriceFixed(places int32) string {
	return s.price.StringFixed(places)
}

var stockHeaders = []string{"name", "shares", "price"}

func decodeRow(row []string, price schema.Converter) ([]any, error) {
	if len(row) < len(stockHeaders) {
		return nil, errors.New(errors.ErrorTypeData, "stock row needs name, shares and price").
			WithDetail("fields", len(row))
	}
	s := schema.FromHeaders(stockHeaders, []schema.Converter{schema.String, schema.Int, price})
	return schema.DecodeValues(s, row)
}

func checkShares(n int) error {
	if n < 0 {
		return negative("shares", n)
	}
	return nil
}

func negative(field string, value any) error {
	return errors.New(errors.ErrorTypeData, "expected value >= 0").
		WithDetail("field", field).
		WithDetail("value", value)
}
