// Package normalize holds the boundary types for API payload shapes that
// arrive as either a scalar or an object. The union is resolved during JSON
// decoding and never leaks past the repository layer.
package normalize

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Price is the normalized form of a price payload. The API may send a bare
// number or a {min,max} range; a scalar p decodes as {Min: p}.
type Price struct {
	Min decimal.Decimal  `json:"min"`
	Max *decimal.Decimal `json:"max,omitempty"`
}

type priceRange struct {
	Min decimal.Decimal  `json:"min"`
	Max *decimal.Decimal `json:"max,omitempty"`
}

// UnmarshalJSON accepts either a scalar price or a {min,max} object.
func (p *Price) UnmarshalJSON(data []byte) error {
	var scalar decimal.Decimal
	if err := json.Unmarshal(data, &scalar); err == nil {
		p.Min = scalar
		p.Max = nil
		return nil
	}

	var r priceRange
	if err := json.Unmarshal(data, &r); err != nil {
		return fmt.Errorf("price must be a number or a {min,max} object: %w", err)
	}
	p.Min = r.Min
	p.Max = r.Max
	return nil
}

// MarshalJSON always emits the normalized object form, so re-decoding a
// marshaled Price is a no-op.
func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(priceRange{Min: p.Min, Max: p.Max})
}

// IsRange reports whether the price carries a distinct upper bound.
func (p Price) IsRange() bool {
	return p.Max != nil
}

// Quantity is the normalized form of a quantity payload. The API may send a
// bare integer or a {desired} object; a scalar q decodes as {Desired: q}.
type Quantity struct {
	Desired int `json:"desired"`
}

type quantityObject struct {
	Desired int `json:"desired"`
}

// UnmarshalJSON accepts either a scalar quantity or a {desired} object.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	var scalar int
	if err := json.Unmarshal(data, &scalar); err == nil {
		q.Desired = scalar
		return nil
	}

	var obj quantityObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("quantity must be an integer or a {desired} object: %w", err)
	}
	q.Desired = obj.Desired
	return nil
}

// MarshalJSON always emits the normalized object form.
func (q Quantity) MarshalJSON() ([]byte, error) {
	return json.Marshal(quantityObject{Desired: q.Desired})
}
