package normalize

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrice_UnmarshalScalar(t *testing.T) {
	var p Price
	require.NoError(t, json.Unmarshal([]byte(`19.99`), &p))
	assert.True(t, p.Min.Equal(decimal.RequireFromString("19.99")))
	assert.Nil(t, p.Max)
	assert.False(t, p.IsRange())
}

func TestPrice_UnmarshalRange(t *testing.T) {
	var p Price
	require.NoError(t, json.Unmarshal([]byte(`{"min": 10, "max": 25.5}`), &p))
	assert.True(t, p.Min.Equal(decimal.NewFromInt(10)))
	require.NotNil(t, p.Max)
	assert.True(t, p.Max.Equal(decimal.RequireFromString("25.5")))
	assert.True(t, p.IsRange())
}

func TestPrice_RoundTripIsIdempotent(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "scalar", raw: `42`},
		{name: "range", raw: `{"min": 5, "max": 10}`},
		{name: "min only", raw: `{"min": 7.25}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var first Price
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &first))

			out, err := json.Marshal(first)
			require.NoError(t, err)

			var second Price
			require.NoError(t, json.Unmarshal(out, &second))
			assert.Equal(t, first, second)
		})
	}
}

func TestPrice_RejectsMalformed(t *testing.T) {
	var p Price
	assert.Error(t, json.Unmarshal([]byte(`"not-a-price-at-all!"`), &p))
	assert.Error(t, json.Unmarshal([]byte(`[1, 2]`), &p))
}

func TestQuantity_UnmarshalScalar(t *testing.T) {
	var q Quantity
	require.NoError(t, json.Unmarshal([]byte(`3`), &q))
	assert.Equal(t, 3, q.Desired)
}

func TestQuantity_UnmarshalObject(t *testing.T) {
	var q Quantity
	require.NoError(t, json.Unmarshal([]byte(`{"desired": 2}`), &q))
	assert.Equal(t, 2, q.Desired)
}

func TestQuantity_RoundTripIsIdempotent(t *testing.T) {
	var first Quantity
	require.NoError(t, json.Unmarshal([]byte(`4`), &first))

	out, err := json.Marshal(first)
	require.NoError(t, err)
	assert.JSONEq(t, `{"desired": 4}`, string(out))

	var second Quantity
	require.NoError(t, json.Unmarshal(out, &second))
	assert.Equal(t, first, second)
}
