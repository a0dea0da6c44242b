package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalWeightKg(t *testing.T) {
	items := []CartItem{
		{Quantity: 2, PriceDisplay: "₹299/1kg"},
		{Quantity: 3, PriceDisplay: "₹1/100g"},
	}
	assert.InDelta(t, 2.3, TotalWeightKg(items), 0.0001)
}

func TestTotalWeightKgFloor(t *testing.T) {
	items := []CartItem{{Quantity: 1, PriceDisplay: "₹1/100g"}}
	assert.Equal(t, 0.5, TotalWeightKg(items))
}

func TestTotalWeightKgFallbackForUnparseable(t *testing.T) {
	items := []CartItem{
		{Quantity: 2, PriceDisplay: "₹50/piece"},
		{Quantity: 1, PriceDisplay: "₹299/1kg"},
	}
	// 2 x 0.5 fallback + 1 kg
	assert.InDelta(t, 2.0, TotalWeightKg(items), 0.0001)
}

func TestTotalWeightKgLitres(t *testing.T) {
	items := []CartItem{{Quantity: 2, PriceDisplay: "₹70/1L"}}
	assert.InDelta(t, 2.0, TotalWeightKg(items), 0.0001)
}

func TestTotalWeightKgZeroQuantity(t *testing.T) {
	items := []CartItem{{Quantity: 0, PriceDisplay: "₹299/1kg"}}
	assert.InDelta(t, 1.0, TotalWeightKg(items), 0.0001)
}

func TestPriceForWeightHalfKilo(t *testing.T) {
	quote, err := PriceForWeight("400/kg", 0.5, "kg")
	require.NoError(t, err)
	assert.Equal(t, 200.0, quote.Price)
	assert.Equal(t, "₹200.00/0.5kg", quote.PriceDisplay)
	assert.Equal(t, 0.5, quote.WeightValue)
	assert.Equal(t, "kg", quote.WeightUnit)
}

func TestPriceForWeightGrams(t *testing.T) {
	quote, err := PriceForWeight("₹1/100g", 250, "g")
	require.NoError(t, err)
	assert.Equal(t, 2.5, quote.Price)
	assert.Equal(t, "₹2.50/250g", quote.PriceDisplay)
}

func TestPriceForWeightWholeKilo(t *testing.T) {
	quote, err := PriceForWeight("₹299/1kg", 1, "kg")
	require.NoError(t, err)
	assert.Equal(t, 299.0, quote.Price)
	assert.Equal(t, "₹299.00/1kg", quote.PriceDisplay)
}

func TestPriceForWeightBareNumberIsPerKg(t *testing.T) {
	quote, err := PriceForWeight("150", 2, "kg")
	require.NoError(t, err)
	assert.Equal(t, 300.0, quote.Price)
}

func TestPriceForWeightUnparseable(t *testing.T) {
	_, err := PriceForWeight("call for price", 1, "kg")
	assert.Error(t, err)
}
