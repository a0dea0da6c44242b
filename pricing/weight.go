package pricing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// MinChargeableWeightKg is Shiprocket's billing granularity: anything lighter
// is still billed as half a kilo.
const MinChargeableWeightKg = 0.5

// fallbackItemWeightKg is assumed for a line whose price display cannot be
// parsed. A bad label must not block checkout.
const fallbackItemWeightKg = 0.5

var weightPattern = regexp.MustCompile(`([\d.]+)\s*(kg|g|gm|grams?|l|litre|liters?)`)

// CartItem is the minimal view of a cart line the weight calculation needs.
type CartItem struct {
	Quantity     int
	PriceDisplay string
}

// TotalWeightKg computes the parcel weight in kg for a cart from each line's
// price display, formatted like "₹1/100g", "₹299/1kg" or "₹70/1L". Litres are
// treated as kg-equivalent. The result is floored at MinChargeableWeightKg.
func TotalWeightKg(items []CartItem) float64 {
	total := 0.0
	for _, item := range items {
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		kg, ok := itemWeightKg(item.PriceDisplay)
		if !ok {
			kg = fallbackItemWeightKg
		}
		total += kg * float64(qty)
	}
	if total < MinChargeableWeightKg {
		return MinChargeableWeightKg
	}
	return total
}

// itemWeightKg extracts the per-unit weight in kg from a price display string.
func itemWeightKg(priceDisplay string) (float64, bool) {
	cleaned := stripCurrency(priceDisplay)
	parts := strings.Split(cleaned, "/")
	if len(parts) < 2 {
		return 0, false
	}
	value, unit, ok := parseWeightToken(parts[1])
	if !ok {
		return 0, false
	}
	return toKg(value, unit), true
}

// PriceQuote is the result of recomputing a base price for a chosen weight.
type PriceQuote struct {
	Price        float64 `json:"price"`
	PriceDisplay string  `json:"priceDisplay"`
	WeightValue  float64 `json:"weight_value"`
	WeightUnit   string  `json:"weight_unit"`
}

// PriceForWeight scales a base price string like "399/kg" or "₹399/kg" to a
// selected weight and unit, returning the price rounded to paise and a display
// string with unit-appropriate precision. A base price without a "/" is read
// as a per-kg price.
func PriceForWeight(basePrice string, selectedValue float64, selectedUnit string) (PriceQuote, error) {
	cleaned := stripCurrency(basePrice)
	parts := strings.Split(cleaned, "/")

	var base float64
	baseWeightKg := 1.0
	var err error
	if len(parts) < 2 {
		base, err = strconv.ParseFloat(strings.TrimSpace(cleaned), 64)
	} else {
		base, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if value, unit, ok := parseWeightToken(parts[1]); ok {
			baseWeightKg = toKg(value, unit)
		}
	}
	if err != nil {
		return PriceQuote{}, fmt.Errorf("unparseable base price %q: %w", basePrice, err)
	}
	if baseWeightKg <= 0 {
		return PriceQuote{}, fmt.Errorf("base price %q has zero weight", basePrice)
	}

	selectedKg := toKg(selectedValue, normalizeUnit(selectedUnit))
	price := base / baseWeightKg * selectedKg
	price = float64(int(price*100+0.5)) / 100

	return PriceQuote{
		Price:        price,
		PriceDisplay: formatDisplay(price, selectedValue, normalizeUnit(selectedUnit)),
		WeightValue:  selectedValue,
		WeightUnit:   string(normalizeUnit(selectedUnit)),
	}, nil
}

type unit string

const (
	unitKg    unit = "kg"
	unitGram  unit = "g"
	unitLitre unit = "L"
)

func stripCurrency(s string) string {
	cleaned := strings.NewReplacer("₹", "", "Rs", "", "rs", "").Replace(s)
	return strings.TrimSpace(cleaned)
}

func parseWeightToken(s string) (float64, unit, bool) {
	m := weightPattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(s)))
	if m == nil {
		return 0, unitKg, false
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, unitKg, false
	}
	return value, normalizeUnit(m[2]), true
}

func normalizeUnit(raw string) unit {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "g", "gm", "gram", "grams":
		return unitGram
	case "l", "litre", "liter", "liters", "litres":
		return unitLitre
	default:
		return unitKg
	}
}

// toKg converts a weight to kg. Litres map 1:1, close enough for the liquids
// sold here.
func toKg(value float64, u unit) float64 {
	switch u {
	case unitGram:
		return value / 1000
	default:
		return value
	}
}

func formatDisplay(price, selectedValue float64, u unit) string {
	switch u {
	case unitGram:
		return fmt.Sprintf("₹%.2f/%dg", price, int(selectedValue))
	case unitLitre:
		return fmt.Sprintf("₹%.2f/%gL", price, selectedValue)
	default:
		if selectedValue == 1.0 {
			return fmt.Sprintf("₹%.2f/1kg", price)
		}
		return fmt.Sprintf("₹%.2f/%gkg", price, selectedValue)
	}
}
