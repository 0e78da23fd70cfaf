package service

import (
	"math"

	"cardvault/internal/collection/domain/model"
)

// FallbackVariantValue prices any variant name missing from the catalog. The
// catalog is a closed-world assumption over known print tiers; unknown names
// degrade gracefully to this constant instead of being rejected.
const FallbackVariantValue = 5

// variantBaseValues is the fixed catalog of print-tier base values.
var variantBaseValues = map[string]float64{
	"Base":             2,
	"Base Refractor":   5,
	"Wave Refractor":   8,
	"Purple Refractor": 10,
	"Blue Refractor":   15,
	"Green Refractor":  25,
	"Aqua Refractor":   35,
	"Gold Refractor":   50,
	"Orange Refractor": 75,
	"Red Refractor":    100,
	"Black Refractor":  150,
	"Atomic Refractor": 200,
	"SuperFractor 1/1": 500,
}

// VariantBaseValue returns the catalog base value for a variant name, or the
// fallback constant for unrecognized names.
func VariantBaseValue(variant string) float64 {
	if value, ok := variantBaseValues[variant]; ok {
		return value
	}
	return FallbackVariantValue
}

// CollectionValue computes the aggregate monetary value of a card inventory:
// the sum over every non-reserved variant entry of count times the variant's
// catalog base value, rounded to the nearest integer. Negative counts are not
// rejected and subtract from the total.
func CollectionValue(cards model.CardMap) int {
	total := 0.0
	for _, variants := range cards {
		for variant, raw := range variants {
			field := model.ResolveField(variant, raw)
			if field.Kind == model.FieldKindMetadata {
				continue
			}
			total += field.Count * VariantBaseValue(variant)
		}
	}
	return int(math.Round(total))
}

// CardCount computes the total number of owned cards across all variants,
// skipping reserved metadata entries.
func CardCount(cards model.CardMap) int {
	total := 0.0
	for _, variants := range cards {
		for variant, raw := range variants {
			field := model.ResolveField(variant, raw)
			if field.Kind == model.FieldKindMetadata {
				continue
			}
			total += field.Count
		}
	}
	return int(math.Round(total))
}
