package model

import (
	"strings"
	"time"
)

// Reserved variant-key markers. Keys starting with ReservedPrefix carry
// non-count metadata (analysis blobs, client annotations) and are never priced.
const (
	ReservedPrefix = "_"
	MetadataKey    = "_analyses"
)

// VariantMap maps a variant name (print/rarity tier) to either an owned count
// or, for reserved keys, an opaque metadata value.
type VariantMap map[string]interface{}

// CardMap is the full card inventory of one user: card identifier -> variants.
type CardMap map[string]VariantMap

// FieldKind discriminates the two shapes a variant entry can take.
type FieldKind int

const (
	// FieldKindCount marks an owned-quantity entry.
	FieldKindCount FieldKind = iota
	// FieldKindMetadata marks a reserved-key entry skipped during aggregation.
	FieldKindMetadata
)

// FieldValue is the tagged-union view of one variant entry.
type FieldValue struct {
	Kind  FieldKind
	Count float64
	Meta  interface{}
}

// ResolveField classifies a raw variant entry. Reserved keys become metadata;
// everything else is coerced to a count, with non-numeric values treated as 0.
// JSON decoding yields float64 and BSON decoding yields int32/int64, so both
// numeric families are accepted.
func ResolveField(key string, raw interface{}) FieldValue {
	if key == MetadataKey || strings.HasPrefix(key, ReservedPrefix) {
		return FieldValue{Kind: FieldKindMetadata, Meta: raw}
	}

	switch v := raw.(type) {
	case float64:
		return FieldValue{Kind: FieldKindCount, Count: v}
	case float32:
		return FieldValue{Kind: FieldKindCount, Count: float64(v)}
	case int:
		return FieldValue{Kind: FieldKindCount, Count: float64(v)}
	case int32:
		return FieldValue{Kind: FieldKindCount, Count: float64(v)}
	case int64:
		return FieldValue{Kind: FieldKindCount, Count: float64(v)}
	default:
		return FieldValue{Kind: FieldKindCount, Count: 0}
	}
}

// PriceHistoryEntry is a timestamped snapshot of aggregate collection value and
// card count. Per-card snapshots were dropped from entries after they caused
// unbounded document growth; see the startup migration in the mongodb adapter.
type PriceHistoryEntry struct {
	Date       time.Time `json:"date" bson:"date"`
	TotalValue int       `json:"totalValue" bson:"totalValue"`
	CardCount  int       `json:"cardCount" bson:"cardCount"`
}

// Collection is a user's card document. One per user, created lazily on first
// save; priceHistory is capped to the most recent MaxPriceHistoryEntries.
type Collection struct {
	UserID       string              `json:"userId" bson:"userId"`
	Cards        CardMap             `json:"cards" bson:"cards"`
	PriceHistory []PriceHistoryEntry `json:"priceHistory" bson:"priceHistory"`
	CreatedAt    time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// MaxPriceHistoryEntries bounds the history list; the oldest entries are
// silently evicted once the cap is exceeded.
const MaxPriceHistoryEntries = 500
