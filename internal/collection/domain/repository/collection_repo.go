package repository

import (
	"context"

	"cardvault/internal/collection/domain/model"
)

// CollectionRepository defines the persistence contract for card collections.
// Save is a get-or-create upsert: the document for userID is created lazily on
// first save, and the history append together with its trim to the most recent
// MaxPriceHistoryEntries must be atomic with the cards update; concurrent
// saves for one user must not interleave and lose entries.
type CollectionRepository interface {
	GetCards(ctx context.Context, userID string) (model.CardMap, error)
	Save(ctx context.Context, userID string, cards model.CardMap, entry model.PriceHistoryEntry) error
	GetPriceHistory(ctx context.Context, userID string) ([]model.PriceHistoryEntry, error)
}
