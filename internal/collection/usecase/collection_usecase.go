package usecase

import (
	"context"
	"errors"
	"time"

	"cardvault/internal/collection/domain/model"
	"cardvault/internal/collection/domain/repository"
	"cardvault/internal/collection/domain/service"
	apperrors "cardvault/internal/shared/errors"
	"cardvault/internal/shared/logger"
)

var ErrMissingCards = errors.New("cards data is required")

// CollectionUsecaseInterface defines the contract for collection use cases.
type CollectionUsecaseInterface interface {
	GetCollection(ctx context.Context, userID string) (model.CardMap, error)
	SaveCollection(ctx context.Context, userID string, cards model.CardMap) (int, error)
	GetPriceHistory(ctx context.Context, userID string) ([]model.PriceHistoryEntry, error)
}

// CollectionUsecase implements collection storage and valuation logic.
type CollectionUsecase struct {
	repo repository.CollectionRepository
	log  logger.Logger
	now  func() time.Time
}

// NewCollectionUsecase creates a new instance of CollectionUsecase.
func NewCollectionUsecase(repo repository.CollectionRepository, log logger.Logger) *CollectionUsecase {
	return &CollectionUsecase{
		repo: repo,
		log:  log.WithComponent("collection_usecase"),
		now:  time.Now,
	}
}

// GetCollection returns the user's card inventory, empty when none was saved yet.
func (uc *CollectionUsecase) GetCollection(ctx context.Context, userID string) (model.CardMap, error) {
	cards, err := uc.repo.GetCards(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInfrastructureError("failed to load collection").
			WithCause(err).WithComponent("collection_usecase")
	}
	if cards == nil {
		cards = model.CardMap{}
	}
	return cards, nil
}

// SaveCollection upserts the user's card inventory and appends a price-history
// entry computed from it, returning the aggregate value.
func (uc *CollectionUsecase) SaveCollection(ctx context.Context, userID string, cards model.CardMap) (int, error) {
	if cards == nil {
		return 0, ErrMissingCards
	}

	totalValue := service.CollectionValue(cards)
	entry := model.PriceHistoryEntry{
		Date:       uc.now().UTC(),
		TotalValue: totalValue,
		CardCount:  service.CardCount(cards),
	}

	if err := uc.repo.Save(ctx, userID, cards, entry); err != nil {
		return 0, apperrors.NewInfrastructureError("failed to save collection").
			WithCause(err).WithComponent("collection_usecase")
	}

	uc.log.WithContext(ctx).Debugf("collection saved: %d cards, value %d", entry.CardCount, totalValue)
	return totalValue, nil
}

// GetPriceHistory returns the bounded value history for the user, newest last.
func (uc *CollectionUsecase) GetPriceHistory(ctx context.Context, userID string) ([]model.PriceHistoryEntry, error) {
	history, err := uc.repo.GetPriceHistory(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInfrastructureError("failed to load price history").
			WithCause(err).WithComponent("collection_usecase")
	}
	if history == nil {
		history = []model.PriceHistoryEntry{}
	}
	return history, nil
}

// Ensure CollectionUsecase implements CollectionUsecaseInterface
var _ CollectionUsecaseInterface = (*CollectionUsecase)(nil)
