package usecase_test

import (
	"context"
	"errors"
	"testing"

	"cardvault/internal/collection/domain/model"
	"cardvault/internal/collection/usecase"
	apperrors "cardvault/internal/shared/errors"
	"cardvault/internal/shared/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock repository
type mockCollectionRepository struct {
	mock.Mock
}

func (m *mockCollectionRepository) GetCards(ctx context.Context, userID string) (model.CardMap, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.CardMap), args.Error(1)
}

func (m *mockCollectionRepository) Save(ctx context.Context, userID string, cards model.CardMap, entry model.PriceHistoryEntry) error {
	args := m.Called(ctx, userID, cards, entry)
	return args.Error(0)
}

func (m *mockCollectionRepository) GetPriceHistory(ctx context.Context, userID string) ([]model.PriceHistoryEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PriceHistoryEntry), args.Error(1)
}

func newUsecase(repo *mockCollectionRepository) *usecase.CollectionUsecase {
	return usecase.NewCollectionUsecase(repo, logger.NewLogger())
}

func TestGetCollection_EmptyWhenNoDocument(t *testing.T) {
	repo := &mockCollectionRepository{}
	repo.On("GetCards", mock.Anything, "user-1").Return(nil, nil)

	cards, err := newUsecase(repo).GetCollection(context.Background(), "user-1")
	require.NoError(t, err)
	assert.NotNil(t, cards)
	assert.Empty(t, cards)
}

func TestGetCollection_RepositoryError(t *testing.T) {
	repo := &mockCollectionRepository{}
	cause := errors.New("connection reset")
	repo.On("GetCards", mock.Anything, "user-1").Return(nil, cause)

	_, err := newUsecase(repo).GetCollection(context.Background(), "user-1")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr, "storage failures surface as typed application errors")
	assert.Equal(t, apperrors.ErrorTypeInfrastructure, appErr.Type)
	assert.Equal(t, 500, apperrors.HTTPStatus(err))
	assert.ErrorIs(t, err, cause)
}

func TestSaveCollection_ComputesEntryFromCards(t *testing.T) {
	repo := &mockCollectionRepository{}
	cards := model.CardMap{
		"card1": {
			"Base":      float64(3),
			"_analyses": []interface{}{"ignored"},
		},
		"card2": {"SuperFractor 1/1": float64(1)},
	}

	var saved model.PriceHistoryEntry
	repo.On("Save", mock.Anything, "user-1", cards, mock.MatchedBy(func(e model.PriceHistoryEntry) bool {
		saved = e
		return true
	})).Return(nil)

	total, err := newUsecase(repo).SaveCollection(context.Background(), "user-1", cards)
	require.NoError(t, err)

	assert.Equal(t, 506, total)
	assert.Equal(t, 506, saved.TotalValue)
	assert.Equal(t, 4, saved.CardCount)
	assert.False(t, saved.Date.IsZero())
	repo.AssertExpectations(t)
}

func TestSaveCollection_MissingCards(t *testing.T) {
	repo := &mockCollectionRepository{}

	_, err := newUsecase(repo).SaveCollection(context.Background(), "user-1", nil)
	assert.ErrorIs(t, err, usecase.ErrMissingCards)
	repo.AssertNotCalled(t, "Save")
}

func TestSaveCollection_EmptyMapIsValid(t *testing.T) {
	repo := &mockCollectionRepository{}
	repo.On("Save", mock.Anything, "user-1", model.CardMap{}, mock.MatchedBy(func(e model.PriceHistoryEntry) bool {
		return e.TotalValue == 0 && e.CardCount == 0
	})).Return(nil)

	total, err := newUsecase(repo).SaveCollection(context.Background(), "user-1", model.CardMap{})
	require.NoError(t, err)
	assert.Zero(t, total)
	repo.AssertExpectations(t)
}

func TestSaveCollection_RepositoryError(t *testing.T) {
	repo := &mockCollectionRepository{}
	repo.On("Save", mock.Anything, "user-1", mock.Anything, mock.Anything).Return(errors.New("write concern failed"))

	_, err := newUsecase(repo).SaveCollection(context.Background(), "user-1", model.CardMap{})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeInfrastructure, appErr.Type)
}

func TestGetPriceHistory_EmptyWhenNoDocument(t *testing.T) {
	repo := &mockCollectionRepository{}
	repo.On("GetPriceHistory", mock.Anything, "user-1").Return(nil, nil)

	history, err := newUsecase(repo).GetPriceHistory(context.Background(), "user-1")
	require.NoError(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)
}

func TestGetPriceHistory_ReturnsEntries(t *testing.T) {
	repo := &mockCollectionRepository{}
	entries := []model.PriceHistoryEntry{
		{TotalValue: 10, CardCount: 5},
		{TotalValue: 12, CardCount: 6},
	}
	repo.On("GetPriceHistory", mock.Anything, "user-1").Return(entries, nil)

	history, err := newUsecase(repo).GetPriceHistory(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, entries, history)
}
