package collection

import (
	"context"
	"fmt"

	collhttp "cardvault/internal/collection/adapter/http"
	"cardvault/internal/collection/adapter/persistence/mongodb"
	"cardvault/internal/collection/domain/repository"
	"cardvault/internal/collection/usecase"
	"cardvault/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
)

// CollectionModule represents the complete collection module
type CollectionModule struct {
	repository repository.CollectionRepository
	usecase    usecase.CollectionUsecaseInterface
	handler    *collhttp.CollectionHTTPHandler
	log        logger.Logger
}

// NewCollectionModule creates a new collection module instance
func NewCollectionModule(db *mongo.Database, log logger.Logger) (*CollectionModule, error) {
	repo, err := mongodb.NewMongoCollectionRepository(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection repository: %w", err)
	}

	uc := usecase.NewCollectionUsecase(repo, log)
	handler := collhttp.NewCollectionHTTPHandler(uc, log)

	module := &CollectionModule{
		repository: repo,
		usecase:    uc,
		handler:    handler,
		log:        log.WithComponent("collection_module"),
	}

	if err := module.runMigrations(db); err != nil {
		return nil, err
	}

	return module, nil
}

// runMigrations applies schema cleanups on startup.
func (cm *CollectionModule) runMigrations(db *mongo.Database) error {
	repo, ok := cm.repository.(*mongodb.MongoCollectionRepository)
	if !ok {
		return nil
	}
	modified, err := repo.StripLegacySnapshots(context.Background())
	if err != nil {
		return fmt.Errorf("failed to strip legacy price-history snapshots: %w", err)
	}
	if modified > 0 {
		cm.log.Infof("stripped legacy price-history snapshots from %d collection documents", modified)
	}
	return nil
}

// RegisterRoutes registers collection routes behind the provided auth middleware
func (cm *CollectionModule) RegisterRoutes(router fiber.Router, protect fiber.Handler) {
	cm.handler.SetupCollectionRoutes(router, protect)
}

// GetUsecase returns the collection usecase for external access
func (cm *CollectionModule) GetUsecase() usecase.CollectionUsecaseInterface {
	return cm.usecase
}
