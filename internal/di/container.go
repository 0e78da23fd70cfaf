package di

import (
	"context"
	"fmt"
	"sync"

	"cardvault/internal/auth"
	authconfig "cardvault/internal/auth/config"
	"cardvault/internal/collection"
	"cardvault/internal/recognition"
	recconfig "cardvault/internal/recognition/config"
	"cardvault/internal/shared/logger"

	"go.mongodb.org/mongo-driver/mongo"
)

// Container wires module instances and owns their lifecycle.
type Container struct {
	mu sync.RWMutex

	AuthModule        *auth.AuthModule
	CollectionModule  *collection.CollectionModule
	RecognitionModule *recognition.RecognitionModule

	MongoDB *mongo.Database

	AuthConfig        *authconfig.Config
	RecognitionConfig *recconfig.Config

	Logger logger.Logger
}

// NewContainer creates a new DI container
func NewContainer(log logger.Logger) *Container {
	return &Container{Logger: log}
}

// InitializeAuth initializes the authentication module
func (c *Container) InitializeAuth(mongoDB *mongo.Database, cfg *authconfig.Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.MongoDB = mongoDB
	c.AuthConfig = cfg

	authModule, err := auth.NewAuthModule(mongoDB, cfg, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to create auth module: %w", err)
	}

	c.AuthModule = authModule
	return nil
}

// InitializeCollection initializes the collection module. Requires the auth
// module, whose middleware guards the collection routes.
func (c *Container) InitializeCollection() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.MongoDB == nil {
		return fmt.Errorf("collection module requires an initialized MongoDB connection")
	}

	collectionModule, err := collection.NewCollectionModule(c.MongoDB, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to create collection module: %w", err)
	}

	c.CollectionModule = collectionModule
	return nil
}

// InitializeRecognition initializes the recognition module
func (c *Container) InitializeRecognition(cfg *recconfig.Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.RecognitionConfig = cfg
	c.RecognitionModule = recognition.NewRecognitionModule(cfg, c.Logger)
	return nil
}

// HealthCheck verifies the container's backing services are reachable
func (c *Container) HealthCheck(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.MongoDB == nil {
		return fmt.Errorf("mongodb not initialized")
	}
	if err := c.MongoDB.Client().Ping(ctx, nil); err != nil {
		return fmt.Errorf("mongodb ping failed: %w", err)
	}
	return nil
}

// Close releases container resources
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Modules hold no resources beyond the shared Mongo client, which main owns.
	return nil
}
