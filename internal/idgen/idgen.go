package idgen

import (
	"aura-backend/internal/idgen/adapter/persistence/mongodb"
	"aura-backend/internal/idgen/usecase"
	"aura-backend/internal/shared/logger"

	"go.mongodb.org/mongo-driver/mongo"
)

// IDGenModule wires the sequential allocator to MongoDB.
type IDGenModule struct {
	allocator *usecase.SequentialAllocator
}

// NewIDGenModule creates the allocator over db's meta collection.
func NewIDGenModule(db *mongo.Database, log logger.Logger) *IDGenModule {
	return &IDGenModule{
		allocator: usecase.NewAllocator(mongodb.NewCounterRepository(db), log),
	}
}

// Allocator returns the allocator for other modules.
func (m *IDGenModule) Allocator() usecase.Allocator {
	return m.allocator
}
