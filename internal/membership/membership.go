package membership

import (
	"aura-backend/internal/membership/adapter/persistence/mongodb"
	"aura-backend/internal/membership/usecase"
	"aura-backend/internal/shared/logger"

	"go.mongodb.org/mongo-driver/mongo"
)

// MembershipModule wires the fan-out mutator to the users collection.
type MembershipModule struct {
	store   *mongodb.MemberStore
	mutator *usecase.FanOutMutator
}

// NewMembershipModule creates the module. transactional selects
// multi-document transactions over best-effort concurrent writes.
func NewMembershipModule(client *mongo.Client, db *mongo.Database, transactional bool, log logger.Logger) *MembershipModule {
	store := mongodb.NewMemberStore(client, db)
	return &MembershipModule{
		store:   store,
		mutator: usecase.NewMutator(store, usecase.Config{Transactional: transactional}, log),
	}
}

// Mutator returns the fan-out mutator.
func (m *MembershipModule) Mutator() usecase.Mutator {
	return m.mutator
}

// Store returns the underlying store. Modules use RunInTransaction on it to
// group their own writes with a fan-out.
func (m *MembershipModule) Store() *mongodb.MemberStore {
	return m.store
}
