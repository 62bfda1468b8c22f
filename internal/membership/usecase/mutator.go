package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"aura-backend/internal/membership/domain/model"
	"aura-backend/internal/membership/domain/repository"
	apperrors "aura-backend/internal/shared/errors"
	"aura-backend/internal/shared/logger"
	"aura-backend/internal/shared/metrics"

	"golang.org/x/sync/errgroup"
)

// Mutation describes one change to a group, applied to every participant's
// copy of it.
type Mutation struct {
	Kind    model.Kind
	GroupID string
	// ActorID is the verified caller.
	ActorID string
	// ParticipantIDs is the group's current member list, before Op applies.
	ParticipantIDs []string
	Op             Op
	// AllowOutsideActor skips the actor-is-member check. Used when the
	// Authority hook has already established the caller's rights, e.g. an
	// event owner who is not a participant or a user joining an event.
	AllowOutsideActor bool
	// Authority runs after the plan is validated and before any participant
	// write. It checks and advances the authoritative group record; in
	// transactional mode it runs inside the same transaction as the fan-out.
	Authority func(ctx context.Context) error
}

// Result reports per-participant outcomes.
type Result struct {
	GroupID string            `json:"groupId"`
	Applied []string          `json:"applied"`
	Failed  map[string]string `json:"failed,omitempty"`
}

// Mutator is the fan-out entry point used by the chat and event modules.
type Mutator interface {
	Apply(ctx context.Context, m Mutation) (*Result, error)
}

// Config controls how writes are committed.
type Config struct {
	// Transactional commits the authority hook and all participant writes in
	// one multi-document transaction. When false, writes are issued
	// concurrently and partial failures are reported in Result.
	Transactional bool
	// MaxConcurrentWrites bounds best-effort fan-out concurrency.
	MaxConcurrentWrites int
}

// FanOutMutator implements Mutator over a Store.
type FanOutMutator struct {
	store  repository.Store
	config Config
	log    logger.Logger
}

// NewMutator creates a mutator.
func NewMutator(store repository.Store, cfg Config, log logger.Logger) *FanOutMutator {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.MaxConcurrentWrites <= 0 {
		cfg.MaxConcurrentWrites = 16
	}
	return &FanOutMutator{
		store:  store,
		config: cfg,
		log:    log.WithComponent("membership"),
	}
}

// Apply loads every involved user, validates membership, computes one patch
// per write and commits them.
func (f *FanOutMutator) Apply(ctx context.Context, m Mutation) (*Result, error) {
	if err := f.validate(&m); err != nil {
		return nil, err
	}

	log := f.log.WithContext(ctx).WithFields(map[string]interface{}{
		"kind":    string(m.Kind),
		"groupId": m.GroupID,
		"op":      m.Op.Name(),
		"actorId": m.ActorID,
	})

	if f.config.Transactional {
		var patches []model.Patch
		err := f.store.RunInTransaction(ctx, func(txCtx context.Context) error {
			var err error
			patches, err = f.prepare(txCtx, m)
			if err != nil {
				return err
			}
			for _, p := range patches {
				if err := f.store.ApplyPatch(txCtx, p); err != nil {
					return fmt.Errorf("participant %s: %w", p.UserID, err)
				}
			}
			return nil
		})
		if err != nil {
			f.count(m, "rolled_back", len(patches))
			log.Warnf("fan-out aborted: %v", err)
			return nil, apperrors.WrapError(err, "failed to update group members")
		}
		f.count(m, "applied", len(patches))
		log.Infof("fan-out committed to %d participants", len(patches))
		return &Result{GroupID: m.GroupID, Applied: patchedUsers(patches)}, nil
	}

	patches, err := f.prepare(ctx, m)
	if err != nil {
		return nil, err
	}
	result := f.applyConcurrently(ctx, m, patches)
	if len(result.Failed) > 0 {
		log.WithFields(map[string]interface{}{"failed": result.Failed}).
			Errorf("fan-out partially applied: %d ok, %d failed", len(result.Applied), len(result.Failed))
		return result, apperrors.NewPartialFanOutError(m.GroupID, result.Applied, result.Failed)
	}
	log.Infof("fan-out applied to %d participants", len(result.Applied))
	return result, nil
}

func (f *FanOutMutator) validate(m *Mutation) error {
	if !m.Kind.Valid() {
		return apperrors.NewValidationError(fmt.Sprintf("unknown group kind %q", m.Kind))
	}
	if m.GroupID == "" {
		return apperrors.NewValidationError("group id is required")
	}
	if m.Op == nil {
		return apperrors.NewValidationError("mutation op is required")
	}
	if m.ActorID == "" {
		return apperrors.NewAuthenticationError("No token provided")
	}
	m.ParticipantIDs = model.Dedupe(m.ParticipantIDs)
	if len(m.ParticipantIDs) == 0 {
		return apperrors.NewValidationError("participant list cannot be empty")
	}
	if !m.AllowOutsideActor && !model.Contains(m.ParticipantIDs, m.ActorID) {
		return apperrors.NewPreconditionError("you are not one of the member in the chat")
	}
	return nil
}

// prepare loads documents, plans patches and then runs the authority hook,
// so a rejected plan never touches the group record.
func (f *FanOutMutator) prepare(ctx context.Context, m Mutation) ([]model.Patch, error) {
	ids := model.Dedupe(m.Op.involved(m))
	members, err := f.store.LoadMembers(ctx, m.Kind, ids)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if members[id] == nil {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("User %s", id)).WithDetail("userId", id)
		}
	}
	patches, err := m.Op.plan(m, members)
	if err != nil {
		return nil, err
	}

	if m.Authority != nil {
		if err := m.Authority(ctx); err != nil {
			return nil, err
		}
	}
	return patches, nil
}

func (f *FanOutMutator) applyConcurrently(ctx context.Context, m Mutation, patches []model.Patch) *Result {
	var (
		mu     sync.Mutex
		result = &Result{GroupID: m.GroupID, Failed: map[string]string{}}
		g      errgroup.Group
	)
	g.SetLimit(f.config.MaxConcurrentWrites)

	for _, p := range patches {
		p := p
		g.Go(func() error {
			err := f.store.ApplyPatch(ctx, p)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed[p.UserID] = err.Error()
				f.count(m, "failed", 1)
				return nil
			}
			result.Applied = append(result.Applied, p.UserID)
			f.count(m, "applied", 1)
			return nil
		})
	}
	_ = g.Wait()

	sort.Strings(result.Applied)
	if len(result.Failed) == 0 {
		result.Failed = nil
	}
	return result
}

func (f *FanOutMutator) count(m Mutation, outcome string, n int) {
	if n == 0 {
		return
	}
	metrics.FanOutWrites.WithLabelValues(string(m.Kind), m.Op.Name(), outcome).Add(float64(n))
}

func patchedUsers(patches []model.Patch) []string {
	ids := make([]string, 0, len(patches))
	for _, p := range patches {
		ids = append(ids, p.UserID)
	}
	ids = model.Dedupe(ids)
	sort.Strings(ids)
	return ids
}
