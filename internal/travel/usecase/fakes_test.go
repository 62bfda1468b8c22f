package usecase

import (
	"context"
	"sync"
	"time"

	apperrors "aura-backend/internal/shared/errors"
	"aura-backend/internal/travel/domain/model"
)

type memPlans struct {
	mu    sync.Mutex
	plans map[string]model.TravelPlan
}

func newMemPlans() *memPlans {
	return &memPlans{plans: make(map[string]model.TravelPlan)}
}

func clonePlan(p model.TravelPlan) model.TravelPlan {
	days := make([]model.DailyPlan, len(p.DailyPlans))
	for i, dp := range p.DailyPlans {
		dp.ScheduleItems = append([]model.ScheduleItem{}, dp.ScheduleItems...)
		days[i] = dp
	}
	p.DailyPlans = days
	p.ParticipantIDs = append([]string{}, p.ParticipantIDs...)
	return p
}

func (m *memPlans) Create(ctx context.Context, plan *model.TravelPlan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.plans[plan.ID]; ok {
		return apperrors.NewConflictError("exists")
	}
	m.plans[plan.ID] = clonePlan(*plan)
	return nil
}

func (m *memPlans) Get(ctx context.Context, id string) (*model.TravelPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.plans[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("Travel plan")
	}
	p = clonePlan(p)
	return &p, nil
}

func (m *memPlans) ListByParticipant(ctx context.Context, userID string) ([]model.TravelPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.TravelPlan{}
	for _, p := range m.plans {
		if p.HasParticipant(userID) {
			out = append(out, clonePlan(p))
		}
	}
	return out, nil
}

func (m *memPlans) Update(ctx context.Context, plan *model.TravelPlan, version int64, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.plans[plan.ID]
	if !ok {
		return apperrors.NewNotFoundError("Travel plan")
	}
	if cur.Version != version {
		return apperrors.NewConflictError("modified")
	}
	next := clonePlan(*plan)
	next.Version = version + 1
	next.UpdateAt = &at
	m.plans[plan.ID] = next
	return nil
}

func (m *memPlans) Delete(ctx context.Context, id string, version int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.plans[id]
	if !ok {
		return apperrors.NewNotFoundError("Travel plan")
	}
	if cur.Version != version {
		return apperrors.NewConflictError("modified")
	}
	delete(m.plans, id)
	return nil
}

func (m *memPlans) modify(planID, dailyPlanID string, fn func(dp *model.DailyPlan) error) (*model.TravelPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.plans[planID]
	if !ok {
		return nil, apperrors.NewNotFoundError("Travel plan")
	}
	p = clonePlan(p)
	dp := p.DailyPlan(dailyPlanID)
	if dp == nil {
		return nil, apperrors.NewNotFoundError("Daily plan")
	}
	if err := fn(dp); err != nil {
		return nil, err
	}
	m.plans[planID] = p
	out := clonePlan(p)
	return &out, nil
}

func (m *memPlans) PushScheduleItem(ctx context.Context, planID, dailyPlanID string, item model.ScheduleItem) (*model.TravelPlan, error) {
	return m.modify(planID, dailyPlanID, func(dp *model.DailyPlan) error {
		dp.ScheduleItems = append(dp.ScheduleItems, item)
		return nil
	})
}

func (m *memPlans) SetScheduleItem(ctx context.Context, planID, dailyPlanID string, item model.ScheduleItem) (*model.TravelPlan, error) {
	return m.modify(planID, dailyPlanID, func(dp *model.DailyPlan) error {
		cur := dp.Item(item.ID)
		if cur == nil {
			return apperrors.NewNotFoundError("Schedule item")
		}
		*cur = item
		return nil
	})
}

func (m *memPlans) PullScheduleItem(ctx context.Context, planID, dailyPlanID, itemID string) (*model.TravelPlan, error) {
	return m.modify(planID, dailyPlanID, func(dp *model.DailyPlan) error {
		kept := dp.ScheduleItems[:0]
		for _, it := range dp.ScheduleItems {
			if it.ID != itemID {
				kept = append(kept, it)
			}
		}
		dp.ScheduleItems = kept
		return nil
	})
}
