package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ms(y int, m time.Month, d, h int) int64 {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC).UnixMilli()
}

func TestDays(t *testing.T) {
	days := Days(ms(2025, 10, 30, 15), ms(2025, 11, 2, 1))
	assert.Equal(t, []int64{ms(2025, 10, 30, 0), ms(2025, 10, 31, 0), ms(2025, 11, 1, 0), ms(2025, 11, 2, 0)}, days)
	assert.Equal(t, 4, DayCount(ms(2025, 10, 30, 15), ms(2025, 11, 2, 1)))

	assert.Len(t, Days(ms(2025, 10, 5, 8), ms(2025, 10, 5, 20)), 1)
	assert.Empty(t, Days(ms(2025, 10, 6, 0), ms(2025, 10, 5, 0)))
	assert.Zero(t, DayCount(ms(2025, 10, 6, 0), ms(2025, 10, 5, 0)))
}

func TestDiffDays(t *testing.T) {
	current := []DailyPlan{
		{ID: "DP1", Date: ms(2025, 10, 1, 0)},
		{ID: "DP2", Date: ms(2025, 10, 2, 0), ScheduleItems: []ScheduleItem{{ID: "SI1"}}},
		{ID: "DP3", Date: ms(2025, 10, 3, 0)},
	}

	kept, added := DiffDays(current, ms(2025, 10, 2, 9), ms(2025, 10, 4, 9))
	assert.Equal(t, []string{"DP2", "DP3"}, []string{kept[0].ID, kept[1].ID})
	assert.Len(t, kept[0].ScheduleItems, 1)
	assert.Equal(t, []int64{ms(2025, 10, 4, 0)}, added)
}

func TestLookups(t *testing.T) {
	plan := &TravelPlan{
		ParticipantIDs: []string{"A"},
		DailyPlans:     []DailyPlan{{ID: "DP1", ScheduleItems: []ScheduleItem{{ID: "SI1", Title: "Breakfast"}}}},
	}
	assert.True(t, plan.HasParticipant("A"))
	assert.False(t, plan.HasParticipant("B"))

	dp := plan.DailyPlan("DP1")
	if assert.NotNil(t, dp) {
		assert.Equal(t, "Breakfast", dp.Item("SI1").Title)
		assert.Nil(t, dp.Item("SI2"))
	}
	assert.Nil(t, plan.DailyPlan("DP2"))
}
