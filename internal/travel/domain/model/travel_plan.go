package model

import (
	"time"
)

const dayMillis = int64(24 * time.Hour / time.Millisecond)

// Participant is a member of a travel plan as shown to other members.
type Participant struct {
	ID     string  `bson:"id" json:"id"`
	Name   string  `bson:"name" json:"name"`
	Avatar *string `bson:"avatar" json:"avatar"`
}

// Time is a wall-clock time of day.
type Time struct {
	Hour   int `bson:"hour" json:"hour" validate:"min=0,max=23"`
	Minute int `bson:"minute" json:"minute" validate:"min=0,max=59"`
}

// ScheduleItem is one entry in a day's plan.
type ScheduleItem struct {
	ID         string `bson:"id" json:"id"`
	Title      string `bson:"title" json:"title"`
	AssignedBy string `bson:"assignedBy" json:"assignedBy"`
	Time       Time   `bson:"time" json:"time"`
}

// DailyPlan holds the schedule for one calendar day. Date is midnight UTC in
// epoch milliseconds.
type DailyPlan struct {
	ID            string         `bson:"id" json:"id"`
	Date          int64          `bson:"date" json:"date"`
	ScheduleItems []ScheduleItem `bson:"scheduleItems" json:"scheduleItems"`
}

// Item returns the schedule item with id, or nil.
func (d *DailyPlan) Item(id string) *ScheduleItem {
	for i := range d.ScheduleItems {
		if d.ScheduleItems[i].ID == id {
			return &d.ScheduleItems[i]
		}
	}
	return nil
}

// TravelPlan is a multi-day trip with one DailyPlan per day between
// StartDate and EndDate inclusive.
type TravelPlan struct {
	ID             string        `bson:"_id" json:"id"`
	OwnerID        string        `bson:"ownerId" json:"ownerId"`
	Title          string        `bson:"title" json:"title"`
	StartDate      int64         `bson:"startDate" json:"startDate"`
	EndDate        int64         `bson:"endDate" json:"endDate"`
	Participants   []Participant `bson:"participants" json:"participants"`
	ParticipantIDs []string      `bson:"participantIds" json:"participantIds"`
	DailyPlans     []DailyPlan   `bson:"dailyPlans" json:"dailyPlans"`
	Version        int64         `bson:"version" json:"version"`
	CreateAt       time.Time     `bson:"createAt" json:"createAt"`
	UpdateAt       *time.Time    `bson:"updateAt,omitempty" json:"updateAt,omitempty"`
}

// HasParticipant reports whether userID is on the plan.
func (p *TravelPlan) HasParticipant(userID string) bool {
	for _, id := range p.ParticipantIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// DailyPlan returns the daily plan with id, or nil.
func (p *TravelPlan) DailyPlan(id string) *DailyPlan {
	for i := range p.DailyPlans {
		if p.DailyPlans[i].ID == id {
			return &p.DailyPlans[i]
		}
	}
	return nil
}

// Midnight truncates an epoch-millisecond timestamp to midnight UTC.
func Midnight(ms int64) int64 {
	t := time.UnixMilli(ms).UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).UnixMilli()
}

// Days lists midnight UTC of every day from start to end inclusive.
func Days(start, end int64) []int64 {
	start, end = Midnight(start), Midnight(end)
	if end < start {
		return nil
	}
	days := make([]int64, 0, (end-start)/dayMillis+1)
	for d := start; d <= end; d += dayMillis {
		days = append(days, d)
	}
	return days
}

// DayCount returns how many days Days(start, end) would list.
func DayCount(start, end int64) int {
	start, end = Midnight(start), Midnight(end)
	if end < start {
		return 0
	}
	return int((end-start)/dayMillis) + 1
}

// DiffDays compares the days a plan currently covers against the days it
// should cover. kept holds existing daily plans still in range, in date
// order; added lists the days with no daily plan yet.
func DiffDays(current []DailyPlan, start, end int64) (kept []DailyPlan, added []int64) {
	byDate := make(map[int64]DailyPlan, len(current))
	for _, dp := range current {
		byDate[dp.Date] = dp
	}
	for _, day := range Days(start, end) {
		if dp, ok := byDate[day]; ok {
			kept = append(kept, dp)
			continue
		}
		added = append(added, day)
	}
	return kept, added
}
