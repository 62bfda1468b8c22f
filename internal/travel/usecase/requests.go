package usecase

import "aura-backend/internal/travel/domain/model"

// Response messages.
const (
	MsgPlanCreated     = "Travel plan created successfully"
	MsgPlanUpdated     = "Travel plan updated successfully"
	MsgPlanDeleted     = "Travel plan deleted successfully"
	MsgScheduleAdded   = "Schedule added successfully"
	MsgScheduleEdited  = "Schedule edited successfully"
	MsgScheduleDeleted = "Schedule deleted successfully"
)

// Owner is the caller as listed among the plan's participants.
type Owner struct {
	Name   string  `json:"name" validate:"required"`
	Avatar *string `json:"avatar"`
}

// PlanData is the editable part of a travel plan. Dates are epoch
// milliseconds; only the calendar day (UTC) is kept.
type PlanData struct {
	Title     string `json:"title" validate:"required"`
	StartDate int64  `json:"startDate" validate:"required"`
	EndDate   int64  `json:"endDate" validate:"required,gtefield=StartDate"`
}

type CreatePlanRequest struct {
	Owner Owner    `json:"owner" validate:"required"`
	Data  PlanData `json:"data" validate:"required"`
}

type UpdatePlanRequest struct {
	ID   string   `json:"id" validate:"required"`
	Data PlanData `json:"data" validate:"required"`
}

type IDRequest struct {
	ID string `json:"id" query:"id" validate:"required"`
}

type ScheduleItemData struct {
	Title      string     `json:"title" validate:"required"`
	AssignedBy string     `json:"assignedBy" validate:"required"`
	Time       model.Time `json:"time"`
}

type ScheduleItemBody struct {
	ScheduleItem ScheduleItemData `json:"scheduleItem" validate:"required"`
}

type CreateScheduleItemRequest struct {
	TravelPlanID string           `json:"travelPlanId" validate:"required"`
	DailyPlanID  string           `json:"dailyPlanId" validate:"required"`
	Data         ScheduleItemBody `json:"data" validate:"required"`
}

type UpdateScheduleItemRequest struct {
	TravelPlanID   string           `json:"travelPlanId" validate:"required"`
	DailyPlanID    string           `json:"dailyPlanId" validate:"required"`
	ScheduleItemID string           `json:"scheduleItemId" validate:"required"`
	Data           ScheduleItemBody `json:"data" validate:"required"`
}

type DeleteScheduleItemRequest struct {
	TravelPlanID   string `json:"travelPlanId" validate:"required"`
	DailyPlanID    string `json:"dailyPlanId" validate:"required"`
	ScheduleItemID string `json:"scheduleItemId" validate:"required"`
}
