package http

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "aura-backend/internal/shared/errors"
	"aura-backend/internal/shared/httpx"
	"aura-backend/internal/shared/logger"
	"aura-backend/internal/shared/utils"
	"aura-backend/internal/shared/validation"
	"aura-backend/internal/travel/domain/model"
	"aura-backend/internal/travel/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupApp(uc *mockTravelUsecase) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: httpx.ErrorHandler(logger.Nop())})
	user := app.Group("/user", func(c *fiber.Ctx) error {
		if id := c.Get("X-User"); id != "" {
			c.SetUserContext(utils.WithUserID(c.UserContext(), id))
		}
		return c.Next()
	})
	NewTravelHTTPHandler(uc, validation.New("+60"), logger.Nop()).SetupRoutes(user)
	return app
}

func do(t *testing.T, app *fiber.App, method, path, user, body string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-User", user)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]interface{}{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func TestCreatePlan(t *testing.T) {
	uc := new(mockTravelUsecase)
	app := setupApp(uc)

	uc.On("CreatePlan", mock.Anything, "A", usecase.CreatePlanRequest{
		Owner: usecase.Owner{Name: "Aina"},
		Data:  usecase.PlanData{Title: "Penang", StartDate: 1759622400000, EndDate: 1759795200000},
	}).Return(&model.TravelPlan{ID: "TP2510000000001"}, nil)

	status, resp := do(t, app, "POST", "/user/travelPlan/create", "A",
		`{"owner":{"name":"Aina","avatar":null},"data":{"title":"Penang","startDate":1759622400000,"endDate":1759795200000}}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, usecase.MsgPlanCreated, resp["message"])
	assert.Equal(t, "TP2510000000001", resp["eventId"])
	uc.AssertExpectations(t)
}

func TestCreatePlan_Rejected(t *testing.T) {
	uc := new(mockTravelUsecase)
	app := setupApp(uc)

	status, resp := do(t, app, "POST", "/user/travelPlan/create", "A", `{"owner":{"name":"Aina"},"data":{"startDate":1,"endDate":2}}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, `"title" is required`, resp["error"])

	status, _ = do(t, app, "POST", "/user/travelPlan/create", "", `{"owner":{"name":"Aina"},"data":{"title":"x","startDate":1,"endDate":2}}`)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	uc.AssertNotCalled(t, "CreatePlan")
}

func TestDeletePlan_NotOwner(t *testing.T) {
	uc := new(mockTravelUsecase)
	app := setupApp(uc)

	uc.On("DeletePlan", mock.Anything, "B", "TP1").
		Return(apperrors.NewAuthorizationError("Forbidden: You are not the owner of this travel plan"))

	status, resp := do(t, app, "DELETE", "/user/travelPlan/delete", "B", `{"id":"TP1"}`)
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "Forbidden: You are not the owner of this travel plan", resp["error"])
}

func TestGetPlan(t *testing.T) {
	uc := new(mockTravelUsecase)
	app := setupApp(uc)

	uc.On("GetPlan", mock.Anything, "A", "TP1").Return(&model.TravelPlan{ID: "TP1", Title: "Penang"}, nil)

	status, resp := do(t, app, "GET", "/user/travelPlan/get?id=TP1", "A", "")
	assert.Equal(t, fiber.StatusOK, status)
	got, ok := resp["travelPlan"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Penang", got["title"])
}

func TestScheduleItemRoutes(t *testing.T) {
	uc := new(mockTravelUsecase)
	app := setupApp(uc)

	dp := &model.DailyPlan{ID: "DP1", ScheduleItems: []model.ScheduleItem{{ID: "SI1", Title: "Breakfast"}}}
	uc.On("CreateScheduleItem", mock.Anything, "A", mock.MatchedBy(func(r usecase.CreateScheduleItemRequest) bool {
		return r.DailyPlanID == "DP1" && r.Data.ScheduleItem.Time.Hour == 8
	})).Return(dp, nil)
	uc.On("DeleteScheduleItem", mock.Anything, "A", usecase.DeleteScheduleItemRequest{TravelPlanID: "TP1", DailyPlanID: "DP1", ScheduleItemID: "SI9"}).
		Return(nil, apperrors.NewNotFoundError("Schedule item"))

	status, resp := do(t, app, "POST", "/user/travelPlan/dailyPlan/scheduleItem/create", "A",
		`{"travelPlanId":"TP1","dailyPlanId":"DP1","data":{"scheduleItem":{"title":"Breakfast","assignedBy":"A","time":{"hour":8,"minute":0}}}}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, usecase.MsgScheduleAdded, resp["message"])
	assert.Equal(t, "TP1", resp["eventId"])
	assert.NotNil(t, resp["dailyPlan"])

	status, _ = do(t, app, "POST", "/user/travelPlan/dailyPlan/scheduleItem/create", "A",
		`{"travelPlanId":"TP1","dailyPlanId":"DP1","data":{"scheduleItem":{"title":"Late","assignedBy":"A","time":{"hour":25,"minute":0}}}}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, resp = do(t, app, "DELETE", "/user/travelPlan/dailyPlan/scheduleItem/delete", "A",
		`{"travelPlanId":"TP1","dailyPlanId":"DP1","scheduleItemId":"SI9"}`)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "Schedule item not found", resp["error"])
}
