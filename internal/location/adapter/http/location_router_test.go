package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"aura-backend/internal/location/domain/model"
	"aura-backend/internal/location/usecase"
	"aura-backend/internal/shared/httpx"
	"aura-backend/internal/shared/logger"
	"aura-backend/internal/shared/utils"
	"aura-backend/internal/shared/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockLocationUsecase struct {
	mock.Mock
}

func (m *mockLocationUsecase) Search(ctx context.Context, q usecase.SearchQuery) (*usecase.SearchResult, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.SearchResult), args.Error(1)
}

func setupApp(uc *mockLocationUsecase) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: httpx.ErrorHandler(logger.Nop())})
	user := app.Group("/user", func(c *fiber.Ctx) error {
		if id := c.Get("X-User"); id != "" {
			c.SetUserContext(utils.WithUserID(c.UserContext(), id))
		}
		return c.Next()
	})
	NewLocationHTTPHandler(uc, validation.New("+60"), logger.Nop()).SetupRoutes(user)
	return app
}

func get(t *testing.T, app *fiber.App, path string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	req.Header.Set("X-User", "A")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestSearch(t *testing.T) {
	uc := new(mockLocationUsecase)
	app := setupApp(uc)

	uc.On("Search", mock.Anything, usecase.SearchQuery{Location: "3.14,101.69", Query: "klcc"}).
		Return(&usecase.SearchResult{
			Message:   usecase.MsgFoundInDB,
			Locations: []model.Scored{{Location: model.Location{ID: "LOC1", Name: "KLCC"}, Score: 3}},
		}, nil)

	status, resp := get(t, app, "/user/location/search?location=3.14,101.69&query=klcc")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, usecase.MsgFoundInDB, resp["message"])

	locs, ok := resp["locations"].([]interface{})
	require.True(t, ok)
	first := locs[0].(map[string]interface{})
	assert.Equal(t, "KLCC", first["name"])
	assert.Equal(t, float64(3), first["_score"])
}

func TestSearch_BadLocation(t *testing.T) {
	uc := new(mockLocationUsecase)
	app := setupApp(uc)

	status, resp := get(t, app, "/user/location/search?location=kl&query=klcc")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, `"location" must look like lat,lng`, resp["error"])

	status, _ = get(t, app, "/user/location/search?location=3.14,101.69")
	assert.Equal(t, fiber.StatusBadRequest, status)
	uc.AssertNotCalled(t, "Search")
}
