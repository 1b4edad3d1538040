package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Dosada05/pickleball-portal/handlers"
	"github.com/Dosada05/pickleball-portal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDashboardService struct {
	userData []models.RegistrationDetail
	allData  []models.RegistrationDetail

	lastUserID   int
	lastCategory string
}

func (f *fakeDashboardService) UserRegistrations(ctx context.Context, userID int, category string) ([]models.RegistrationDetail, error) {
	f.lastUserID = userID
	f.lastCategory = category
	return f.userData, nil
}

func (f *fakeDashboardService) AllRegistrations(ctx context.Context, category string) ([]models.RegistrationDetail, error) {
	f.lastCategory = category
	return f.allData, nil
}

func TestTournamentData_ScopesToSessionUser(t *testing.T) {
	svc := &fakeDashboardService{
		userData: []models.RegistrationDetail{
			{RegistrationID: 10, LeaderName: "Leader A", Players: []models.Player{}},
		},
	}
	handler := handlers.NewDashboardHandler(svc)
	m, cookie := sessionCookie(t, &models.User{ID: 42, Username: "alice", Role: "user"})

	req := httptest.NewRequest(http.MethodGet, "/api/tournament-data?category=open", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()

	m.RequireUser(http.HandlerFunc(handler.TournamentData)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 42, svc.lastUserID)
	assert.Equal(t, "open", svc.lastCategory)

	var resp struct {
		Success bool                        `json:"success"`
		Data    []models.RegistrationDetail `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, 10, resp.Data[0].RegistrationID)
}

func TestAdminTournamentData_ReturnsEveryUser(t *testing.T) {
	svc := &fakeDashboardService{
		allData: []models.RegistrationDetail{
			{RegistrationID: 1, LeaderName: "Leader A", Username: "alice"},
			{RegistrationID: 2, LeaderName: "Leader B", Username: "bob"},
		},
	}
	handler := handlers.NewDashboardHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/admin-tournament-data", nil)
	rec := httptest.NewRecorder()
	handler.AdminTournamentData(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool                        `json:"success"`
		Data    []models.RegistrationDetail `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "alice", resp.Data[0].Username)
	assert.Equal(t, "bob", resp.Data[1].Username)
}

func TestTestRoute(t *testing.T) {
	handler := handlers.NewDashboardHandler(&fakeDashboardService{})

	rec := httptest.NewRecorder()
	handler.Test(rec, httptest.NewRequest(http.MethodGet, "/api/test", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"message":"API test route working"}`, rec.Body.String())
}
