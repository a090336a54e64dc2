package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejasmali6131/TeamRetro-sub000/internal/domain"
	"github.com/tejasmali6131/TeamRetro-sub000/internal/infra/persistence/memory"
	"github.com/tejasmali6131/TeamRetro-sub000/internal/service"
)

func newMeetingRouter(t *testing.T) (*gin.Engine, *service.MeetingService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	meetings := service.NewMeetingService(memory.NewMeetingRepository(), service.NewTemplateService())
	handler := NewMeetingHandler(meetings)

	router := gin.New()
	api := router.Group("/api/meetings")
	api.POST("", handler.Create)
	api.GET("", handler.List)
	api.GET("/:meetingId", handler.Get)
	api.DELETE("/:meetingId", handler.Delete)
	api.GET("/:meetingId/participants", handler.Participants)
	return router, meetings
}

func TestCreateMeetingEndpoint(t *testing.T) {
	cases := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			name:       "valid request",
			body:       `{"name":"Sprint 42 retro","templateId":"mad-sad-glad","nameTheme":"animals"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing name",
			body:       `{"templateId":"mad-sad-glad"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing template",
			body:       `{"name":"retro"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid json",
			body:       `{"name":`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router, _ := newMeetingRouter(t)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/meetings", bytes.NewBufferString(tc.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.wantStatus, w.Code)
			if tc.wantStatus == http.StatusCreated {
				var meeting domain.Meeting
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &meeting))
				assert.NotEmpty(t, meeting.ID)
				assert.Equal(t, "Sprint 42 retro", meeting.Name)
			}
		})
	}
}

func TestGetMeetingEndpoint(t *testing.T) {
	router, meetings := newMeetingRouter(t)
	meeting, err := meetings.CreateMeeting(context.Background(), "retro", "4ls", "")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/meetings/"+meeting.ID, nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/meetings/ghost", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListMeetingsEndpoint(t *testing.T) {
	router, meetings := newMeetingRouter(t)
	_, err := meetings.CreateMeeting(context.Background(), "one", "4ls", "")
	require.NoError(t, err)
	_, err = meetings.CreateMeeting(context.Background(), "two", "4ls", "")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/meetings", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Meetings []domain.Meeting `json:"meetings"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Meetings, 2)
}

func TestDeleteMeetingEndpoint(t *testing.T) {
	router, meetings := newMeetingRouter(t)
	meeting, err := meetings.CreateMeeting(context.Background(), "retro", "4ls", "")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/meetings/"+meeting.ID, nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/meetings/"+meeting.ID, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMeetingParticipantsEndpoint(t *testing.T) {
	router, meetings := newMeetingRouter(t)
	ctx := context.Background()
	meeting, err := meetings.CreateMeeting(ctx, "retro", "4ls", "")
	require.NoError(t, err)
	require.NoError(t, meetings.RegisterParticipant(ctx, meeting.ID, "p1", "Falcon"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/meetings/"+meeting.ID+"/participants", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Participants []domain.MeetingParticipant `json:"participants"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Participants, 1)
	assert.Equal(t, "Falcon", resp.Participants[0].Name)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/meetings/ghost/participants", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
