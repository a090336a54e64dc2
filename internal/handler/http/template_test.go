package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejasmali6131/TeamRetro-sub000/internal/domain"
	"github.com/tejasmali6131/TeamRetro-sub000/internal/service"
)

func newTemplateRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	handler := NewTemplateHandler(service.NewTemplateService())
	router := gin.New()
	api := router.Group("/api/templates")
	api.POST("", handler.Create)
	api.GET("", handler.List)
	api.GET("/:templateId", handler.Get)
	api.DELETE("/:templateId", handler.Delete)
	return router
}

func TestListTemplatesEndpoint(t *testing.T) {
	router := newTemplateRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/templates", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Templates []domain.Template `json:"templates"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Templates)
}

func TestCreateTemplateEndpoint(t *testing.T) {
	cases := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			name:       "valid custom template",
			body:       `{"name":"Sailboat","columns":[{"id":"wind","title":"Wind"},{"id":"anchor","title":"Anchor"}]}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing columns",
			body:       `{"name":"Empty"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing name",
			body:       `{"columns":[{"id":"a","title":"A"}]}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newTemplateRouter(t)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/templates", bytes.NewBufferString(tc.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.wantStatus, w.Code)
		})
	}
}

func TestDeleteTemplateEndpoint(t *testing.T) {
	router := newTemplateRouter(t)

	// Built-ins are protected.
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/templates/4ls", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/templates/ghost", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
