package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tejasmali6131/TeamRetro-sub000/internal/domain"
	"github.com/tejasmali6131/TeamRetro-sub000/internal/service"
)

// TemplateHandler serves the retrospective template endpoints.
type TemplateHandler struct {
	templates *service.TemplateService
}

// NewTemplateHandler creates the handler.
func NewTemplateHandler(templates *service.TemplateService) *TemplateHandler {
	if templates == nil {
		panic("template service cannot be nil for TemplateHandler")
	}
	return &TemplateHandler{templates: templates}
}

// List handles GET /api/templates.
func (h *TemplateHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"templates": h.templates.List()})
}

// Get handles GET /api/templates/:templateId.
func (h *TemplateHandler) Get(c *gin.Context) {
	tmpl, err := h.templates.FindByID(c.Param("templateId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tmpl)
}

type createTemplateRequest struct {
	Name                string                  `json:"name" binding:"required,max=120"`
	Columns             []domain.TemplateColumn `json:"columns" binding:"required,min=1,dive"`
	IcebreakerQuestions []string                `json:"icebreakerQuestions"`
}

// Create handles POST /api/templates.
func (h *TemplateHandler) Create(c *gin.Context) {
	var req createTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	tmpl, err := h.templates.Create(domain.Template{
		Name:                req.Name,
		Columns:             req.Columns,
		IcebreakerQuestions: req.IcebreakerQuestions,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tmpl)
}

// Delete handles DELETE /api/templates/:templateId.
func (h *TemplateHandler) Delete(c *gin.Context) {
	if err := h.templates.Delete(c.Param("templateId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
