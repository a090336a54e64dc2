package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tejasmali6131/TeamRetro-sub000/internal/service"
)

// MeetingHandler serves the meeting CRUD endpoints.
type MeetingHandler struct {
	meetings *service.MeetingService
}

// NewMeetingHandler creates the handler.
func NewMeetingHandler(meetings *service.MeetingService) *MeetingHandler {
	if meetings == nil {
		panic("meeting service cannot be nil for MeetingHandler")
	}
	return &MeetingHandler{meetings: meetings}
}

type createMeetingRequest struct {
	Name       string `json:"name" binding:"required,max=120"`
	TemplateID string `json:"templateId" binding:"required"`
	NameTheme  string `json:"nameTheme"`
}

// Create handles POST /api/meetings.
func (h *MeetingHandler) Create(c *gin.Context) {
	var req createMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	meeting, err := h.meetings.CreateMeeting(c.Request.Context(), req.Name, req.TemplateID, req.NameTheme)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, meeting)
}

// Get handles GET /api/meetings/:meetingId.
func (h *MeetingHandler) Get(c *gin.Context) {
	meeting, err := h.meetings.GetMeeting(c.Request.Context(), c.Param("meetingId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meeting)
}

// List handles GET /api/meetings.
func (h *MeetingHandler) List(c *gin.Context) {
	meetings, err := h.meetings.ListMeetings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"meetings": meetings})
}

// Delete handles DELETE /api/meetings/:meetingId.
func (h *MeetingHandler) Delete(c *gin.Context) {
	if err := h.meetings.DeleteMeeting(c.Request.Context(), c.Param("meetingId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Participants handles GET /api/meetings/:meetingId/participants: the
// registration history, independent of who is connected right now.
func (h *MeetingHandler) Participants(c *gin.Context) {
	meetingID := c.Param("meetingId")
	if _, err := h.meetings.GetMeeting(c.Request.Context(), meetingID); err != nil {
		respondError(c, err)
		return
	}
	participants, err := h.meetings.ListParticipants(c.Request.Context(), meetingID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"participants": participants})
}
