// Package http exposes the REST surface for meeting and template
// management. The realtime session never depends on it.
package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tejasmali6131/TeamRetro-sub000/internal/service"
)

// respondError maps business errors to HTTP statuses; anything
// unexpected becomes a logged 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMeetingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Meeting not found"})
	case errors.Is(err, service.ErrTemplateNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
	case errors.Is(err, service.ErrTemplateReadOnly):
		c.JSON(http.StatusForbidden, gin.H{"error": "Built-in templates cannot be modified"})
	default:
		logrus.WithError(err).WithField("path", c.FullPath()).Error("Unhandled handler error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
