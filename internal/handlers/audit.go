package handlers

import (
	"net/http"
	"strconv"

	apierrors "github.com/bygglet/crew-scheduling-api/internal/errors"
	"github.com/bygglet/crew-scheduling-api/internal/middleware"
	"github.com/bygglet/crew-scheduling-api/internal/repository"
	"github.com/gin-gonic/gin"
)

const defaultAuditLimit = 100

// AuditHandler exposes the organization's audit trail to owners.
type AuditHandler struct {
	auditRepo repository.AuditRepository
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(auditRepo repository.AuditRepository) *AuditHandler {
	return &AuditHandler{auditRepo: auditRepo}
}

// ListEntries returns recent audit entries, newest first.
func (h *AuditHandler) ListEntries(c *gin.Context) {
	orgID, _ := middleware.GetOrganizationID(c)

	limit := defaultAuditLimit
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 || parsed > 500 {
			apierrors.BadRequest(c, "Invalid limit")
			return
		}
		limit = parsed
	}

	entries, err := h.auditRepo.ListByOrganization(orgID, limit)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch audit entries")
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
