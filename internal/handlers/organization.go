package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/bygglet/crew-scheduling-api/internal/dto"
	apierrors "github.com/bygglet/crew-scheduling-api/internal/errors"
	"github.com/bygglet/crew-scheduling-api/internal/middleware"
	"github.com/bygglet/crew-scheduling-api/internal/models"
	"github.com/bygglet/crew-scheduling-api/internal/services"
	"github.com/gin-gonic/gin"
)

// OrganizationHandler coordinates organization HTTP handlers.
type OrganizationHandler struct {
	orgService *services.OrganizationService
}

// NewOrganizationHandler creates a new OrganizationHandler.
func NewOrganizationHandler(orgService *services.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{
		orgService: orgService,
	}
}

// CreateOrganization creates a new organization owned by the caller.
func (h *OrganizationHandler) CreateOrganization(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateOrganizationRequest struct {
		Name string `json:"name" binding:"required"`
	}

	var req CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	org, err := h.orgService.CreateOrganization(req.Name, userID)
	if err != nil {
		if errors.Is(err, services.ErrInvalidOrganizationName) {
			apierrors.BadRequest(c, "Organization name cannot be empty")
			return
		}
		apierrors.InternalError(c, "Failed to create organization")
		return
	}

	c.JSON(http.StatusCreated, dto.ToOrganizationDTO(*org, true))
}

// ListOrganizations lists organizations the caller belongs to.
func (h *OrganizationHandler) ListOrganizations(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	memberships, err := h.orgService.ListOrganizationsForUser(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to list organizations")
		return
	}

	orgs := make([]dto.OrganizationWithRoleDTO, len(memberships))
	for i, m := range memberships {
		orgs[i] = dto.ToOrganizationWithRoleDTO(m)
	}

	c.JSON(http.StatusOK, gin.H{"organizations": orgs})
}

// JoinOrganization adds the caller to an organization via invite code.
func (h *OrganizationHandler) JoinOrganization(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type JoinRequest struct {
		InviteCode string `json:"invite_code" binding:"required"`
	}

	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	org, err := h.orgService.JoinOrganizationByInvite(userID, req.InviteCode)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInviteCode):
			apierrors.NotFound(c, "Invalid invite code")
		case errors.Is(err, services.ErrAlreadyOrganizationMember):
			apierrors.BadRequest(c, "Already a member of this organization")
		default:
			apierrors.InternalError(c, "Failed to join organization")
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationDTO(*org, false))
}

// ListMembers lists active members of the scoped organization.
func (h *OrganizationHandler) ListMembers(c *gin.Context) {
	orgID, exists := middleware.GetOrganizationID(c)
	if !exists {
		apierrors.InternalError(c, "Organization scope not resolved")
		return
	}

	members, err := h.orgService.ListMembers(orgID)
	if err != nil {
		apierrors.InternalError(c, "Failed to list members")
		return
	}

	memberDTOs := make([]dto.MemberDTO, len(members))
	for i, m := range members {
		memberDTOs[i] = dto.ToMemberDTO(m)
	}

	c.JSON(http.StatusOK, gin.H{"members": memberDTOs})
}

// UpdateMemberRole changes a member's role (owner only).
func (h *OrganizationHandler) UpdateMemberRole(c *gin.Context) {
	orgID, _ := middleware.GetOrganizationID(c)
	actorID, _ := middleware.GetUserID(c)

	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	type UpdateRoleRequest struct {
		Role models.OrganizationRole `json:"role" binding:"required"`
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	member, err := h.orgService.UpdateMemberRole(orgID, actorID, targetID, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMemberNotFound):
			apierrors.NotFound(c, "Member not found")
		case errors.Is(err, services.ErrInvalidRole), errors.Is(err, services.ErrCannotChangeOwnRole):
			apierrors.BadRequest(c, err.Error())
		default:
			apierrors.InternalError(c, "Failed to update member role")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"user_id": member.UserID, "role": member.Role})
}

// DeactivateMember removes a member from the planning resources (owner only).
func (h *OrganizationHandler) DeactivateMember(c *gin.Context) {
	orgID, _ := middleware.GetOrganizationID(c)

	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.orgService.DeactivateMember(orgID, targetID); err != nil {
		if errors.Is(err, services.ErrMemberNotFound) {
			apierrors.NotFound(c, "Member not found")
			return
		}
		apierrors.InternalError(c, "Failed to deactivate member")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member deactivated"})
}
