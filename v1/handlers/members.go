package handlers

import (
	"net/http"
	"strings"

	"github.com/churchops/church-backend/v1/middleware"
	"github.com/churchops/church-backend/v1/models"
	"github.com/churchops/church-backend/v1/services"
	"github.com/churchops/church-backend/v1/utils"
)

// handleMembers handles member-related routes
func (h *V1Handler) handleMembers(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/members")
	parts := strings.Split(strings.Trim(path, "/"), "/")

	// Collection endpoint: GET /api/v1/members and POST /api/v1/members
	if len(parts) == 1 && parts[0] == "" {
		switch r.Method {
		case http.MethodGet:
			h.listMembers(w, r)
		case http.MethodPost:
			h.createMember(w, r)
		default:
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	if parts[0] == "export" && len(parts) == 1 {
		if r.Method != http.MethodGet {
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		h.exportMembers(w, r)
		return
	}

	memberID := parts[0]

	// Item endpoint: GET/PUT/DELETE /api/v1/members/:memberId
	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			h.getMember(w, r, memberID)
		case http.MethodPut:
			h.updateMember(w, r, memberID)
		case http.MethodDelete:
			h.deleteMember(w, r, memberID)
		default:
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	utils.RespondWithError(w, http.StatusNotFound, "Endpoint not found")
}

func (h *V1Handler) listMembers(w http.ResponseWriter, r *http.Request) {
	// Plain members can read their own record but not browse the directory
	user, err := middleware.GetUserFromRequest(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	if !user.HasPermission(models.PermissionReadAllMembers) {
		utils.RespondWithError(w, http.StatusForbidden, "Insufficient permissions")
		return
	}

	filter := memberFilterFromQuery(r)
	page := utils.ParsePageRequest(r, services.MemberSortableColumns, "last_name")

	response, err := h.memberService.ListMembers(filter, page)
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, response)
}

func (h *V1Handler) createMember(w http.ResponseWriter, r *http.Request) {
	var req models.CreateMemberRequest
	if err := decodeJSONBody(r, &req); err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	member, err := h.memberService.CreateMember(&req)
	if err != nil {
		middleware.LogAuditEvent(r, models.ResourceTypeMembers, nil, models.AuditStatusFailure)
		utils.RespondWithAPIError(w, err)
		return
	}

	middleware.LogAuditEvent(r, models.ResourceTypeMembers, &member.MemberID, models.AuditStatusSuccess)
	utils.RespondWithJSON(w, http.StatusCreated, member)
}

func (h *V1Handler) getMember(w http.ResponseWriter, r *http.Request, memberID string) {
	user, err := middleware.GetUserFromRequest(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	if !utils.IsOwnerOrElevated(user, memberID) {
		utils.RespondWithError(w, http.StatusForbidden, "You can only access your own member record")
		return
	}

	member, err := h.memberService.GetMember(memberID)
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, member)
}

func (h *V1Handler) updateMember(w http.ResponseWriter, r *http.Request, memberID string) {
	user, err := middleware.GetUserFromRequest(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	if !utils.IsOwnerOrElevated(user, memberID) {
		utils.RespondWithError(w, http.StatusForbidden, "You can only update your own member record")
		return
	}

	var req models.UpdateMemberRequest
	if err := decodeJSONBody(r, &req); err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	// Plain members cannot reassign their cell or toggle their own status
	if !user.IsAdmin() && !user.IsStaff() {
		req.CellID = nil
		req.IsActive = nil
	}

	member, err := h.memberService.UpdateMember(memberID, &req)
	if err != nil {
		middleware.LogAuditEvent(r, models.ResourceTypeMembers, &memberID, models.AuditStatusFailure)
		utils.RespondWithAPIError(w, err)
		return
	}

	middleware.LogAuditEvent(r, models.ResourceTypeMembers, &memberID, models.AuditStatusSuccess)
	utils.RespondWithJSON(w, http.StatusOK, member)
}

func (h *V1Handler) deleteMember(w http.ResponseWriter, r *http.Request, memberID string) {
	result, err := h.memberService.DeleteMember(memberID)
	if err != nil {
		middleware.LogAuditEvent(r, models.ResourceTypeMembers, &memberID, models.AuditStatusFailure)
		utils.RespondWithAPIError(w, err)
		return
	}

	middleware.LogAuditEvent(r, models.ResourceTypeMembers, &memberID, models.AuditStatusSuccess)
	utils.RespondWithJSON(w, http.StatusOK, result)
}

func (h *V1Handler) exportMembers(w http.ResponseWriter, r *http.Request) {
	filter := memberFilterFromQuery(r)

	members, err := h.exportService.MembersForExport(filter)
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	if strings.EqualFold(utils.QueryString(r, "format"), "json") {
		utils.RespondWithJSON(w, http.StatusOK, members)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="members.csv"`)
	if err := h.exportService.WriteMembersCSV(w, members); err != nil {
		// Headers are already sent, the best we can do is log via the error path
		utils.RespondWithAPIError(w, err)
	}
}

// memberFilterFromQuery reads the supported member list filters
func memberFilterFromQuery(r *http.Request) *models.MemberFilter {
	filter := &models.MemberFilter{
		CellID:     utils.QueryStringPtr(r, "cellId"),
		MinistryID: utils.QueryStringPtr(r, "ministryId"),
		IsActive:   utils.QueryBoolPtr(r, "isActive"),
		Query:      utils.QueryString(r, "q"),
	}
	if g := utils.QueryString(r, "gender"); g != "" {
		gender := models.Gender(g)
		filter.Gender = &gender
	}
	return filter
}
