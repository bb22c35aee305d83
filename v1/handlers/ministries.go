package handlers

import (
	"net/http"
	"strings"

	"github.com/churchops/church-backend/v1/middleware"
	"github.com/churchops/church-backend/v1/models"
	"github.com/churchops/church-backend/v1/services"
	"github.com/churchops/church-backend/v1/utils"
)

// handleMinistries handles ministry routes including enrollment
func (h *V1Handler) handleMinistries(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/ministries")
	parts := strings.Split(strings.Trim(path, "/"), "/")

	// Collection endpoint: GET /api/v1/ministries and POST /api/v1/ministries
	if len(parts) == 1 && parts[0] == "" {
		switch r.Method {
		case http.MethodGet:
			h.listMinistries(w, r)
		case http.MethodPost:
			h.createMinistry(w, r)
		default:
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	ministryID := parts[0]

	// Item endpoint: GET/PUT/DELETE /api/v1/ministries/:ministryId
	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			h.getMinistry(w, r, ministryID)
		case http.MethodPut:
			h.updateMinistry(w, r, ministryID)
		case http.MethodDelete:
			h.deleteMinistry(w, r, ministryID)
		default:
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	// Enrollment: GET/POST /api/v1/ministries/:ministryId/members
	if len(parts) == 2 && parts[1] == "members" {
		switch r.Method {
		case http.MethodGet:
			h.listMinistryMembers(w, r, ministryID)
		case http.MethodPost:
			h.enrollMinistryMember(w, r, ministryID)
		default:
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	// Enrollment removal: DELETE /api/v1/ministries/:ministryId/members/:memberId
	if len(parts) == 3 && parts[1] == "members" {
		if r.Method != http.MethodDelete {
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		h.removeMinistryMember(w, r, ministryID, parts[2])
		return
	}

	utils.RespondWithError(w, http.StatusNotFound, "Endpoint not found")
}

func (h *V1Handler) listMinistries(w http.ResponseWriter, r *http.Request) {
	activeOnly := true
	if v := utils.QueryBoolPtr(r, "includeInactive"); v != nil && *v {
		activeOnly = false
	}
	page := utils.ParsePageRequest(r, services.MinistrySortableColumns, "name")

	response, err := h.ministryService.ListMinistries(activeOnly, page)
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, response)
}

func (h *V1Handler) createMinistry(w http.ResponseWriter, r *http.Request) {
	var req models.CreateMinistryRequest
	if err := decodeJSONBody(r, &req); err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	ministry, err := h.ministryService.CreateMinistry(&req)
	if err != nil {
		middleware.LogAuditEvent(r, models.ResourceTypeMinistries, nil, models.AuditStatusFailure)
		utils.RespondWithAPIError(w, err)
		return
	}

	middleware.LogAuditEvent(r, models.ResourceTypeMinistries, &ministry.MinistryID, models.AuditStatusSuccess)
	utils.RespondWithJSON(w, http.StatusCreated, ministry)
}

func (h *V1Handler) getMinistry(w http.ResponseWriter, r *http.Request, ministryID string) {
	ministry, err := h.ministryService.GetMinistry(ministryID)
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, ministry)
}

func (h *V1Handler) updateMinistry(w http.ResponseWriter, r *http.Request, ministryID string) {
	var req models.UpdateMinistryRequest
	if err := decodeJSONBody(r, &req); err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	ministry, err := h.ministryService.UpdateMinistry(ministryID, &req)
	if err != nil {
		middleware.LogAuditEvent(r, models.ResourceTypeMinistries, &ministryID, models.AuditStatusFailure)
		utils.RespondWithAPIError(w, err)
		return
	}

	middleware.LogAuditEvent(r, models.ResourceTypeMinistries, &ministryID, models.AuditStatusSuccess)
	utils.RespondWithJSON(w, http.StatusOK, ministry)
}

func (h *V1Handler) deleteMinistry(w http.ResponseWriter, r *http.Request, ministryID string) {
	// The route-level permission covers unenrollment too, so the stricter
	// ministry:delete check happens here
	if _, err := utils.RequirePermission(r, models.PermissionDeleteMinistry); err != nil {
		utils.RespondWithError(w, http.StatusForbidden, "Insufficient permissions")
		return
	}

	result, err := h.ministryService.DeleteMinistry(ministryID)
	if err != nil {
		middleware.LogAuditEvent(r, models.ResourceTypeMinistries, &ministryID, models.AuditStatusFailure)
		utils.RespondWithAPIError(w, err)
		return
	}

	middleware.LogAuditEvent(r, models.ResourceTypeMinistries, &ministryID, models.AuditStatusSuccess)
	utils.RespondWithJSON(w, http.StatusOK, result)
}

func (h *V1Handler) listMinistryMembers(w http.ResponseWriter, r *http.Request, ministryID string) {
	user, err := middleware.GetUserFromRequest(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	if !user.HasPermission(models.PermissionReadAllMembers) {
		utils.RespondWithError(w, http.StatusForbidden, "Insufficient permissions")
		return
	}

	members, err := h.ministryService.ListMinistryMembers(ministryID)
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, members)
}

func (h *V1Handler) enrollMinistryMember(w http.ResponseWriter, r *http.Request, ministryID string) {
	var req models.EnrollMemberRequest
	if err := decodeJSONBody(r, &req); err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	enrollment, err := h.ministryService.EnrollMember(ministryID, &req)
	if err != nil {
		middleware.LogAuditEvent(r, models.ResourceTypeMinistries, &ministryID, models.AuditStatusFailure)
		utils.RespondWithAPIError(w, err)
		return
	}

	middleware.LogAuditEvent(r, models.ResourceTypeMinistries, &ministryID, models.AuditStatusSuccess)
	utils.RespondWithJSON(w, http.StatusCreated, enrollment)
}

func (h *V1Handler) removeMinistryMember(w http.ResponseWriter, r *http.Request, ministryID, memberID string) {
	if err := h.ministryService.RemoveMember(ministryID, memberID); err != nil {
		middleware.LogAuditEvent(r, models.ResourceTypeMinistries, &ministryID, models.AuditStatusFailure)
		utils.RespondWithAPIError(w, err)
		return
	}

	middleware.LogAuditEvent(r, models.ResourceTypeMinistries, &ministryID, models.AuditStatusSuccess)
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Member removed from ministry"})
}
