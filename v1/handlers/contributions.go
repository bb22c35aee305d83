package handlers

import (
	"net/http"
	"strings"

	"github.com/churchops/church-backend/v1/middleware"
	"github.com/churchops/church-backend/v1/models"
	"github.com/churchops/church-backend/v1/services"
	"github.com/churchops/church-backend/v1/utils"
)

// handleContributions handles contribution routes
func (h *V1Handler) handleContributions(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/contributions")
	parts := strings.Split(strings.Trim(path, "/"), "/")

	// Collection endpoint: GET /api/v1/contributions and POST /api/v1/contributions
	if len(parts) == 1 && parts[0] == "" {
		switch r.Method {
		case http.MethodGet:
			h.listContributions(w, r)
		case http.MethodPost:
			h.createContribution(w, r)
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
		h.exportContributions(w, r)
		return
	}

	contributionID := parts[0]

	// Item endpoint: GET/PUT/DELETE /api/v1/contributions/:contributionId
	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			h.getContribution(w, r, contributionID)
		case http.MethodPut:
			h.updateContribution(w, r, contributionID)
		case http.MethodDelete:
			h.deleteContribution(w, r, contributionID)
		default:
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	utils.RespondWithError(w, http.StatusNotFound, "Endpoint not found")
}

func (h *V1Handler) listContributions(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromRequest(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	filter := contributionFilterFromQuery(r)

	// Plain members only ever see their own giving history
	if !user.HasPermission(models.PermissionReadAllContributions) {
		if user.MemberID == "" {
			utils.RespondWithError(w, http.StatusForbidden, "No member record linked to this account")
			return
		}
		memberID := user.MemberID
		filter.MemberID = &memberID
	}

	page := utils.ParsePageRequest(r, services.ContributionSortableColumns, "contributed_at")

	response, err := h.contributionService.ListContributions(filter, page)
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, response)
}

func (h *V1Handler) createContribution(w http.ResponseWriter, r *http.Request) {
	var req models.CreateContributionRequest
	if err := decodeJSONBody(r, &req); err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	contribution, err := h.contributionService.CreateContribution(&req)
	if err != nil {
		middleware.LogAuditEvent(r, models.ResourceTypeContributions, nil, models.AuditStatusFailure)
		utils.RespondWithAPIError(w, err)
		return
	}

	middleware.LogAuditEvent(r, models.ResourceTypeContributions, &contribution.ContributionID, models.AuditStatusSuccess)
	utils.RespondWithJSON(w, http.StatusCreated, contribution)
}

func (h *V1Handler) getContribution(w http.ResponseWriter, r *http.Request, contributionID string) {
	user, err := middleware.GetUserFromRequest(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	contribution, err := h.contributionService.GetContribution(contributionID)
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	if !user.HasPermission(models.PermissionReadAllContributions) {
		if contribution.MemberID == nil || !utils.IsOwner(user, *contribution.MemberID) {
			utils.RespondWithError(w, http.StatusForbidden, "You can only access your own contributions")
			return
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, contribution)
}

func (h *V1Handler) updateContribution(w http.ResponseWriter, r *http.Request, contributionID string) {
	var req models.UpdateContributionRequest
	if err := decodeJSONBody(r, &req); err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	contribution, err := h.contributionService.UpdateContribution(contributionID, &req)
	if err != nil {
		middleware.LogAuditEvent(r, models.ResourceTypeContributions, &contributionID, models.AuditStatusFailure)
		utils.RespondWithAPIError(w, err)
		return
	}

	middleware.LogAuditEvent(r, models.ResourceTypeContributions, &contributionID, models.AuditStatusSuccess)
	utils.RespondWithJSON(w, http.StatusOK, contribution)
}

func (h *V1Handler) deleteContribution(w http.ResponseWriter, r *http.Request, contributionID string) {
	result, err := h.contributionService.DeleteContribution(contributionID)
	if err != nil {
		middleware.LogAuditEvent(r, models.ResourceTypeContributions, &contributionID, models.AuditStatusFailure)
		utils.RespondWithAPIError(w, err)
		return
	}

	middleware.LogAuditEvent(r, models.ResourceTypeContributions, &contributionID, models.AuditStatusSuccess)
	utils.RespondWithJSON(w, http.StatusOK, result)
}

func (h *V1Handler) exportContributions(w http.ResponseWriter, r *http.Request) {
	filter := contributionFilterFromQuery(r)

	contributions, err := h.exportService.ContributionsForExport(filter)
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	if strings.EqualFold(utils.QueryString(r, "format"), "json") {
		utils.RespondWithJSON(w, http.StatusOK, contributions)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="contributions.csv"`)
	if err := h.exportService.WriteContributionsCSV(w, contributions); err != nil {
		utils.RespondWithAPIError(w, err)
	}
}

// contributionFilterFromQuery reads the supported contribution list filters
func contributionFilterFromQuery(r *http.Request) *models.ContributionFilter {
	filter := &models.ContributionFilter{
		MemberID: utils.QueryStringPtr(r, "memberId"),
		From:     utils.QueryTimePtr(r, "from"),
		To:       utils.QueryTimePtr(r, "to"),
	}
	if v := utils.QueryString(r, "type"); v != "" {
		t := models.ContributionType(v)
		filter.Type = &t
	}
	if v := utils.QueryString(r, "method"); v != "" {
		m := models.ContributionMethod(v)
		filter.Method = &m
	}
	return filter
}
