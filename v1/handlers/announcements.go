package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/churchops/church-backend/v1/middleware"
	"github.com/churchops/church-backend/v1/models"
	"github.com/churchops/church-backend/v1/services"
	"github.com/churchops/church-backend/v1/utils"
)

// handleAnnouncements handles announcement routes
func (h *V1Handler) handleAnnouncements(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/announcements")
	parts := strings.Split(strings.Trim(path, "/"), "/")

	// Collection endpoint: GET /api/v1/announcements and POST /api/v1/announcements
	if len(parts) == 1 && parts[0] == "" {
		switch r.Method {
		case http.MethodGet:
			h.listAnnouncements(w, r)
		case http.MethodPost:
			h.createAnnouncement(w, r)
		default:
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	announcementID := parts[0]

	// Item endpoint: GET/PUT/DELETE /api/v1/announcements/:announcementId
	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			h.getAnnouncement(w, r, announcementID)
		case http.MethodPut:
			h.updateAnnouncement(w, r, announcementID)
		case http.MethodDelete:
			h.deleteAnnouncement(w, r, announcementID)
		default:
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	utils.RespondWithError(w, http.StatusNotFound, "Endpoint not found")
}

func (h *V1Handler) listAnnouncements(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromRequest(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	page := utils.ParsePageRequest(r, services.AnnouncementSortableColumns, "publish_at")

	// Staff and admins browse everything; members see what is published and
	// targeted at them
	if user.IsAdmin() || user.IsStaff() {
		var audience *models.Audience
		if v := utils.QueryString(r, "audience"); v != "" {
			a := models.Audience(v)
			audience = &a
		}
		publishedOnly := false
		if v := utils.QueryBoolPtr(r, "publishedOnly"); v != nil {
			publishedOnly = *v
		}

		response, err := h.announcementService.ListAnnouncements(audience, publishedOnly, page)
		if err != nil {
			utils.RespondWithAPIError(w, err)
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, response)
		return
	}

	if user.MemberID != "" {
		response, err := h.announcementService.ListVisibleToMember(user.MemberID, page)
		if err != nil {
			utils.RespondWithAPIError(w, err)
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, response)
		return
	}

	// Accounts without a member record only see congregation-wide announcements
	audience := models.AudienceAll
	response, err := h.announcementService.ListAnnouncements(&audience, true, page)
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

func (h *V1Handler) createAnnouncement(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromRequest(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.CreateAnnouncementRequest
	if err := decodeJSONBody(r, &req); err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	announcement, err := h.announcementService.CreateAnnouncement(&req, user.UserID)
	if err != nil {
		middleware.LogAuditEvent(r, models.ResourceTypeAnnouncements, nil, models.AuditStatusFailure)
		utils.RespondWithAPIError(w, err)
		return
	}

	middleware.LogAuditEvent(r, models.ResourceTypeAnnouncements, &announcement.AnnouncementID, models.AuditStatusSuccess)
	utils.RespondWithJSON(w, http.StatusCreated, announcement)
}

func (h *V1Handler) getAnnouncement(w http.ResponseWriter, r *http.Request, announcementID string) {
	user, err := middleware.GetUserFromRequest(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	announcement, err := h.announcementService.GetAnnouncement(announcementID)
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	// Members cannot see drafts, withdrawn announcements, or announcements
	// targeted at a cell or ministry they do not belong to. The item fetch
	// applies the same scoping as the list path.
	if !user.IsAdmin() && !user.IsStaff() {
		if !announcement.IsPublished(time.Now()) {
			utils.RespondWithError(w, http.StatusNotFound, "Announcement not found")
			return
		}

		visible := announcement.Audience == models.AudienceAll
		if !visible && user.MemberID != "" {
			visible, err = h.announcementService.VisibleToMember(announcement, user.MemberID)
			if err != nil {
				utils.RespondWithAPIError(w, err)
				return
			}
		}
		if !visible {
			utils.RespondWithError(w, http.StatusNotFound, "Announcement not found")
			return
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, announcement)
}

func (h *V1Handler) updateAnnouncement(w http.ResponseWriter, r *http.Request, announcementID string) {
	var req models.UpdateAnnouncementRequest
	if err := decodeJSONBody(r, &req); err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	announcement, err := h.announcementService.UpdateAnnouncement(announcementID, &req)
	if err != nil {
		middleware.LogAuditEvent(r, models.ResourceTypeAnnouncements, &announcementID, models.AuditStatusFailure)
		utils.RespondWithAPIError(w, err)
		return
	}

	middleware.LogAuditEvent(r, models.ResourceTypeAnnouncements, &announcementID, models.AuditStatusSuccess)
	utils.RespondWithJSON(w, http.StatusOK, announcement)
}

func (h *V1Handler) deleteAnnouncement(w http.ResponseWriter, r *http.Request, announcementID string) {
	result, err := h.announcementService.DeleteAnnouncement(announcementID)
	if err != nil {
		middleware.LogAuditEvent(r, models.ResourceTypeAnnouncements, &announcementID, models.AuditStatusFailure)
		utils.RespondWithAPIError(w, err)
		return
	}

	middleware.LogAuditEvent(r, models.ResourceTypeAnnouncements, &announcementID, models.AuditStatusSuccess)
	utils.RespondWithJSON(w, http.StatusOK, result)
}
