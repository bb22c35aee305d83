package handlers

import (
	"net/http"
	"strings"

	"github.com/churchops/church-backend/v1/middleware"
	"github.com/churchops/church-backend/v1/models"
	"github.com/churchops/church-backend/v1/services"
	"github.com/churchops/church-backend/v1/utils"
)

// handleEvents handles event routes including registration and attendance
func (h *V1Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/events")
	parts := strings.Split(strings.Trim(path, "/"), "/")

	// Collection endpoint: GET /api/v1/events and POST /api/v1/events
	if len(parts) == 1 && parts[0] == "" {
		switch r.Method {
		case http.MethodGet:
			h.listEvents(w, r)
		case http.MethodPost:
			h.createEvent(w, r)
		default:
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	eventID := parts[0]

	// Item endpoint: GET/PUT/DELETE /api/v1/events/:eventId
	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			h.getEvent(w, r, eventID)
		case http.MethodPut:
			h.updateEvent(w, r, eventID)
		case http.MethodDelete:
			h.deleteEvent(w, r, eventID)
		default:
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	if len(parts) == 2 {
		switch parts[1] {
		case "registrations":
			switch r.Method {
			case http.MethodGet:
				h.listEventRegistrations(w, r, eventID)
			case http.MethodPost:
				h.registerForEvent(w, r, eventID)
			default:
				utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
			}
			return
		case "attendance":
			switch r.Method {
			case http.MethodGet:
				h.listEventAttendance(w, r, eventID)
			case http.MethodPost:
				h.checkInForEvent(w, r, eventID)
			default:
				utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
			}
			return
		}
	}

	// Registration removal: DELETE /api/v1/events/:eventId/registrations/:memberId
	if len(parts) == 3 && parts[1] == "registrations" {
		if r.Method != http.MethodDelete {
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		h.cancelEventRegistration(w, r, eventID, parts[2])
		return
	}

	utils.RespondWithError(w, http.StatusNotFound, "Endpoint not found")
}

func (h *V1Handler) listEvents(w http.ResponseWriter, r *http.Request) {
	filter := &models.EventFilter{
		MinistryID: utils.QueryStringPtr(r, "ministryId"),
		From:       utils.QueryTimePtr(r, "from"),
		To:         utils.QueryTimePtr(r, "to"),
	}
	if v := utils.QueryString(r, "status"); v != "" {
		status := models.EventStatus(v)
		filter.Status = &status
	}
	page := utils.ParsePageRequest(r, services.EventSortableColumns, "starts_at")

	response, err := h.eventService.ListEvents(filter, page)
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, response)
}

func (h *V1Handler) createEvent(w http.ResponseWriter, r *http.Request) {
	var req models.CreateEventRequest
	if err := decodeJSONBody(r, &req); err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	event, err := h.eventService.CreateEvent(&req)
	if err != nil {
		middleware.LogAuditEvent(r, models.ResourceTypeEvents, nil, models.AuditStatusFailure)
		utils.RespondWithAPIError(w, err)
		return
	}

	middleware.LogAuditEvent(r, models.ResourceTypeEvents, &event.EventID, models.AuditStatusSuccess)
	utils.RespondWithJSON(w, http.StatusCreated, event)
}

func (h *V1Handler) getEvent(w http.ResponseWriter, r *http.Request, eventID string) {
	event, err := h.eventService.GetEvent(eventID)
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, event)
}

func (h *V1Handler) updateEvent(w http.ResponseWriter, r *http.Request, eventID string) {
	var req models.UpdateEventRequest
	if err := decodeJSONBody(r, &req); err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	event, err := h.eventService.UpdateEvent(eventID, &req)
	if err != nil {
		middleware.LogAuditEvent(r, models.ResourceTypeEvents, &eventID, models.AuditStatusFailure)
		utils.RespondWithAPIError(w, err)
		return
	}

	middleware.LogAuditEvent(r, models.ResourceTypeEvents, &eventID, models.AuditStatusSuccess)
	utils.RespondWithJSON(w, http.StatusOK, event)
}

func (h *V1Handler) deleteEvent(w http.ResponseWriter, r *http.Request, eventID string) {
	result, err := h.eventService.DeleteEvent(eventID)
	if err != nil {
		middleware.LogAuditEvent(r, models.ResourceTypeEvents, &eventID, models.AuditStatusFailure)
		utils.RespondWithAPIError(w, err)
		return
	}

	middleware.LogAuditEvent(r, models.ResourceTypeEvents, &eventID, models.AuditStatusSuccess)
	utils.RespondWithJSON(w, http.StatusOK, result)
}

func (h *V1Handler) listEventRegistrations(w http.ResponseWriter, r *http.Request, eventID string) {
	registrations, err := h.eventService.ListRegistrations(eventID)
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, registrations)
}

func (h *V1Handler) registerForEvent(w http.ResponseWriter, r *http.Request, eventID string) {
	user, err := middleware.GetUserFromRequest(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.RegisterForEventRequest
	if err := decodeJSONBody(r, &req); err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	// Members register themselves; staff and admins can register anyone
	if req.MemberID == "" {
		req.MemberID = user.MemberID
	}
	if !utils.IsOwnerOrElevated(user, req.MemberID) {
		utils.RespondWithError(w, http.StatusForbidden, "You can only register yourself for events")
		return
	}

	registration, err := h.eventService.RegisterMember(eventID, &req)
	if err != nil {
		middleware.LogAuditEvent(r, models.ResourceTypeEvents, &eventID, models.AuditStatusFailure)
		utils.RespondWithAPIError(w, err)
		return
	}

	middleware.LogAuditEvent(r, models.ResourceTypeEvents, &eventID, models.AuditStatusSuccess)
	utils.RespondWithJSON(w, http.StatusCreated, registration)
}

func (h *V1Handler) cancelEventRegistration(w http.ResponseWriter, r *http.Request, eventID, memberID string) {
	if err := h.eventService.CancelRegistration(eventID, memberID); err != nil {
		middleware.LogAuditEvent(r, models.ResourceTypeEvents, &eventID, models.AuditStatusFailure)
		utils.RespondWithAPIError(w, err)
		return
	}

	middleware.LogAuditEvent(r, models.ResourceTypeEvents, &eventID, models.AuditStatusSuccess)
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Registration cancelled"})
}

func (h *V1Handler) listEventAttendance(w http.ResponseWriter, r *http.Request, eventID string) {
	attendance, err := h.eventService.ListAttendance(eventID)
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, attendance)
}

func (h *V1Handler) checkInForEvent(w http.ResponseWriter, r *http.Request, eventID string) {
	// Check-in is a staff operation; the route-level permission only covers
	// registration so the stricter check happens here
	if _, err := utils.RequirePermission(r, models.PermissionCheckInEvent); err != nil {
		utils.RespondWithError(w, http.StatusForbidden, "Insufficient permissions")
		return
	}

	var req models.CheckInRequest
	if err := decodeJSONBody(r, &req); err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	attendance, err := h.eventService.CheckInMember(eventID, &req)
	if err != nil {
		middleware.LogAuditEvent(r, models.ResourceTypeEvents, &eventID, models.AuditStatusFailure)
		utils.RespondWithAPIError(w, err)
		return
	}

	middleware.LogAuditEvent(r, models.ResourceTypeEvents, &eventID, models.AuditStatusSuccess)
	utils.RespondWithJSON(w, http.StatusCreated, attendance)
}
