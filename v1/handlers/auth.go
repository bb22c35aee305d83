package handlers

import (
	"net/http"
	"strings"

	"github.com/churchops/church-backend/v1/middleware"
	"github.com/churchops/church-backend/v1/models"
	"github.com/churchops/church-backend/v1/utils"
)

// handleAuth handles authentication routes
func (h *V1Handler) handleAuth(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/auth")
	parts := strings.Split(strings.Trim(path, "/"), "/")

	if len(parts) != 1 || parts[0] == "" {
		utils.RespondWithError(w, http.StatusNotFound, "Endpoint not found")
		return
	}

	switch parts[0] {
	case "login":
		if r.Method != http.MethodPost {
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		h.login(w, r)
	case "register":
		if r.Method != http.MethodPost {
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		h.registerUser(w, r)
	case "me":
		if r.Method != http.MethodGet {
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		h.currentUser(w, r)
	default:
		utils.RespondWithError(w, http.StatusNotFound, "Endpoint not found")
	}
}

func (h *V1Handler) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSONBody(r, &req); err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	response, err := h.authService.Login(&req)
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, response)
}

func (h *V1Handler) registerUser(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterUserRequest
	if err := decodeJSONBody(r, &req); err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	user, err := h.authService.RegisterUser(&req)
	if err != nil {
		middleware.LogAuditEvent(r, models.ResourceTypeUsers, nil, models.AuditStatusFailure)
		utils.RespondWithAPIError(w, err)
		return
	}

	middleware.LogAuditEvent(r, models.ResourceTypeUsers, &user.UserID, models.AuditStatusSuccess)
	utils.RespondWithJSON(w, http.StatusCreated, user)
}

func (h *V1Handler) currentUser(w http.ResponseWriter, r *http.Request) {
	authUser, err := middleware.GetUserFromRequest(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	user, err := h.authService.GetUserByID(authUser.UserID)
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, user)
}
