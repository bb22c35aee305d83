package handlers

import (
	"net/http"
	"strings"

	"github.com/churchops/church-backend/v1/middleware"
	"github.com/churchops/church-backend/v1/models"
	"github.com/churchops/church-backend/v1/services"
	"github.com/churchops/church-backend/v1/utils"
)

// handleCells handles cell group routes
func (h *V1Handler) handleCells(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/cells")
	parts := strings.Split(strings.Trim(path, "/"), "/")

	// Collection endpoint: GET /api/v1/cells and POST /api/v1/cells
	if len(parts) == 1 && parts[0] == "" {
		switch r.Method {
		case http.MethodGet:
			h.listCells(w, r)
		case http.MethodPost:
			h.createCell(w, r)
		default:
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	cellID := parts[0]

	// Item endpoint: GET/PUT/DELETE /api/v1/cells/:cellId
	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			h.getCell(w, r, cellID)
		case http.MethodPut:
			h.updateCell(w, r, cellID)
		case http.MethodDelete:
			h.deleteCell(w, r, cellID)
		default:
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	// Sub-resource: GET /api/v1/cells/:cellId/members
	if len(parts) == 2 && parts[1] == "members" {
		if r.Method != http.MethodGet {
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		h.listCellMembers(w, r, cellID)
		return
	}

	utils.RespondWithError(w, http.StatusNotFound, "Endpoint not found")
}

func (h *V1Handler) listCells(w http.ResponseWriter, r *http.Request) {
	activeOnly := true
	if v := utils.QueryBoolPtr(r, "includeInactive"); v != nil && *v {
		activeOnly = false
	}
	page := utils.ParsePageRequest(r, services.CellSortableColumns, "name")

	response, err := h.cellService.ListCells(activeOnly, page)
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, response)
}

func (h *V1Handler) createCell(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCellRequest
	if err := decodeJSONBody(r, &req); err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	cell, err := h.cellService.CreateCell(&req)
	if err != nil {
		middleware.LogAuditEvent(r, models.ResourceTypeCells, nil, models.AuditStatusFailure)
		utils.RespondWithAPIError(w, err)
		return
	}

	middleware.LogAuditEvent(r, models.ResourceTypeCells, &cell.CellID, models.AuditStatusSuccess)
	utils.RespondWithJSON(w, http.StatusCreated, cell)
}

func (h *V1Handler) getCell(w http.ResponseWriter, r *http.Request, cellID string) {
	cell, err := h.cellService.GetCell(cellID)
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, cell)
}

func (h *V1Handler) updateCell(w http.ResponseWriter, r *http.Request, cellID string) {
	var req models.UpdateCellRequest
	if err := decodeJSONBody(r, &req); err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	cell, err := h.cellService.UpdateCell(cellID, &req)
	if err != nil {
		middleware.LogAuditEvent(r, models.ResourceTypeCells, &cellID, models.AuditStatusFailure)
		utils.RespondWithAPIError(w, err)
		return
	}

	middleware.LogAuditEvent(r, models.ResourceTypeCells, &cellID, models.AuditStatusSuccess)
	utils.RespondWithJSON(w, http.StatusOK, cell)
}

func (h *V1Handler) deleteCell(w http.ResponseWriter, r *http.Request, cellID string) {
	result, err := h.cellService.DeleteCell(cellID)
	if err != nil {
		middleware.LogAuditEvent(r, models.ResourceTypeCells, &cellID, models.AuditStatusFailure)
		utils.RespondWithAPIError(w, err)
		return
	}

	middleware.LogAuditEvent(r, models.ResourceTypeCells, &cellID, models.AuditStatusSuccess)
	utils.RespondWithJSON(w, http.StatusOK, result)
}

func (h *V1Handler) listCellMembers(w http.ResponseWriter, r *http.Request, cellID string) {
	// The member directory is staff territory even when scoped to a cell
	user, err := middleware.GetUserFromRequest(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	if !user.HasPermission(models.PermissionReadAllMembers) {
		utils.RespondWithError(w, http.StatusForbidden, "Insufficient permissions")
		return
	}

	members, err := h.cellService.ListCellMembers(cellID)
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, members)
}
