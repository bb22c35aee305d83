package handlers

import (
	"net/http"
	"strings"

	"github.com/churchops/church-backend/v1/utils"
)

// handleStats handles the statistics routes
func (h *V1Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/v1/stats")
	parts := strings.Split(strings.Trim(path, "/"), "/")

	if len(parts) != 1 || parts[0] == "" {
		utils.RespondWithError(w, http.StatusNotFound, "Endpoint not found")
		return
	}

	switch parts[0] {
	case "members":
		h.memberStats(w, r)
	case "contributions":
		h.contributionStats(w, r)
	case "events":
		h.eventStats(w, r)
	default:
		utils.RespondWithError(w, http.StatusNotFound, "Endpoint not found")
	}
}

func (h *V1Handler) memberStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsService.MemberStatistics()
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, stats)
}

func (h *V1Handler) contributionStats(w http.ResponseWriter, r *http.Request) {
	year := utils.QueryInt(r, "year", 0)
	groupBy := utils.QueryString(r, "groupBy")

	stats, err := h.statsService.ContributionStatistics(year, groupBy)
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, stats)
}

func (h *V1Handler) eventStats(w http.ResponseWriter, r *http.Request) {
	year := utils.QueryInt(r, "year", 0)

	stats, err := h.statsService.EventStatistics(year)
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, stats)
}
