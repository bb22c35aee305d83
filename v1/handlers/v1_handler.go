package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"gorm.io/gorm"

	apierrors "github.com/churchops/church-backend/pkg/errors"
	"github.com/churchops/church-backend/v1/middleware"
	"github.com/churchops/church-backend/v1/services"
	"github.com/churchops/church-backend/v1/utils"
)

// V1Handler handles all V1 API routes
type V1Handler struct {
	authService         *services.AuthService
	memberService       *services.MemberService
	cellService         *services.CellService
	ministryService     *services.MinistryService
	eventService        *services.EventService
	contributionService *services.ContributionService
	announcementService *services.AnnouncementService
	statsService        *services.StatsService
	exportService       *services.ExportService
	auditService        *services.AuditService
}

// NewV1Handler creates a new V1 handler. The JWT middleware doubles as the
// token issuer for the auth service.
func NewV1Handler(db *gorm.DB, jwtMiddleware *middleware.JWTAuthMiddleware) *V1Handler {
	tokenTTL := 24 * time.Hour
	if v := os.Getenv("JWT_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			tokenTTL = parsed
		}
	}

	auditService := services.NewAuditService(db)
	middleware.SetGlobalAuditRecorder(auditService)

	return &V1Handler{
		authService:         services.NewAuthService(db, jwtMiddleware, tokenTTL),
		memberService:       services.NewMemberService(db),
		cellService:         services.NewCellService(db),
		ministryService:     services.NewMinistryService(db),
		eventService:        services.NewEventService(db),
		contributionService: services.NewContributionService(db),
		announcementService: services.NewAnnouncementService(db),
		statsService:        services.NewStatsService(db),
		exportService:       services.NewExportService(db),
		auditService:        auditService,
	}
}

// SetupV1Routes configures all V1 API routes
func (h *V1Handler) SetupV1Routes(mux *http.ServeMux) {
	// Auth routes
	mux.Handle("/api/v1/auth/", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleAuth)))

	// Member routes
	mux.Handle("/api/v1/members", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleMembers)))
	mux.Handle("/api/v1/members/", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleMembers)))

	// Cell routes
	mux.Handle("/api/v1/cells", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleCells)))
	mux.Handle("/api/v1/cells/", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleCells)))

	// Ministry routes
	mux.Handle("/api/v1/ministries", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleMinistries)))
	mux.Handle("/api/v1/ministries/", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleMinistries)))

	// Event routes
	mux.Handle("/api/v1/events", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleEvents)))
	mux.Handle("/api/v1/events/", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleEvents)))

	// Contribution routes
	mux.Handle("/api/v1/contributions", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleContributions)))
	mux.Handle("/api/v1/contributions/", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleContributions)))

	// Announcement routes
	mux.Handle("/api/v1/announcements", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleAnnouncements)))
	mux.Handle("/api/v1/announcements/", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleAnnouncements)))

	// Statistics routes
	mux.Handle("/api/v1/stats/", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleStats)))
}

// decodeJSONBody decodes a JSON request body into dst
func decodeJSONBody(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apierrors.ValidationError("INVALID_JSON", "Request body is not valid JSON")
	}
	return nil
}
