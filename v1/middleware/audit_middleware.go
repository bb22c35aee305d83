package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/churchops/church-backend/pkg/telemetry"
	"github.com/churchops/church-backend/v1/models"
)

// AuditRecorder persists audit events. Implemented by the audit service;
// declared here so the middleware package does not depend on services.
type AuditRecorder interface {
	Record(ctx context.Context, event *models.AuditEvent) error
	IsEnabled() bool
}

var globalAuditRecorder AuditRecorder

// SetGlobalAuditRecorder wires the audit recorder used by LogAuditEvent.
// Called once during startup.
func SetGlobalAuditRecorder(recorder AuditRecorder) {
	globalAuditRecorder = recorder
}

// LogAudit records an audit event for a write operation. Reads are never
// audited. Failures are logged and swallowed so auditing can not break the
// request path.
func LogAudit(recorder AuditRecorder, r *http.Request, resource models.ResourceType, resourceID *string, status models.AuditStatus) {
	if recorder == nil || !recorder.IsEnabled() {
		return
	}

	if !isWriteOperation(r.Method) {
		return
	}

	eventType := determineEventType(r.Method)
	if eventType == "" {
		return
	}

	event := &models.AuditEvent{
		EventType: eventType,
		Resource:  resource,
		Status:    status,
	}
	if resourceID != nil {
		event.ResourceID = *resourceID
	}

	if user, err := GetUserFromRequest(r); err == nil && user != nil {
		event.ActorID = user.UserID
		event.ActorRole = user.GetPrimaryRole().String()
	} else {
		// Login and registration run before authentication
		event.ActorID = "anonymous"
	}

	telemetry.RecordBusinessEvent(r.Context(), event.EventType+":"+string(event.Resource), status == models.AuditStatusSuccess)

	// Fire-and-forget with a background context: the request context may be
	// cancelled before the row is written
	go func() {
		if err := recorder.Record(context.Background(), event); err != nil {
			slog.Error("Failed to record audit event",
				"event_type", event.EventType,
				"resource", event.Resource,
				"error", err)
		}
	}()
}

// LogAuditEvent records an audit event through the globally wired recorder
func LogAuditEvent(r *http.Request, resource models.ResourceType, resourceID *string, status models.AuditStatus) {
	if globalAuditRecorder == nil {
		slog.Warn("Audit logging skipped: recorder is not initialized")
		return
	}
	LogAudit(globalAuditRecorder, r, resource, resourceID, status)
}

func isWriteOperation(method string) bool {
	return method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch || method == http.MethodDelete
}

func determineEventType(method string) string {
	switch method {
	case http.MethodPost:
		return "CREATE"
	case http.MethodPut, http.MethodPatch:
		return "UPDATE"
	case http.MethodDelete:
		return "DELETE"
	default:
		return ""
	}
}
