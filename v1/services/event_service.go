package services

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apierrors "github.com/churchops/church-backend/pkg/errors"
	"github.com/churchops/church-backend/v1/models"
	"github.com/churchops/church-backend/v1/utils"
)

// EventService handles events, registrations, and attendance
type EventService struct {
	db *gorm.DB
}

// NewEventService creates a new event service
func NewEventService(db *gorm.DB) *EventService {
	return &EventService{db: db}
}

// EventSortableColumns maps API sort keys onto database columns
var EventSortableColumns = map[string]string{
	"title":     "title",
	"startsAt":  "starts_at",
	"createdAt": "created_at",
}

// CreateEvent creates a new event in the scheduled state
func (s *EventService) CreateEvent(req *models.CreateEventRequest) (*models.Event, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apierrors.ValidationError("MISSING_TITLE", "title is required")
	}
	if req.OrganizerID == "" {
		return nil, apierrors.ValidationError("MISSING_ORGANIZER", "organizerId is required")
	}
	if req.StartsAt.IsZero() || req.EndsAt.IsZero() {
		return nil, apierrors.ValidationError("MISSING_SCHEDULE", "startsAt and endsAt are required")
	}
	if !req.EndsAt.After(req.StartsAt) {
		return nil, apierrors.ValidationError("INVALID_SCHEDULE", "endsAt must be after startsAt")
	}

	if err := s.ensureMemberExists(req.OrganizerID); err != nil {
		return nil, err
	}
	if req.MinistryID != nil {
		var ministry models.Ministry
		if err := s.db.First(&ministry, "ministry_id = ?", *req.MinistryID).Error; err != nil {
			return nil, apierrors.HandleDatabaseError(err, "Ministry")
		}
	}

	event := models.Event{
		EventID:     "evt_" + uuid.New().String(),
		Title:       title,
		Description: req.Description,
		MinistryID:  req.MinistryID,
		OrganizerID: req.OrganizerID,
		Location:    req.Location,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Status:      models.EventStatusScheduled,
	}

	if err := s.db.Create(&event).Error; err != nil {
		return nil, apierrors.HandleDatabaseError(err, "Event")
	}

	slog.Info("Created event", "event_id", event.EventID, "starts_at", event.StartsAt)
	return &event, nil
}

// GetEvent retrieves an event by ID
func (s *EventService) GetEvent(eventID string) (*models.Event, error) {
	var event models.Event
	if err := s.db.First(&event, "event_id = ?", eventID).Error; err != nil {
		return nil, apierrors.HandleDatabaseError(err, "Event")
	}
	return &event, nil
}

// ListEvents retrieves a page of events matching the filter
func (s *EventService) ListEvents(filter *models.EventFilter, page utils.PageRequest) (*models.ListResponse, error) {
	query := s.db.Model(&models.Event{})

	if filter != nil {
		if filter.MinistryID != nil {
			query = query.Where("ministry_id = ?", *filter.MinistryID)
		}
		if filter.Status != nil {
			query = query.Where("status = ?", *filter.Status)
		}
		if filter.From != nil {
			query = query.Where("starts_at >= ?", *filter.From)
		}
		if filter.To != nil {
			query = query.Where("starts_at <= ?", *filter.To)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apierrors.DatabaseError("count events", err)
	}

	var events []models.Event
	if err := query.Order(page.OrderClause()).Offset(page.Offset()).Limit(page.Limit).Find(&events).Error; err != nil {
		return nil, apierrors.DatabaseError("list events", err)
	}

	return models.NewListResponse(events, page.Page, page.Limit, total), nil
}

// UpdateEvent applies a partial update to an event
func (s *EventService) UpdateEvent(eventID string, req *models.UpdateEventRequest) (*models.Event, error) {
	var event models.Event
	if err := s.db.First(&event, "event_id = ?", eventID).Error; err != nil {
		return nil, apierrors.HandleDatabaseError(err, "Event")
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, apierrors.ValidationError("MISSING_TITLE", "title must not be empty")
		}
		event.Title = title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.MinistryID != nil {
		if *req.MinistryID == "" {
			event.MinistryID = nil
		} else {
			var ministry models.Ministry
			if err := s.db.First(&ministry, "ministry_id = ?", *req.MinistryID).Error; err != nil {
				return nil, apierrors.HandleDatabaseError(err, "Ministry")
			}
			event.MinistryID = req.MinistryID
		}
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.StartsAt != nil {
		event.StartsAt = *req.StartsAt
	}
	if req.EndsAt != nil {
		event.EndsAt = *req.EndsAt
	}
	if !event.EndsAt.After(event.StartsAt) {
		return nil, apierrors.ValidationError("INVALID_SCHEDULE", "endsAt must be after startsAt")
	}
	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, apierrors.ValidationError("INVALID_STATUS", "status must be scheduled, completed, or cancelled")
		}
		event.Status = *req.Status
	}

	if err := s.db.Save(&event).Error; err != nil {
		return nil, apierrors.HandleDatabaseError(err, "Event")
	}

	slog.Info("Updated event", "event_id", event.EventID, "status", event.Status)
	return &event, nil
}

// DeleteEvent removes an event. Events with registrations or recorded
// attendance are cancelled instead of deleted so those records survive.
func (s *EventService) DeleteEvent(eventID string) (*models.DeleteResult, error) {
	var event models.Event
	if err := s.db.First(&event, "event_id = ?", eventID).Error; err != nil {
		return nil, apierrors.HandleDatabaseError(err, "Event")
	}

	var registrationCount int64
	if err := s.db.Model(&models.EventRegistration{}).Where("event_id = ?", eventID).Count(&registrationCount).Error; err != nil {
		return nil, apierrors.DatabaseError("count event registrations", err)
	}

	var attendanceCount int64
	if err := s.db.Model(&models.EventAttendance{}).Where("event_id = ?", eventID).Count(&attendanceCount).Error; err != nil {
		return nil, apierrors.DatabaseError("count event attendance", err)
	}

	if registrationCount > 0 || attendanceCount > 0 {
		event.Status = models.EventStatusCancelled
		if err := s.db.Save(&event).Error; err != nil {
			return nil, apierrors.HandleDatabaseError(err, "Event")
		}

		slog.Info("Cancelled event with registrations",
			"event_id", eventID,
			"registrations", registrationCount,
			"attendance", attendanceCount)
		return &models.DeleteResult{
			ID:          eventID,
			HardDeleted: false,
			Message:     "Event cancelled; registrations and attendance retained",
		}, nil
	}

	if err := s.db.Delete(&models.Event{}, "event_id = ?", eventID).Error; err != nil {
		return nil, apierrors.DatabaseError("delete event", err)
	}

	slog.Info("Deleted event", "event_id", eventID)
	return &models.DeleteResult{
		ID:          eventID,
		HardDeleted: true,
		Message:     "Event permanently deleted",
	}, nil
}

// RegisterMember registers a member for a scheduled event
func (s *EventService) RegisterMember(eventID string, req *models.RegisterForEventRequest) (*models.EventRegistration, error) {
	if req.MemberID == "" {
		return nil, apierrors.ValidationError("MISSING_MEMBER_ID", "memberId is required")
	}

	event, err := s.GetEvent(eventID)
	if err != nil {
		return nil, err
	}
	if event.Status != models.EventStatusScheduled {
		return nil, apierrors.ValidationError("EVENT_NOT_OPEN", "registration is only open for scheduled events")
	}

	if err := s.ensureMemberExists(req.MemberID); err != nil {
		return nil, err
	}

	var existing models.EventRegistration
	err = s.db.First(&existing, "event_id = ? AND member_id = ?", eventID, req.MemberID).Error
	if err == nil {
		return nil, apierrors.ConflictError("Member is already registered for this event")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierrors.DatabaseError("check event registration", err)
	}

	registration := models.EventRegistration{
		EventID:      eventID,
		MemberID:     req.MemberID,
		RegisteredAt: time.Now(),
	}

	if err := s.db.Create(&registration).Error; err != nil {
		return nil, apierrors.HandleDatabaseError(err, "Registration")
	}

	slog.Info("Registered member for event", "event_id", eventID, "member_id", req.MemberID)
	return &registration, nil
}

// CancelRegistration removes a member's registration for an event
func (s *EventService) CancelRegistration(eventID, memberID string) error {
	result := s.db.Where("event_id = ? AND member_id = ?", eventID, memberID).Delete(&models.EventRegistration{})
	if result.Error != nil {
		return apierrors.DatabaseError("cancel event registration", result.Error)
	}
	if result.RowsAffected == 0 {
		return apierrors.NotFoundError("Registration")
	}

	slog.Info("Cancelled event registration", "event_id", eventID, "member_id", memberID)
	return nil
}

// CheckInMember records a member's attendance at an event. Registration is
// not required, walk-ins are checked in the same way.
func (s *EventService) CheckInMember(eventID string, req *models.CheckInRequest) (*models.EventAttendance, error) {
	if req.MemberID == "" {
		return nil, apierrors.ValidationError("MISSING_MEMBER_ID", "memberId is required")
	}

	event, err := s.GetEvent(eventID)
	if err != nil {
		return nil, err
	}
	if event.Status == models.EventStatusCancelled {
		return nil, apierrors.ValidationError("EVENT_CANCELLED", "cannot check in to a cancelled event")
	}

	if err := s.ensureMemberExists(req.MemberID); err != nil {
		return nil, err
	}

	var existing models.EventAttendance
	err = s.db.First(&existing, "event_id = ? AND member_id = ?", eventID, req.MemberID).Error
	if err == nil {
		return nil, apierrors.ConflictError("Member is already checked in for this event")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierrors.DatabaseError("check event attendance", err)
	}

	attendance := models.EventAttendance{
		EventID:     eventID,
		MemberID:    req.MemberID,
		CheckedInAt: time.Now(),
	}

	if err := s.db.Create(&attendance).Error; err != nil {
		return nil, apierrors.HandleDatabaseError(err, "Attendance")
	}

	slog.Info("Checked in member for event", "event_id", eventID, "member_id", req.MemberID)
	return &attendance, nil
}

// ListRegistrations retrieves all registrations for an event
func (s *EventService) ListRegistrations(eventID string) ([]models.EventRegistration, error) {
	if _, err := s.GetEvent(eventID); err != nil {
		return nil, err
	}

	var registrations []models.EventRegistration
	if err := s.db.Where("event_id = ?", eventID).Order("registered_at asc").Find(&registrations).Error; err != nil {
		return nil, apierrors.DatabaseError("list event registrations", err)
	}
	return registrations, nil
}

// ListAttendance retrieves all recorded check-ins for an event
func (s *EventService) ListAttendance(eventID string) ([]models.EventAttendance, error) {
	if _, err := s.GetEvent(eventID); err != nil {
		return nil, err
	}

	var attendance []models.EventAttendance
	if err := s.db.Where("event_id = ?", eventID).Order("checked_in_at asc").Find(&attendance).Error; err != nil {
		return nil, apierrors.DatabaseError("list event attendance", err)
	}
	return attendance, nil
}

// ensureMemberExists verifies the referenced member exists
func (s *EventService) ensureMemberExists(memberID string) error {
	var member models.Member
	if err := s.db.First(&member, "member_id = ?", memberID).Error; err != nil {
		return apierrors.HandleDatabaseError(err, "Member")
	}
	return nil
}
