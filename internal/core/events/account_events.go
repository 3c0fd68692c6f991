package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeUserCreated         = "user.created"
	EventTypeUserDeleted         = "user.deleted"
	EventTypeUserPasswordReset   = "user.password_reset"
	EventTypeUserRolesUpdated    = "user.roles_updated"
	EventTypeUsersImported       = "users.imported"
	EventTypeDesignationCreated  = "designation.created"
	EventTypeDesignationDeleted  = "designation.deleted"
	EventTypeModuleAccessUpdated = "module_access.updated"
)

// AuditedEventTypes lists every account event the audit subscriber records.
var AuditedEventTypes = []string{
	EventTypeUserCreated,
	EventTypeUserDeleted,
	EventTypeUserPasswordReset,
	EventTypeUserRolesUpdated,
	EventTypeUsersImported,
	EventTypeDesignationCreated,
	EventTypeDesignationDeleted,
	EventTypeModuleAccessUpdated,
}

func newBaseEvent(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
}

func NewUserCreatedEvent(userID int64, username string) BaseEvent {
	return newBaseEvent(EventTypeUserCreated, map[string]interface{}{
		"user_id":  userID,
		"username": username,
	})
}

func NewUserDeletedEvent(userID int64, username string) BaseEvent {
	return newBaseEvent(EventTypeUserDeleted, map[string]interface{}{
		"user_id":  userID,
		"username": username,
	})
}

func NewPasswordResetEvent(userID int64, username string) BaseEvent {
	return newBaseEvent(EventTypeUserPasswordReset, map[string]interface{}{
		"user_id":  userID,
		"username": username,
	})
}

func NewUserRolesUpdatedEvent(userID int64, added, removed []string) BaseEvent {
	return newBaseEvent(EventTypeUserRolesUpdated, map[string]interface{}{
		"user_id": userID,
		"added":   added,
		"removed": removed,
	})
}

func NewUsersImportedEvent(created, failed int, mode string) BaseEvent {
	return newBaseEvent(EventTypeUsersImported, map[string]interface{}{
		"created": created,
		"failed":  failed,
		"mode":    mode,
	})
}

func NewDesignationCreatedEvent(name string) BaseEvent {
	return newBaseEvent(EventTypeDesignationCreated, map[string]interface{}{
		"designation": name,
	})
}

func NewDesignationDeletedEvent(name string, assignmentsRemoved int64) BaseEvent {
	return newBaseEvent(EventTypeDesignationDeleted, map[string]interface{}{
		"designation":         name,
		"assignments_removed": assignmentsRemoved,
	})
}

func NewModuleAccessUpdatedEvent(designation string, changed map[string]bool) BaseEvent {
	return newBaseEvent(EventTypeModuleAccessUpdated, map[string]interface{}{
		"designation": designation,
		"changed":     changed,
	})
}

// RegisterAuditLog subscribes a handler that writes every account event to the audit log.
func RegisterAuditLog(bus *EventBus, logger *slog.Logger) {
	audit := logger.With("component", "audit")
	for _, eventType := range AuditedEventTypes {
		bus.Subscribe(eventType, func(ctx context.Context, event Event) error {
			audit.InfoContext(ctx, "account event",
				"event_id", event.EventID(),
				"event_type", event.EventType(),
				"occurred_at", event.OccurredAt(),
				"payload", event.Payload())
			return nil
		})
	}
}
