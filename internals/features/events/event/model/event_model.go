package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* ===================== Derived status ===================== */

// Event status is computed, never stored. Order of checks matters:
// completion wins over a passed deadline, which wins over capacity.
const (
	EventStatusCompleted          = "completed"
	EventStatusRegistrationClosed = "registration closed"
	EventStatusFull               = "full"
	EventStatusOpen               = "open"
)

// DeriveEventStatus applies the dashboard rule: completed if the event date
// has passed; else closed if the registration deadline (defaulting to the
// event date) has passed; else full when capacity is set and reached.
func DeriveEventStatus(now, eventDate time.Time, deadline *time.Time, maxParticipants *int, registered int) string {
	if eventDate.Before(now) {
		return EventStatusCompleted
	}
	d := eventDate
	if deadline != nil {
		d = *deadline
	}
	if d.Before(now) {
		return EventStatusRegistrationClosed
	}
	if maxParticipants != nil && registered >= *maxParticipants {
		return EventStatusFull
	}
	return EventStatusOpen
}

/* ===================== Models ===================== */

type EventModel struct {
	ID                   uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title                string     `gorm:"size:200;not null" json:"title"`
	Description          *string    `gorm:"type:text" json:"description,omitempty"`
	EventDate            time.Time  `gorm:"not null;index" json:"event_date"`
	EventTime            *string    `gorm:"size:20" json:"event_time,omitempty"`
	Location             string     `gorm:"size:200;not null" json:"location"`
	LocationType         *string    `gorm:"size:30" json:"location_type,omitempty"` // physical / online / hybrid
	MaxParticipants      *int       `json:"max_participants,omitempty"`
	RegistrationDeadline *time.Time `json:"registration_deadline,omitempty"`
	PosterURL            *string    `gorm:"type:text" json:"poster_url,omitempty"`
	CreatedBy            uuid.UUID  `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt            time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (EventModel) TableName() string {
	return "events"
}

func (e *EventModel) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// Status derives the current status given the live registration count.
func (e *EventModel) Status(now time.Time, registered int) string {
	return DeriveEventStatus(now, e.EventDate, e.RegistrationDeadline, e.MaxParticipants, registered)
}

// EventRegistrationModel links a user to an event. The (event_id, user_id)
// pair is unique; re-registering is surfaced as a conflict.
type EventRegistrationModel struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EventID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_event_user" json:"event_id"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_event_user" json:"user_id"`
	RegisteredAt time.Time  `gorm:"not null;autoCreateTime" json:"registered_at"`
	Attended     bool       `gorm:"not null;default:false" json:"attended"`
	AttendedAt   *time.Time `json:"attended_at,omitempty"`
}

func (EventRegistrationModel) TableName() string {
	return "event_registrations"
}

func (r *EventRegistrationModel) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
