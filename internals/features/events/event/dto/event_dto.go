package dto

import (
	"time"

	"github.com/google/uuid"

	"iteamhub_backend/internals/features/events/event/model"
)

/* ===================== Requests ===================== */

type CreateEventRequest struct {
	Title                string  `json:"title" validate:"required,max=200"`
	Description          *string `json:"description" validate:"omitempty,max=5000"`
	EventDate            string  `json:"event_date" validate:"required"` // RFC3339
	EventTime            *string `json:"event_time" validate:"omitempty,max=20"`
	Location             string  `json:"location" validate:"required,max=200"`
	LocationType         *string `json:"location_type" validate:"omitempty,oneof=physical online hybrid"`
	MaxParticipants      *int    `json:"max_participants" validate:"omitempty,gt=0"`
	RegistrationDeadline *string `json:"registration_deadline" validate:"omitempty"` // RFC3339
}

type UpdateEventRequest struct {
	Title                *string `json:"title" validate:"omitempty,max=200"`
	Description          *string `json:"description" validate:"omitempty,max=5000"`
	EventDate            *string `json:"event_date" validate:"omitempty"`
	EventTime            *string `json:"event_time" validate:"omitempty,max=20"`
	Location             *string `json:"location" validate:"omitempty,max=200"`
	LocationType         *string `json:"location_type" validate:"omitempty,oneof=physical online hybrid"`
	MaxParticipants      *int    `json:"max_participants" validate:"omitempty,gt=0"`
	RegistrationDeadline *string `json:"registration_deadline" validate:"omitempty"`
}

type AttendanceRequest struct {
	UserID   string `json:"user_id" validate:"required,uuid4"`
	Attended bool   `json:"attended"`
}

func ParseEventTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func (r *CreateEventRequest) ToModel(createdBy uuid.UUID) (*model.EventModel, error) {
	date, err := ParseEventTimestamp(r.EventDate)
	if err != nil {
		return nil, err
	}
	m := &model.EventModel{
		Title:           r.Title,
		Description:     r.Description,
		EventDate:       date,
		EventTime:       r.EventTime,
		Location:        r.Location,
		LocationType:    r.LocationType,
		MaxParticipants: r.MaxParticipants,
		CreatedBy:       createdBy,
	}
	if r.RegistrationDeadline != nil && *r.RegistrationDeadline != "" {
		d, err := ParseEventTimestamp(*r.RegistrationDeadline)
		if err != nil {
			return nil, err
		}
		m.RegistrationDeadline = &d
	}
	return m, nil
}

/* ===================== Responses ===================== */

type EventResponse struct {
	ID                   uuid.UUID  `json:"id"`
	Title                string     `json:"title"`
	Description          *string    `json:"description,omitempty"`
	EventDate            time.Time  `json:"event_date"`
	EventTime            *string    `json:"event_time,omitempty"`
	Location             string     `json:"location"`
	LocationType         *string    `json:"location_type,omitempty"`
	MaxParticipants      *int       `json:"max_participants,omitempty"`
	RegistrationDeadline *time.Time `json:"registration_deadline,omitempty"`
	PosterURL            *string    `json:"poster_url,omitempty"`
	Status               string     `json:"status"`
	RegisteredCount      int        `json:"registered_count"`
	CreatedBy            uuid.UUID  `json:"created_by"`
	CreatedAt            time.Time  `json:"created_at"`
}

type RegistrationResponse struct {
	ID           uuid.UUID  `json:"id"`
	EventID      uuid.UUID  `json:"event_id"`
	UserID       uuid.UUID  `json:"user_id"`
	RegisteredAt time.Time  `json:"registered_at"`
	Attended     bool       `json:"attended"`
	AttendedAt   *time.Time `json:"attended_at,omitempty"`
}

// RegistrantResponse: admin attendance sheet row.
type RegistrantResponse struct {
	RegistrationResponse
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	EID       *string `json:"eid,omitempty"`
}

func FromEventModel(e *model.EventModel, now time.Time, registered int) EventResponse {
	return EventResponse{
		ID:                   e.ID,
		Title:                e.Title,
		Description:          e.Description,
		EventDate:            e.EventDate,
		EventTime:            e.EventTime,
		Location:             e.Location,
		LocationType:         e.LocationType,
		MaxParticipants:      e.MaxParticipants,
		RegistrationDeadline: e.RegistrationDeadline,
		PosterURL:            e.PosterURL,
		Status:               e.Status(now, registered),
		RegisteredCount:      registered,
		CreatedBy:            e.CreatedBy,
		CreatedAt:            e.CreatedAt,
	}
}

func FromRegistrationModel(r *model.EventRegistrationModel) RegistrationResponse {
	return RegistrationResponse{
		ID:           r.ID,
		EventID:      r.EventID,
		UserID:       r.UserID,
		RegisteredAt: r.RegisteredAt,
		Attended:     r.Attended,
		AttendedAt:   r.AttendedAt,
	}
}
