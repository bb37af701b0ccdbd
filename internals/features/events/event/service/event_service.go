package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"iteamhub_backend/internals/features/events/event/model"
	helper "iteamhub_backend/internals/helpers"
	membershipService "iteamhub_backend/internals/features/memberships/membership/service"
	notifModel "iteamhub_backend/internals/features/notifications/notification/model"
	notifService "iteamhub_backend/internals/features/notifications/notification/service"
)

var (
	ErrMembershipRequired  = errors.New("an active membership is required to register")
	ErrEventNotOpen        = errors.New("event is not open for registration")
	ErrAlreadyRegistered   = errors.New("already registered for this event")
	ErrNotRegistered       = errors.New("not registered for this event")
	ErrEventAlreadyStarted = errors.New("event has already started")
)

// RegistrationCount returns the live headcount for one event.
func RegistrationCount(db *gorm.DB, eventID uuid.UUID) (int, error) {
	var n int64
	err := db.Model(&model.EventRegistrationModel{}).
		Where("event_id = ?", eventID).
		Count(&n).Error
	return int(n), err
}

// RegistrationCounts returns headcounts for a page of events in one query.
func RegistrationCounts(db *gorm.DB, eventIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	counts := make(map[uuid.UUID]int, len(eventIDs))
	if len(eventIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		EventID uuid.UUID
		N       int
	}
	err := db.Model(&model.EventRegistrationModel{}).
		Select("event_id, COUNT(*) AS n").
		Where("event_id IN ?", eventIDs).
		Group("event_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		counts[r.EventID] = r.N
	}
	return counts, nil
}

// Register signs a member up for an event. Gate order: active membership,
// then derived status must be open (checked under a lock on the event row
// so two racing registrations cannot both pass a nearly-full capacity).
func Register(db *gorm.DB, eventID, userID uuid.UUID) (*model.EventRegistrationModel, error) {
	active, err := membershipService.HasActiveMembership(db, userID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, ErrMembershipRequired
	}

	var reg model.EventRegistrationModel
	err = db.Transaction(func(tx *gorm.DB) error {
		var ev model.EventModel
		if err := helper.LockForUpdate(tx).
			Take(&ev, "id = ?", eventID).Error; err != nil {
			return err
		}

		registered, err := lockedCount(tx, eventID)
		if err != nil {
			return err
		}
		if ev.Status(time.Now().UTC(), registered) != model.EventStatusOpen {
			return ErrEventNotOpen
		}

		reg = model.EventRegistrationModel{EventID: eventID, UserID: userID}
		if err := tx.Create(&reg).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	notifService.Notify(db, &userID, notifModel.NotificationTypeEvent,
		"Event registration confirmed",
		"You are registered for the event.",
		map[string]any{"event_id": eventID})
	return &reg, nil
}

func lockedCount(tx *gorm.DB, eventID uuid.UUID) (int, error) {
	var n int64
	err := tx.Model(&model.EventRegistrationModel{}).
		Where("event_id = ?", eventID).
		Count(&n).Error
	return int(n), err
}

// Unregister removes a registration before the event starts.
func Unregister(db *gorm.DB, eventID, userID uuid.UUID) error {
	var ev model.EventModel
	if err := db.Take(&ev, "id = ?", eventID).Error; err != nil {
		return err
	}
	if ev.EventDate.Before(time.Now().UTC()) {
		return ErrEventAlreadyStarted
	}

	res := db.Where("event_id = ? AND user_id = ?", eventID, userID).
		Delete(&model.EventRegistrationModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotRegistered
	}
	return nil
}

// MarkAttendance toggles the attended flag for a registration.
func MarkAttendance(db *gorm.DB, eventID, userID uuid.UUID, attended bool) error {
	updates := map[string]any{"attended": attended}
	if attended {
		now := time.Now().UTC()
		updates["attended_at"] = &now
	} else {
		updates["attended_at"] = nil
	}

	res := db.Model(&model.EventRegistrationModel{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotRegistered
	}
	return nil
}
