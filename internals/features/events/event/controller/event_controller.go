package controller

import (
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"iteamhub_backend/internals/features/events/event/dto"
	"iteamhub_backend/internals/features/events/event/model"
	"iteamhub_backend/internals/features/events/event/service"
	helper "iteamhub_backend/internals/helpers"
)

type EventController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewEventController(db *gorm.DB) *EventController {
	return &EventController{DB: db, Validate: validator.New()}
}

/* ===================== Reads (any member) ===================== */

// GET /api/u/events (?upcoming=true limits to future dates)
func (ec *EventController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)
	now := time.Now().UTC()

	q := ec.DB.Model(&model.EventModel{})
	if c.Query("upcoming") == "true" {
		q = q.Where("event_date >= ?", now)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count events")
	}

	var rows []model.EventModel
	if err := q.Order("event_date ASC").
		Offset(p.Offset).Limit(p.Limit).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load events")
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for i := range rows {
		ids = append(ids, rows[i].ID)
	}
	counts, err := service.RegistrationCounts(ec.DB, ids)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count registrations")
	}

	out := make([]dto.EventResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.FromEventModel(&rows[i], now, counts[rows[i].ID]))
	}
	return helper.JsonList(c, "OK", out, helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// GET /api/u/events/:id
func (ec *EventController) Detail(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var ev model.EventModel
	if err := ec.DB.First(&ev, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Event not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load event")
	}
	registered, err := service.RegistrationCount(ec.DB, id)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count registrations")
	}
	return helper.JsonOK(c, "OK", dto.FromEventModel(&ev, time.Now().UTC(), registered))
}

// GET /api/u/events/mine lists the events the caller registered for.
func (ec *EventController) ListMine(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	p := helper.ResolvePaging(c, 20, 100)
	now := time.Now().UTC()

	base := ec.DB.Model(&model.EventModel{}).
		Joins("JOIN event_registrations ON event_registrations.event_id = events.id").
		Where("event_registrations.user_id = ?", userID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count events")
	}

	var rows []model.EventModel
	if err := base.Order("events.event_date ASC").
		Offset(p.Offset).Limit(p.Limit).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load events")
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for i := range rows {
		ids = append(ids, rows[i].ID)
	}
	counts, err := service.RegistrationCounts(ec.DB, ids)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count registrations")
	}

	out := make([]dto.EventResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.FromEventModel(&rows[i], now, counts[rows[i].ID]))
	}
	return helper.JsonList(c, "OK", out, helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

/* ===================== Registration ===================== */

// POST /api/u/events/:id/register
func (ec *EventController) Register(c *fiber.Ctx) error {
	eventID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	reg, err := service.Register(ec.DB, eventID, userID)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "Event not found")
		case errors.Is(err, service.ErrMembershipRequired):
			return helper.JsonError(c, fiber.StatusForbidden, "An active membership is required to register")
		case errors.Is(err, service.ErrEventNotOpen):
			return helper.JsonError(c, fiber.StatusConflict, "Event is not open for registration")
		case helper.IsUniqueViolation(err, "idx_event_user"):
			return helper.JsonError(c, fiber.StatusConflict, "Already registered for this event")
		default:
			log.Printf("[EVENT] register %s/%s failed: %v", eventID, userID, err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to register")
		}
	}
	return helper.JsonCreated(c, "Registered", dto.FromRegistrationModel(reg))
}

// DELETE /api/u/events/:id/register
func (ec *EventController) Unregister(c *fiber.Ctx) error {
	eventID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	if err := service.Unregister(ec.DB, eventID, userID); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "Event not found")
		case errors.Is(err, service.ErrNotRegistered):
			return helper.JsonError(c, fiber.StatusNotFound, "Not registered for this event")
		case errors.Is(err, service.ErrEventAlreadyStarted):
			return helper.JsonError(c, fiber.StatusConflict, "Event has already started")
		default:
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to unregister")
		}
	}
	return helper.JsonDeleted(c, "Registration cancelled", nil)
}

/* ===================== Admin endpoints ===================== */

// POST /api/a/events
func (ec *EventController) Create(c *fiber.Ctx) error {
	adminID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.CreateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ec.Validate.Struct(req); err != nil {
		return helper.HandleValidationError(c, err)
	}

	ev, err := req.ToModel(adminID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid date, use RFC3339 or YYYY-MM-DD")
	}
	if err := ec.DB.Create(ev).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create event")
	}
	return helper.JsonCreated(c, "Event created", dto.FromEventModel(ev, time.Now().UTC(), 0))
}

// PUT /api/a/events/:id
func (ec *EventController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ec.Validate.Struct(req); err != nil {
		return helper.HandleValidationError(c, err)
	}

	var ev model.EventModel
	if err := ec.DB.First(&ev, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Event not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load event")
	}

	updates := map[string]any{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.EventDate != nil {
		d, err := dto.ParseEventTimestamp(*req.EventDate)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid event_date")
		}
		updates["event_date"] = d
	}
	if req.EventTime != nil {
		updates["event_time"] = *req.EventTime
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.LocationType != nil {
		updates["location_type"] = *req.LocationType
	}
	if req.MaxParticipants != nil {
		updates["max_participants"] = *req.MaxParticipants
	}
	if req.RegistrationDeadline != nil {
		if *req.RegistrationDeadline == "" {
			updates["registration_deadline"] = nil
		} else {
			d, err := dto.ParseEventTimestamp(*req.RegistrationDeadline)
			if err != nil {
				return helper.JsonError(c, fiber.StatusBadRequest, "Invalid registration_deadline")
			}
			updates["registration_deadline"] = d
		}
	}
	if len(updates) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Nothing to update")
	}

	if err := ec.DB.Model(&ev).Updates(updates).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update event")
	}
	registered, _ := service.RegistrationCount(ec.DB, id)
	return helper.JsonUpdated(c, "Event updated", dto.FromEventModel(&ev, time.Now().UTC(), registered))
}

// DELETE /api/a/events/:id removes the event and its registrations.
func (ec *EventController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	err = ec.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&model.EventRegistrationModel{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.EventModel{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Event not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete event")
	}
	return helper.JsonDeleted(c, "Event deleted", nil)
}

// POST /api/a/events/:id/poster (multipart: poster)
func (ec *EventController) UploadPoster(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var ev model.EventModel
	if err := ec.DB.First(&ev, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Event not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load event")
	}

	fh, err := c.FormFile("poster")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Poster file is required")
	}
	url, err := helper.UploadEventPoster(id, fh)
	if err != nil {
		log.Printf("[EVENT] poster upload for %s failed: %v", id, err)
		return helper.JsonError(c, fiber.StatusBadGateway, "Failed to store poster")
	}

	if err := ec.DB.Model(&ev).Update("poster_url", url).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to save poster URL")
	}
	return helper.JsonUpdated(c, "Poster uploaded", fiber.Map{"poster_url": url})
}

// GET /api/a/events/:id/registrants is the attendance sheet.
func (ec *EventController) Registrants(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	p := helper.ResolvePaging(c, 50, 200)

	q := ec.DB.Table("event_registrations").
		Select(`event_registrations.id, event_registrations.event_id, event_registrations.user_id,
			event_registrations.registered_at, event_registrations.attended, event_registrations.attended_at,
			profiles.first_name, profiles.last_name, memberships.eid`).
		Joins("JOIN profiles ON profiles.id = event_registrations.user_id").
		Joins(`LEFT JOIN memberships ON memberships.user_id = event_registrations.user_id
			AND memberships.status = 'active'`).
		Where("event_registrations.event_id = ?", id)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count registrants")
	}

	var rows []dto.RegistrantResponse
	if err := q.Order("event_registrations.registered_at ASC").
		Offset(p.Offset).Limit(p.Limit).
		Scan(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load registrants")
	}
	return helper.JsonList(c, "OK", rows, helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// PUT /api/a/events/:id/attendance
func (ec *EventController) MarkAttendance(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.AttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ec.Validate.Struct(req); err != nil {
		return helper.HandleValidationError(c, err)
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid user_id")
	}

	if err := service.MarkAttendance(ec.DB, id, userID, req.Attended); err != nil {
		if errors.Is(err, service.ErrNotRegistered) {
			return helper.JsonError(c, fiber.StatusNotFound, "Registration not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update attendance")
	}
	return helper.JsonUpdated(c, "Attendance updated", nil)
}
